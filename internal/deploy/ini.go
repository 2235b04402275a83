package deploy

import (
	"fmt"
	"io"
	"os"

	"io500-bench/internal/logging"

	"github.com/sirupsen/logrus"
)

// IniInjector hands the selected benchmark ini file to the external
// benchmark runner. Each runner version that learns a new way of accepting
// the file gets its own implementation.
type IniInjector interface {
	Inject(iniPath string) error
}

// overwriteInjector serves runner versions that hardcode one well-known
// ini filename: the selected file is copied over that name inside the
// local repository clone, and the follow-up mirror ships it.
type overwriteInjector struct {
	wellKnownPath string
}

func NewOverwriteInjector(wellKnownPath string) IniInjector {
	return &overwriteInjector{wellKnownPath: wellKnownPath}
}

func (o *overwriteInjector) Inject(iniPath string) error {
	logger := logging.GetLogger()

	if iniPath == o.wellKnownPath {
		logger.WithField("ini", iniPath).Debug("Selected ini already at the well-known name")
		return nil
	}

	src, err := os.Open(iniPath)
	if err != nil {
		return fmt.Errorf("failed to open ini file %s: %w", iniPath, err)
	}
	defer src.Close()

	dst, err := os.Create(o.wellKnownPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", o.wellKnownPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy ini over %s: %w", o.wellKnownPath, err)
	}

	logger.WithFields(logrus.Fields{
		"ini":        iniPath,
		"well_known": o.wellKnownPath,
	}).Info("Benchmark ini injected over well-known filename")

	return nil
}
