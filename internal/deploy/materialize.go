// Package deploy renders the cluster configuration from its template and
// places it where the external start procedure expects it.
package deploy

import (
	"context"
	"fmt"
	"os"
	"strings"

	"io500-bench/internal/logging"
	"io500-bench/internal/remote"
	"io500-bench/internal/session"

	"github.com/sirupsen/logrus"
)

// Placeholder tokens replaced by literal text substitution. There is no
// template language: values containing a token corrupt the output, an
// accepted limitation of the format.
const (
	TokenSessionID  = "%SESSION_ID%"
	TokenProperties = "%PROPERTIES%"
	TokenDuration   = "%DURATION%"
	TokenIniFile    = "%INI_FILE%"
)

// Values are the four substitutions a config template carries.
type Values struct {
	SessionID  string
	Properties string
	Duration   int
	IniFile    string
}

// Render substitutes all placeholder tokens. Any token left unresolved
// after substitution is an error: the template and the substitution set
// have drifted apart.
func Render(template string, v Values) (string, error) {
	out := template
	out = strings.ReplaceAll(out, TokenSessionID, v.SessionID)
	out = strings.ReplaceAll(out, TokenProperties, v.Properties)
	out = strings.ReplaceAll(out, TokenDuration, fmt.Sprintf("%d", v.Duration))
	out = strings.ReplaceAll(out, TokenIniFile, v.IniFile)

	for _, token := range []string{TokenSessionID, TokenProperties, TokenDuration, TokenIniFile} {
		if strings.Contains(out, token) {
			return "", fmt.Errorf("unresolved placeholder %s in rendered config", token)
		}
	}
	return out, nil
}

// Materializer renders the session config and ships it to the controller's
// session result directory.
type Materializer struct {
	client     *remote.Client
	controller string
}

func NewMaterializer(client *remote.Client, controller string) *Materializer {
	return &Materializer{client: client, controller: controller}
}

// RenderFile reads a template file and renders it.
func RenderFile(templatePath string, v Values) (string, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read config template: %w", err)
	}
	return Render(string(data), v)
}

// Materialize writes the rendered config under the local session root and
// pushes it to the controller's session directory, creating it first.
func (m *Materializer) Materialize(ctx context.Context, templatePath string, v Values, sess *session.Context) error {
	logger := logging.GetLogger()

	rendered, err := RenderFile(templatePath, v)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(sess.LocalRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create local session root: %w", err)
	}
	if err := os.WriteFile(sess.LocalConfigPath(), []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write rendered config: %w", err)
	}

	if err := m.client.Command(ctx, m.controller, "mkdir -p "+sess.RemoteRoot); err != nil {
		return fmt.Errorf("failed to create remote session root: %w", err)
	}
	if err := m.client.Push(ctx, sess.LocalConfigPath(), m.controller, sess.RemoteConfigPath()); err != nil {
		return fmt.Errorf("failed to ship config to controller: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"session":     sess.ID,
		"remote_path": sess.RemoteConfigPath(),
	}).Info("Cluster config materialized and shipped")

	return nil
}
