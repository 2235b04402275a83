// Package session derives the per-invocation identifier that namespaces
// every generated artifact, local directory, and remote directory.
package session

import (
	"fmt"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Context identifies one orchestrator invocation. The random suffix makes
// the id unique even when the same user starts two runs within the same
// second.
type Context struct {
	ID         string
	LocalRoot  string
	RemoteRoot string

	// ConfigName is the filename of the materialized cluster config,
	// placed under both result roots.
	ConfigName string
}

// New builds a session context rooted under the given local and remote
// results roots.
func New(localRoot, remoteRoot string) *Context {
	id := fmt.Sprintf("%s-%s-%s", userName(), time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	return &Context{
		ID:         id,
		LocalRoot:  filepath.Join(localRoot, id),
		RemoteRoot: path.Join(remoteRoot, id),
		ConfigName: fmt.Sprintf("io500-%s.sh", id),
	}
}

// IterationDirName returns the zero-based per-iteration directory name.
func IterationDirName(index int) string {
	return fmt.Sprintf("iteration%d", index)
}

// LocalIterationDir returns the local directory holding iteration index's
// collected results.
func (c *Context) LocalIterationDir(index int) string {
	return filepath.Join(c.LocalRoot, IterationDirName(index))
}

// LocalConfigPath is where the rendered cluster config is written before
// being shipped to the controller.
func (c *Context) LocalConfigPath() string {
	return filepath.Join(c.LocalRoot, c.ConfigName)
}

// RemoteConfigPath is the controller-side path of the shipped config.
func (c *Context) RemoteConfigPath() string {
	return path.Join(c.RemoteRoot, c.ConfigName)
}

func userName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
