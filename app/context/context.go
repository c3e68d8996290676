package context

import (
	"context"
	"io"
	"log/slog"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/weave/app/config"
	aerrors "go.hackfix.me/weave/app/errors"
	"go.hackfix.me/weave/crypto"
	"go.hackfix.me/weave/xtime"
)

// Context contains common objects used by the application. It is passed around
// the application to avoid direct dependencies on external systems, and make
// testing easier.
type Context struct {
	Ctx        context.Context // global context
	FS         vfs.FileSystem  // filesystem
	Env        Environment     // process environment
	Logger     *slog.Logger    // global logger
	TimeSource xtime.Source
	Config     *config.Config

	// Standard streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Metadata
	Version *VersionInfo
}

// Secret returns the decoded application secret.
func (c *Context) Secret() ([]byte, error) {
	if c.Config == nil || !c.Config.Security.Secret.Valid {
		return nil, aerrors.NewWith("the application secret is not set",
			"hint", "run 'weave init' first")
	}

	secret, err := crypto.DecodeSecret(c.Config.Security.Secret.V)
	if err != nil {
		return nil, aerrors.NewWithCause("invalid application secret", err,
			"config_file", c.Config.Path())
	}

	return secret, nil
}
