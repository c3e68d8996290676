package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"go.hackfix.me/weave/app"
	actx "go.hackfix.me/weave/app/context"
	aerrors "go.hackfix.me/weave/app/errors"
	"go.hackfix.me/weave/xtime"
)

func main() {
	// Values from a .env file in the working directory are exposed as
	// environment variables, e.g. WEAVE_CONFIG_FILE. Existing variables take
	// precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		aerrors.Log(slog.Default(), aerrors.NewWithCause("failed loading .env file", err))
		os.Exit(1)
	}

	a, err := app.New("weave", filepath.Join(xdg.ConfigHome, "weave", "config.json"),
		app.WithTimeSource(xtime.System{}),
		app.WithEnv(osEnv{}),
		app.WithFDs(
			os.Stdin,
			colorable.NewColorable(os.Stdout),
			colorable.NewColorable(os.Stderr),
		),
		app.WithFS(osfs.New()),
		app.WithLogger(isatty.IsTerminal(os.Stderr.Fd())),
	)
	if err != nil {
		aerrors.Log(slog.Default(), err)
		os.Exit(1)
	}
	if err = a.Run(os.Args[1:]); err != nil {
		aerrors.Log(slog.Default(), err)
		os.Exit(1)
	}
}

type osEnv struct{}

var _ actx.Environment = &osEnv{}

func (e osEnv) Get(key string) string {
	return os.Getenv(key)
}

func (e osEnv) Set(key, val string) error {
	return os.Setenv(key, val)
}
