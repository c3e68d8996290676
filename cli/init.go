package cli

import (
	"database/sql"
	"fmt"

	actx "go.hackfix.me/weave/app/context"
	aerrors "go.hackfix.me/weave/app/errors"
	"go.hackfix.me/weave/crypto"
)

// The Init command writes the configuration file with default values and a
// new application secret, which signs authentication and CSRF tokens.
type Init struct {
	Force bool `help:"Replace the secret of an existing configuration. All issued tokens become invalid."`
}

// Run the init command.
func (c *Init) Run(appCtx *actx.Context) error {
	cfg := appCtx.Config
	if cfg.Security.Secret.Valid && !c.Force {
		return aerrors.NewWith("Weave is already initialized",
			"config_file", cfg.Path(), "hint", "use --force to replace the secret")
	}

	secret, err := crypto.NewSecret()
	if err != nil {
		return fmt.Errorf("failed generating the application secret: %w", err)
	}
	cfg.Security.Secret = sql.Null[string]{V: secret, Valid: true}
	cfg.SetDefaults()

	existed, err := cfg.Exists()
	if err != nil {
		return err //nolint:wrapcheck // The error is descriptive enough.
	}
	if err = cfg.Save(); err != nil {
		return aerrors.NewWithCause("failed saving configuration", err,
			"config_file", cfg.Path())
	}

	appCtx.Logger.Info("initialized configuration",
		"config_file", cfg.Path(), "created", !existed)

	return nil
}
