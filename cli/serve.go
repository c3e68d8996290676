package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	actx "go.hackfix.me/weave/app/context"
	"go.hackfix.me/weave/web/auth"
	"go.hackfix.me/weave/web/csrf"
	"go.hackfix.me/weave/web/server"
	"go.hackfix.me/weave/web/server/handler"
)

const shutdownTimeout = 10 * time.Second

// Serve starts the web server.
type Serve struct {
	Address string `arg:"" optional:"" help:"[host]:port to listen on. Default: the configured server address."`
	//nolint:lll // Long struct tags are unavoidable.
	ErrorLevel    string `help:"Detail level of error messages returned to clients, in order to avoid leaking sensitive information. This doesn't affect response status codes. Valid values: \n none: hide all error messages; minimal: hide server error messages; full: keep error messages intact"`
	SecureCookies bool   `help:"Set the Secure attribute on cookies. Enable this when the server is behind a TLS terminating proxy."`
}

// Run the serve command.
func (c *Serve) Run(appCtx *actx.Context) error {
	opts, err := c.serverOptions(appCtx)
	if err != nil {
		return err
	}

	srv, err := server.New(opts, appCtx.Logger)
	if err != nil {
		return err
	}

	// Gracefully shutdown the server if a process signal is received, or the
	// main context is done.
	// See https://dev.to/mokiat/proper-http-shutdown-in-go-3fji
	srvDone := make(chan error, 1)
	go func() {
		srvErr := srv.ListenAndServe()
		appCtx.Logger.Debug("web server shutdown")
		srvDone <- srvErr
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		appCtx.Logger.Debug("process received signal", "signal", s)
	case <-appCtx.Ctx.Done():
		appCtx.Logger.Debug("app context is done")
	case srvErr := <-srvDone:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return fmt.Errorf("web server error: %w", srvErr)
		}
		return nil
	}

	// The main context might be done already, so give in-flight requests a
	// grace period of their own.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(appCtx.Ctx), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed shutting down web server: %w", err)
	}

	// ListenAndServe returns as soon as Shutdown is called.
	if srvErr := <-srvDone; srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
		return fmt.Errorf("web server error: %w", srvErr)
	}

	return nil
}

func (c *Serve) serverOptions(appCtx *actx.Context) (server.Options, error) {
	secret, err := appCtx.Secret()
	if err != nil {
		return server.Options{}, err
	}

	cfg := appCtx.Config
	cfg.SetDefaults()

	address := c.Address
	if address == "" {
		address = cfg.Server.Address.V
	}

	errLevel := cfg.Server.ErrorLevel.V
	if c.ErrorLevel != "" {
		errLevel, err = handler.ErrorLevelFromString(c.ErrorLevel)
		if err != nil {
			return server.Options{}, err //nolint:wrapcheck // The error is descriptive enough.
		}
	}

	authn, err := auth.New(secret,
		auth.WithIssuer(cfg.Auth.Issuer.V),
		auth.WithExpiration(cfg.Auth.TokenExpiration.V),
		auth.WithRoles(auth.NewRoles(cfg.Auth.Roles)),
		auth.WithTimeSource(appCtx.TimeSource),
		auth.WithLogger(appCtx.Logger),
	)
	if err != nil {
		return server.Options{}, fmt.Errorf("failed creating authenticator: %w", err)
	}

	csrfv, err := csrf.New(secret,
		csrf.WithSecureCookie(c.SecureCookies),
		csrf.WithLogger(appCtx.Logger),
	)
	if err != nil {
		return server.Options{}, fmt.Errorf("failed creating CSRF validator: %w", err)
	}

	return server.Options{
		Address:     address,
		ErrorLevel:  errLevel,
		MaxBodySize: cfg.Server.MaxBodySize.V,
		SpoolFS:     appCtx.FS,
		SpoolDir:    cfg.Server.SpoolDir.V,
		Auth:        authn,
		CSRF:        csrfv,
	}, nil
}
