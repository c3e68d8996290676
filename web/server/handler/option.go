package handler

import (
	"log/slog"
	"os"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
)

const defaultMaxMemory = 32 << 20 // 32MiB, same as net/http

// Option is a function that allows configuring how requests are processed.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	errorLevel  ErrorLevel
	maxBodySize int64
	maxMemory   int64
	spoolFS     vfs.FileSystem
	spoolDir    string
	routeValues map[string]string
}

// WithLogger sets the logger used for reporting request errors.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger.With("component", "handler")
	}
}

// WithErrorLevel sets the detail level of error messages returned to clients.
func WithErrorLevel(lvl ErrorLevel) Option {
	return func(o *options) {
		o.errorLevel = lvl
	}
}

// WithMaxBodySize limits the amount of bytes that can be read from the request
// body. A value of 0 disables the limit.
func WithMaxBodySize(size int64) Option {
	return func(o *options) {
		o.maxBodySize = size
	}
}

// WithMaxMemory sets the amount of bytes of a buffered multipart form that are
// kept in memory. The remainder is stored in temporary files. It also limits
// the size of non-file fields read from a streamed multipart form.
func WithMaxMemory(size int64) Option {
	return func(o *options) {
		o.maxMemory = size
	}
}

// WithSpool sets the filesystem and directory where files uploaded in streamed
// multipart forms are written to. Spooled files are removed once the request
// is complete.
func WithSpool(fs vfs.FileSystem, dir string) Option {
	return func(o *options) {
		o.spoolFS = fs
		o.spoolDir = dir
	}
}

// WithRouteValues sets the route values matched by the router. This is only
// required for routers other than http.ServeMux, since route values are
// otherwise extracted from the matched ServeMux pattern.
func WithRouteValues(values map[string]string) Option {
	return func(o *options) {
		o.routeValues = values
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:     slog.Default().With("component", "handler"),
		errorLevel: ErrorLevelMinimal,
		maxMemory:  defaultMaxMemory,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.spoolFS == nil {
		o.spoolFS = osfs.New()
		if o.spoolDir == "" {
			o.spoolDir = os.TempDir()
		}
	}
	if o.spoolDir == "" {
		o.spoolDir = "/"
	}

	return o
}
