package server

import (
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"
)

// GuardFunc rejects a request by returning an error, optionally an HTTPError.
type GuardFunc func(r *http.Request) error

type Options struct {
	// BasePath prefixes every route, for hosts that mount the wizard below /.
	BasePath string
	// Renderer names the page renderer. Empty negotiates on the Accept header.
	Renderer string
	// Assets is served under AssetsPath when set.
	Assets     fs.FS
	AssetsPath string
	// MaxFormBytes caps POST bodies.
	MaxFormBytes int64
	Guard        GuardFunc
	Logger       zerolog.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		AssetsPath:   "/assets",
		MaxFormBytes: 1 << 20,
		Logger:       zerolog.Nop(),
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.AssetsPath == "" {
		opts.AssetsPath = "/assets"
	}
	if opts.MaxFormBytes <= 0 {
		opts.MaxFormBytes = 1 << 20
	}
	return opts
}

func WithBasePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BasePath = path
	}
}

func WithRenderer(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = name
	}
}

// WithAssets serves files under path, "/assets" when empty.
func WithAssets(files fs.FS, path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Assets = files
		if path != "" {
			o.AssetsPath = path
		}
	}
}

func WithMaxFormBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxFormBytes = n
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithLogger(logger zerolog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
