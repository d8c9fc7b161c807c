// Package loader implements question.Loader over files, fs.FS entries, and
// HTTP endpoints.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formwizard/pkg/question"
)

// Loader delegates to file, fs.FS, or HTTP strategies based on the source kind.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ question.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options question.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src question.Source) (question.Document, error) {
	if src == nil {
		return question.Document{}, errors.New("question loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case question.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case question.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case question.SourceKindURL:
		if !l.allowHTTP {
			return question.Document{}, errors.New("question loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("question loader: unsupported source kind")
	}
	if err != nil {
		return question.Document{}, err
	}

	return question.NewDocument(src, data)
}
