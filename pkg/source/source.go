// Package source loads usage datasets.
//
// A [Source] yields a whole [usage.Dataset] per Load call. [File] reads CSV
// or JSON files; [Mongo] reads one document per record from a MongoDB
// collection. [Watcher] reports changes to a dataset file so hosts can
// re-render.
package source

import (
	"context"
	"time"

	"github.com/matzehuels/llmstream/pkg/config"
	"github.com/matzehuels/llmstream/pkg/errors"
	"github.com/matzehuels/llmstream/pkg/observability"
	"github.com/matzehuels/llmstream/pkg/usage"
)

// Source loads a dataset.
type Source interface {
	// Load returns the current dataset.
	Load(ctx context.Context) (usage.Dataset, error)

	// Name identifies the source in logs and cache keys.
	Name() string
}

// File reads a dataset file on every Load.
type File struct {
	Path string
}

// NewFile returns a file source.
func NewFile(path string) *File { return &File{Path: path} }

// Load reads and decodes the file.
func (f *File) Load(ctx context.Context) (usage.Dataset, error) {
	start := time.Now()
	data, err := usage.ReadFile(f.Path)
	observability.Source().OnLoad(ctx, f.Name(), len(data), time.Since(start), err)
	return data, err
}

// Name returns the file path.
func (f *File) Name() string { return f.Path }

// Open returns the source described by cfg. A non-empty path overrides the
// configured one and forces a file source.
func Open(ctx context.Context, cfg config.Source, path string) (Source, error) {
	if path != "" {
		return NewFile(path), nil
	}
	switch cfg.Kind {
	case config.SourceFile, "":
		if cfg.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "no dataset: pass a file or set source.path")
		}
		return NewFile(cfg.Path), nil
	case config.SourceMongo:
		return NewMongo(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
			DateField:  cfg.MongoDateField,
		})
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "source kind %q", cfg.Kind)
	}
}

// Close releases the source if it holds resources.
func Close(ctx context.Context, s Source) error {
	if c, ok := s.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}
