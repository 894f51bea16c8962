package ports

import (
	"context"

	"astriql/domain/readout"
)

// TableSourcePort provides read-only access to the readout table of one file.
// Column must return an error wrapping core.ErrFieldNotFound for unknown names.
type TableSourcePort interface {
	Column(ctx context.Context, name string) (readout.Column, error)
	Fields() []string
	Close() error
}

// SourceOpener opens a table source for a file path
type SourceOpener interface {
	Open(ctx context.Context, path string) (TableSourcePort, error)
}

// SourceOpenerFunc adapts a function to SourceOpener
type SourceOpenerFunc func(ctx context.Context, path string) (TableSourcePort, error)

func (f SourceOpenerFunc) Open(ctx context.Context, path string) (TableSourcePort, error) {
	return f(ctx, path)
}
