package app

import (
	"context"
	"path/filepath"
	"strings"

	"astriql/adapters/excel"
	"astriql/adapters/fits"
	"astriql/ports"
)

// OpenSource picks a table adapter by file extension: .xlsx and .csv go to the
// spreadsheet reader, everything else is read as a FITS binary table.
func OpenSource(ctx context.Context, path string) (ports.TableSourcePort, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".csv":
		return excel.OpenSource(ctx, path)
	default:
		return fits.OpenSource(ctx, path)
	}
}

// FileSourceOpener opens sources from the local filesystem
var FileSourceOpener ports.SourceOpener = ports.SourceOpenerFunc(OpenSource)
