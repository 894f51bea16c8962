package fits

import (
	"context"
	"fmt"
	"log"
	"os"
	"reflect"
	"sync"
	"time"

	"astriql/domain/core"
	"astriql/domain/readout"
	"astriql/internal/errors"
	"astriql/ports"

	"github.com/astrogo/fitsio"
)

// EventsHDU is the HDU holding the event table in DL0 files
const EventsHDU = 1

// TableReader reads columns of the event binary table of a FITS file
type TableReader struct {
	path  string
	file  *os.File
	fits  *fitsio.File
	table *fitsio.Table

	mu    sync.Mutex
	cache map[string]readout.Column
}

// Open opens path and locates the event table
func Open(path string) (*TableReader, error) {
	log.Printf("[FITSReader] Opening %s", path)
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError("failed to open FITS file", err)
	}
	fits, err := fitsio.Open(f)
	if err != nil {
		f.Close()
		return nil, errors.FormatError(fmt.Sprintf("failed to parse FITS file %s", path), err)
	}

	hdus := fits.HDUs()
	if len(hdus) <= EventsHDU {
		fits.Close()
		f.Close()
		return nil, errors.FormatError(fmt.Sprintf("%s has no extension HDU %d", path, EventsHDU), nil)
	}
	table, ok := fits.HDU(EventsHDU).(*fitsio.Table)
	if !ok {
		fits.Close()
		f.Close()
		return nil, errors.FormatError(fmt.Sprintf("HDU %d of %s is not a table", EventsHDU, path), nil)
	}

	log.Printf("[FITSReader] Event table %q opened in %.2fms (%d columns, %d rows)",
		table.Name(), float64(time.Since(start).Nanoseconds())/1e6, len(table.Cols()), table.NumRows())

	return &TableReader{
		path:  path,
		file:  f,
		fits:  fits,
		table: table,
		cache: make(map[string]readout.Column),
	}, nil
}

// OpenSource adapts Open to ports.SourceOpener
func OpenSource(ctx context.Context, path string) (ports.TableSourcePort, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Fields returns the column names of the event table
func (r *TableReader) Fields() []string {
	cols := r.table.Cols()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Column reads every row of one column. Columns are cached after the first read.
func (r *TableReader) Column(ctx context.Context, name string) (readout.Column, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if col, ok := r.cache[name]; ok {
		return col, nil
	}
	if r.table.Index(name) < 0 {
		return readout.Column{}, errors.WithCode(errors.CodeNotFound, core.NewFieldNotFoundError(name))
	}

	start := time.Now()
	rows, err := r.table.Read(0, r.table.NumRows())
	if err != nil {
		return readout.Column{}, errors.IOError(fmt.Sprintf("failed to read rows of %s", name), err)
	}
	defer rows.Close()

	out := make([]readout.Row, 0, r.table.NumRows())
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return readout.Column{}, err
		}
		data := map[string]interface{}{name: nil}
		if err := rows.Scan(&data); err != nil {
			return readout.Column{}, errors.FormatError(fmt.Sprintf("failed to decode %s row %d", name, len(out)+1), err)
		}
		row, err := ToRow(data[name])
		if err != nil {
			return readout.Column{}, errors.FormatError(fmt.Sprintf("field %s row %d", name, len(out)+1), err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return readout.Column{}, errors.IOError(fmt.Sprintf("failed to iterate rows of %s", name), err)
	}

	col, err := readout.NewColumn(name, out)
	if err != nil {
		return readout.Column{}, errors.FormatError("inconsistent column", err)
	}
	log.Printf("[FITSReader] Column %s read in %.2fms (%d rows, width %d)",
		name, float64(time.Since(start).Nanoseconds())/1e6, col.Len(), col.Width())

	r.cache[name] = col
	return col, nil
}

// Close releases the FITS handle and the underlying file
func (r *TableReader) Close() error {
	err := r.fits.Close()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ToRow converts a decoded cell (numeric scalar, or fixed array/slice of numerics) to a row
func ToRow(v interface{}) (readout.Row, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array, reflect.Slice:
		values := make([]float64, rv.Len())
		for i := range values {
			x, err := toFloat(rv.Index(i))
			if err != nil {
				return readout.Row{}, err
			}
			values[i] = x
		}
		return readout.Array(values...), nil
	default:
		x, err := toFloat(rv)
		if err != nil {
			return readout.Row{}, err
		}
		return readout.Scalar(x), nil
	}
}

func toFloat(rv reflect.Value) (float64, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.Invalid:
		return 0, fmt.Errorf("%w: missing value", core.ErrNonNumeric)
	default:
		return 0, fmt.Errorf("%w: %s", core.ErrNonNumeric, rv.Type())
	}
}

var _ ports.TableSourcePort = (*TableReader)(nil)
