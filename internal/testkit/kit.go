package testkit

import (
	"context"
	"sort"
	"sync"

	"astriql/domain/core"
	"astriql/domain/readout"
	"astriql/ports"
)

// MemorySource is an in-memory table source used by tests and the demo generator
type MemorySource struct {
	mu        sync.Mutex
	columns   map[string]readout.Column
	requested []string
	closed    bool
}

// NewMemorySource creates an empty in-memory table
func NewMemorySource() *MemorySource {
	return &MemorySource{columns: make(map[string]readout.Column)}
}

// AddColumn stores a column; rows must share one shape
func (s *MemorySource) AddColumn(name string, rows ...readout.Row) error {
	col, err := readout.NewColumn(name, rows)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns[name] = col
	return nil
}

// MustAddColumn is AddColumn for fixtures
func (s *MemorySource) MustAddColumn(name string, rows ...readout.Row) *MemorySource {
	if err := s.AddColumn(name, rows...); err != nil {
		panic(err)
	}
	return s
}

// AddScalars stores a scalar column
func (s *MemorySource) AddScalars(name string, values ...float64) *MemorySource {
	rows := make([]readout.Row, len(values))
	for i, v := range values {
		rows[i] = readout.Scalar(v)
	}
	return s.MustAddColumn(name, rows...)
}

// Column implements ports.TableSourcePort
func (s *MemorySource) Column(ctx context.Context, name string) (readout.Column, error) {
	if err := ctx.Err(); err != nil {
		return readout.Column{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requested = append(s.requested, name)
	col, ok := s.columns[name]
	if !ok {
		return readout.Column{}, core.NewFieldNotFoundError(name)
	}
	return col, nil
}

// Fields implements ports.TableSourcePort
func (s *MemorySource) Fields() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.columns))
	for name := range s.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close implements ports.TableSourcePort
func (s *MemorySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called
func (s *MemorySource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Requested returns the column names asked for, in call order
func (s *MemorySource) Requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requested...)
}

// Opener returns a SourceOpener that always hands out this source
func (s *MemorySource) Opener() ports.SourceOpener {
	return ports.SourceOpenerFunc(func(ctx context.Context, path string) (ports.TableSourcePort, error) {
		return s, nil
	})
}

var _ ports.TableSourcePort = (*MemorySource)(nil)
