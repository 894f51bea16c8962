package app

import (
	"context"
	"time"

	"astriql/domain/core"
	"astriql/domain/readout"
	"astriql/internal"
	"astriql/internal/errors"
	"astriql/internal/extraction"
	"astriql/ports"
)

// TemporalService runs the temporal quick-look of one module
type TemporalService struct {
	opener    ports.SourceOpener
	selector  *extraction.FieldSelector
	timeField string
	logger    *internal.Logger
}

// TemporalRequest holds the parsed command-line inputs of a temporal run
type TemporalRequest struct {
	Path       string `validate:"required"`
	Module     int    `validate:"min=1"`
	Param      string `validate:"required"`
	SubChannel int    `validate:"min=0"`
	MaxRows    int    `validate:"min=0"`
	TimeIndex  int    `validate:"min=1"`
	RowIndex   int    `validate:"min=1"`
	Labels     readout.Labels
}

// NewTemporalService creates a temporal service reading times from timeField
func NewTemporalService(opener ports.SourceOpener, selector *extraction.FieldSelector, timeField string, logger *internal.Logger) *TemporalService {
	return &TemporalService{
		opener:    opener,
		selector:  selector,
		timeField: timeField,
		logger:    logger,
	}
}

// Run extracts the series and picks the two probed points
func (s *TemporalService) Run(ctx context.Context, req TemporalRequest) (*readout.TemporalReport, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}
	fields, err := s.selector.Resolve(req.Module, req.Param)
	if err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}
	field := fields[0]

	runID := core.NewRunID()
	s.logger.Info("[TemporalService] Run %s: %s vs %s from %s", runID, field, s.timeField, req.Path)

	src, err := s.opener.Open(ctx, req.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", req.Path)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			s.logger.Warn("[TemporalService] Close %s: %v", req.Path, cerr)
		}
	}()

	series, err := extraction.ExtractTemporal(ctx, src, field, s.timeField, extraction.TemporalOptions{
		MaxRows:    req.MaxRows,
		SubChannel: req.SubChannel,
	})
	if err != nil {
		return nil, classify(err, "temporal extraction failed")
	}

	timeProbe, err := series.TimeProbe(req.TimeIndex)
	if err != nil {
		return nil, classify(err, "xtemp")
	}
	rowProbe, err := series.RowProbe(req.RowIndex)
	if err != nil {
		return nil, classify(err, "xgraph")
	}
	s.logger.Debug("[TemporalService] %d events, probes at %d and %d", series.Len(), req.TimeIndex, req.RowIndex)

	labels := req.Labels
	if labels.Title == "" {
		labels.Title = field
	}
	if labels.YLabel == "" {
		labels.YLabel = req.Param
	}

	return &readout.TemporalReport{
		RunID:       runID,
		SourcePath:  req.Path,
		TimeField:   s.timeField,
		Series:      series,
		TimeProbe:   timeProbe,
		RowProbe:    rowProbe,
		Labels:      labels,
		GeneratedAt: time.Now(),
	}, nil
}
