package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/satrarity/internal/index"
	"github.com/ppiankov/satrarity/internal/metrics"
	"github.com/ppiankov/satrarity/internal/model"
	"github.com/ppiankov/satrarity/internal/rarity"
	"github.com/ppiankov/satrarity/internal/sat"
	"github.com/ppiankov/satrarity/internal/worker"
)

// ErrSatIndexUnavailable is returned when the index does not track sat ranges
var ErrSatIndexUnavailable = errors.New("sat index unavailable")

// Pipeline turns ownership references into rarity reports
type Pipeline struct {
	index      index.Index
	classifier *rarity.Classifier
	batch      *worker.BatchProcessor
	metrics    *metrics.Metrics // nil disables recording
	logger     *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithMetrics records request metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a pipeline over idx
func NewPipeline(idx index.Index, cfg *model.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		index:      idx,
		classifier: rarity.NewClassifier(rarity.WithTaproot(cfg.Rarity.Taproot)),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.batch = worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	return p
}

// Classifier returns the classifier used for reports
func (p *Pipeline) Classifier() *rarity.Classifier {
	return p.classifier
}

// GetSatRanges resolves every reference and reports the rarities of the sats it
// holds. The error of the first failing reference in input order aborts the
// whole batch, whether the reference is malformed or fails to resolve.
func (p *Pipeline) GetSatRanges(ctx context.Context, references []string) (*model.SatRangesResult, error) {
	if !p.index.HasSatIndex() {
		return nil, ErrSatIndexUnavailable
	}

	outpoints := make([]index.OutPoint, 0, len(references))
	var parseErr error
	for _, ref := range references {
		op, err := index.ParseOutPoint(ref)
		if err != nil {
			parseErr = err
			break
		}
		outpoints = append(outpoints, op)
	}

	// only the references before a malformed one can fail earlier than it
	start := time.Now()
	resolved, err := p.batch.Resolve(ctx, outpoints)
	if err == nil {
		err = parseErr
	}
	if err != nil {
		p.logger.Debug("sat ranges failed", zap.Int("references", len(references)), zap.Error(err))
		return nil, err
	}

	result := &model.SatRangesResult{Results: make([]model.ReferenceResult, len(resolved))}
	for i, r := range resolved {
		// echo the reference as given
		r.Result.Reference = references[i]
		result.Results[i] = *r.Result
	}

	p.logger.Debug("sat ranges resolved",
		zap.Int("references", len(references)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// ResolveReference builds the result of one outpoint. It implements worker.Resolver.
func (p *Pipeline) ResolveReference(ctx context.Context, outpoint index.OutPoint) (*model.ReferenceResult, error) {
	ranges, err := p.index.List(ctx, outpoint)
	if err != nil {
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.References.Inc()
	}

	result := &model.ReferenceResult{
		Reference: outpoint.String(),
		Ranges:    make([]model.RangeReport, 0, len(ranges)),
		NamedSats: []model.NamedSat{},
	}

	for _, rng := range ranges {
		report, err := p.ClassifyRange(ctx, rng.Start, rng.End)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", outpoint, err)
		}
		result.Ranges = append(result.Ranges, *report)
	}

	result.NamedSats = NamedSats(ranges)
	return result, nil
}

// ClassifyRange builds the report of a single-block range, with its block hash when
// the index knows it
func (p *Pipeline) ClassifyRange(ctx context.Context, start, end uint64) (*model.RangeReport, error) {
	report, err := p.classifier.Classify(start, end)
	if err != nil {
		return nil, err
	}

	height := rarity.BlockHeight(start)
	hash, err := p.index.BlockHash(ctx, height)
	if err != nil {
		return nil, fmt.Errorf("block hash %d: %w", height, err)
	}

	if p.metrics != nil {
		p.metrics.RangesReported.Inc()
		for _, e := range report {
			p.metrics.KindsReported.WithLabelValues(e.Kind.String()).Add(float64(len(e.Chunks)))
		}
	}

	return &model.RangeReport{
		Start:       start,
		End:         end,
		Rarities:    report,
		BlockHeight: height,
		BlockHash:   hash,
	}, nil
}

// NamedSats lists the sats above common rarity inside ranges, in output order.
// Offset is the position of the sat within the concatenated ranges.
func NamedSats(ranges []index.SatRange) []model.NamedSat {
	named := []model.NamedSat{}
	var base uint64
	for _, rng := range ranges {
		for height := sat.Sat(rng.Start).Height(); rng.Start < sat.Supply; height++ {
			s := sat.BlockStart(height)
			if uint64(s) >= rng.End || uint64(s) >= sat.Supply {
				break
			}
			if uint64(s) < rng.Start {
				continue
			}
			if r := s.Rarity(); r > sat.Common {
				named = append(named, model.NamedSat{
					Offset:   base + uint64(s) - rng.Start,
					Rarity:   r,
					SatIndex: uint64(s),
					Metadata: s.Details(),
				})
			}
		}
		base += rng.Len()
	}
	return named
}
