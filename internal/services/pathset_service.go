package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"transit-pathset-service/internal/domain"
	"transit-pathset-service/internal/platform/obs"
	"transit-pathset-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

type pathContext struct {
	ports.NetworkProvider
	ports.Labeler
	ports.CostModel
}

// JoinPathContext combines independent collaborators into one PathContext.
func JoinPathContext(network ports.NetworkProvider, labels ports.Labeler, model ports.CostModel) ports.PathContext {
	return pathContext{NetworkProvider: network, Labeler: labels, CostModel: model}
}

// One path request with the candidate leg sequences the search proposed,
// each in assembly order.
type EvaluateRequest struct {
	Spec       domain.PathSpec
	Phase      domain.BuildPhase
	Candidates [][]domain.Link
}

// A ranked alternative of an evaluated request.
type EvaluatedPath struct {
	Path                  *domain.Path
	Compact               string
	Count                 int
	Probability           float64
	CumulativeProbability int
}

type EvaluateResult struct {
	PathID int
	// Paths are the surviving distinct alternatives, cheapest first.
	Paths []EvaluatedPath
	// Chosen is the compact export of the drawn path, or NoPath.
	Chosen    string
	Rejected  int
	Truncated int
	// Trace holds diagnostic output when the request asked for it.
	Trace string
}

type PathSetServiceConfig struct {
	Context ports.PathContext
	Choice  ChoiceParams
	// Workers bounds EvaluateBatch concurrency; values below 1 mean 1.
	Workers   int
	Publisher ports.PathSetPublisher
	Metrics   Metrics
	Logger    *slog.Logger
}

// PathSetService turns candidate leg sequences into ranked, scored path
// sets. Each request is handled entirely by one goroutine; the shared
// collaborators are read-only.
type PathSetService struct {
	assembler *Assembler
	evaluator *CostEvaluator
	exporter  *Exporter
	choice    ChoiceParams
	workers   int
	publisher ports.PathSetPublisher
	metrics   Metrics
	logger    *slog.Logger
}

func NewPathSetService(cfg PathSetServiceConfig) (*PathSetService, error) {
	if cfg.Context == nil {
		return nil, errors.New("new path set service: path context is nil")
	}
	if cfg.Choice.Dispersion <= 0 {
		return nil, fmt.Errorf("new path set service: dispersion must be positive, got %g", cfg.Choice.Dispersion)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	exporter := NewExporter(cfg.Context, cfg.Context)
	return &PathSetService{
		assembler: NewAssembler(cfg.Context, exporter, cfg.Metrics),
		evaluator: NewCostEvaluator(cfg.Context, cfg.Context),
		exporter:  exporter,
		choice:    cfg.Choice,
		workers:   cfg.Workers,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}, nil
}

func (s *PathSetService) Exporter() *Exporter { return s.exporter }

// Evaluate assembles every candidate, discarding infeasible ones, scores the
// rest, ranks them into a path set and draws the chosen path.
func (s *PathSetService) Evaluate(ctx context.Context, req EvaluateRequest) (_ *EvaluateResult, err error) {
	defer obs.Time(ctx, s.logger, "pathset.Evaluate")(&err)

	spec := req.Spec
	var traceBuf bytes.Buffer
	var tr *Trace
	if spec.Trace {
		tr = NewTrace(&traceBuf)
	}

	res := &EvaluateResult{PathID: spec.PathID, Chosen: NoPath}
	set := NewPathSet()

	for i, cand := range req.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("evaluate path %d: %w", spec.PathID, err)
		}

		p, ok := s.assembler.Build(spec.Outbound, req.Phase, cand, tr)
		if !ok {
			res.Rejected++
			tr.Printf("----> candidate %d infeasible", i+1)
			_ = tr.Flush()
			continue
		}

		start := time.Now()
		if err := s.evaluator.Finalize(p, spec, tr); err != nil {
			return nil, fmt.Errorf("evaluate path %d: candidate %d: %w", spec.PathID, i+1, err)
		}
		s.metrics.PathFinalized(time.Since(start))

		isNew := set.Add(p)
		if tr.Enabled() {
			s.exporter.Trace(tr, fmt.Sprintf("found path %d: %s", i+1, s.exporter.Compact(p)), p)
			tr.Printf("pathset size = %d new? %t", set.Len(), isNew)
			_ = tr.Flush()
		}
	}

	if set.Len() > 0 {
		if err := s.rank(set, spec, res, tr); err != nil {
			return nil, err
		}
	}
	s.metrics.PathSetEvaluated(len(res.Paths), res.Rejected, res.Truncated)

	if err := tr.Flush(); err != nil {
		s.logger.Warn("trace write failed", "path_id", spec.PathID, "err", err)
	}
	res.Trace = traceBuf.String()

	s.publish(ctx, spec, res)
	return res, nil
}

func (s *PathSetService) rank(set *PathSet, spec domain.PathSpec, res *EvaluateResult, tr *Trace) error {
	dropped, probErr := set.ComputeProbabilities(s.choice, s.exporter, tr)
	res.Truncated = dropped

	// Finalized paths are reported even when none can be chosen; their
	// probabilities stay 0 then.
	for _, e := range set.Entries() {
		res.Paths = append(res.Paths, EvaluatedPath{
			Path:                  e.Path,
			Compact:               s.exporter.Compact(e.Path),
			Count:                 e.Count,
			Probability:           e.Probability,
			CumulativeProbability: e.CumulativeProbability,
		})
	}

	chosen, err := set.Choose(spec.PathID)
	if probErr != nil {
		err = probErr
	}
	if errors.Is(err, ErrEmptyPathSet) {
		s.logger.Warn("no probable path", "path_id", spec.PathID, "paths", set.Len(), "err", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("evaluate path %d: %w", spec.PathID, err)
	}
	res.Chosen = s.exporter.Compact(chosen)
	tr.Printf("chosen %s", res.Chosen)
	return nil
}

func (s *PathSetService) publish(ctx context.Context, spec domain.PathSpec, res *EvaluateResult) {
	if s.publisher == nil {
		return
	}
	summary := ports.PathSetSummary{
		PathID:    spec.PathID,
		Iteration: spec.Iteration,
		Outbound:  spec.Outbound,
		Chosen:    res.Chosen,
		Paths:     make([]ports.PathSummary, 0, len(res.Paths)),
	}
	for _, p := range res.Paths {
		summary.Paths = append(summary.Paths, ports.PathSummary{
			Compact:     p.Compact,
			Cost:        p.Path.Cost(),
			Probability: p.Probability,
			Count:       p.Count,
		})
	}
	if err := s.publisher.Publish(ctx, summary); err != nil {
		s.logger.Warn("publish path set failed", "path_id", spec.PathID, "err", err)
	}
}

// EvaluateBatch evaluates independent requests concurrently on a bounded
// pool of workers. Results keep the order of reqs. The first failure
// cancels the remaining work.
func (s *PathSetService) EvaluateBatch(ctx context.Context, reqs []EvaluateRequest) ([]*EvaluateResult, error) {
	results := make([]*EvaluateResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := s.Evaluate(ctx, req)
			if err != nil {
				return fmt.Errorf("evaluate batch: request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
