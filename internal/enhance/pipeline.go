// Package enhance decorates a generated travel plan with optional per-day
// data: place recommendations, weather guidance and transport suggestions.
// Modules are isolated from each other; a failing or slow module degrades to
// a recorded error without touching the rest of the plan.
package enhance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/exploresl/exploresl-api/internal/types"
)

// DefaultModuleTimeout bounds a single module run.
const DefaultModuleTimeout = 10 * time.Second

// Module is one enhancement. Enhance may fill the per-day slots it owns on
// the plan (place recommendations, weather, transport) but must never touch
// the attraction lists or their order.
type Module interface {
	Name() string
	Enhance(ctx context.Context, req *types.PlanRequest, plan *types.TravelPlanData) error
}

// Pipeline runs the registered modules against a plan.
type Pipeline struct {
	logger  *slog.Logger
	timeout time.Duration
	modules map[string]Module
	order   []string
}

// NewPipeline registers the given modules. A non-positive timeout falls back
// to DefaultModuleTimeout.
func NewPipeline(logger *slog.Logger, timeout time.Duration, modules ...Module) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultModuleTimeout
	}
	p := &Pipeline{
		logger:  logger.With(slog.String("component", "EnhancementPipeline")),
		timeout: timeout,
		modules: make(map[string]Module, len(modules)),
	}
	for _, m := range modules {
		if _, dup := p.modules[m.Name()]; dup {
			continue
		}
		p.modules[m.Name()] = m
		p.order = append(p.order, m.Name())
	}
	return p
}

// ModuleNames lists the registered modules in registration order.
func (p *Pipeline) ModuleNames() []string { return append([]string(nil), p.order...) }

type moduleRun struct {
	name   string
	module Module
	stats  types.EnhancementStats
}

// Apply runs every module the request enabled, sequentially in priority order
// (lower priority value first, registration order on ties) or concurrently
// when the request asks for async processing. Stats for every attempted
// module land in plan.EnhancementStats; successful ones are listed in
// plan.EnhancementsApplied in priority order.
func (p *Pipeline) Apply(ctx context.Context, req *types.PlanRequest, plan *types.TravelPlanData) {
	runs := p.enabledRuns(req)
	if len(runs) == 0 {
		return
	}

	if req.AsyncProcessing {
		g, gctx := errgroup.WithContext(ctx)
		for i := range runs {
			run := &runs[i]
			g.Go(func() error {
				p.runOne(gctx, run, req, plan)
				// Module failures are recorded, never propagated: one slow
				// or broken module must not cancel its siblings.
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range runs {
			p.runOne(ctx, &runs[i], req, plan)
		}
	}

	if plan.EnhancementStats == nil {
		plan.EnhancementStats = make(map[string]types.EnhancementStats, len(runs))
	}
	for _, run := range runs {
		plan.EnhancementStats[run.name] = run.stats
		if run.stats.Success {
			plan.EnhancementsApplied = append(plan.EnhancementsApplied, run.name)
		}
	}
}

// enabledRuns resolves the request's enhancement settings against the
// registry and orders them by priority.
func (p *Pipeline) enabledRuns(req *types.PlanRequest) []moduleRun {
	var runs []moduleRun
	priorities := make(map[string]int)

	for _, name := range p.order {
		settings, requested := req.Enhancements[name]
		if !requested || !settings.Enabled {
			continue
		}
		runs = append(runs, moduleRun{name: name, module: p.modules[name]})
		priorities[name] = settings.Priority
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return priorities[runs[i].name] < priorities[runs[j].name]
	})
	return runs
}

// runOne executes a single module under the pipeline timeout and records its
// outcome on the run.
func (p *Pipeline) runOne(ctx context.Context, run *moduleRun, req *types.PlanRequest, plan *types.TravelPlanData) {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.safeEnhance(runCtx, run.module, req, plan)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	run.stats = types.EnhancementStats{Success: err == nil, ProcessingTimeMs: elapsed}
	if err != nil {
		run.stats.ErrorMessage = err.Error()
		p.logger.WarnContext(ctx, "enhancement module failed",
			slog.String("module", run.name), slog.Any("error", err))
		return
	}
	p.logger.DebugContext(ctx, "enhancement module applied",
		slog.String("module", run.name), slog.Float64("duration_ms", elapsed))
}

// safeEnhance turns a panicking module into an error result.
func (p *Pipeline) safeEnhance(ctx context.Context, m Module, req *types.PlanRequest, plan *types.TravelPlanData) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module %s panicked: %v", m.Name(), r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.Enhance(ctx, req, plan)
}
