package enhance

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exploresl/exploresl-api/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// stubModule records its invocations and can fail, block or panic on demand.
type stubModule struct {
	name    string
	err     error
	block   time.Duration
	panics  bool
	mu      sync.Mutex
	applied []time.Time
}

func (s *stubModule) Name() string { return s.name }

func (s *stubModule) Enhance(ctx context.Context, _ *types.PlanRequest, _ *types.TravelPlanData) error {
	s.mu.Lock()
	s.applied = append(s.applied, time.Now())
	s.mu.Unlock()
	if s.panics {
		panic("boom")
	}
	if s.block > 0 {
		select {
		case <-time.After(s.block):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func (s *stubModule) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.applied)
}

func enabled(priority int) types.EnhancementSettings {
	return types.EnhancementSettings{Enabled: true, Priority: priority}
}

func basePlan() *types.TravelPlanData {
	return &types.TravelPlanData{
		TotalDays:           1,
		DailyItineraries:    []types.DailyItinerary{{Day: 1}},
		EnhancementsApplied: []string{},
	}
}

func TestPipelineApply(t *testing.T) {
	ctx := context.Background()

	t.Run("RunsEnabledModulesInPriorityOrder", func(t *testing.T) {
		first := &stubModule{name: "weather"}
		second := &stubModule{name: "transport"}
		p := NewPipeline(testLogger(), time.Second, second, first)

		req := &types.PlanRequest{Enhancements: map[string]types.EnhancementSettings{
			"weather":   enabled(1),
			"transport": enabled(2),
		}}
		plan := basePlan()
		p.Apply(ctx, req, plan)

		require.Equal(t, 1, first.calls())
		require.Equal(t, 1, second.calls())
		assert.Equal(t, []string{"weather", "transport"}, plan.EnhancementsApplied)
		assert.True(t, plan.EnhancementStats["weather"].Success)
		assert.True(t, plan.EnhancementStats["transport"].Success)
	})

	t.Run("SkipsDisabledAndUnknownModules", func(t *testing.T) {
		m := &stubModule{name: "weather"}
		p := NewPipeline(testLogger(), time.Second, m)

		req := &types.PlanRequest{Enhancements: map[string]types.EnhancementSettings{
			"weather": {Enabled: false},
			"karaoke": enabled(1),
		}}
		plan := basePlan()
		p.Apply(ctx, req, plan)

		assert.Zero(t, m.calls())
		assert.Empty(t, plan.EnhancementsApplied)
		assert.Empty(t, plan.EnhancementStats)
	})

	t.Run("FailureIsolatedFromOtherModules", func(t *testing.T) {
		broken := &stubModule{name: "places", err: errors.New("upstream 502")}
		healthy := &stubModule{name: "weather"}
		p := NewPipeline(testLogger(), time.Second, broken, healthy)

		req := &types.PlanRequest{Enhancements: map[string]types.EnhancementSettings{
			"places":  enabled(1),
			"weather": enabled(2),
		}}
		plan := basePlan()
		p.Apply(ctx, req, plan)

		assert.Equal(t, []string{"weather"}, plan.EnhancementsApplied)
		assert.False(t, plan.EnhancementStats["places"].Success)
		assert.Contains(t, plan.EnhancementStats["places"].ErrorMessage, "upstream 502")
		assert.True(t, plan.EnhancementStats["weather"].Success)
	})

	t.Run("TimeoutRecordedAsFailure", func(t *testing.T) {
		slow := &stubModule{name: "places", block: 500 * time.Millisecond}
		quick := &stubModule{name: "transport"}
		p := NewPipeline(testLogger(), 20*time.Millisecond, slow, quick)

		req := &types.PlanRequest{Enhancements: map[string]types.EnhancementSettings{
			"places":    enabled(1),
			"transport": enabled(2),
		}}
		plan := basePlan()
		p.Apply(ctx, req, plan)

		assert.False(t, plan.EnhancementStats["places"].Success)
		assert.True(t, plan.EnhancementStats["transport"].Success)
		assert.Equal(t, []string{"transport"}, plan.EnhancementsApplied)
	})

	t.Run("PanicRecoveredAsFailure", func(t *testing.T) {
		p := NewPipeline(testLogger(), time.Second, &stubModule{name: "weather", panics: true})

		req := &types.PlanRequest{Enhancements: map[string]types.EnhancementSettings{
			"weather": enabled(1),
		}}
		plan := basePlan()
		p.Apply(ctx, req, plan)

		require.Contains(t, plan.EnhancementStats, "weather")
		assert.False(t, plan.EnhancementStats["weather"].Success)
		assert.Contains(t, plan.EnhancementStats["weather"].ErrorMessage, "panicked")
	})

	t.Run("AsyncRunsEveryModule", func(t *testing.T) {
		a := &stubModule{name: "weather", block: 30 * time.Millisecond}
		b := &stubModule{name: "transport", block: 30 * time.Millisecond}
		c := &stubModule{name: "places", err: errors.New("down")}
		p := NewPipeline(testLogger(), time.Second, a, b, c)

		req := &types.PlanRequest{
			AsyncProcessing: true,
			Enhancements: map[string]types.EnhancementSettings{
				"weather":   enabled(1),
				"transport": enabled(2),
				"places":    enabled(3),
			},
		}
		plan := basePlan()
		p.Apply(ctx, req, plan)

		assert.Equal(t, 1, a.calls())
		assert.Equal(t, 1, b.calls())
		assert.Equal(t, 1, c.calls())
		// Applied order follows priority, not completion order.
		assert.Equal(t, []string{"weather", "transport"}, plan.EnhancementsApplied)
		assert.False(t, plan.EnhancementStats["places"].Success)
	})
}
