package prometheus

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jphollanti/chessprof/internal/stats"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, m := range metrics {
		if m.GetName() == name {
			return m.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found in registry", name)
	return 0
}

func TestNew_DefaultRegistry(t *testing.T) {
	c := New(nil)
	if c.registry == nil {
		t.Error("registry should not be nil")
	}
}

func TestCollector_IncCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.IncCounter(stats.MetricGamesAnalyzed, 5)
	c.IncCounter(stats.MetricGamesAnalyzed, 3)

	if val := counterValue(t, reg, stats.MetricGamesAnalyzed); val != 8 {
		t.Errorf("counter value = %v, want 8", val)
	}
}

func TestCollector_ObserveHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveHistogram(stats.MetricEvalSeconds, 0.01)
	c.ObserveHistogram(stats.MetricEvalSeconds, 0.03)
	c.ObserveHistogram(stats.MetricEvalSeconds, 0.25)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, m := range metrics {
		if m.GetName() == stats.MetricEvalSeconds {
			found = true
			if count := m.GetMetric()[0].GetHistogram().GetSampleCount(); count != 3 {
				t.Errorf("histogram count = %v, want 3", count)
			}
		}
	}
	if !found {
		t.Errorf("histogram %s not found in registry", stats.MetricEvalSeconds)
	}
}

func TestCollector_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.IncCounter(stats.MetricEngineEvals, 1)
	c.IncCounter(stats.MetricEngineEvals, 1)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	count := 0
	for _, m := range metrics {
		if m.GetName() == stats.MetricEngineEvals {
			count++
		}
	}
	if count != 1 {
		t.Errorf("metric registered %d times, want 1", count)
	}
}

func TestCollector_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()

	existing := prometheus.NewCounter(prometheus.CounterOpts{
		Name: stats.MetricGamesFailed,
		Help: stats.MetricGamesFailed,
	})
	reg.MustRegister(existing)
	existing.Add(100)

	c := New(reg)
	c.IncCounter(stats.MetricGamesFailed, 5)

	if val := counterValue(t, reg, stats.MetricGamesFailed); val != 105 {
		t.Errorf("counter value = %v, want 105 (pre-registered counter reused)", val)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncCounter(stats.MetricEngineEvals, 1)
				c.ObserveHistogram(stats.MetricEvalSeconds, float64(j)/100)
			}
		}()
	}
	wg.Wait()

	if val := counterValue(t, reg, stats.MetricEngineEvals); val != 1000 {
		t.Errorf("counter value = %v, want 1000", val)
	}
}
