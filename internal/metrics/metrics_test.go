package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewDBPool_RegistersInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDBPool(reg)

	m.Active.Set(3)
	m.Max.Set(25)
	m.QueryDuration.WithLabelValues("list").Observe(0.02)

	for _, name := range []string{
		"database_connection_pool_active",
		"database_connection_pool_max",
		"database_query_duration_seconds",
	} {
		n, err := testutil.GatherAndCount(reg, name)
		if err != nil {
			t.Fatalf("gather %s: %v", name, err)
		}
		if n != 1 {
			t.Fatalf("metric %s: want 1 series, got %d", name, n)
		}
	}
}

func TestNewAuth_SeparateRegistries(t *testing.T) {
	// two services must be able to hold their own instrument sets
	a := NewAuth(prometheus.NewRegistry())
	b := NewAuth(prometheus.NewRegistry())

	a.RegistrationsTotal.Inc()
	if got := testutil.ToFloat64(b.RegistrationsTotal); got != 0 {
		t.Fatalf("registries must be independent, got %v", got)
	}
}
