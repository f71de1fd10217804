package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "petchef_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// DatabaseQueryErrors counts failed statements by operation and table.
	DatabaseQueryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petchef_database_query_errors_total",
		Help: "Total number of failed database statements",
	}, []string{"operation", "table"})

	// CacheLookups counts cache-aside lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petchef_cache_lookups_total",
		Help: "Cache-aside lookups by result",
	}, []string{"result"})

	// SessionsIssued counts issued sessions.
	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petchef_sessions_issued_total",
		Help: "Total number of sessions issued",
	})

	// RecipesCooked counts successful cook-count increments.
	RecipesCooked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petchef_recipes_cooked_total",
		Help: "Total number of times any recipe was marked as cooked",
	})
)

const queryStartKey = "petchef:query_start"

// QueryMetrics is a GORM plugin that feeds DatabaseQueryLatency and
// DatabaseQueryErrors from the statement callbacks.
type QueryMetrics struct{}

// Name implements gorm.Plugin.
func (QueryMetrics) Name() string { return "petchef:query_metrics" }

// Initialize implements gorm.Plugin.
func (QueryMetrics) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		op := h.op
		if err := h.before("petchef:metrics_before_"+op, startQueryTimer); err != nil {
			return err
		}
		if err := h.after("petchef:metrics_after_"+op, func(tx *gorm.DB) { observeQuery(tx, op) }); err != nil {
			return err
		}
	}
	return nil
}

func startQueryTimer(tx *gorm.DB) {
	tx.InstanceSet(queryStartKey, time.Now())
}

func observeQuery(tx *gorm.DB, op string) {
	v, ok := tx.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}

	table := tx.Statement.Table
	if table == "" {
		table = "unknown"
	}
	DatabaseQueryLatency.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		DatabaseQueryErrors.WithLabelValues(op, table).Inc()
	}
}
