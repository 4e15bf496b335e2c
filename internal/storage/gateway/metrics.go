package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fluxo",
			Name:      "db_statements_total",
			Help:      "Total number of statements executed by the persistence gateway",
		},
		[]string{"op", "status"},
	)
	statementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fluxo",
			Name:      "db_statement_duration_seconds",
			Help:      "Duration of persistence gateway statements in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	statementsTotal.WithLabelValues(op, status).Inc()
	statementDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
