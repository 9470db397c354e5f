package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RecordMetrics counts record store operations by outcome
type RecordMetrics struct {
	operations *prometheus.CounterVec
}

// NewRecordMetrics registers the record counters on reg
func NewRecordMetrics(reg prometheus.Registerer) *RecordMetrics {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timesheet_record_operations_total",
			Help: "Time record operations by type and result",
		},
		[]string{"operation", "result"},
	)
	reg.MustRegister(operations)

	return &RecordMetrics{operations: operations}
}

func (m *RecordMetrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(operation, result).Inc()
}
