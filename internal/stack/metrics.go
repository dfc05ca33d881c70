package stack

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics содержит Prometheus-метрики стека
type Metrics struct {
	lookups             *prometheus.CounterVec
	reconciled          prometheus.Counter
	reconcileSkipped    prometheus.Counter
	verticalColumns     prometheus.Counter
	materializeDuration prometheus.Histogram
}

// NewMetrics создаёт метрики и регистрирует их в дефолтном регистре
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "biome_lookups_total",
			Help:      "Количество запросов биома по индексу ответственного слоя.",
		}, []string{"layer"}),
		reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_reconciliations_total",
			Help:      "Выполненные проходы согласования вертикальных биомов.",
		}),
		reconcileSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_reconciliations_skipped_total",
			Help:      "Вызовы согласования, пропущенные из-за уже идущего прохода по тому же чанку.",
		}),
		verticalColumns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vertical_columns_total",
			Help:      "Колонки, в которых вертикальный биом перенесён на все слои.",
		}),
		materializeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_materialize_duration_seconds",
			Help:      "Длительность материализации чанка на всех слоях.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}

	prometheus.MustRegister(m.lookups, m.reconciled, m.reconcileSkipped, m.verticalColumns, m.materializeDuration)
	return m
}

func (m *Metrics) observeLookup(index int) {
	m.lookups.WithLabelValues(strconv.Itoa(index)).Inc()
}
