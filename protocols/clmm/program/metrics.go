package program

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of the program.
type Metrics struct {
	instructions        *prometheus.CounterVec
	instructionDuration *prometheus.HistogramVec
	ticksCrossed        prometheus.Histogram
	protocolFees        *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clmm",
			Name:      "instructions_total",
			Help:      "Executed instructions by result kind.",
		}, []string{"instruction", "result"}),
		instructionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clmm",
			Name:      "instruction_duration_seconds",
			Help:      "Time spent executing an instruction, storage included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"instruction"}),
		ticksCrossed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clmm",
			Name:      "ticks_crossed",
			Help:      "Initialized ticks crossed by one swap leg.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		protocolFees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clmm",
			Name:      "protocol_fees_collected_total",
			Help:      "Protocol fees transferred out of pool vaults.",
		}, []string{"side"}),
	}
	reg.MustRegister(m.instructions, m.instructionDuration, m.ticksCrossed, m.protocolFees)
	return m
}

func (m *Metrics) observeResult(instruction string, err error) {
	result := "ok"
	if err != nil {
		result = Classify(err).String()
	}
	m.instructions.WithLabelValues(instruction, result).Inc()
}
