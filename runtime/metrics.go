package runtime

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/blockberries/pallet/types"
)

// Metrics holds the runtime's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	blocks      *prometheus.CounterVec
	extrinsics  *prometheus.CounterVec
	blockNumber prometheus.Gauge
}

// NewMetrics creates the runtime collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pallet_blocks_total",
			Help: "Blocks handed to the runtime by outcome.",
		}, []string{"outcome"}),
		extrinsics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pallet_extrinsics_total",
			Help: "Extrinsics applied by pallet and outcome.",
		}, []string{"pallet", "outcome"}),
		blockNumber: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pallet_block_number",
			Help: "Number of the last executed block.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.blocks, m.extrinsics, m.blockNumber)
	}
	return m
}

func (m *Metrics) blockRejected() {
	if m == nil {
		return
	}
	m.blocks.WithLabelValues("rejected").Inc()
}

func (m *Metrics) blockExecuted(number types.BlockNumber) {
	if m == nil {
		return
	}
	m.blocks.WithLabelValues("executed").Inc()
	m.blockNumber.Set(float64(number))
}

func (m *Metrics) extrinsic(pallet string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.extrinsics.WithLabelValues(pallet, outcome).Inc()
}
