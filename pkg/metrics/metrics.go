package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global collectors, registered on the default registry by promauto.

var (
	// KernelRunsTotal counts kernel invocations made by the bench runner.
	KernelRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kektorsimd_kernel_runs_total",
			Help: "Total number of kernel invocations",
		},
		[]string{"kernel", "shape", "backend"},
	)

	// KernelDuration measures wall time per invocation.
	// Buckets span a single quantized block up to a large matrix product.
	KernelDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kektorsimd_kernel_duration_seconds",
			Help:    "Duration of kernel invocations in seconds",
			Buckets: []float64{1e-6, 1e-5, 1e-4, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"kernel"},
	)

	// KernelGFlops is the throughput of the last measured run.
	KernelGFlops = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kektorsimd_kernel_gflops",
			Help: "Measured throughput of the last run in GFLOP/s",
		},
		[]string{"kernel", "shape"},
	)

	// VerificationFailuresTotal counts results that disagreed with the reference.
	VerificationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kektorsimd_verification_failures_total",
			Help: "Total number of kernel results that failed verification",
		},
		[]string{"kernel"},
	)
)
