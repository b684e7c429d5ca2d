package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/klauspost/cpuid/v2"
	"github.com/sanonone/kektorsimd/pkg/core/avx"
	"github.com/sanonone/kektorsimd/pkg/core/quantize"
	"github.com/sanonone/kektorsimd/pkg/core/sgemm"
	"github.com/sanonone/kektorsimd/pkg/metrics"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/gonum"
)

// Kernel labels used in results and metrics.
const (
	KernelSgemm        = "sgemm"
	KernelSgemmDefault = "sgemm_default"
	KernelQuantize     = "quantize"
)

// relTolerance bounds |got-want| relative to the sum of absolute products.
const relTolerance = 1e-5

// ErrBackendMismatch is returned when Config.Backend names a backend other
// than the one selected at startup.
var ErrBackendMismatch = errors.New("bench: backend mismatch")

var blasImpl = gonum.Implementation{}

// Run executes every configured case and the quantisation check. It stops
// between runs when ctx is cancelled and returns the partial report along
// with the context error. Verification failures are reported in the Report,
// not as an error.
func Run(ctx context.Context, cfg Config) (Report, error) {
	report := Report{Backend: avx.Backend(), CPU: cpuid.CPU.BrandName}
	if err := cfg.Validate(); err != nil {
		return report, err
	}
	if cfg.Backend != "" && cfg.Backend != report.Backend {
		return report, fmt.Errorf("%w: want %s, running %s (set %s=%s to force the portable path)",
			ErrBackendMismatch, cfg.Backend, report.Backend, avx.EnvBackend, avx.BackendGeneric)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, c := range cfg.Cases {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		results, err := runCase(ctx, cfg, c, rng)
		report.Results = append(report.Results, results...)
		if err != nil {
			return report, err
		}
	}

	if cfg.Quantize.Length > 0 {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Results = append(report.Results, runQuantize(cfg, rng))
	}
	return report, nil
}

func runCase(ctx context.Context, cfg Config, c Case, rng *rand.Rand) ([]Result, error) {
	shape, err := sgemm.SelectShape(c.D, c.M)
	if err != nil {
		return nil, err
	}
	a := randomAligned(rng, c.N*c.D)
	b := randomAligned(rng, c.D*c.M)
	want, mag := reference(a, b, c)

	base := avx.MakeFloat32s(c.N * c.M)
	res := measure(KernelSgemmDefault, c.String(), shape.String(), cfg.Iterations, 2*float64(c.N)*float64(c.D)*float64(c.M), func() {
		sgemm.NarrowPaddedDefault(a, b, c.N, c.D, c.M, base)
	})
	res.RowsPerBlock = sgemm.DefaultRowsPerBlock
	res.MaxRelError, res.OK = compare(base, want, mag)
	record(res)
	results := []Result{res}

	out := avx.MakeFloat32s(c.N * c.M)
	for _, rows := range cfg.RowsPerBlock {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := measure(KernelSgemm, c.String(), shape.String(), cfg.Iterations, 2*float64(c.N)*float64(c.D)*float64(c.M), func() {
			sgemm.NarrowPadded(shape, a, b, c.N, c.D, c.M, out, sgemm.WithRowsPerBlock(rows))
		})
		res.RowsPerBlock = rows
		res.MaxRelError, res.OK = compare(out, want, mag)
		// Tiling must not change a single bit.
		for i := range out {
			if out[i] != base[i] {
				res.OK = false
				break
			}
		}
		record(res)
		results = append(results, res)
	}
	return results, nil
}

func runQuantize(cfg Config, rng *rand.Rand) Result {
	q := cfg.Quantize
	p := quantize.Uniform(127/q.Range, 0)
	if !q.Signed {
		p = quantize.Uniform(255/(2*q.Range), 127.5)
	}

	src := make([]float32, q.Length)
	for i := range src {
		src[i] = (rng.Float32()*2 - 1) * q.Range
	}
	codes := make([]byte, q.Length)
	back := make([]float32, q.Length)

	res := measure(KernelQuantize, q.String(), fmt.Sprintf("signed=%t", q.Signed), cfg.Iterations, 2*float64(q.Length), func() {
		quantize.QuantizeVector(codes, src, p, q.Signed)
	})
	quantize.Dequantize(back, codes, p, q.Signed)

	step := float64(1 / p.Scales[0])
	res.OK = true
	for i := range src {
		e := math.Abs(float64(back[i]-src[i])) / step
		res.MaxRelError = max(res.MaxRelError, e)
		if e > 1 {
			res.OK = false
		}
	}
	record(res)
	return res
}

func measure(kernel, label, shape string, iterations int, flops float64, fn func()) Result {
	res := Result{Kernel: kernel, Case: label, Shape: shape, Best: time.Duration(math.MaxInt64)}
	hist := metrics.KernelDuration.WithLabelValues(kernel)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		fn()
		elapsed := time.Since(start)
		hist.Observe(elapsed.Seconds())
		res.Best = min(res.Best, elapsed)
	}
	if res.Best > 0 {
		res.GFlops = flops / res.Best.Seconds() / 1e9
	}
	metrics.KernelRunsTotal.WithLabelValues(kernel, shape, avx.Backend()).Add(float64(iterations))
	return res
}

func record(res Result) {
	metrics.KernelGFlops.WithLabelValues(res.Kernel, res.Shape).Set(res.GFlops)
	if !res.OK {
		metrics.VerificationFailuresTotal.WithLabelValues(res.Kernel).Inc()
		slog.Error("verification failed",
			"kernel", res.Kernel, "case", res.Case, "shape", res.Shape,
			"rows_per_block", res.RowsPerBlock, "max_rel_error", res.MaxRelError)
		return
	}
	slog.Info("kernel verified",
		"kernel", res.Kernel, "case", res.Case, "shape", res.Shape,
		"rows_per_block", res.RowsPerBlock, "best", res.Best, "gflops", res.GFlops)
}

// reference computes A·B with gonum, and Σ|A|·|B| for the error bound.
// Column-major out is row-major outᵀ = Bᵀ·Aᵀ.
func reference(a, b []float32, c Case) (want, mag []float32) {
	want = make([]float32, c.N*c.M)
	blasImpl.Sgemm(blas.NoTrans, blas.NoTrans, c.M, c.N, c.D, 1, b, c.D, a, c.N, 0, want, c.N)

	absA, absB := absCopy(a[:c.N*c.D]), absCopy(b[:c.D*c.M])
	mag = make([]float32, c.N*c.M)
	blasImpl.Sgemm(blas.NoTrans, blas.NoTrans, c.M, c.N, c.D, 1, absB, c.D, absA, c.N, 0, mag, c.N)
	return want, mag
}

func compare(got, want, mag []float32) (maxRel float64, ok bool) {
	ok = true
	for i := range want {
		diff := math.Abs(float64(got[i] - want[i]))
		bound := float64(mag[i]) + 1e-6
		maxRel = max(maxRel, diff/bound)
		if diff > relTolerance*bound {
			ok = false
		}
	}
	return maxRel, ok
}

func absCopy(s []float32) []float32 {
	out := make([]float32, len(s))
	for i, v := range s {
		out[i] = float32(math.Abs(float64(v)))
	}
	return out
}

func randomAligned(rng *rand.Rand, n int) []float32 {
	s := avx.MakeFloat32s(n)
	for i := range s {
		s[i] = rng.Float32()*2 - 1
	}
	return s
}
