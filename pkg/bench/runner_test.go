package bench

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sanonone/kektorsimd/pkg/core/avx"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Iterations = 1
	cfg.RowsPerBlock = []int{8, 64}
	cfg.Cases = []Case{
		{N: 64, D: 12, M: 6},
		{N: 136, D: 10, M: 4},
		{N: 24, D: 9, M: 9},
	}
	cfg.Quantize = QuantizeCase{Length: 200, Range: 3}
	return cfg
}

func TestRun(t *testing.T) {
	for _, signed := range []bool{true, false} {
		cfg := smallConfig()
		cfg.Quantize.Signed = signed

		report, err := Run(context.Background(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		if want := len(cfg.Cases)*(1+len(cfg.RowsPerBlock)) + 1; len(report.Results) != want {
			t.Fatalf("got %d results, want %d", len(report.Results), want)
		}
		if n := report.Failures(); n != 0 {
			t.Fatalf("%d verification failures: %+v", n, report.Results)
		}
		if report.Backend != avx.Backend() {
			t.Errorf("backend %q, want %q", report.Backend, avx.Backend())
		}

		last := report.Results[len(report.Results)-1]
		if last.Kernel != KernelQuantize || last.MaxRelError > 0.5 {
			t.Errorf("quantize result %+v", last)
		}
		if last.Case != "len=200" {
			t.Errorf("quantize case %q, want len=200", last.Case)
		}
		if first := report.Results[0]; first.Case != "N64_D12_M6" {
			t.Errorf("sgemm case %q, want N64_D12_M6", first.Case)
		}
	}
}

func TestRunShapes(t *testing.T) {
	report, err := Run(context.Background(), smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"4x3", "4x3", "4x3", "2x2", "2x2", "2x2", "3x3", "3x3", "3x3"}
	for i, s := range want {
		if got := report.Results[i].Shape; got != s {
			t.Errorf("result %d shape %s, want %s", i, got, s)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := Run(ctx, smallConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if len(report.Results) != 0 {
		t.Errorf("got %d results after cancellation", len(report.Results))
	}
}

func TestRunBackendMismatch(t *testing.T) {
	cfg := smallConfig()
	cfg.Backend = avx.BackendAVX2
	if avx.Backend() == avx.BackendAVX2 {
		cfg.Backend = avx.BackendGeneric
	}
	if _, err := Run(context.Background(), cfg); !errors.Is(err, ErrBackendMismatch) {
		t.Fatalf("got %v, want ErrBackendMismatch", err)
	}
}

func TestReportWriteText(t *testing.T) {
	report := Report{
		Backend: "generic",
		CPU:     "test cpu",
		Results: []Result{
			{Kernel: KernelSgemm, Case: Case{N: 8, D: 2, M: 2}.String(), Shape: "2x2", RowsPerBlock: 8, OK: true},
			{Kernel: KernelQuantize, Case: QuantizeCase{Length: 32}.String(), Shape: "signed=true", OK: false},
		},
	}
	var buf bytes.Buffer
	if err := report.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"backend: generic", "N8_D2_M2", "len=32", "FAIL", "2 results, 1 failures"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
