package bench

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Result is one kernel configuration, timed over Config.Iterations runs.
type Result struct {
	Kernel string
	// Case labels the input: "N64_D12_M6" for matrix products, "len=4096"
	// for quantize.
	Case         string
	Shape        string
	RowsPerBlock int
	Best         time.Duration
	GFlops       float64
	// MaxRelError is the worst error relative to the bound the check uses:
	// Σ|a·b| for matrix products, the quantisation step for quantize.
	MaxRelError float64
	OK          bool
}

// Report collects the results of one Run.
type Report struct {
	Backend string
	CPU     string
	Results []Result
}

// Failures returns the number of results that failed verification.
func (r Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK {
			n++
		}
	}
	return n
}

// WriteText prints the report as an aligned table.
func (r Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "backend: %s\ncpu:     %s\n\n", r.Backend, r.CPU); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KERNEL\tCASE\tSHAPE\tROWS\tBEST\tGFLOPS\tMAX_REL_ERR\tSTATUS")
	for _, res := range r.Results {
		status := "ok"
		if !res.OK {
			status = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%.2f\t%.3g\t%s\n",
			res.Kernel, res.Case, res.Shape, res.RowsPerBlock, res.Best, res.GFlops, res.MaxRelError, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d results, %d failures\n", len(r.Results), r.Failures())
	return err
}
