// Package bench runs the kernels over configured problem sizes, checks every
// result against an independent reference and records throughput.
package bench

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sanonone/kektorsimd/pkg/core/avx"
	"github.com/sanonone/kektorsimd/pkg/core/sgemm"
	"gopkg.in/yaml.v3"
)

// Environment overrides applied after the YAML file.
const (
	EnvRowsPerBlock = "KEKTOR_SIMD_ROWS_PER_BLOCK" // comma separated, e.g. "8,64,256"
	EnvIterations   = "KEKTOR_SIMD_ITERATIONS"
)

// Case is one matrix product out[N,M] = A[N,D]·B[D,M].
type Case struct {
	N int `yaml:"n"`
	D int `yaml:"d"`
	M int `yaml:"m"`
}

func (c Case) String() string {
	return fmt.Sprintf("N%d_D%d_M%d", c.N, c.D, c.M)
}

// QuantizeCase configures the quantisation round-trip check. Inputs are drawn
// from [-Range, Range] and mapped onto the full code range.
type QuantizeCase struct {
	Length int     `yaml:"length"`
	Range  float32 `yaml:"range"`
	Signed bool    `yaml:"signed"`
}

func (q QuantizeCase) String() string {
	return fmt.Sprintf("len=%d", q.Length)
}

// Config drives Run.
type Config struct {
	// Backend, when set, must match avx.Backend(); the run fails otherwise.
	// The backend itself is chosen at startup (see avx.EnvBackend).
	Backend     string `yaml:"backend"`
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`

	Iterations   int          `yaml:"iterations"`
	Seed         int64        `yaml:"seed"`
	RowsPerBlock []int        `yaml:"rows_per_block"`
	Cases        []Case       `yaml:"cases"`
	Quantize     QuantizeCase `yaml:"quantize"`
}

// DefaultConfig returns a configuration that exercises every kernel shape.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "info",
		Iterations:   3,
		Seed:         1,
		RowsPerBlock: []int{8, 64, sgemm.DefaultRowsPerBlock},
		Cases: []Case{
			{N: 1024, D: 12, M: 6}, // 4x3
			{N: 1024, D: 8, M: 4},  // 4x2
			{N: 2048, D: 9, M: 9},  // 3x3
			{N: 512, D: 3, M: 2},   // 3x2
			{N: 4096, D: 10, M: 3}, // 2x3
			{N: 4096, D: 10, M: 4}, // 2x2
		},
		Quantize: QuantizeCase{Length: 4096, Range: 4, Signed: true},
	}
}

// LoadConfig reads the YAML configuration file using strict parsing, on top
// of DefaultConfig. ${VAR} references in the file are expanded from the
// environment, then the KEKTOR_SIMD_* overrides are applied.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("could not read configuration file '%s': %w", path, err)
		}
		decoder := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("YAML syntax error in '%s': %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if raw := os.Getenv(EnvRowsPerBlock); raw != "" {
		var rows []int
		for _, f := range strings.Split(raw, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return fmt.Errorf("%s: %w", EnvRowsPerBlock, err)
			}
			rows = append(rows, v)
		}
		c.RowsPerBlock = rows
	}
	if raw := os.Getenv(EnvIterations); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIterations, err)
		}
		c.Iterations = v
	}
	return nil
}

// Validate checks every case and tile height before any kernel runs.
func (c Config) Validate() error {
	switch c.Backend {
	case "", avx.BackendAVX2, avx.BackendGeneric:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	for _, rows := range c.RowsPerBlock {
		if rows <= 0 || rows%avx.Lanes != 0 {
			return fmt.Errorf("rows_per_block %d: %w", rows, sgemm.ErrRowsPerBlock)
		}
	}
	for _, cs := range c.Cases {
		if err := sgemm.Validate(cs.N, cs.D, cs.M); err != nil {
			return fmt.Errorf("case %v: %w", cs, err)
		}
	}
	if q := c.Quantize; q.Length < 0 || q.Length > 0 && q.Range <= 0 {
		return fmt.Errorf("quantize: length %d with range %g", q.Length, q.Range)
	}
	return nil
}
