package avx

import (
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

// Backend names reported by Backend.
const (
	BackendAVX2    = "avx2"
	BackendGeneric = "generic"
)

// EnvBackend forces a backend when set to "generic". Any other value (or no
// value) lets the CPU decide.
const EnvBackend = "KEKTOR_SIMD_BACKEND"

var (
	accelerated = detect()

	// Overridden by init in avx_amd64.go when accelerated is true.
	fmaImpl          = fmaGeneric
	broadcastMinImpl = broadcastMinGeneric
)

// detect requires both cpuid and the runtime's own feature bits to agree;
// the latter also confirm the OS saves YMM state.
func detect() bool {
	if strings.EqualFold(os.Getenv(EnvBackend), BackendGeneric) {
		return false
	}
	return asmAvailable &&
		cpuid.CPU.Has(cpuid.AVX) &&
		cpuid.CPU.Has(cpuid.AVX2) &&
		cpuid.CPU.Has(cpuid.FMA3) &&
		cpu.X86.HasAVX2 &&
		cpu.X86.HasFMA
}

// LogBackend reports the backend decision and the CPU features behind it on
// logger. It is meant to be called once the program has set up its handler.
func LogBackend(logger *slog.Logger) {
	logger.Info("kektorsimd compute engine initialised",
		"backend", Backend(),
		"cpu", cpuid.CPU.BrandName,
		"avx2", cpuid.CPU.Has(cpuid.AVX2),
		"fma3", cpuid.CPU.Has(cpuid.FMA3),
		"forced", strings.EqualFold(os.Getenv(EnvBackend), BackendGeneric))
}

// Accelerated reports whether the assembly kernels are in use. Packages with
// their own assembly (quantize, sgemm) follow the same decision.
func Accelerated() bool {
	return accelerated
}

// Backend returns BackendAVX2 or BackendGeneric.
func Backend() string {
	if accelerated {
		return BackendAVX2
	}
	return BackendGeneric
}

//go:generate go run ./gen -out avx_amd64.s -stubs stubs_amd64.go -pkg avx
