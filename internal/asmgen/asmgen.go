// Package asmgen verifies checked-in avo output against its generator.
package asmgen

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// Check runs the generator in ./gen into a temporary directory and compares
// the result with the checked-in asm and stubs files of the current package.
// The first line of each file records the generator command line and is not
// compared. Check skips in short mode or when no go command is on PATH.
func Check(t testing.TB, asm, stubs, pkg string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping generator run in short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go command not available")
	}

	dir := t.TempDir()
	out := filepath.Join(dir, asm)
	stubsOut := filepath.Join(dir, stubs)
	cmd := exec.Command(goBin, "run", "./gen", "-out", out, "-stubs", stubsOut, "-pkg", pkg)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("generator failed: %v\n%s", err, output)
	}

	compare(t, asm, out)
	compare(t, stubs, stubsOut)
}

func compare(t testing.TB, checkedIn, generated string) {
	t.Helper()
	want, err := os.ReadFile(checkedIn)
	if err != nil {
		t.Fatalf("read %s: %v", checkedIn, err)
	}
	got, err := os.ReadFile(generated)
	if err != nil {
		t.Fatalf("read generated %s: %v", filepath.Base(generated), err)
	}
	want, got = dropHeader(want), dropHeader(got)
	if bytes.Equal(want, got) {
		return
	}
	wl := bytes.Split(want, []byte("\n"))
	gl := bytes.Split(got, []byte("\n"))
	for i := 0; i < len(wl) && i < len(gl); i++ {
		if !bytes.Equal(wl[i], gl[i]) {
			t.Fatalf("%s is stale at line %d:\n  checked in: %s\n  generated:  %s\nrun go generate", checkedIn, i+2, wl[i], gl[i])
		}
	}
	t.Fatalf("%s is stale: %d lines checked in, %d generated; run go generate", checkedIn, len(wl)+1, len(gl)+1)
}

func dropHeader(b []byte) []byte {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[i+1:]
	}
	return nil
}
