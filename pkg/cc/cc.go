// Package cc drives an external C compiler over generated source text.
package cc

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// DefaultCompilers is the probe order used when the driver is not given one.
// cl joins the list on Windows.
func DefaultCompilers() []string {
	candidates := []string{"gcc", "clang", "cc"}
	if runtime.GOOS == "windows" {
		candidates = append(candidates, "cl")
	}
	return candidates
}

// BuildError is a backend compiler failure with its diagnostics intact.
type BuildError struct {
	Compiler string
	Output   string // combined stdout and stderr of the compiler
	Err      error
}

func (e *BuildError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Compiler, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Compiler, e.Err, strings.TrimRight(e.Output, "\n"))
}

func (e *BuildError) Unwrap() error { return e.Err }

// Driver turns generated C into a native executable by invoking the first
// available backend compiler. The zero value is usable.
type Driver struct {
	Compilers []string  // probe order; empty means DefaultCompilers()
	Verbose   bool      // chat about each step on Stderr
	KeepC     bool      // leave the intermediate .c file behind
	Stderr    io.Writer // verbose notes go here; nil means os.Stderr
	TempDir   string    // where the intermediate .c goes; "" means os.TempDir()
}

// FindCompiler probes the candidate list in order and returns the first
// compiler present on PATH.
func (d *Driver) FindCompiler() (string, error) {
	candidates := d.Compilers
	if len(candidates) == 0 {
		candidates = DefaultCompilers()
	}
	for _, name := range candidates {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no C compiler found on PATH (tried %s)", strings.Join(candidates, ", "))
}

// Build writes csource to a uniquely named temp file, compiles it and leaves
// the executable at outputPath. On success the executable path comes back; on
// compiler failure the error is a *BuildError carrying the diagnostics
// verbatim.
func (d *Driver) Build(csource, outputPath string) (string, error) {
	compiler, err := d.FindCompiler()
	if err != nil {
		return "", err
	}

	dir := d.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	cPath := filepath.Join(dir, "herocc-"+uuid.NewString()+".c")
	if err := os.WriteFile(cPath, []byte(csource), 0644); err != nil {
		return "", fmt.Errorf("write intermediate C: %w", err)
	}
	if !d.KeepC {
		defer os.Remove(cPath)
	} else {
		d.note("intermediate C saved to %s", cPath)
	}

	args := buildArgs(compiler, cPath, outputPath)
	d.note("running %s %s", compiler, strings.Join(args, " "))

	out, err := exec.Command(compiler, args...).CombinedOutput()
	if err != nil {
		return "", &BuildError{Compiler: compiler, Output: string(out), Err: err}
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(outputPath, 0755); err != nil {
			return "", fmt.Errorf("mark %s executable: %w", outputPath, err)
		}
	}
	return outputPath, nil
}

// buildArgs shapes the argv for one compiler family. cl does not understand
// -o; everything else does.
func buildArgs(compiler, cPath, outputPath string) []string {
	name := strings.TrimSuffix(filepath.Base(compiler), ".exe")
	if name == "cl" {
		return []string{cPath, "/Fe:" + outputPath}
	}
	return []string{cPath, "-o", outputPath}
}

func (d *Driver) note(format string, args ...any) {
	if !d.Verbose {
		return
	}
	w := d.Stderr
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format+"\n", args...)
}
