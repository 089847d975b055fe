package compiler_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"herocc/pkg/compiler"
)

// TestCompile_ExamplePrograms feeds every shipped example program through
// the whole pipeline.
func TestCompile_ExamplePrograms(t *testing.T) {
	dir := filepath.Join("..", "..", "examples")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}

	ran := 0
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".hero") {
			continue
		}
		ran++
		t.Run(entry.Name(), func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				t.Fatalf("reading example: %v", err)
			}
			res, err := compiler.Compile(string(data), compiler.DefaultOptions())
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			if !strings.Contains(res.CSource, "int main() {") {
				t.Error("Generated C missing main")
			}
			if !strings.Contains(res.CSource, `printf("Thanos snapped his fingers...\n");`) {
				t.Error("Every example should end with thanos")
			}
		})
	}
	if ran == 0 {
		t.Fatal("no example programs found")
	}
}
