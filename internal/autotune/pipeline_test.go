package autotune

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mwiater/autotune/internal/appconfig"
)

// fakeCompiler writes a shell script that acts like a compiler: it emits an
// executable at the -o path that prints a fixed timing.
const fakeCompiler = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then
    out="$2"
    shift
  fi
  shift
done
printf '#!/bin/sh\necho 0.5\n' > "$out"
chmod +x "$out"
`

func defaultWorkDirConfig(t *testing.T, source string) appconfig.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	if err := os.WriteFile("t.c", []byte(source), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	cfg := appconfig.Default()
	cfg.File = "t.c"
	cfg.WorkDir = "."
	cfg.NoColor = true
	return cfg
}

func TestRunLaunchesArtifactsFromRelativeWorkDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	cc := filepath.Join(t.TempDir(), "fakecc")
	if err := os.WriteFile(cc, []byte(fakeCompiler), 0o755); err != nil {
		t.Fatalf("write fake compiler: %v", err)
	}
	cfg := defaultWorkDirConfig(t, "int main(void){return 0;}\n")
	cfg.Compiler = cc

	deps := DefaultDependencies()
	var out bytes.Buffer
	deps.Out = &out

	rep, err := Run(context.Background(), cfg, deps)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rep.Grid.Table(); len(got) != 1 || got["32,O0"] != 0.5 {
		t.Fatalf("result table = %v, want map[32,O0:0.5]", got)
	}
	if _, err := os.Stat(appconfig.DefaultOutputPath); err != nil {
		t.Fatalf("result file in working directory: %v", err)
	}
}

func TestRunWithGCC(t *testing.T) {
	if _, err := exec.LookPath("gcc"); err != nil {
		t.Skip("gcc not found on PATH")
	}
	cfg := defaultWorkDirConfig(t, "#include <stdio.h>\nint main(void){puts(\"0.25\");return 0;}\n")
	cfg.Blk = []string{"8", "16"}
	cfg.Opt = []string{"O0", "O1"}
	cfg.Repeat = 2

	deps := DefaultDependencies()
	deps.Out = &bytes.Buffer{}

	rep, err := Run(context.Background(), cfg, deps)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Join(rep.Grid.Keys(), " "); got != "8,O0 8,O1 16,O0 16,O1" {
		t.Fatalf("keys = %s", got)
	}
	for key, mean := range rep.Grid.Table() {
		if mean != 0.25 {
			t.Fatalf("%s mean = %v, want 0.25", key, mean)
		}
	}
	if rep.Grid.Best.Key() != "8,O0" {
		t.Fatalf("best = %s, want 8,O0 (grid-order tie-break)", rep.Grid.Best.Key())
	}
}
