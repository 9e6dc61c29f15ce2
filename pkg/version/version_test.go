package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	if Version != "dev" {
		t.Errorf("default Version = %q, want %q", Version, "dev")
	}
	if GitCommit != "unknown" {
		t.Errorf("default GitCommit = %q, want %q", GitCommit, "unknown")
	}
}

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "dev (unknown) built unknown") {
		t.Errorf("Info() = %q", info)
	}
	if !strings.HasSuffix(info, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Info() = %q, want platform suffix", info)
	}
}
