package version

import (
	"strings"
	"testing"
	"time"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestResolveDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, BuildTime = "dev", "", ""

	info := Resolve()
	if info.Version != "dev" {
		t.Errorf("expected 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev must not be a release")
	}
}

func TestResolveWithLdflags(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, BuildTime = "1.2.0", "abc1234", "2026-01-15T10:30:00Z"

	info := Resolve()
	if !info.IsRelease {
		t.Error("1.2.0 must be a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected 'abc1234', got %q", info.GitCommit)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("expected build year 2026, got %d", info.BuildDate.Year())
	}
}

func TestShort(t *testing.T) {
	i := &Info{Version: "1.2.0", GitCommit: "abc1234"}
	if got := i.Short(); got != "1.2.0-abc1234" {
		t.Errorf("expected '1.2.0-abc1234', got %q", got)
	}

	i.IsDirty = true
	if got := i.Short(); got != "1.2.0-abc1234-dirty" {
		t.Errorf("expected dirty suffix, got %q", got)
	}

	bare := &Info{Version: "dev"}
	if got := bare.Short(); got != "dev" {
		t.Errorf("expected 'dev', got %q", got)
	}
}

func TestString(t *testing.T) {
	built, _ := time.Parse(time.RFC3339, "2026-01-15T10:30:00Z")
	i := &Info{Version: "1.2.0", GitCommit: "abc1234", BuildDate: built}
	got := i.String()
	if !strings.Contains(got, "1.2.0-abc1234") || !strings.Contains(got, "built") {
		t.Errorf("unexpected full version %q", got)
	}
}
