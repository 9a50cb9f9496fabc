package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildSettings(t *testing.T) {
	savedVersion, savedCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = savedVersion, savedCommit })

	Version, Commit = "", ""
	fromBuildSettings([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-10-16T09:30:00Z"},
	})

	if Commit != "0123456-dirty" {
		t.Errorf("Commit = %q, want 0123456-dirty", Commit)
	}
	if Version != "dev-20261016" {
		t.Errorf("Version = %q, want dev-20261016", Version)
	}
}

func TestFromBuildSettings_KeepsLinkerValues(t *testing.T) {
	savedVersion, savedCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = savedVersion, savedCommit })

	Version, Commit = "v1.0.0", "abc1234"
	fromBuildSettings([]debug.BuildSetting{{Key: "vcs.revision", Value: "fffffffffff"}})

	if Version != "v1.0.0" || Commit != "abc1234" {
		t.Errorf("got %s, want values set at link time kept", Full())
	}
	if !strings.Contains(Full(), "(commit: abc1234)") {
		t.Errorf("Full() = %q", Full())
	}
}
