package cmd

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func resetFlags(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	out = &buf
	identify = false
	t.Cleanup(func() { out = nil })
	return &buf
}

func TestIdentifyFlagPrintsBannerAndExits(t *testing.T) {
	buf := resetFlags(t)
	identify = true
	if err := run(rootCmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "identify_banner", buf.String())
}

func TestRunPrintsBannerThenScriptOutput(t *testing.T) {
	buf := resetFlags(t)
	if err := run(rootCmd, []string{"testdata/hello.as"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "run_banner_and_output", buf.String())
}

func TestRunMissingFileIsFatal(t *testing.T) {
	resetFlags(t)
	if err := run(rootCmd, []string{"testdata/does-not-exist.as"}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestRunWithNoArgsAndNoIdentifyIsUsageError(t *testing.T) {
	resetFlags(t)
	if err := run(rootCmd, nil); err == nil {
		t.Fatal("expected a usage error")
	}
}
