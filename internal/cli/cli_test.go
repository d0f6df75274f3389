package cli

import (
	"io"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"grid", "background", "palette", "recolor", "tidy", "swatch", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, sub := range []string{"list", "show", "convert"} {
		if cmd, _, err := root.Find([]string{"palette", sub}); err != nil || cmd.Name() != sub {
			t.Errorf("palette %s not registered", sub)
		}
	}
}

func TestStatsLine(t *testing.T) {
	fresh := statsLine(4, 16, false)
	if !strings.Contains(fresh, "4 rows") || !strings.Contains(fresh, "16 points") || !strings.Contains(fresh, iconFresh) {
		t.Errorf("statsLine = %q", fresh)
	}
	if !strings.Contains(statsLine(1, 1, true), iconCached) {
		t.Error("cached stats should say so")
	}
}
