package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/providers/nhl/nhltest"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "goalie-service dev") {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestBoardCommand(t *testing.T) {
	srv := nhltest.NewServer()
	defer srv.Close()

	srv.Set(nhltest.SchedulePath(), nhltest.ScheduleJSON(nhltest.Game{GamePk: 2023020001, Home: "Boston Bruins", Away: "Chicago Blackhawks"}))
	srv.Set(nhltest.BoxscorePath(2023020001), nhltest.BoxscoreJSON(
		"Boston Bruins", []nhltest.Player{{ID: 8476999, Name: "Linus Ullmark", Position: "G"}, {ID: 8473419, Name: "Brad Marchand", Position: "L"}},
		"Chicago Blackhawks", []nhltest.Player{{ID: 8475852, Name: "Petr Mrazek", Position: "G"}},
	))
	srv.Set(nhltest.GameLogPath(8476999), nhltest.GameLogJSON(2, 0, 1))
	srv.Set(nhltest.GameLogPath(8475852), nhltest.GameLogJSON(3))
	srv.Set(nhltest.FeedPath(2023020001), nhltest.FeedJSON(2023020001,
		nhltest.Goal("Boston Bruins", "Brad Marchand", "Petr Mrazek", 5, 5),
		nhltest.Goal("Boston Bruins", "David Pastrnak", "Petr Mrazek", 5, -5),
		nhltest.Goal("Boston Bruins", "Charlie Coyle", "Petr Mrazek", -5, 5),
	))

	os.Clearenv()
	t.Setenv("NHL_BASE_URL", srv.URL)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"board"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	table := out.String()
	for _, want := range []string{"Linus Ullmark", "Petr Mrazek", "right side", "1 / 2", "N/A", "0 / 0"} {
		if !strings.Contains(table, want) {
			t.Errorf("expected %q in board:\n%s", want, table)
		}
	}
}

func TestBoardCommand_UpstreamDown(t *testing.T) {
	srv := nhltest.NewServer()
	defer srv.Close()
	srv.Fail(nhltest.SchedulePath(), 503)

	os.Clearenv()
	t.Setenv("NHL_BASE_URL", srv.URL)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"board"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out.String(), "Favored Side") {
		t.Errorf("expected an empty table, got:\n%s", out.String())
	}
}
