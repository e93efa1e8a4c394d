package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruarcs/wc/internal/source"
)

func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("NO_COLOR", "1")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		// cobra falls back to os.Args on a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzePrintsSummary(t *testing.T) {
	dir := setupHome(t)
	path := writeFile(t, dir, "notes.txt", "aa bb\ncc\n")

	out, err := execute(t, path)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "words: 3\nlines: 2\naverage letters per word: 2.0\nmost common letter: a,b,c\n"
	if out != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", out, want)
	}
}

func TestAnalyzeEmptyFile(t *testing.T) {
	dir := setupHome(t)
	path := writeFile(t, dir, "empty.txt", "")

	out, err := execute(t, path)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "words: 0\nlines: 0\naverage letters per word: 0.0\nmost common letter: \n"
	if out != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", out, want)
	}
}

func TestAnalyzeArgumentErrors(t *testing.T) {
	dir := setupHome(t)
	path := writeFile(t, dir, "a.txt", "a\n")

	cases := []struct {
		name string
		args []string
		want error
	}{
		{name: "no args", args: nil, want: source.ErrUsage},
		{name: "two args", args: []string{path, path}, want: source.ErrUsage},
		{name: "missing", args: []string{filepath.Join(dir, "missing.txt")}, want: source.ErrNotFound},
		{name: "directory", args: []string{dir}, want: source.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.args...)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if out != "" {
				t.Fatalf("expected no output, got %q", out)
			}
		})
	}
}

func TestAnalyzeConfigAndFlagOverride(t *testing.T) {
	dir := setupHome(t)
	path := writeFile(t, dir, "notes.txt", "hello\n")
	cfgDir := filepath.Join(dir, "config", "mywc")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, cfgDir, "config.toml", "[analyze]\nletters = true\n")

	out, err := execute(t, path)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Letter") || !strings.Contains(out, "40.00%") {
		t.Fatalf("expected letter table from config:\n%s", out)
	}

	out, err = execute(t, "--letters=false", path)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.Contains(out, "Letter") {
		t.Fatalf("expected flag to override config:\n%s", out)
	}
}

func TestPathErrorsWinOverBrokenConfig(t *testing.T) {
	dir := setupHome(t)
	cfgDir := filepath.Join(dir, "config", "mywc")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, cfgDir, "config.toml", "[analyze\nletters = yes\n")
	missing := filepath.Join(dir, "missing.txt")

	if _, err := execute(t, missing); !errors.Is(err, source.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if _, err := execute(t, dir); !errors.Is(err, source.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error, got %v", err)
	}
	if _, err := execute(t, "watch", missing); !errors.Is(err, source.ErrNotFound) {
		t.Fatalf("expected not-found error from watch, got %v", err)
	}

	path := writeFile(t, dir, "a.txt", "a\n")
	if _, err := execute(t, path); err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Fatalf("expected config error for a valid file, got %v", err)
	}
}

func TestAnalyzeRejectsBadMaxLineBytes(t *testing.T) {
	dir := setupHome(t)
	path := writeFile(t, dir, "a.txt", "a\n")
	if _, err := execute(t, "--max-line-bytes", "0", path); err == nil {
		t.Fatalf("expected error for zero max-line-bytes")
	}
}

func TestAnalyzeLineTooLong(t *testing.T) {
	dir := setupHome(t)
	path := writeFile(t, dir, "long.txt", strings.Repeat("a", 64)+"\n")
	if _, err := execute(t, "--max-line-bytes", "16", path); err == nil {
		t.Fatalf("expected error for oversized line")
	}
}

func TestRecordHistoryAndPrune(t *testing.T) {
	dir := setupHome(t)
	path := writeFile(t, dir, "notes.txt", "aa bb\ncc\n")

	if _, err := execute(t, "--record", path); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "mywc", "history.db")); err != nil {
		t.Fatalf("expected history db: %v", err)
	}

	out, err := execute(t, "history", "--plain")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "notes.txt") || !strings.Contains(out, "a,b,c") {
		t.Fatalf("expected recorded run in history:\n%s", out)
	}

	out, err = execute(t, "history", "--plain", "--path", filepath.Join(dir, "other.txt"))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if out != "No runs found.\n" {
		t.Fatalf("expected empty history for other path, got:\n%s", out)
	}

	out, err = execute(t, "history", "prune", "--before", "2999-01-01")
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if out != "Deleted 1 run(s)\n" {
		t.Fatalf("unexpected prune output: %q", out)
	}
}

func TestPruneRequiresBefore(t *testing.T) {
	setupHome(t)
	if _, err := execute(t, "history", "prune"); err == nil {
		t.Fatalf("expected error without --before")
	}
	if _, err := execute(t, "history", "prune", "--before", "yesterday"); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestHistoryRejectsBadSince(t *testing.T) {
	setupHome(t)
	if _, err := execute(t, "history", "--plain", "--since", "2024/01/01"); err == nil {
		t.Fatalf("expected error for invalid --since")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	tmpl := defaultConfigTemplate()
	if !strings.Contains(tmpl, "[analyze]") || !strings.Contains(tmpl, "[history]") {
		t.Fatalf("template missing sections:\n%s", tmpl)
	}
}
