// Package main provides the CLI entrypoint for mywc.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ruarcs/wc/internal/analyzer"
	"github.com/ruarcs/wc/internal/config"
	"github.com/ruarcs/wc/internal/historyui"
	"github.com/ruarcs/wc/internal/model"
	"github.com/ruarcs/wc/internal/source"
	"github.com/ruarcs/wc/internal/stats"
	"github.com/ruarcs/wc/internal/store"
	"github.com/ruarcs/wc/internal/watch"
)

const (
	defaultMaxLineBytes = analyzer.DefaultMaxLineBytes
	defaultHistoryLast  = 0
	dateLayout          = "2006-01-02"
)

var (
	analyzeLetters      bool
	analyzeHistogram    bool
	analyzeRecord       bool
	analyzeMaxLineBytes int

	watchMaxLineBytes int
	watchVerbose      bool

	historyPlain bool
	historyPath  string
	historySince string
	historyLast  int

	pruneBefore string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mywc <file>",
		Short:         "Count lines, words and letters of a text file",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          validateArgs,
		RunE:          runAnalyzeCmd,
	}

	rootCmd.Flags().BoolVar(&analyzeLetters, "letters", false, "print per-letter counts")
	rootCmd.Flags().BoolVar(&analyzeHistogram, "histogram", false, "print a letter histogram")
	rootCmd.Flags().BoolVar(&analyzeRecord, "record", false, "store the run in history")
	rootCmd.Flags().IntVar(&analyzeMaxLineBytes, "max-line-bytes", defaultMaxLineBytes, "longest accepted line in bytes")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func validateArgs(_ *cobra.Command, args []string) error {
	return source.ValidateArgs(args)
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	path, err := source.Resolve(args)
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "letters", &analyzeLetters, fileCfg.Analyze.Letters)
	applyBoolConfig(cmd, "histogram", &analyzeHistogram, fileCfg.Analyze.Histogram)
	applyBoolConfig(cmd, "record", &analyzeRecord, fileCfg.Analyze.Record)
	applyIntConfig(cmd, "max-line-bytes", &analyzeMaxLineBytes, fileCfg.Analyze.MaxLineBytes)

	cfg := model.AnalyzeConfig{
		Letters:      analyzeLetters,
		Histogram:    analyzeHistogram,
		Record:       analyzeRecord,
		MaxLineBytes: analyzeMaxLineBytes,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	res, err := analyzer.AnalyzeFile(path, cfg.MaxLineBytes)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, res); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if cfg.Letters {
		if err := writeSection(out, func(w io.Writer) error { return stats.RenderLetterTable(w, res.LetterCounts) }); err != nil {
			return err
		}
	}
	if cfg.Histogram {
		if err := writeSection(out, func(w io.Writer) error { return stats.RenderHistogram(w, res.LetterCounts, 0) }); err != nil {
			return err
		}
	}
	if cfg.Record {
		if err := recordRun(ctxOf(cmd), path, res); err != nil {
			return err
		}
	}
	return nil
}

func writeSection(w io.Writer, render func(io.Writer) error) error {
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := render(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func recordRun(ctx context.Context, path string, res model.Result) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	run := model.RunRecord{
		Path:       abs,
		AnalyzedAt: time.Now(),
		Result:     res,
	}
	if _, err := st.InsertRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-analyse a file every time it changes",
		Args:  validateArgs,
		RunE:  runWatchCmd,
	}
	cmd.Flags().IntVar(&watchMaxLineBytes, "max-line-bytes", defaultMaxLineBytes, "longest accepted line in bytes")
	cmd.Flags().BoolVar(&watchVerbose, "verbose", false, "log file events")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	path, err := source.Resolve(args)
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "max-line-bytes", &watchMaxLineBytes, fileCfg.Analyze.MaxLineBytes)
	if err := validateConfig(model.AnalyzeConfig{MaxLineBytes: watchMaxLineBytes}); err != nil {
		return err
	}

	level := slog.LevelInfo
	if watchVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	out := cmd.OutOrStdout()
	first := true
	handler := func(file string, res model.Result) error {
		if !first {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		first = false
		if _, err := fmt.Fprintf(out, "%s (%s)\n", file, time.Now().Format("15:04:05")); err != nil {
			return err
		}
		return stats.RenderSummary(out, res)
	}

	w, err := watch.New(path, handler, watch.Options{
		MaxLineBytes: watchMaxLineBytes,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctxOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a plain table instead of the interactive view")
	cmd.Flags().StringVar(&historyPath, "path", "", "file path filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to last N runs")
	cmd.AddCommand(newPruneCmd())
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "last", &historyLast, fileCfg.History.Last)
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	sinceTime, err := parseDate("--since", historySince)
	if err != nil {
		return err
	}
	pathFilter := historyPath
	if pathFilter != "" {
		abs, err := filepath.Abs(pathFilter)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", pathFilter, err)
		}
		pathFilter = abs
	}
	cfg := model.HistoryConfig{
		Path:  pathFilter,
		Since: sinceTime,
		Last:  historyLast,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	out := cmd.OutOrStdout()
	if historyPlain || !stats.IsTerminal(out) {
		report, err := stats.BuildReport(ctxOf(cmd), st, cfg)
		if err != nil {
			return err
		}
		if err := stats.RenderRunTable(out, report.Runs); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	loader := func(ctx context.Context, cfg model.HistoryConfig) (stats.Report, error) {
		return stats.BuildReport(ctx, st, cfg)
	}
	program := tea.NewProgram(historyui.NewModel(loader, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func newPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs recorded before a date",
		Args:  cobra.NoArgs,
		RunE:  runPruneCmd,
	}
	cmd.Flags().StringVar(&pruneBefore, "before", "", "delete runs before this date (YYYY-MM-DD)")
	return cmd
}

func runPruneCmd(cmd *cobra.Command, _ []string) error {
	before, err := parseDate("--before", pruneBefore)
	if err != nil {
		return err
	}
	if before == nil {
		return fmt.Errorf("--before is required")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	removed, err := st.DeleteRuns(ctxOf(cmd), *before)
	if err != nil {
		return fmt.Errorf("failed to delete runs: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d run(s)\n", removed); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func parseDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", flag, err)
	}
	return &parsed, nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mywc configuration
# Uncomment a value to enable it. CLI flags override config values.

[analyze]
# letters = false          # Print per-letter counts after the summary
# histogram = false        # Print a letter histogram after the summary
# record = false           # Store every run in history
# max-line-bytes = %d  # Longest accepted line in bytes

[history]
# last = %d                 # Limit history to the last N runs (0 = all)
`,
		defaultMaxLineBytes,
		defaultHistoryLast,
	)
}

func validateConfig(cfg model.AnalyzeConfig) error {
	if cfg.MaxLineBytes <= 0 {
		return fmt.Errorf("--max-line-bytes must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
