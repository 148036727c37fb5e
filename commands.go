package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"stopwatch_tui/internal"
	"stopwatch_tui/internal/config"
	"stopwatch_tui/internal/logger"
	"stopwatch_tui/internal/timelog"
	"stopwatch_tui/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const defaultHistoryLimit = 20

// runOptions holds the resolved settings for the widget after config and
// flags are merged.
type runOptions struct {
	configPath  string
	journal     bool
	noJournal   bool
	journalPath string
	logFile     string
	logLevel    string
	inline      bool
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:          "stopwatch_tui",
		Short:        "Terminal stopwatch with start/stop and reset",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWidget(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&opts.journalPath, "journal", config.DefaultJournalPath(), "session journal database path")
	rootCmd.Flags().BoolVar(&opts.noJournal, "no-journal", false, "do not record finished segments")
	rootCmd.Flags().StringVar(&opts.logFile, "log-file", "", "append debug logs to this file")
	rootCmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&opts.inline, "inline", false, "render inline instead of the alternate screen")

	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newFormatCmd())
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

func runWidget(cmd *cobra.Command, opts *runOptions) error {
	if err := applyFileConfig(cmd, opts); err != nil {
		return err
	}

	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	log, logCloser, err := logger.New(opts.logFile, level)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	var recorder timelog.Recorder = timelog.Nop{}
	if opts.journal {
		repo, err := timelog.Open(opts.journalPath)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer repo.Close()
		recorder = repo
	}

	var p *tea.Program
	t := timer.New(timer.WithOnTick(func(elapsed int) {
		p.Send(internal.TickMsg{Elapsed: elapsed})
	}))

	m := internal.NewModel(internal.Options{
		Timer:     t,
		Recorder:  recorder,
		Logger:    &log,
		SessionID: uuid.NewString(),
	})
	defer m.Close()

	var programOpts []tea.ProgramOption
	if !opts.inline {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p = tea.NewProgram(m, programOpts...)

	log.Info().Str("session", m.SessionID).Bool("journal", opts.journal).Msg("widget started")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	log.Info().Int("elapsed", t.Elapsed()).Msg("widget closed")
	return nil
}

// applyFileConfig fills in options the user did not set on the command line.
func applyFileConfig(cmd *cobra.Command, opts *runOptions) error {
	fileCfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyBoolConfig(cmd, "no-journal", &opts.noJournal, invert(fileCfg.Journal.Enabled))
	opts.journal = !opts.noJournal
	applyStringConfig(cmd, "journal", &opts.journalPath, fileCfg.Journal.Path)
	applyStringConfig(cmd, "log-file", &opts.logFile, fileCfg.Log.File)
	applyStringConfig(cmd, "log-level", &opts.logLevel, fileCfg.Log.Level)
	applyBoolConfig(cmd, "inline", &opts.inline, invert(fileCfg.UI.AltScreen))
	return nil
}

func invert(v *bool) *bool {
	if v == nil {
		return nil
	}
	out := !*v
	return &out
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyBoolConfig is the bool counterpart of applyStringConfig. Callers pass
// the value already oriented to match target.
func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func newHistoryCmd(opts *runOptions) *cobra.Command {
	var limit int
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded stopwatch segments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fileCfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyStringConfig(cmd, "journal", &opts.journalPath, fileCfg.Journal.Path)

			repo, err := timelog.Open(opts.journalPath)
			if err != nil {
				return fmt.Errorf("failed to open journal: %w", err)
			}
			defer repo.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if clearAll {
				if err := repo.Clear(ctx); err != nil {
					return fmt.Errorf("failed to clear journal: %w", err)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "journal cleared")
				return err
			}
			return printHistory(ctx, cmd.OutOrStdout(), repo, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "number of segments to show (0 for all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all recorded segments")
	return cmd
}

var (
	historyHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	historyCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func printHistory(ctx context.Context, w io.Writer, repo *timelog.Repository, limit int) error {
	logs, err := repo.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		_, err := fmt.Fprintln(w, "No segments recorded yet.")
		return err
	}
	summary, err := repo.Summary(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			l.StoppedAt.Local().Format("Jan 02 15:04"),
			timer.FormatTime(l.FromSeconds),
			timer.FormatTime(l.ToSeconds),
			timer.FormatTime(l.Counted()),
			string(l.Reason),
			shortSession(l.SessionID),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Stopped", "From", "To", "Counted", "Reason", "Session").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return historyHeaderStyle
			}
			return historyCellStyle
		})

	_, err = fmt.Fprintf(w, "%s\n%d segments, %s counted\n", t.Render(), summary.Segments, timer.FormatTime(summary.Seconds))
	return err
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format SECONDS...",
		Short: "Print second counts as MM:SS",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				seconds, err := parseSeconds(arg)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), timer.FormatTime(seconds)); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func parseSeconds(arg string) (int, error) {
	seconds, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid second count %q: %w", arg, err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("second count must be >= 0, got %d", seconds)
	}
	return seconds, nil
}

func newConfigCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := opts.configPath
			if err := writeConfigTemplate(path); err != nil {
				return err
			}

			editor := strings.TrimSpace(os.Getenv("EDITOR"))
			if editor == "" {
				editor = "vi"
			}
			parts := strings.Fields(editor)
			c := exec.Command(parts[0], append(parts[1:], path)...)
			c.Stdin = os.Stdin
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			if err := c.Run(); err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}
			return nil
		},
	}
}

// writeConfigTemplate writes the commented template unless a file exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# stopwatch_tui configuration
# Uncomment a value to enable it. CLI flags override config values.

[journal]
# enabled = true          # Record finished segments
# path = %q

[log]
# file = ""               # Empty disables logging
# level = "info"          # debug, info, warn, error

[ui]
# alt-screen = true       # false renders inline
`, config.DefaultJournalPath())
}
