// Package main provides the CLI entrypoint for tuxquiz.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuxquiz/internal/assets"
	"github.com/verte-zerg/tuxquiz/internal/config"
	"github.com/verte-zerg/tuxquiz/internal/model"
	"github.com/verte-zerg/tuxquiz/internal/session"
	"github.com/verte-zerg/tuxquiz/internal/stats"
	"github.com/verte-zerg/tuxquiz/internal/store"
	"github.com/verte-zerg/tuxquiz/internal/tui"
)

const (
	defaultSpawnPeriod = 5 * time.Second
	defaultQuestionTTL = 20 * time.Second
	defaultMinScore    = -3
	defaultMaxScore    = 4
	defaultFrame       = tui.DefaultFrame
)

type playFlags struct {
	bankPath    string
	bannerPath  string
	spawnPeriod time.Duration
	questionTTL time.Duration
	minScore    int
	maxScore    int
	frame       time.Duration
	seed        int64
}

type playConfig struct {
	session model.SessionConfig
	paths   assets.Paths
	frame   time.Duration
	seed    int64
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &playFlags{}
	rootCmd := &cobra.Command{
		Use:           "tuxquiz",
		Short:         "Timed terminal quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlayCmd(cmd, flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.bankPath, "bank", config.DefaultBankPath(), "question bank file (.toml, .yaml)")
	rootCmd.Flags().StringVar(&flags.bannerPath, "banner", config.DefaultBannerPath(), "title banner text file (optional)")
	rootCmd.Flags().DurationVar(&flags.spawnPeriod, "spawn-period", defaultSpawnPeriod, "time between new questions")
	rootCmd.Flags().DurationVar(&flags.questionTTL, "ttl", defaultQuestionTTL, "time to answer a question")
	rootCmd.Flags().IntVar(&flags.minScore, "min-score", defaultMinScore, "lowest score that keeps the round alive")
	rootCmd.Flags().IntVar(&flags.maxScore, "max-score", defaultMaxScore, "highest score that keeps the round alive")
	rootCmd.Flags().DurationVar(&flags.frame, "frame", defaultFrame, "frame clock interval")
	rootCmd.Flags().Int64Var(&flags.seed, "seed", 0, "random seed for question draws (0 = time based)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newBanksCmd())
	rootCmd.AddCommand(newBankCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, flags *playFlags) error {
	envCfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(envCfg.ResolvedConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := resolvePlayConfig(cmd, flags, fileCfg)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tuxquiz needs an interactive terminal")
	}

	logger, closeLog, err := openLogger(envCfg)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(store.MemoryDSN)
	if err != nil {
		return fmt.Errorf("failed to open round journal: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close round journal: %v\n", cerr)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loader := assets.Start(ctx, cfg.paths)

	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting", "bank", cfg.paths.Bank, "seed", seed, "spawn_period", cfg.session.SpawnPeriod, "ttl", cfg.session.QuestionTTL)
	sess, err := session.New(cfg.session, loader, rand.New(rand.NewSource(seed)), logger)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	program := tea.NewProgram(tui.NewModel(sess, st, cfg.frame, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if loadErr := sess.Snapshot().LoadErr; loadErr != nil {
		return bankLoadError(cfg.paths.Bank, loadErr)
	}
	rounds, err := st.ListRounds(ctx)
	if err != nil {
		return fmt.Errorf("failed to read round journal: %w", err)
	}
	if len(rounds) == 0 {
		return nil
	}
	return stats.RenderHistory(cmd.OutOrStdout(), rounds)
}

// resolvePlayConfig layers config file values under explicitly set flags.
func resolvePlayConfig(cmd *cobra.Command, flags *playFlags, fileCfg config.FileConfig) (playConfig, error) {
	applyStringConfig(cmd, "bank", &flags.bankPath, fileCfg.Bank.Path)
	applyStringConfig(cmd, "banner", &flags.bannerPath, fileCfg.Bank.Banner)
	applyIntConfig(cmd, "min-score", &flags.minScore, fileCfg.Session.MinScore)
	applyIntConfig(cmd, "max-score", &flags.maxScore, fileCfg.Session.MaxScore)
	if err := applyDurationConfig(cmd, "spawn-period", &flags.spawnPeriod, fileCfg.Session.SpawnPeriod); err != nil {
		return playConfig{}, err
	}
	if err := applyDurationConfig(cmd, "ttl", &flags.questionTTL, fileCfg.Session.QuestionTTL); err != nil {
		return playConfig{}, err
	}
	if err := applyDurationConfig(cmd, "frame", &flags.frame, fileCfg.Session.Frame); err != nil {
		return playConfig{}, err
	}

	cfg := playConfig{
		session: model.SessionConfig{
			SpawnPeriod: flags.spawnPeriod,
			QuestionTTL: flags.questionTTL,
			MinScore:    flags.minScore,
			MaxScore:    flags.maxScore,
		},
		paths: assets.Paths{
			Bank:   expandHome(flags.bankPath),
			Banner: expandHome(flags.bannerPath),
		},
		frame: flags.frame,
		seed:  flags.seed,
	}
	if err := cfg.session.Validate(); err != nil {
		return playConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.frame <= 0 {
		return playConfig{}, fmt.Errorf("--frame must be > 0")
	}
	if strings.TrimSpace(cfg.paths.Bank) == "" {
		return playConfig{}, fmt.Errorf("--bank must not be empty")
	}
	return cfg, nil
}

func openLogger(envCfg config.EnvConfig) (*slog.Logger, func(), error) {
	if envCfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	path := expandHome(envCfg.LogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "tuxquiz")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: envCfg.LogLevel}))
	closeLog := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
	return logger, closeLog, nil
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
	envCfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	path := envCfg.ResolvedConfigPath()
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
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

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	d, err := config.Duration(value, *target)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuxquiz configuration
# Uncomment a value to enable it. CLI flags override config values.
# Debug logging: TUXQUIZ_LOG_FILE=%s TUXQUIZ_LOG_LEVEL=DEBUG tuxquiz

[session]
# spawn-period = %q     # Time between new questions
# question-ttl = %q     # Time to answer a question
# min-score = %d         # Lowest score that keeps the round alive
# max-score = %d          # Highest score that keeps the round alive
# frame = %q          # Frame clock interval

[bank]
# path = %q
# banner = %q
`,
		config.DefaultLogPath(),
		defaultSpawnPeriod.String(),
		defaultQuestionTTL.String(),
		defaultMinScore,
		defaultMaxScore,
		defaultFrame.String(),
		config.DefaultBankPath(),
		config.DefaultBannerPath(),
	)
}

func bankLoadError(path string, err error) error {
	lines := []string{
		err.Error(),
		fmt.Sprintf("expected question bank at: %s", path),
		"Run: tuxquiz banks",
		"Generate: tuxquiz bank --ops +- --max 10",
	}
	if !errors.Is(err, os.ErrNotExist) {
		lines = lines[:2]
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
