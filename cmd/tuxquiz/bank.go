package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuxquiz/internal/bank"
	"github.com/verte-zerg/tuxquiz/internal/config"
	"github.com/verte-zerg/tuxquiz/internal/generator"
	"github.com/verte-zerg/tuxquiz/internal/model"
)

const (
	defaultBankCount = 100
	defaultBankMax   = 10
)

func newBanksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List question banks",
		Args:  cobra.NoArgs,
		RunE:  runBanksCmd,
	}
}

func runBanksCmd(cmd *cobra.Command, _ []string) error {
	names, err := listBanks(config.DefaultBankDir())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		logErrln("No question banks found. Generate one with: tuxquiz bank")
		return fmt.Errorf("no question banks found")
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func listBanks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read bank directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !bank.IsBankFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

type bankFlags struct {
	ops   string
	max   int
	count int
	out   string
	force bool
}

func newBankCmd() *cobra.Command {
	flags := &bankFlags{}
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Generate an arithmetic question bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBankCmd(flags)
		},
	}
	cmd.Flags().StringVar(&flags.ops, "ops", generator.DefaultOps, "operators to draw from (+-*/)")
	cmd.Flags().IntVar(&flags.max, "max", defaultBankMax, "largest operand")
	cmd.Flags().IntVar(&flags.count, "count", defaultBankCount, "number of questions")
	cmd.Flags().StringVar(&flags.out, "out", config.DefaultBankPath(), "output file (.toml)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing bank")
	return cmd
}

func runBankCmd(flags *bankFlags) error {
	if err := generator.ValidateOps(flags.ops); err != nil {
		return fmt.Errorf("--ops: %w", err)
	}
	if flags.max <= 0 {
		return fmt.Errorf("--max must be greater than 0")
	}
	if flags.count <= 0 {
		return fmt.Errorf("--count must be greater than 0")
	}
	outPath := expandHome(flags.out)
	if filepath.Ext(outPath) != ".toml" {
		return fmt.Errorf("--out must be a .toml file")
	}
	if !flags.force {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("question bank already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat question bank: %w", err)
		}
	}

	questions := generator.New().Generate(flags.count, flags.ops, flags.max)
	if err := writeBank(outPath, questions); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logErrf("Wrote %s (%d questions)\n", outPath, len(questions))
	return nil
}

func writeBank(path string, questions []model.Question) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create bank dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "bank-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp bank: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := bank.WriteTOML(writer, questions); err != nil {
		return fmt.Errorf("failed to encode bank: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush bank: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close bank: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write bank: %w", err)
	}
	return nil
}
