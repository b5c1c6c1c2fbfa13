package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweeney/irrigator/internal/config"
	"github.com/sweeney/irrigator/internal/journal"
	"github.com/sweeney/irrigator/internal/logic"
	"github.com/sweeney/irrigator/internal/sensor"
	"github.com/sweeney/irrigator/internal/status"
)

func newReadCmd(cfg *config.Config, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "read",
		Short: "Take one sample, print the status as JSON and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, *configPath, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			reader, err := openSensor(*cfg)
			if err != nil {
				return fmt.Errorf("init sensor: %w", err)
			}
			defer reader.Close()
			return readOnce(cmd.OutOrStdout(), reader, *cfg, time.Now())
		},
	}
}

// readOnce runs a single step of a fresh controller on one sample.
func readOnce(w io.Writer, reader sensor.Reader, cfg config.Config, now time.Time) error {
	raw, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read sensor: %w", err)
	}
	start := now.Add(-cfg.Sample)
	ctrl, err := logic.NewController(cfg.Controller(), start)
	if err != nil {
		return err
	}
	ctrl.Process(logic.Input{Raw: raw, Time: now})

	snap := status.Capture(ctrl, raw, start, now, statusConfig(cfg))
	_, err = fmt.Fprintf(w, "%s\n", status.FormatJSON(snap))
	return err
}

func newHistoryCmd(cfg *config.Config, configPath *string) *cobra.Command {
	var last int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent pump doses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, *configPath, cfg); err != nil {
				return err
			}
			if !cfg.JournalEnabled() {
				return errors.New("journal is off")
			}
			if _, err := os.Stat(cfg.Journal); err != nil {
				if os.IsNotExist(err) {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "no doses recorded")
					return err
				}
				return fmt.Errorf("failed to stat journal: %w", err)
			}
			store, err := journal.Open(cfg.Journal)
			if err != nil {
				return err
			}
			defer store.Close()

			doses, err := store.Recent(context.Background(), last)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), doses)
		},
	}
	cmd.Flags().IntVar(&last, "last", 10, "number of doses to list")
	return cmd
}

func printHistory(w io.Writer, doses []journal.Dose) error {
	if len(doses) == 0 {
		_, err := fmt.Fprintln(w, "no doses recorded")
		return err
	}
	if _, err := fmt.Fprintf(w, "%-19s  %6s  %7s  %7s  %9s  %s\n", "STARTED", "PUMPED", "BEFORE", "AFTER", "THRESHOLD", "REASON"); err != nil {
		return err
	}
	for _, d := range doses {
		if _, err := fmt.Fprintf(w, "%-19s  %6s  %6.1f%%  %6.1f%%  %8.1f%%  %s\n",
			d.StartedAt.Local().Format(time.DateTime),
			d.Duration.Round(time.Second),
			d.MoistureStart,
			d.MoistureEnd,
			d.Threshold,
			d.Reason,
		); err != nil {
			return err
		}
	}
	return nil
}

func newConfigCmd(configPath *string) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default config file, or write it with --write",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !write {
				_, err := io.WriteString(cmd.OutOrStdout(), config.Template())
				return err
			}
			return writeTemplate(cmd.OutOrStdout(), *configPath)
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "create the config file if it does not exist")
	return cmd
}

func writeTemplate(w io.Writer, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		_, err := fmt.Fprintf(w, "%s already exists\n", path)
		return err
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	_, err := fmt.Fprintf(w, "wrote %s\n", path)
	return err
}
