package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nekoplan/nekoplan/internal/model"
	"github.com/nekoplan/nekoplan/internal/scheduler"
	"github.com/nekoplan/nekoplan/internal/storage"
	"github.com/nekoplan/nekoplan/internal/update"
)

func main() {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	var noPredict bool
	root := &cobra.Command{
		Use:           "nekoplan",
		Short:         "Evening task companion with a cat mascot",
		Long:          "nekoplan keeps one current task in front of you, nudges you during the evening window, and tracks points and a happy streak.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noPredict {
				cfg.PredictorEnabled = false
			}
			return run(cfg)
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfg.StorePath, "store", cfg.StorePath, "path of the task store file")
	flags.IntVar(&cfg.NightStartHour, "night-start", cfg.NightStartHour, "hour the evening window opens (0-23)")
	flags.IntVar(&cfg.NightEndHour, "night-end", cfg.NightEndHour, "last hour of the evening window (0-23)")
	flags.BoolVar(&cfg.DesktopNotifications, "desktop-notifications", cfg.DesktopNotifications, "send desktop notifications for nudges")
	flags.BoolVar(&noPredict, "no-predict", false, "disable duration prediction for new tasks")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nekoplan: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg update.RuntimeConfig) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("nekoplan needs an interactive terminal")
	}
	if cfg.NightStartHour < 0 || cfg.NightStartHour > 23 || cfg.NightEndHour < 0 || cfg.NightEndHour > 23 {
		return fmt.Errorf("night window hours must be within 0..23")
	}
	if cfg.NightEndHour < cfg.NightStartHour {
		return fmt.Errorf("night window end %d is before start %d", cfg.NightEndHour, cfg.NightStartHour)
	}

	firstRun := !storage.Exists(cfg.StorePath)
	snap := storage.LoadOrDefault(cfg.StorePath)

	engine := scheduler.New(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	m := update.NewModel(cfg, snap, engine, notifier)
	if firstRun {
		seedExampleTask(&m, cfg.StorePath)
	}

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("nekoplan failed: %w", err)
	}
	return nil
}

// seedExampleTask gives a brand-new install something to look at: one
// task due in an hour with the default evening start.
func seedExampleTask(m *update.Model, path string) {
	now := time.Now()
	_, err := m.Store.Add("Take nekoplan for a spin", model.Clock{Hour: 19}, 30, now.Add(time.Hour), now)
	if err != nil {
		return
	}
	_ = storage.Save(path, m.Store.Snapshot())
}
