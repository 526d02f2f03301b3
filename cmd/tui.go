package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/purse/internal/config"
	"github.com/theirongolddev/purse/internal/ledger"
	"github.com/theirongolddev/purse/internal/logger"
	"github.com/theirongolddev/purse/internal/model"
	"github.com/theirongolddev/purse/internal/tui"
	"github.com/theirongolddev/purse/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive ledger",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// The terminal belongs to the UI; logs go to a file.
	logFile, err := logger.OpenFile(config.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()
	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	log = logger.New(logger.Config{Level: level, Format: "json", Output: logFile})

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor so background styling produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	ctrl, closeFn, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	p := tea.NewProgram(tui.NewApp(ctx, ctrl), tea.WithAltScreen())

	watchCtx, stopWatch := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(watchCtx)

	g.Go(func() error {
		defer stopWatch()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return ctrl.Watch(gctx, cfg.General.RolloverInterval, func(d model.Day) {
			p.Send(tui.DayChangedMsg{Day: d})
		})
	})
	g.Go(func() error {
		<-gctx.Done()
		p.Quit()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if ctrl.Dirty() {
		log.Warn().Msg("exiting with unsaved changes")
		return fmt.Errorf("%w: last save failed, changes from this session may be lost", ledger.ErrPersistence)
	}
	return nil
}
