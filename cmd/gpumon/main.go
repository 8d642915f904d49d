// gpumon is the interactive terminal UI for watching GPU metrics on
// the local machine. It polls nvidia-smi on a schedule, starting
// immediately on launch, and renders summary, detailed, and raw views.
//
// The HTTP daemon counterpart lives in cmd/gpumond.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mateuse/Gpu-Monitor/internal/bus"
	"github.com/Mateuse/Gpu-Monitor/internal/config"
	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/Mateuse/Gpu-Monitor/internal/nvsmi"
	"github.com/Mateuse/Gpu-Monitor/internal/poller"
	"github.com/Mateuse/Gpu-Monitor/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Logging must not touch stdout or stderr while the alt-screen
	// display is active; records go to a file when requested and are
	// discarded otherwise.
	logger, closeLog, err := newLogger(os.Getenv("GPUMON_LOG_FILE"))
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	runner := nvsmi.NewRunner(cfg.Poll.Command, cfg.Poll.Timeout, logger)
	b := bus.NewBus(logger)
	p := poller.NewPoller(runner, b, nil, logger)

	model := ui.NewModel(p)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Poll outcomes enter the bubbletea loop as messages.
	b.Subscribe(bus.SubscriberFuncs{
		Snapshot: func(snap *domain.MetricSnapshot) {
			program.Send(ui.SnapshotMsg{Snapshot: snap})
		},
		Error: func(perr *domain.PollError) {
			program.Send(ui.PollErrorMsg{Err: perr})
		},
	})

	if err := p.Start(context.Background(), cfg.Poll.Interval); err != nil {
		return fmt.Errorf("cannot start polling: %w", err)
	}
	defer p.Stop()

	_, err = program.Run()
	return err
}

// newLogger writes JSON log records to path, or discards them when
// path is empty.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return logger, func() { file.Close() }, nil
}
