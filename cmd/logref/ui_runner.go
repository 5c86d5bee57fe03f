package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"logref/internal/driver"
	"logref/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

func runWithUI(ctx context.Context, title string, opts driver.Options) (*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Run(ctx, opts)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events, cancel)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// без читателя driver встанет на полном канале
		cancel()
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if outcome.err == nil && uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
