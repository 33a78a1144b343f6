package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tracetool/internal/event"
	"tracetool/internal/tracefile"
	"tracetool/internal/ui"
)

type loadFunc func(context.Context, tracefile.Options) (event.List, error)

type loadOutcome struct {
	list event.List
	err  error
}

// runLoadWithUI runs load in the background while a progress model renders
// its events. load must report through the Sink it is given.
func runLoadWithUI(ctx context.Context, title string, files []string, opts tracefile.Options, load loadFunc) (event.List, error) {
	return runWithProgress(ctx, opts, load, func(events <-chan tracefile.Progress) error {
		model := ui.NewProgressModel(title, files, events)
		program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
		_, err := program.Run()
		return err
	})
}

// runWithProgress feeds load's progress to render. If render returns early
// the remaining events are drained so load never blocks on the channel.
func runWithProgress(ctx context.Context, opts tracefile.Options, load loadFunc,
	render func(<-chan tracefile.Progress) error) (event.List, error) {
	events := make(chan tracefile.Progress, 256)
	outcomeCh := make(chan loadOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = tracefile.ChannelSink{Ch: events}
		list, err := load(ctx, optsCopy)
		outcomeCh <- loadOutcome{list: list, err: err}
		close(events)
	}()

	uiErr := render(events)
	if uiErr != nil {
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.list, uiErr
	}
	return outcome.list, outcome.err
}
