package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mpirt/internal/pipeline"
	"mpirt/internal/ui"
)

type generateOutcome struct {
	result pipeline.Result
	err    error
}

// runGenerateWithUI runs the pipeline in the background and renders its
// events until the pipeline closes the channel.
func runGenerateWithUI(ctx context.Context, title string, req pipeline.Request) (pipeline.Result, error) {
	events := make(chan pipeline.Event, 64)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		req.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Run(ctx, &req)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, pipeline.Files(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the pipeline from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
