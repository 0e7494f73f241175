// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/config"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// ProcessingView is what the processing page shows after a poll. Error is
// set instead of Status when the poll itself failed.
type ProcessingView struct {
	Status   *model.VideoStatus
	Progress int
	Label    string
	Error    *ErrorView
}

// Failed reports whether the video failed or the poll errored.
func (v *ProcessingView) Failed() bool {
	return v.Error != nil
}

// ProcessingFlow polls the status of a video until it completes or fails.
type ProcessingFlow struct {
	api             VideoAPI
	nav             Navigator
	pollInterval    time.Duration
	completionDelay time.Duration
}

// NewProcessingFlow creates a processing flow with the polling cadence of cfg.
func NewProcessingFlow(api VideoAPI, nav Navigator, cfg config.Dashboard) *ProcessingFlow {
	interval := cfg.PollInterval()
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &ProcessingFlow{
		api:             api,
		nav:             nav,
		pollInterval:    interval,
		completionDelay: max(0, cfg.CompletionDelay()),
	}
}

// Run polls the status of a video and hands every view to onUpdate.
//
// Logic Flow:
//  1. Make id the current video of the session.
//  2. Poll immediately and then once every poll interval.
//  3. Completed: wait the completion delay and go to the results page.
//  4. Failed: emit a view offering "Try Again" and "Return to Dashboard",
//     then stop. There is no automatic retry.
//  5. A poll error emits an error view with "Return to Dashboard" only.
//
// Inputs:
//   - ctx: Must carry a Session. Cancelling it stops the polling.
//   - id: The video to watch.
//   - onUpdate: Receives one view per poll, on the caller's goroutine.
//
// Outputs:
//   - error: nil once the video completed or failed; otherwise
//     ErrNoSession, the poll error or the context error.
func (f *ProcessingFlow) Run(ctx context.Context, id string, onUpdate func(*ProcessingView)) error {
	session, err := sessionFrom(ctx)
	if err != nil {
		return err
	}
	session.SetCurrentVideoId(id)
	if onUpdate == nil {
		onUpdate = func(*ProcessingView) {}
	}

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()
	for {
		status, err := f.api.GetStatus(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.WarnContext(ctx, "status poll failed", "video_id", id, "error", err)
			onUpdate(&ProcessingView{Error: statusErrorView(err)})
			return err
		}

		view := viewOf(status)
		onUpdate(view)
		switch status.Status {
		case model.StatusCompleted:
			return f.finish(ctx, id)
		case model.StatusFailed:
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *ProcessingFlow) finish(ctx context.Context, id string) error {
	t := time.NewTimer(f.completionDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	f.nav.Navigate(ResultsRoute(id))
	return nil
}

func viewOf(status *model.VideoStatus) *ProcessingView {
	view := &ProcessingView{
		Status:   status,
		Progress: status.Stage.Progress(),
		Label:    status.Stage.Label(),
	}
	if status.Status == model.StatusFailed {
		msg := status.Error
		if msg == "" {
			msg = "An error occurred while processing your video."
		}
		view.Error = &ErrorView{
			Title:   "Processing Failed",
			Message: msg,
			Actions: []Action{{Label: "Try Again", Route: RouteUpload}, returnToDashboard},
		}
	}
	return view
}

func statusErrorView(err error) *ErrorView {
	if errors.Is(err, model.ErrNotFound) {
		return &ErrorView{
			Title:   "Video Not Found",
			Message: "We couldn't find the video you're looking for.",
			Actions: []Action{returnToDashboard},
		}
	}
	return &ErrorView{
		Title:   "Error",
		Message: "An error occurred while checking the video status.",
		Actions: []Action{returnToDashboard},
	}
}

// String renders the view as a single line, e.g. "[#####     ] 50% Transcribing video".
func (v *ProcessingView) String() string {
	if v.Error != nil {
		return fmt.Sprintf("%s: %s", v.Error.Title, v.Error.Message)
	}
	const width = 10
	filled := v.Progress * width / 100
	bar := make([]byte, width)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = ' '
		}
	}
	return fmt.Sprintf("[%s] %d%% %s", bar, v.Progress, v.Label)
}
