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
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// ErrNotLoaded is returned by results operations called before Load.
var ErrNotLoaded = errors.New("dashboard: results not loaded")

// ExportFile is a rendered export ready to be written.
type ExportFile struct {
	Name string
	Data []byte
}

// ResultsFlow is the state of the results page of one video.
type ResultsFlow struct {
	api      VideoAPI
	nav      Navigator
	notifier Notifier

	mu       sync.RWMutex
	results  *model.Results
	expanded map[string]struct{}
	player   *Player
}

// NewResultsFlow creates the flow of the results page. Call Load before
// anything else.
func NewResultsFlow(api VideoAPI, nav Navigator, notifier Notifier) *ResultsFlow {
	return &ResultsFlow{
		api:      api,
		nav:      nav,
		notifier: notifier,
		expanded: make(map[string]struct{}),
		player:   NewPlayer(0),
	}
}

// Load fetches the results of a video once and makes it the current video.
// The expanded set is reset.
func (f *ResultsFlow) Load(ctx context.Context, id string) (*model.Results, error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	session.SetCurrentVideoId(id)

	results, err := f.api.GetResults(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "failed to load results", "video_id", id, "error", err)
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = results.Clone()
	f.expanded = make(map[string]struct{})
	f.player = NewPlayer(results.Duration)
	return results, nil
}

// LoadErrorView is the page shown when Load fails.
func LoadErrorView(err error) *ErrorView {
	msg := "Failed to load video results"
	if err != nil {
		msg = err.Error()
	}
	return &ErrorView{Title: "Error Loading Results", Message: msg, Actions: []Action{returnToDashboard}}
}

// Results returns a copy of the loaded results, or nil.
func (f *ResultsFlow) Results() *model.Results {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.results == nil {
		return nil
	}
	return f.results.Clone()
}

// Player returns the video player of the loaded results.
func (f *ResultsFlow) Player() *Player {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.player
}

// ToggleSegment expands a collapsed segment or collapses an expanded one and
// returns whether it is now expanded.
func (f *ResultsFlow) ToggleSegment(segmentId string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.expanded[segmentId]; ok {
		delete(f.expanded, segmentId)
		return false
	}
	f.expanded[segmentId] = struct{}{}
	return true
}

// IsExpanded reports whether a segment is expanded.
func (f *ResultsFlow) IsExpanded(segmentId string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.expanded[segmentId]
	return ok
}

// ExpandedSegments returns the expanded segment ids, sorted.
func (f *ResultsFlow) ExpandedSegments() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.expanded))
	for id := range f.expanded {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (f *ResultsFlow) loaded() (*model.Results, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.results == nil {
		return nil, ErrNotLoaded
	}
	return f.results, nil
}

func (f *ResultsFlow) replaceSegment(segment *model.Segment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.results.Segments {
		if s.Id == segment.Id {
			f.results.Segments[i] = segment.Clone()
			return
		}
	}
}

// RegenerateQuestions asks the backend for new questions for a segment and
// waits for them. The local segment is replaced from the response; on
// failure it is left as it was.
func (f *ResultsFlow) RegenerateQuestions(ctx context.Context, segmentId string) (*model.Segment, error) {
	results, err := f.loaded()
	if err != nil {
		return nil, err
	}
	segment, err := f.api.RegenerateQuestions(ctx, results.Id, segmentId)
	if err != nil {
		notifyError(f.notifier, "Error", err)
		return nil, err
	}
	f.replaceSegment(segment)
	f.notifier.Notify(Notification{
		Title:       "Questions regenerated",
		Description: "New questions have been generated for this segment.",
		Variant:     VariantDefault,
	})
	return segment, nil
}

// Export renders the loaded results as a quiz document in format, JSON when
// empty.
func (f *ResultsFlow) Export(format string) (*ExportFile, error) {
	if format == "" {
		format = model.ExportFormatJSON
	}
	f.mu.RLock()
	if f.results == nil {
		f.mu.RUnlock()
		return nil, ErrNotLoaded
	}
	doc := model.NewExportDocument(f.results)
	title := f.results.Title
	f.mu.RUnlock()

	data, err := doc.Encode(format)
	if err != nil {
		notifyError(f.notifier, "Export failed", err)
		return nil, err
	}
	f.notifier.Notify(Notification{
		Title:       "Export successful",
		Description: "Quiz data has been exported as " + strings.ToUpper(format),
		Variant:     VariantSuccess,
	})
	return &ExportFile{Name: model.ExportFileName(title, format), Data: data}, nil
}

// EditQuestion opens an editor on a copy of one question.
func (f *ResultsFlow) EditQuestion(segmentId string, index int) (*QuestionEditor, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.results == nil {
		return nil, ErrNotLoaded
	}
	segment := f.results.Segment(segmentId)
	if segment == nil {
		return nil, model.ErrSegmentNotFound
	}
	if index < 0 || index >= len(segment.Questions) {
		return nil, model.ErrQuestionNotFound
	}
	return newQuestionEditor(segmentId, index, segment.Questions[index]), nil
}

// SaveQuestion validates the editor and stores its question.
//
// An invalid question is reported and never sent. A valid one goes through
// UpdateQuestion and the local segment is replaced from the response only.
func (f *ResultsFlow) SaveQuestion(ctx context.Context, editor *QuestionEditor) (*model.Segment, error) {
	results, err := f.loaded()
	if err != nil {
		return nil, err
	}
	question := editor.Question()
	if err := question.Validate(); err != nil {
		notifyError(f.notifier, "Invalid question", err)
		return nil, err
	}
	segment, err := f.api.UpdateQuestion(ctx, results.Id, editor.SegmentId, editor.Index, question)
	if err != nil {
		notifyError(f.notifier, "Error", err)
		return nil, err
	}
	f.replaceSegment(segment)
	f.notifier.Notify(Notification{
		Title:       "Question updated",
		Description: "Your changes have been saved.",
		Variant:     VariantSuccess,
	})
	return segment, nil
}

// JumpToSegment seeks the player to the start of a segment and starts
// playback.
func (f *ResultsFlow) JumpToSegment(segmentId string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.results == nil {
		return ErrNotLoaded
	}
	segment := f.results.Segment(segmentId)
	if segment == nil {
		return model.ErrSegmentNotFound
	}
	f.player.Seek(float64(segment.StartTime))
	f.player.Play()
	return nil
}

// ActiveSegment returns the segment containing the player position, or nil.
func (f *ResultsFlow) ActiveSegment() *model.Segment {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.results == nil {
		return nil
	}
	at := f.player.CurrentTime()
	for _, s := range f.results.Segments {
		if s.Contains(at) {
			return s.Clone()
		}
	}
	return nil
}

// BackToDashboard leaves the results page.
func (f *ResultsFlow) BackToDashboard() {
	f.nav.Navigate(RouteHome)
}
