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

package dashboard_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func (f *fixture) loadedResults(t *testing.T) *dashboard.ResultsFlow {
	t.Helper()
	flow := dashboard.NewResultsFlow(f.api, f.nav, f.notifier)
	_, err := flow.Load(f.ctx, model.ExampleIntroVideoId)
	require.NoError(t, err)
	return flow
}

func TestLoadResults(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)

	r := flow.Results()
	require.NotNil(t, r)
	assert.Equal(t, "Introduction to Computer Science", r.Title)
	require.Len(t, r.Segments, 3)
	id, _ := f.session.CurrentVideoId()
	assert.Equal(t, model.ExampleIntroVideoId, id)
}

func TestLoadUnknownVideo(t *testing.T) {
	f := newFixture(t)
	flow := dashboard.NewResultsFlow(f.api, f.nav, f.notifier)

	_, err := flow.Load(f.ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Nil(t, flow.Results())

	view := dashboard.LoadErrorView(err)
	assert.Equal(t, "Error Loading Results", view.Title)
	assert.Equal(t, err.Error(), view.Message)
	assert.Equal(t, dashboard.RouteHome, view.Actions[0].Route)
}

func TestToggleSegments(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)

	assert.True(t, flow.ToggleSegment("seg2"))
	assert.True(t, flow.ToggleSegment("seg1"))
	assert.Equal(t, []string{"seg1", "seg2"}, flow.ExpandedSegments())
	assert.False(t, flow.ToggleSegment("seg2"))
	assert.False(t, flow.IsExpanded("seg2"))
	assert.True(t, flow.IsExpanded("seg1"))
}

func TestRegenerateReplacesSegmentFromResponse(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)

	seg, err := flow.RegenerateQuestions(f.ctx, "seg1")
	require.NoError(t, err)
	require.Len(t, seg.Questions, 3)
	assert.Equal(t, "Newly generated question 1 for segment seg1?", seg.Questions[0].Text)

	local := flow.Results().Segment("seg1")
	assert.Empty(t, cmp.Diff(seg, local))
	assert.Equal(t, 1, f.api.Calls("regenerate"))

	n, _ := f.notifier.Last()
	assert.Equal(t, "Questions regenerated", n.Title)
}

func TestRegenerateUnknownSegmentLeavesResults(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)
	before := flow.Results()

	_, err := flow.RegenerateQuestions(f.ctx, "seg9")
	assert.ErrorIs(t, err, model.ErrSegmentNotFound)
	assert.Empty(t, cmp.Diff(before, flow.Results()))

	n, _ := f.notifier.Last()
	assert.Equal(t, "Error", n.Title)
	assert.Equal(t, dashboard.VariantDestructive, n.Variant)
}

func TestOperationsBeforeLoad(t *testing.T) {
	f := newFixture(t)
	flow := dashboard.NewResultsFlow(f.api, f.nav, f.notifier)

	_, err := flow.RegenerateQuestions(f.ctx, "seg1")
	assert.ErrorIs(t, err, dashboard.ErrNotLoaded)
	_, err = flow.Export("")
	assert.ErrorIs(t, err, dashboard.ErrNotLoaded)
	_, err = flow.EditQuestion("seg1", 0)
	assert.ErrorIs(t, err, dashboard.ErrNotLoaded)
	assert.ErrorIs(t, flow.JumpToSegment("seg1"), dashboard.ErrNotLoaded)
	assert.Nil(t, flow.ActiveSegment())
	assert.Zero(t, f.api.Calls("regenerate"))
}

func TestExportJSON(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)

	file, err := flow.Export("")
	require.NoError(t, err)
	assert.Equal(t, "Introduction_to_Computer_Science_quiz.json", file.Name)

	var doc model.ExportDocument
	require.NoError(t, json.Unmarshal(file.Data, &doc))
	assert.Equal(t, model.ExampleIntroVideoId, doc.VideoId)
	assert.Equal(t, 3720, doc.Duration)
	assert.Len(t, doc.Segments, 3)

	n, _ := f.notifier.Last()
	assert.Equal(t, dashboard.Notification{
		Title:       "Export successful",
		Description: "Quiz data has been exported as JSON",
		Variant:     dashboard.VariantSuccess,
	}, n)
}

func TestExportYAML(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)

	file, err := flow.Export(model.ExportFormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "Introduction_to_Computer_Science_quiz.yaml", file.Name)

	var doc model.ExportDocument
	require.NoError(t, yaml.Unmarshal(file.Data, &doc))
	assert.Equal(t, "Introduction to Computer Science", doc.Title)
}

func TestExportUnknownFormat(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)

	_, err := flow.Export("csv")
	require.Error(t, err)
	n, _ := f.notifier.Last()
	assert.Equal(t, "Export failed", n.Title)
}

func TestEditQuestionCopies(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)

	editor, err := flow.EditQuestion("seg1", 0)
	require.NoError(t, err)
	original := flow.Results().Segment("seg1").Questions[0]
	assert.Equal(t, original.Text, editor.Text)
	assert.Equal(t, original.Answer, editor.Answer)

	editor.Text = "Changed"
	assert.Equal(t, original.Text, flow.Results().Segment("seg1").Questions[0].Text)

	_, err = flow.EditQuestion("seg1", 99)
	assert.ErrorIs(t, err, model.ErrQuestionNotFound)
	_, err = flow.EditQuestion("nope", 0)
	assert.ErrorIs(t, err, model.ErrSegmentNotFound)
}

func TestSaveInvalidQuestionIsNotSent(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)
	editor, err := flow.EditQuestion("seg1", 0)
	require.NoError(t, err)

	require.NoError(t, editor.SetOption(2, ""))
	_, err = flow.SaveQuestion(f.ctx, editor)
	require.True(t, model.IsValidation(err))
	assert.Zero(t, f.api.Calls("update"))

	n, _ := f.notifier.Last()
	assert.Equal(t, "Options required", n.Title)
	assert.Equal(t, dashboard.VariantDestructive, n.Variant)
}

func TestSaveQuestionPersists(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)
	editor, err := flow.EditQuestion("seg2", 1)
	require.NoError(t, err)

	editor.Text = "Which loop runs at least once?"
	for i, o := range []string{"for", "while", "do-while", "foreach"} {
		require.NoError(t, editor.SetOption(i, o))
	}
	require.NoError(t, editor.SelectAnswer(2))

	seg, err := flow.SaveQuestion(f.ctx, editor)
	require.NoError(t, err)
	want := &model.Question{
		Text:    "Which loop runs at least once?",
		Options: []string{"for", "while", "do-while", "foreach"},
		Answer:  "do-while",
	}
	assert.Empty(t, cmp.Diff(want, seg.Questions[1]))
	assert.Empty(t, cmp.Diff(want, flow.Results().Segment("seg2").Questions[1]))

	stored, err := f.store.Results(model.ExampleIntroVideoId)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, stored.Segment("seg2").Questions[1]))

	n, _ := f.notifier.Last()
	assert.Equal(t, "Question updated", n.Title)
}

func TestEditorAnswerFollowsOption(t *testing.T) {
	e := &dashboard.QuestionEditor{Options: [4]string{"a", "b", "c", "d"}, Answer: "b"}
	require.NoError(t, e.SetOption(1, "beta"))
	assert.Equal(t, "beta", e.Answer)
	require.NoError(t, e.SetOption(0, "alpha"))
	assert.Equal(t, "beta", e.Answer)
	assert.Error(t, e.SetOption(4, "x"))
	assert.Error(t, e.SelectAnswer(-1))
}

func TestJumpToSegment(t *testing.T) {
	f := newFixture(t)
	flow := f.loadedResults(t)
	player := flow.Player()
	assert.False(t, player.Playing())

	require.NoError(t, flow.JumpToSegment("seg2"))
	assert.True(t, player.Playing())
	assert.Equal(t, 300.0, player.CurrentTime())
	assert.Equal(t, "seg2", flow.ActiveSegment().Id)

	player.TimeUpdate(650.5)
	assert.Equal(t, "seg3", flow.ActiveSegment().Id)
	player.TimeUpdate(1000)
	assert.Nil(t, flow.ActiveSegment())

	assert.ErrorIs(t, flow.JumpToSegment("seg9"), model.ErrSegmentNotFound)
}

func TestPlayer(t *testing.T) {
	p := dashboard.NewPlayer(125)
	p.Seek(-5)
	assert.Zero(t, p.CurrentTime())
	p.Seek(500)
	assert.Equal(t, 125.0, p.CurrentTime())
	assert.Equal(t, "2:05 / 2:05", p.Position())

	assert.True(t, p.TogglePlayPause())
	assert.False(t, p.TogglePlayPause())
	p.Play()
	p.Pause()
	assert.False(t, p.Playing())
}
