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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/dashboard"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	require.NoError(t, testutil.SetupOS())
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--local"}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestListCommand(t *testing.T) {
	out, _, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Introduction to Computer Science")
	assert.Contains(t, out, "1h 2m")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestResultsCommand(t *testing.T) {
	out, _, err := execute(t, "results", "1", "--expand", "seg2")
	require.NoError(t, err)
	assert.Contains(t, out, "Duration: 62:00 • 3 segments • 8 questions")
	assert.Contains(t, out, "Segment 2: 5:00 - 10:00 (seg2, 2 questions)")
	assert.Contains(t, out, "  Transcript\n")
	assert.Equal(t, 1, strings.Count(out, "Transcript\n"))
}

func TestResultsCommandJump(t *testing.T) {
	out, _, err := execute(t, "results", "1", "--jump", "seg3")
	require.NoError(t, err)
	assert.Equal(t, "Playing seg3 from 10:00 / 62:00\n", out)
}

func TestResultsCommandUnknownVideo(t *testing.T) {
	_, errOut, err := execute(t, "results", "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Contains(t, errOut, "Error Loading Results")
}

func TestExportCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	out, errOut, err := execute(t, "export", "1", "--out", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "Introduction_to_Computer_Science_quiz.json")
	assert.Equal(t, path+"\n", out)
	assert.Contains(t, errOut, "[Export successful] Quiz data has been exported as JSON")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc model.ExportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "1", doc.VideoId)
}

func TestEditCommandRejectsInvalidQuestion(t *testing.T) {
	_, errOut, err := execute(t, "edit", "1", "seg1", "0", "--text", " ")
	assert.True(t, model.IsValidation(err))
	assert.Contains(t, errOut, "! [Question required]")
}

func TestEditCommand(t *testing.T) {
	out, errOut, err := execute(t, "edit", "1", "seg1", "0",
		"--text", "Pick one",
		"--option", "w", "--option", "x", "--option", "y", "--option", "z",
		"--answer", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "0. Pick one")
	assert.Contains(t, out, "- z ✓")
	assert.Contains(t, errOut, "[Question updated]")
}

func TestUploadCommandFollowsToResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week 3.mp4")
	require.NoError(t, os.WriteFile(path, testutil.SampleMP4Head(), 0o644))

	out, errOut, err := execute(t, "upload", path)
	require.NoError(t, err)
	assert.Contains(t, errOut, "[Upload successful]")
	assert.Contains(t, out, "Transcribing video")
	assert.Contains(t, out, "[##########] 100% Processing complete")
	assert.Contains(t, out, "week 3\nDuration: ")
}

func TestUploadCommandRejectsNonVideo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.mp4")
	require.NoError(t, os.WriteFile(path, testutil.SamplePNGHead(), 0o644))

	_, errOut, err := execute(t, "upload", path)
	assert.True(t, model.IsValidation(err))
	assert.Contains(t, errOut, "! [Invalid file type]")
}

func TestTerminalNavigatorQueuesRoutes(t *testing.T) {
	n := &terminalNavigator{}
	n.Navigate(dashboard.ProcessingRoute("a"))
	n.Navigate(dashboard.ResultsRoute("a"))
	first, _ := n.next()
	second, _ := n.next()
	_, ok := n.next()
	assert.Equal(t, "/processing/a", first)
	assert.Equal(t, "/results/a", second)
	assert.False(t, ok)
	assert.Equal(t, "/results/a", n.Current())
}
