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
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/dashboard"
)

// terminalNavigator queues the routes the flows navigate to, so a command
// can follow them.
type terminalNavigator struct {
	dashboard.History

	mu      sync.Mutex
	pending []string
}

// Navigate records route and queues it for next.
func (n *terminalNavigator) Navigate(route string) {
	n.History.Navigate(route)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, route)
}

func (n *terminalNavigator) next() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.pending) == 0 {
		return "", false
	}
	route := n.pending[0]
	n.pending = n.pending[1:]
	return route, true
}

// terminalNotifier prints notifications as "[Title] Description".
type terminalNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// Notify prints n, prefixed with "! " when destructive.
func (t *terminalNotifier) Notify(n dashboard.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prefix := ""
	if n.Variant == dashboard.VariantDestructive {
		prefix = "! "
	}
	fmt.Fprintf(t.out, "%s[%s] %s\n", prefix, n.Title, n.Description)
}

func printVideos(w io.Writer, rows []dashboard.VideoRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No videos yet. Get started by uploading your first video for transcription and quiz generation.")
		return
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-36s  %-40s  %-10s  %8s  %3d questions  %s\n",
			r.Id, r.Title, r.StatusLabel, r.Duration, r.QuestionCount, r.Created)
	}
}

func printErrorView(w io.Writer, v *dashboard.ErrorView) {
	fmt.Fprintf(w, "%s\n%s\n", v.Title, v.Message)
	for _, a := range v.Actions {
		fmt.Fprintf(w, "  -> %s (%s)\n", a.Label, a.Route)
	}
}

func printResults(w io.Writer, r *model.Results, expanded func(string) bool) {
	fmt.Fprintln(w, r.Title)
	fmt.Fprintf(w, "Duration: %s • %d segments • %d questions\n",
		dashboard.FormatTime(float64(r.Duration)), len(r.Segments), r.QuestionCount())
	for i, s := range r.Segments {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Segment %d: %s - %s (%s, %d questions)\n",
			i+1, dashboard.FormatTime(float64(s.StartTime)), dashboard.FormatTime(float64(s.EndTime)), s.Id, len(s.Questions))
		if !expanded(s.Id) {
			fmt.Fprintf(w, "  %s...\n", preview(s.Transcript, 100))
			continue
		}
		fmt.Fprintf(w, "  Transcript\n  %s\n", s.Transcript)
		printQuestions(w, s)
	}
}

func printQuestions(w io.Writer, s *model.Segment) {
	if len(s.Questions) == 0 {
		fmt.Fprintln(w, "  No questions generated for this segment yet.")
		return
	}
	for qi, q := range s.Questions {
		fmt.Fprintf(w, "  %d. %s\n", qi, q.Text)
		for _, o := range q.Options {
			mark := ""
			if o == q.Answer {
				mark = " ✓"
			}
			fmt.Fprintf(w, "     - %s%s\n", o, mark)
		}
	}
}

func preview(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
