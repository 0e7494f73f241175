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
	"context"
	"testing"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionContext(t *testing.T) {
	_, ok := dashboard.FromContext(context.Background())
	assert.False(t, ok)

	s := dashboard.NewSession()
	ctx := dashboard.NewContext(context.Background(), s)
	got, ok := dashboard.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, set := s.CurrentVideoId()
	assert.False(t, set)
	s.SetCurrentVideoId("42")
	id, set := got.CurrentVideoId()
	assert.True(t, set)
	assert.Equal(t, "42", id)
}

func TestFlowsRequireSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := dashboard.NewUploadFlow(f.api, f.nav, f.notifier, f.cfg.Upload.MaxFileSize()).Submit(ctx)
	assert.ErrorIs(t, err, dashboard.ErrNoSession)
	err = dashboard.NewProcessingFlow(f.api, f.nav, f.cfg.Dashboard).Run(ctx, "1", nil)
	assert.ErrorIs(t, err, dashboard.ErrNoSession)
	_, err = dashboard.NewResultsFlow(f.api, f.nav, f.notifier).Load(ctx, "1")
	assert.ErrorIs(t, err, dashboard.ErrNoSession)

	assert.Zero(t, f.api.Calls("status"))
	assert.Empty(t, f.nav.Routes())
}

func TestRoutes(t *testing.T) {
	assert.Equal(t, "/processing/abc", dashboard.ProcessingRoute("abc"))
	assert.Equal(t, "/results/abc", dashboard.ResultsRoute("abc"))

	cases := map[string]dashboard.Route{
		"/":              {Page: dashboard.PageHome},
		"/upload":        {Page: dashboard.PageUpload},
		"/processing/7":  {Page: dashboard.PageProcessing, VideoId: "7"},
		"/results/a%20b": {Page: dashboard.PageResults, VideoId: "a b"},
	}
	for path, want := range cases {
		got, err := dashboard.ParseRoute(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	for _, bad := range []string{"/results/", "/results/1/2", "/settings"} {
		_, err := dashboard.ParseRoute(bad)
		assert.Error(t, err, bad)
	}
}
