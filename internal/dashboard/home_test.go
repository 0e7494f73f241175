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
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeLoad(t *testing.T) {
	f := newFixture(t)
	home := dashboard.NewHomeFlow(f.api, f.nav)

	rows, err := home.Load(f.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Introduction to Computer Science", rows[0].Title)
	assert.Equal(t, "1h 2m", rows[0].Duration)
	assert.Equal(t, "Completed", rows[0].StatusLabel)
	assert.Equal(t, "Processing", rows[2].StatusLabel)
	assert.Equal(t, model.StatusProcessing, rows[2].Status)

	home.Open(rows[0].Id)
	assert.Equal(t, dashboard.ResultsRoute(rows[0].Id), f.nav.Current())
	home.Upload()
	assert.Equal(t, dashboard.RouteUpload, f.nav.Current())
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "0:00", dashboard.FormatTime(0))
	assert.Equal(t, "5:07", dashboard.FormatTime(307.9))
	assert.Equal(t, "62:00", dashboard.FormatTime(3720))
	assert.Equal(t, "0:00", dashboard.FormatTime(-3))

	assert.Equal(t, "1h 2m", dashboard.FormatDuration(3720))
	assert.Equal(t, "47m 30s", dashboard.FormatDuration(2850))
	assert.Equal(t, "0m 0s", dashboard.FormatDuration(-1))

	day := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "Mar 5, 2024", dashboard.FormatDate(day))
}
