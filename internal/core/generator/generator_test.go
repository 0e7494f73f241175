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

package generator_test

import (
	"context"
	"testing"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/generator"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/zeebo/assert"
)

func TestPlaceholderGenerate(t *testing.T) {
	src := generator.NewPlaceholderSource()
	qs, err := src.Generate(context.Background(), &model.Segment{Id: "x-seg-1"}, 1)
	assert.NoError(t, err)
	assert.Equal(t, len(qs), 2)
	assert.Equal(t, qs[0].Text, "Sample question 2 about the content in this segment?")
	assert.Equal(t, qs[0].Answer, "Option B")
	assert.Equal(t, qs[1].Text, "Another sample question 2 testing understanding of the material?")
	assert.Equal(t, qs[1].Answer, "Third choice")
	for _, q := range qs {
		assert.NoError(t, q.Validate())
	}
}

func TestPlaceholderRegenerate(t *testing.T) {
	src := generator.NewPlaceholderSource()
	qs, err := src.Regenerate(context.Background(), &model.Segment{Id: "seg1"})
	assert.NoError(t, err)
	assert.Equal(t, len(qs), 3)
	assert.Equal(t, qs[0].Text, "Newly generated question 1 for segment seg1?")
	assert.Equal(t, qs[0].Answer, "New option A")
	assert.Equal(t, qs[1].Answer, "Second new choice")
	assert.Equal(t, qs[2].Text, "Newly generated question 3 for segment seg1?")
	assert.Equal(t, qs[2].Answer, "Additional choice 3")
	for _, q := range qs {
		assert.NoError(t, q.Validate())
	}
}

func TestPlaceholderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := generator.NewPlaceholderSource().Generate(ctx, &model.Segment{}, 0)
	assert.Error(t, err)
}

// TestQuotaAwareSourceWaitsForToken drains the bucket and checks that the
// next call respects its context instead of failing immediately.
func TestQuotaAwareSourceWaitsForToken(t *testing.T) {
	src := generator.NewQuotaAwareSource(generator.NewPlaceholderSource(), 1)

	_, err := src.Regenerate(context.Background(), &model.Segment{Id: "seg1"})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Regenerate(ctx, &model.Segment{Id: "seg1"})
	assert.Error(t, err)
}

func TestQuotaAwareSourceMinimumRate(t *testing.T) {
	src := generator.NewQuotaAwareSource(generator.NewPlaceholderSource(), 0)
	assert.Equal(t, src.RateLimit.Burst(), 1)
	qs, err := src.Generate(context.Background(), &model.Segment{Id: "a"}, 0)
	assert.NoError(t, err)
	assert.Equal(t, len(qs), 2)
}
