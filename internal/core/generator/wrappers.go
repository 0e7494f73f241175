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

// Package generator. This file implements a decorator that puts a quota in
// front of any QuestionSource. Calls wait for a token instead of failing, and
// give up only when their context is done.
//
// Structs:
//   - QuotaAwareSource: Wraps a QuestionSource with a token bucket limiter.
//
// Functions:
//   - NewQuotaAwareSource: Creates the wrapper.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"golang.org/x/time/rate"
)

// QuotaAwareSource limits how often the wrapped source is called.
type QuotaAwareSource struct {
	wrapped   QuestionSource
	RateLimit *rate.Limiter
}

// NewQuotaAwareSource wraps a source with a limiter that refills
// requestsPerSecond tokens every second and allows a burst of the same size.
//
// Inputs:
//   - wrapped: The source to protect.
//   - requestsPerSecond: Calls allowed per second. Values below one are
//     treated as one.
//
// Outputs:
//   - *QuotaAwareSource: The wrapped source.
func NewQuotaAwareSource(wrapped QuestionSource, requestsPerSecond int) *QuotaAwareSource {
	if requestsPerSecond < 1 {
		requestsPerSecond = 1
	}
	return &QuotaAwareSource{
		wrapped:   wrapped,
		RateLimit: rate.NewLimiter(rate.Every(time.Second/time.Duration(requestsPerSecond)), requestsPerSecond),
	}
}

// Generate waits for a token and delegates to the wrapped source.
func (q *QuotaAwareSource) Generate(ctx context.Context, segment *model.Segment, ordinal int) ([]*model.Question, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("question quota wait: %w", err)
	}
	return q.wrapped.Generate(ctx, segment, ordinal)
}

// Regenerate waits for a token and delegates to the wrapped source.
func (q *QuotaAwareSource) Regenerate(ctx context.Context, segment *model.Segment) ([]*model.Question, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("question quota wait: %w", err)
	}
	return q.wrapped.Regenerate(ctx, segment)
}
