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

// Package services provides the mock video backend used by the dashboard. It
// behaves like a remote API: every operation sleeps for a configured latency,
// uploads report simulated progress, and processing advances one stage per
// status poll until the simulated pipeline has produced quiz results.
//
// Structs:
//   - VideoService: The mock API over an in-memory store.
//   - Metrics: Prometheus instruments recorded by the service.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/config"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/generator"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/store"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/workflow"
	"golang.org/x/sync/singleflight"
)

// FailedMessage prefixes the error of a video whose processing failed.
const FailedMessage = "Processing failed due to an error"

// VideoService is the mock video API.
type VideoService struct {
	config   *config.Config
	store    *store.MemoryStore
	source   generator.QuestionSource
	workflow *workflow.LectureProcessingWorkflow
	metrics  *Metrics
	group    singleflight.Group
	randIntN func(n int) int
}

// NewVideoService creates the service.
//
// Inputs:
//   - cfg: Latencies, upload limits and processing parameters.
//   - st: The tables the service reads and writes.
//   - source: The question source used for generation and regeneration.
//   - metrics: Prometheus instruments; see NewMetrics.
//
// Outputs:
//   - *VideoService: The service.
func NewVideoService(cfg *config.Config, st *store.MemoryStore, source generator.QuestionSource, metrics *Metrics) *VideoService {
	s := &VideoService{
		config:   cfg,
		store:    st,
		source:   source,
		workflow: workflow.NewLectureProcessingWorkflow(cfg.Processing, st, source),
		metrics:  metrics,
		randIntN: rand.Intn,
	}
	metrics.setVideos(st.CountByStatus())
	return s
}

// sleep waits for the artificial latency of an operation.
func sleep(ctx context.Context, ms int) error {
	if ms <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// List returns every video in insertion order.
func (s *VideoService) List(ctx context.Context) ([]*model.Video, error) {
	if err := sleep(ctx, s.config.Latency.ListMs); err != nil {
		return nil, err
	}
	return s.store.List(), nil
}

// Upload validates and "uploads" a video, reporting progress through
// onProgress, and appends it in the processing state.
//
// Logic Flow:
//  1. Reject a blank title or a file breaking the upload rules.
//  2. Drain the content, if any, enforcing the size limit on the real bytes.
//  3. Every progress interval add the progress step, never reporting more
//     than 100, until the upload duration has passed; then report 100.
//  4. Append the new video with a random duration.
//
// Inputs:
//   - ctx: Cancelling aborts the upload; nothing is appended.
//   - file: The file to upload.
//   - title: The video title.
//   - onProgress: Optional progress callback, called on the caller's goroutine.
//
// Outputs:
//   - string: The id of the new video.
//   - error: A *model.ValidationError, a context error or a read error.
func (s *VideoService) Upload(ctx context.Context, file *model.UploadFile, title string, onProgress func(progress int)) (id string, err error) {
	defer func() { s.metrics.Uploads.WithLabelValues(outcome(err)).Inc() }()

	if err = model.ValidateTitle(title); err != nil {
		return "", err
	}
	maxBytes := s.config.Upload.MaxFileSize()
	if err = model.ValidateUploadFile(file, maxBytes); err != nil {
		return "", err
	}
	if file.Content != nil {
		n, copyErr := io.Copy(io.Discard, io.LimitReader(file.Content, maxBytes+1))
		if copyErr != nil {
			return "", fmt.Errorf("failed to read upload %s: %w", file.Name, copyErr)
		}
		if n > maxBytes {
			return "", model.ValidateUploadFile(&model.UploadFile{MediaType: file.MediaType, Size: n}, maxBytes)
		}
	}

	report := func(p int) {
		if onProgress != nil {
			onProgress(p)
		}
	}
	if err = s.simulateProgress(ctx, report); err != nil {
		return "", err
	}
	report(100)

	p := s.config.Processing
	duration := p.MinDurationSeconds
	if span := p.MaxDurationSeconds - p.MinDurationSeconds + 1; span > 0 {
		duration += s.randIntN(span)
	}
	video := model.NewVideo(title, duration)
	if err = s.store.Add(video); err != nil {
		return "", err
	}
	s.metrics.setVideos(s.store.CountByStatus())
	slog.InfoContext(ctx, "video uploaded", "video_id", video.Id, "title", title, "duration", duration)
	return video.Id, nil
}

func (s *VideoService) simulateProgress(ctx context.Context, report func(int)) error {
	u := s.config.Upload
	done := time.NewTimer(u.Duration())
	defer done.Stop()
	interval := u.ProgressInterval()
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	progress := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done.C:
			return ctx.Err()
		case <-ticker.C:
			if progress+u.ProgressStep <= 100 {
				progress += u.ProgressStep
				report(progress)
			}
		}
	}
}

// GetStatus answers a status poll.
//
// A processing video advances one stage per poll: the first four polls report
// upload, transcription, segmentation and question_generation, and the next
// poll runs the processing workflow and reports complete, or failed with the
// stage it failed in. Completed videos always report complete.
//
// Outputs:
//   - *model.VideoStatus: The status; Stage is always set.
//   - error: model.ErrVideoNotFound or a context error.
func (s *VideoService) GetStatus(ctx context.Context, id string) (*model.VideoStatus, error) {
	if err := sleep(ctx, s.config.Latency.StatusMs); err != nil {
		return nil, err
	}

	complete := false
	rec, err := s.store.Update(id, func(r *store.Record) error {
		if r.Video.Status != model.StatusProcessing {
			return nil
		}
		if r.Polls < model.StageComplete.Index() {
			r.StageIndex = r.Polls
			r.Polls++
			return nil
		}
		complete = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if complete {
		if rec, err = s.completeProcessing(ctx, id); err != nil {
			return nil, err
		}
	}

	status := statusOf(rec)
	s.metrics.StatusPolls.WithLabelValues(string(status.Stage)).Inc()
	return status, nil
}

func statusOf(rec *store.Record) *model.VideoStatus {
	out := &model.VideoStatus{
		Id:     rec.Video.Id,
		Title:  rec.Video.Title,
		Status: rec.Video.Status,
	}
	switch rec.Video.Status {
	case model.StatusCompleted:
		out.Stage = model.StageComplete
	case model.StatusFailed:
		out.Stage = rec.Stage()
		out.Error = rec.Error
	case model.StatusUploading:
		out.Stage = model.StageUpload
	default:
		out.Stage = rec.Stage()
	}
	return out
}

// shared runs fn once for all concurrent callers with the same key. fn runs
// on a context that is never cancelled. Each caller returns when fn finishes
// or its own ctx is done, whichever comes first.
func (s *VideoService) shared(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return fn(detached)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// completeProcessing runs the workflow once per video, however many polls
// arrive together, and records the outcome on the video.
func (s *VideoService) completeProcessing(ctx context.Context, id string) (*store.Record, error) {
	v, err := s.shared(ctx, "complete:"+id, func(ctx context.Context) (interface{}, error) {
		rec, err := s.store.Get(id)
		if err != nil {
			return nil, err
		}
		if rec.Video.Status != model.StatusProcessing {
			return rec, nil
		}

		results, runErr := s.workflow.Process(ctx, &rec.Video)
		if runErr != nil && isCancellation(runErr) {
			return nil, runErr
		}

		updated, err := s.store.Update(id, func(r *store.Record) error {
			if runErr != nil {
				var stageErr *workflow.StageError
				r.StageIndex = model.StageQuestionGeneration.Index()
				if errors.As(runErr, &stageErr) {
					r.StageIndex = stageErr.Stage.Index()
				}
				r.Video.Status = model.StatusFailed
				r.Error = fmt.Sprintf("%s: %v", FailedMessage, runErr)
				return nil
			}
			r.Video.Status = model.StatusCompleted
			r.Video.QuestionCount = results.QuestionCount()
			r.StageIndex = model.StageComplete.Index()
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.metrics.setVideos(s.store.CountByStatus())
		if runErr != nil {
			slog.WarnContext(ctx, "video processing failed", "video_id", id, "error", runErr)
		} else {
			slog.InfoContext(ctx, "video processing complete", "video_id", id, "questions", results.QuestionCount())
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}
	rec := *v.(*store.Record)
	return &rec, nil
}

// GetResults returns the results of a video. Videos without stored results
// get deterministic simulated results derived from their duration, which are
// stored so later calls and mutations see the same data.
//
// Outputs:
//   - *model.Results: A copy the caller owns.
//   - error: model.ErrVideoNotFound, a workflow error or a context error.
func (s *VideoService) GetResults(ctx context.Context, id string) (*model.Results, error) {
	if err := sleep(ctx, s.config.Latency.ResultsMs); err != nil {
		return nil, err
	}
	if r, err := s.store.Results(id); err == nil {
		return r, nil
	}
	rec, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	v, err := s.shared(ctx, "results:"+id, func(ctx context.Context) (interface{}, error) {
		return s.workflow.Process(ctx, &rec.Video)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Results).Clone(), nil
}

// RegenerateQuestions replaces the questions of one segment with freshly
// generated ones and returns the updated segment.
//
// Outputs:
//   - *model.Segment: The segment as stored after the change.
//   - error: model.ErrVideoNotFound when the video has no stored results,
//     model.ErrSegmentNotFound, or a generation error. Nothing changes on error.
func (s *VideoService) RegenerateQuestions(ctx context.Context, id string, segmentId string) (seg *model.Segment, err error) {
	defer func() { s.metrics.Regenerations.WithLabelValues(outcome(err)).Inc() }()

	if err = sleep(ctx, s.config.Latency.RegenerateMs); err != nil {
		return nil, err
	}
	results, err := s.store.Results(id)
	if err != nil {
		return nil, err
	}
	current := results.Segment(segmentId)
	if current == nil {
		return nil, model.ErrSegmentNotFound
	}
	questions, err := s.source.Regenerate(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate questions for segment %s: %w", segmentId, err)
	}
	return s.store.UpdateSegment(id, segmentId, func(seg *model.Segment) error {
		seg.Questions = questions
		return nil
	})
}

// UpdateQuestion replaces one question of a segment after validating it.
//
// Inputs:
//   - index: Zero based position of the question in the segment.
//   - question: The new question; it is copied.
//
// Outputs:
//   - *model.Segment: The segment as stored after the change.
//   - error: A *model.ValidationError, model.ErrVideoNotFound,
//     model.ErrSegmentNotFound or model.ErrQuestionNotFound. Nothing changes
//     on error.
func (s *VideoService) UpdateQuestion(ctx context.Context, id string, segmentId string, index int, question *model.Question) (seg *model.Segment, err error) {
	defer func() { s.metrics.QuestionEdits.WithLabelValues(outcome(err)).Inc() }()

	if question == nil {
		return nil, &model.ValidationError{Title: "Question required", Description: "Please enter the question text."}
	}
	if err = question.Validate(); err != nil {
		return nil, err
	}
	if err = sleep(ctx, s.config.Latency.UpdateMs); err != nil {
		return nil, err
	}
	return s.store.UpdateSegment(id, segmentId, func(seg *model.Segment) error {
		if index < 0 || index >= len(seg.Questions) {
			return model.ErrQuestionNotFound
		}
		seg.Questions[index] = question.Clone()
		return nil
	})
}

// Stats returns the number of videos in each status.
func (s *VideoService) Stats(ctx context.Context) (map[model.Status]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CountByStatus(), nil
}
