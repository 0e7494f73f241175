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

// Package store holds the in-memory tables behind the mock video backend: the
// list of videos, with their position in the processing pipeline, and the
// results of every processed video. Nothing is persisted.
//
// Every read returns a copy, so callers can never alias table state, and every
// write goes through a function applied under the write lock.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// Record is a video together with its processing progress.
type Record struct {
	Video      model.Video
	StageIndex int    // Index into model.Stages of the last reported stage.
	Polls      int    // Status polls answered while processing.
	Error      string // Set when Video.Status is failed.
}

// Stage returns the stage the record is at.
func (r *Record) Stage() model.Stage {
	if r.StageIndex < 0 || r.StageIndex >= len(model.Stages) {
		return model.StageUpload
	}
	return model.Stages[r.StageIndex]
}

// MemoryStore is a concurrency safe in-memory table of videos and results.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*Record
	results map[string]*model.Results
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		results: make(map[string]*model.Results),
	}
}

// NewSeededMemoryStore returns a store holding the example videos and results.
func NewSeededMemoryStore(now time.Time) *MemoryStore {
	s := NewMemoryStore()
	for _, v := range model.GetExampleVideos(now) {
		_ = s.Add(v)
	}
	s.results[model.ExampleIntroVideoId] = model.GetExampleResults(now)
	return s
}

// Add appends a video. Completed videos start at the complete stage.
func (s *MemoryStore) Add(v *model.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[v.Id]; ok {
		return fmt.Errorf("video %s already exists", v.Id)
	}
	r := &Record{Video: *v}
	if v.Status == model.StatusCompleted {
		r.StageIndex = model.StageComplete.Index()
	}
	s.records[v.Id] = r
	s.order = append(s.order, v.Id)
	return nil
}

// List returns copies of all videos in insertion order.
func (s *MemoryStore) List() []*model.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Video, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Video.Clone())
	}
	return out
}

// Get returns a copy of the record for id.
func (s *MemoryStore) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, model.ErrVideoNotFound
	}
	out := *r
	return &out, nil
}

// Update applies fn to a copy of the record and stores the copy when fn
// returns nil.
//
// Outputs:
//   - *Record: A copy of the record after the update.
//   - error: ErrVideoNotFound, or the error returned by fn.
func (s *MemoryStore) Update(id string, fn func(r *Record) error) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, model.ErrVideoNotFound
	}
	next := *r
	if err := fn(&next); err != nil {
		return nil, err
	}
	s.records[id] = &next
	out := next
	return &out, nil
}

// Results returns a copy of the stored results for id.
func (s *MemoryStore) Results(id string) (*model.Results, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	if !ok {
		return nil, model.ErrVideoNotFound
	}
	return r.Clone(), nil
}

// HasResults reports whether results are stored for id.
func (s *MemoryStore) HasResults(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.results[id]
	return ok
}

// PutResultsIfAbsent stores results unless some are already stored, and
// returns a copy of whichever results are stored afterwards. The video's
// question count is left to the caller.
func (s *MemoryStore) PutResultsIfAbsent(r *model.Results) (*model.Results, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.results[r.Id]; ok {
		return existing.Clone(), false
	}
	stored := r.Clone()
	s.results[r.Id] = stored
	return stored.Clone(), true
}

// UpdateSegment applies fn to a copy of one segment of the stored results.
// The copy replaces the stored segment only when fn returns nil, so a failed
// update leaves the results unchanged.
//
// Outputs:
//   - *model.Segment: A copy of the updated segment.
//   - error: ErrVideoNotFound when no results are stored, ErrSegmentNotFound,
//     or the error returned by fn.
func (s *MemoryStore) UpdateSegment(videoId, segmentId string, fn func(seg *model.Segment) error) (*model.Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[videoId]
	if !ok {
		return nil, model.ErrVideoNotFound
	}
	for i, seg := range r.Segments {
		if seg.Id != segmentId {
			continue
		}
		next := seg.Clone()
		if err := fn(next); err != nil {
			return nil, err
		}
		r.Segments[i] = next
		// Adjust by the difference; seeded counts cover more than the stored segments.
		if rec, ok := s.records[videoId]; ok {
			updated := *rec
			updated.Video.QuestionCount += len(next.Questions) - len(seg.Questions)
			s.records[videoId] = &updated
		}
		return next.Clone(), nil
	}
	return nil, model.ErrSegmentNotFound
}

// CountByStatus returns the number of videos in each status.
func (s *MemoryStore) CountByStatus() map[model.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[model.Status]int{
		model.StatusUploading:  0,
		model.StatusProcessing: 0,
		model.StatusCompleted:  0,
		model.StatusFailed:     0,
	}
	for _, r := range s.records {
		out[r.Video.Status]++
	}
	return out
}
