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

package store_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededStore(t *testing.T) {
	s := store.NewSeededMemoryStore(time.Now())

	videos := s.List()
	require.Len(t, videos, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{videos[0].Id, videos[1].Id, videos[2].Id})

	rec, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, model.StageComplete, rec.Stage())

	rec, err = s.Get("3")
	require.NoError(t, err)
	assert.Equal(t, model.StageUpload, rec.Stage())

	assert.True(t, s.HasResults("1"))
	assert.False(t, s.HasResults("2"))

	counts := s.CountByStatus()
	assert.Equal(t, 2, counts[model.StatusCompleted])
	assert.Equal(t, 1, counts[model.StatusProcessing])
	assert.Equal(t, 0, counts[model.StatusFailed])
}

func TestListReturnsCopies(t *testing.T) {
	s := store.NewSeededMemoryStore(time.Now())
	s.List()[0].Title = "changed"
	assert.Equal(t, "Introduction to Computer Science", s.List()[0].Title)

	r, err := s.Results("1")
	require.NoError(t, err)
	r.Segments[0].Questions = nil
	again, _ := s.Results("1")
	assert.Len(t, again.Segments[0].Questions, 3)
}

func TestAddRejectsDuplicates(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Add(&model.Video{Id: "a"}))
	assert.Error(t, s.Add(&model.Video{Id: "a"}))
}

func TestUpdate(t *testing.T) {
	s := store.NewSeededMemoryStore(time.Now())

	rec, err := s.Update("3", func(r *store.Record) error {
		r.StageIndex++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageTranscription, rec.Stage())

	_, err = s.Update("3", func(r *store.Record) error {
		r.StageIndex = 4
		return errors.New("rejected")
	})
	assert.EqualError(t, err, "rejected")
	rec, _ = s.Get("3")
	assert.Equal(t, model.StageTranscription, rec.Stage())

	_, err = s.Update("missing", func(r *store.Record) error { return nil })
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPutResultsIfAbsent(t *testing.T) {
	s := store.NewSeededMemoryStore(time.Now())

	stored, created := s.PutResultsIfAbsent(&model.Results{Id: "1", Title: "other"})
	assert.False(t, created)
	assert.Equal(t, "Introduction to Computer Science", stored.Title)

	fresh := &model.Results{Id: "2", Title: "Machine Learning Fundamentals", Segments: []*model.Segment{
		{Id: "2-seg-0", Questions: []*model.Question{{Text: "q"}, {Text: "q2"}}},
	}}
	stored, created = s.PutResultsIfAbsent(fresh)
	assert.True(t, created)
	assert.Equal(t, "2-seg-0", stored.Segments[0].Id)
	v, _ := s.Get("2")
	assert.Equal(t, 38, v.Video.QuestionCount)
}

func TestUpdateSegment(t *testing.T) {
	s := store.NewSeededMemoryStore(time.Now())

	seg, err := s.UpdateSegment("1", "seg2", func(seg *model.Segment) error {
		seg.Questions = append(seg.Questions, &model.Question{Text: "extra"})
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seg.Questions, 3)
	v, _ := s.Get("1")
	assert.Equal(t, 53, v.Video.QuestionCount)

	_, err = s.UpdateSegment("1", "seg2", func(seg *model.Segment) error {
		seg.Questions = nil
		return errors.New("rejected")
	})
	assert.Error(t, err)
	r, _ := s.Results("1")
	assert.Len(t, r.Segment("seg2").Questions, 3)

	_, err = s.UpdateSegment("1", "nope", func(seg *model.Segment) error { return nil })
	assert.ErrorIs(t, err, model.ErrSegmentNotFound)
	_, err = s.UpdateSegment("2", "seg1", func(seg *model.Segment) error { return nil })
	assert.ErrorIs(t, err, model.ErrVideoNotFound)
}

func TestConcurrentAccess(t *testing.T) {
	s := store.NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("v%d", i)
			assert.NoError(t, s.Add(&model.Video{Id: id, Status: model.StatusProcessing}))
			_, err := s.Update(id, func(r *store.Record) error {
				r.StageIndex++
				return nil
			})
			assert.NoError(t, err)
			s.List()
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.List(), 50)
	assert.Equal(t, 50, s.CountByStatus()[model.StatusProcessing])
}
