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

// Package dashboard holds the client side flows of the lecture quiz dashboard:
// uploading a video, watching it move through processing and working with
// the generated quiz. The flows talk to a VideoAPI, which is either the
// in-process mock service or the HTTP client in internal/api, and report to
// the user through a Navigator and a Notifier.
//
// The id of the video the user is working on lives in a Session that travels
// in the context.Context handed to every flow:
//
//	ctx := dashboard.NewContext(context.Background(), dashboard.NewSession())
//	id, err := upload.Submit(ctx)
package dashboard

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSession is returned by flows called with a context carrying no Session.
var ErrNoSession = errors.New("dashboard: no session in context")

// Session holds the current video id for the lifetime of a dashboard session.
type Session struct {
	mu             sync.RWMutex
	currentVideoId string
}

// NewSession returns a session with no current video.
func NewSession() *Session {
	return &Session{}
}

// SetCurrentVideoId records id as the current video. An empty id clears it.
func (s *Session) SetCurrentVideoId(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentVideoId = id
}

// CurrentVideoId returns the current video id and whether one is set.
func (s *Session) CurrentVideoId() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentVideoId, s.currentVideoId != ""
}

type sessionKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session carried by ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

func sessionFrom(ctx context.Context) (*Session, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}
