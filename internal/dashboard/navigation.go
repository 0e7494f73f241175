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

package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// VideoAPI is the backend the flows talk to. It is implemented by
// services.VideoService in process and by api.Client over HTTP.
type VideoAPI interface {
	List(ctx context.Context) ([]*model.Video, error)
	Upload(ctx context.Context, file *model.UploadFile, title string, onProgress func(progress int)) (string, error)
	GetStatus(ctx context.Context, id string) (*model.VideoStatus, error)
	GetResults(ctx context.Context, id string) (*model.Results, error)
	RegenerateQuestions(ctx context.Context, id string, segmentId string) (*model.Segment, error)
	UpdateQuestion(ctx context.Context, id string, segmentId string, index int, question *model.Question) (*model.Segment, error)
}

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(route string)
}

// Notification variants.
const (
	VariantDefault     = "default"
	VariantSuccess     = "success"
	VariantDestructive = "destructive"
)

// Notification is a short message shown to the user.
type Notification struct {
	Title       string
	Description string
	Variant     string
}

// Notifier shows notifications.
type Notifier interface {
	Notify(n Notification)
}

// Action is a button on an error view.
type Action struct {
	Label string
	Route string
}

var returnToDashboard = Action{Label: "Return to Dashboard", Route: RouteHome}

// ErrorView is a full page error state.
type ErrorView struct {
	Title   string
	Message string
	Actions []Action
}

// History is a Navigator that remembers every route it was sent to.
type History struct {
	mu     sync.Mutex
	routes []string
}

// Navigate appends route to the history.
func (h *History) Navigate(route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
}

// Routes returns the visited routes, oldest first.
func (h *History) Routes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.routes...)
}

// Current returns the last visited route, or RouteHome.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) == 0 {
		return RouteHome
	}
	return h.routes[len(h.routes)-1]
}

// NotificationLog is a Notifier that keeps every notification and logs it.
type NotificationLog struct {
	mu            sync.Mutex
	notifications []Notification
}

// Notify records n and logs it.
func (l *NotificationLog) Notify(n Notification) {
	level := slog.LevelInfo
	if n.Variant == VariantDestructive {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "notification", "title", n.Title, "description", n.Description, "variant", n.Variant)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifications = append(l.notifications, n)
}

// Notifications returns the notifications shown so far, oldest first.
func (l *NotificationLog) Notifications() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notification(nil), l.notifications...)
}

// Last returns the most recent notification.
func (l *NotificationLog) Last() (Notification, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.notifications) == 0 {
		return Notification{}, false
	}
	return l.notifications[len(l.notifications)-1], true
}

// notifyError turns err into a destructive notification. Validation errors
// keep their own title.
func notifyError(n Notifier, title string, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		n.Notify(Notification{Title: ve.Title, Description: ve.Description, Variant: VariantDestructive})
		return
	}
	n.Notify(Notification{Title: title, Description: err.Error(), Variant: VariantDestructive})
}
