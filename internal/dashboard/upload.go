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
	"log/slog"
	"strings"
	"sync"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// UploadFlow is the state of the upload page: the selected file, the title
// and the progress of a running upload.
type UploadFlow struct {
	api      VideoAPI
	nav      Navigator
	notifier Notifier
	maxBytes int64

	mu         sync.Mutex
	file       *model.UploadFile
	title      string
	progress   int
	onProgress func(progress int)
}

// NewUploadFlow creates an upload flow accepting files up to maxBytes.
func NewUploadFlow(api VideoAPI, nav Navigator, notifier Notifier, maxBytes int64) *UploadFlow {
	return &UploadFlow{api: api, nav: nav, notifier: notifier, maxBytes: maxBytes}
}

// SelectFile validates and selects file. A rejected file leaves the previous
// selection in place. When no title is set yet, the file name without its
// extension becomes the title.
func (f *UploadFlow) SelectFile(file *model.UploadFile) error {
	if err := model.ValidateUploadFile(file, f.maxBytes); err != nil {
		notifyError(f.notifier, "Invalid file", err)
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.file = file
	if strings.TrimSpace(f.title) == "" {
		f.title = file.BaseTitle()
	}
	return nil
}

// RemoveFile clears the selected file and the progress.
func (f *UploadFlow) RemoveFile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.file = nil
	f.progress = 0
}

// SetTitle sets the video title.
func (f *UploadFlow) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
}

// Title returns the video title.
func (f *UploadFlow) Title() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title
}

// File returns the selected file, or nil.
func (f *UploadFlow) File() *model.UploadFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file
}

// Progress returns the upload progress in percent.
func (f *UploadFlow) Progress() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progress
}

// OnProgress registers fn to be called with every progress change.
func (f *UploadFlow) OnProgress(fn func(progress int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onProgress = fn
}

func (f *UploadFlow) setProgress(p int) {
	f.mu.Lock()
	f.progress = p
	fn := f.onProgress
	f.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}

// Submit uploads the selected file.
//
// Logic Flow:
//  1. Without a file or with a blank title, notify and stop.
//  2. Upload, feeding Progress from the progress callback.
//  3. On failure, reset the progress and notify "Upload failed".
//  4. On success, make the video current, notify and go to its processing
//     page.
//
// Inputs:
//   - ctx: Must carry a Session.
//
// Outputs:
//   - string: The id of the uploaded video.
//   - error: ErrNoSession, a *model.ValidationError or the upload error.
func (f *UploadFlow) Submit(ctx context.Context) (string, error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	file, title := f.file, f.title
	f.mu.Unlock()

	if file == nil {
		err = model.ValidateUploadFile(nil, f.maxBytes)
		notifyError(f.notifier, "No file selected", err)
		return "", err
	}
	if err = model.ValidateTitle(title); err != nil {
		notifyError(f.notifier, "Title required", err)
		return "", err
	}

	f.setProgress(0)
	id, err := f.api.Upload(ctx, file, title, f.setProgress)
	if err != nil {
		f.setProgress(0)
		f.notifier.Notify(Notification{Title: "Upload failed", Description: err.Error(), Variant: VariantDestructive})
		slog.WarnContext(ctx, "upload failed", "file", file.Name, "error", err)
		return "", err
	}

	session.SetCurrentVideoId(id)
	f.notifier.Notify(Notification{
		Title:       "Upload successful",
		Description: "Your video is now being processed.",
		Variant:     VariantSuccess,
	})
	f.nav.Navigate(ProcessingRoute(id))
	return id, nil
}
