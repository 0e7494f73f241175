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

package model

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// MP4MediaType is the only media type accepted for upload.
const MP4MediaType = "video/mp4"

// HeadSize is the number of leading bytes needed to sniff a media type.
const HeadSize = 262

// UploadFile describes a file chosen for upload.
type UploadFile struct {
	Name      string    `json:"name"`
	MediaType string    `json:"mediaType"` // As declared by the caller.
	Size      int64     `json:"size"`      // Bytes.
	Head      []byte    `json:"-"`         // Optional leading bytes used for sniffing.
	Content   io.Reader `json:"-"`         // Optional body.
}

// BaseTitle is the file name without directory and extension, used as the
// default video title.
func (f *UploadFile) BaseTitle() string {
	base := filepath.Base(f.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SniffMediaType returns the MIME type detected from the leading bytes of a
// file, or "" when it cannot be recognised.
func SniffMediaType(head []byte) string {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}

// ValidateUploadFile applies the upload rules to f: the declared media type
// must be MP4, the size must not exceed maxBytes and, when head bytes are
// present, they must sniff as MP4.
//
// Inputs:
//   - f: The candidate file. A nil file is reported as "No file selected".
//   - maxBytes: The size limit in bytes.
//
// Outputs:
//   - error: A *ValidationError naming the broken rule, or nil.
func ValidateUploadFile(f *UploadFile, maxBytes int64) error {
	if f == nil {
		return newValidationError("No file selected", "Please select a video file to upload.")
	}
	if !strings.Contains(f.MediaType, MP4MediaType) {
		return newValidationError("Invalid file type", "Please upload an MP4 video file.")
	}
	if f.Size > maxBytes {
		return newValidationError("File too large",
			fmt.Sprintf("Please upload a file smaller than %dMB.", maxBytes/(1024*1024)))
	}
	if len(f.Head) > 0 && !filetype.Is(f.Head, "mp4") {
		return newValidationError("Invalid file type", "Please upload an MP4 video file.")
	}
	return nil
}

// ValidateTitle rejects a blank title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return newValidationError("Title required", "Please enter a title for your video.")
	}
	return nil
}
