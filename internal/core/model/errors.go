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
	"errors"
	"fmt"
)

// ErrNotFound is matched (via errors.Is) by every lookup failure.
var ErrNotFound = errors.New("not found")

var (
	ErrVideoNotFound    = fmt.Errorf("video %w", ErrNotFound)
	ErrSegmentNotFound  = fmt.Errorf("segment %w", ErrNotFound)
	ErrQuestionNotFound = fmt.Errorf("question %w", ErrNotFound)
)

// NotFoundFromMessage maps the text of a not-found error back to its
// sentinel, used when the error crossed a process boundary.
func NotFoundFromMessage(msg string) error {
	switch msg {
	case ErrSegmentNotFound.Error():
		return ErrSegmentNotFound
	case ErrQuestionNotFound.Error():
		return ErrQuestionNotFound
	default:
		return ErrVideoNotFound
	}
}

// ValidationError is a user correctable input problem. Title and Description
// are shown to the user as is.
type ValidationError struct {
	Title       string
	Description string
}

// Error joins the title and the description.
func (e *ValidationError) Error() string {
	return e.Title + ": " + e.Description
}

func newValidationError(title, description string) *ValidationError {
	return &ValidationError{Title: title, Description: description}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
