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

package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// errorBody is the JSON form of every error response. Title and Description
// are set for validation errors.
type errorBody struct {
	Error       string `json:"error"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// StatusError is an error response the client could not map to a model error.
type StatusError struct {
	Code    int
	Message string
}

// Error returns the server message with the HTTP status code.
func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

func errorStatus(err error) int {
	switch {
	case model.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newErrorBody(err error) errorBody {
	body := errorBody{Error: err.Error()}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		body.Title = ve.Title
		body.Description = ve.Description
	}
	return body
}

func abortWithError(c *gin.Context, err error) {
	code := errorStatus(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(code, newErrorBody(err))
}

// asError turns a decoded error body back into the error the server saw.
func (b *errorBody) asError(code int) error {
	switch {
	case code == http.StatusNotFound:
		return model.NotFoundFromMessage(b.Error)
	case b.Title != "":
		return &model.ValidationError{Title: b.Title, Description: b.Description}
	default:
		return &StatusError{Code: code, Message: b.Error}
	}
}
