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
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// Server sent event names of a streamed upload.
const (
	EventProgress = "progress"
	EventComplete = "complete"
	EventError    = "error"
)

// multipartOverhead is the room left for the form fields around the file.
const multipartOverhead = 1 << 20

type uploadResponse struct {
	VideoId string `json:"videoId"`
}

type progressEvent struct {
	Progress int `json:"progress"`
}

// VideoRouter sets up the routes of the video API.
//
// Inputs:
//   - r: The router group the "/videos" group is added to.
//   - backend: The video service.
//   - maxUploadBytes: The upload limit; larger request bodies are cut off.
func VideoRouter(r *gin.RouterGroup, backend Backend, maxUploadBytes int64) {
	videos := r.Group("/videos")
	{
		videos.GET("", func(c *gin.Context) {
			out, err := backend.List(c.Request.Context())
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		videos.POST("", func(c *gin.Context) {
			upload(c, backend, maxUploadBytes)
		})

		videos.GET("/:id/status", func(c *gin.Context) {
			out, err := backend.GetStatus(c.Request.Context(), c.Param("id"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		videos.GET("/:id/results", func(c *gin.Context) {
			out, err := backend.GetResults(c.Request.Context(), c.Param("id"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		videos.POST("/:id/segments/:segmentId/regenerate", func(c *gin.Context) {
			out, err := backend.RegenerateQuestions(c.Request.Context(), c.Param("id"), c.Param("segmentId"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		videos.PUT("/:id/segments/:segmentId/questions/:index", func(c *gin.Context) {
			index, err := strconv.Atoi(c.Param("index"))
			if err != nil {
				abortWithError(c, &model.ValidationError{Title: "Invalid question", Description: "The question index must be a number."})
				return
			}
			var q model.Question
			if err := c.ShouldBindJSON(&q); err != nil {
				abortWithError(c, &model.ValidationError{Title: "Invalid question", Description: err.Error()})
				return
			}
			out, err := backend.UpdateQuestion(c.Request.Context(), c.Param("id"), c.Param("segmentId"), index, &q)
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		videos.GET("/:id/export", func(c *gin.Context) {
			format := c.DefaultQuery("format", model.ExportFormatJSON)
			contentType := "application/json"
			switch format {
			case model.ExportFormatJSON:
			case model.ExportFormatYAML:
				contentType = "application/yaml"
			default:
				abortWithError(c, &model.ValidationError{Title: "Invalid format", Description: "Export format must be json or yaml."})
				return
			}
			results, err := backend.GetResults(c.Request.Context(), c.Param("id"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			data, err := model.NewExportDocument(results).Encode(format)
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.Header("Content-Disposition", `attachment; filename="`+model.ExportFileName(results.Title, format)+`"`)
			c.Data(http.StatusOK, contentType, data)
		})
	}
}

// upload reads the multipart form and runs the upload. Validation happens
// before any progress is sent, so a rejected upload is always a plain JSON
// error.
func upload(c *gin.Context, backend Backend, maxUploadBytes int64) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+multipartOverhead)
	title := c.PostForm("title")
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, model.ValidateUploadFile(&model.UploadFile{MediaType: model.MP4MediaType, Size: tooLarge.Limit + 1}, maxUploadBytes))
			return
		}
		abortWithError(c, model.ValidateUploadFile(nil, maxUploadBytes))
		return
	}
	file, err := openUpload(header)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if closer, ok := file.Content.(io.Closer); ok {
		defer closer.Close()
	}
	if err := model.ValidateTitle(title); err != nil {
		abortWithError(c, err)
		return
	}
	if err := model.ValidateUploadFile(file, maxUploadBytes); err != nil {
		abortWithError(c, err)
		return
	}

	if !strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		id, err := backend.Upload(c.Request.Context(), file, title, nil)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, uploadResponse{VideoId: id})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	id, err := backend.Upload(c.Request.Context(), file, title, func(p int) {
		c.SSEvent(EventProgress, progressEvent{Progress: p})
		c.Writer.Flush()
	})
	if err != nil {
		c.SSEvent(EventError, newErrorBody(err))
	} else {
		c.SSEvent(EventComplete, uploadResponse{VideoId: id})
	}
	c.Writer.Flush()
}

type uploadContent struct {
	io.Reader
	io.Closer
}

// openUpload describes a multipart file. The declared media type wins; the
// content is sniffed when none was sent.
func openUpload(header *multipart.FileHeader) (*model.UploadFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	head := make([]byte, model.HeadSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, err
	}
	head = head[:n]

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = model.SniffMediaType(head)
	}
	return &model.UploadFile{
		Name:      header.Filename,
		MediaType: mediaType,
		Size:      header.Size,
		Head:      head,
		Content:   uploadContent{Reader: io.MultiReader(bytes.NewReader(head), f), Closer: f},
	}, nil
}
