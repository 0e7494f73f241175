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
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/config"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client calls the video API of a server. It implements dashboard.VideoAPI.
type Client struct {
	baseURL        string
	http           *http.Client
	maxUploadBytes int64
}

// NewClient creates a client for the server at baseURL. A nil httpClient is
// replaced by one whose transport is traced with OpenTelemetry.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/") + "/api/v1",
		http:           httpClient,
		maxUploadBytes: config.NewConfig().Upload.MaxFileSize(),
	}
}

// WithMaxUploadBytes sets the size limit Upload checks before sending.
func (c *Client) WithMaxUploadBytes(n int64) *Client {
	c.maxUploadBytes = n
	return c
}

// CloseIdleConnections closes the idle connections of the underlying client.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request %s %s: %w", method, path, err)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	var body errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body = errorBody{Error: strings.TrimSpace(string(data))}
	}
	return body.asError(resp.StatusCode)
}

// doJSON sends in as the JSON body, when not nil, and decodes the response
// into out.
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

func videoPath(id string, parts ...string) string {
	p := "/videos/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// List returns every video in dashboard order.
func (c *Client) List(ctx context.Context) ([]*model.Video, error) {
	var out []*model.Video
	if err := c.doJSON(ctx, http.MethodGet, "/videos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStatus polls the processing status of a video.
func (c *Client) GetStatus(ctx context.Context, id string) (*model.VideoStatus, error) {
	var out model.VideoStatus
	if err := c.doJSON(ctx, http.MethodGet, videoPath(id, "status"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetResults fetches the transcript segments and questions of a video.
func (c *Client) GetResults(ctx context.Context, id string) (*model.Results, error) {
	var out model.Results
	if err := c.doJSON(ctx, http.MethodGet, videoPath(id, "results"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegenerateQuestions asks the server for new questions for one segment
// and returns the segment as stored.
func (c *Client) RegenerateQuestions(ctx context.Context, id string, segmentId string) (*model.Segment, error) {
	var out model.Segment
	if err := c.doJSON(ctx, http.MethodPost, videoPath(id, "segments", segmentId, "regenerate"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuestion replaces one question and returns the segment as stored.
func (c *Client) UpdateQuestion(ctx context.Context, id string, segmentId string, index int, question *model.Question) (*model.Segment, error) {
	var out model.Segment
	path := videoPath(id, "segments", segmentId, "questions", strconv.Itoa(index))
	if err := c.doJSON(ctx, http.MethodPut, path, question, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the number of videos in each status.
func (c *Client) Stats(ctx context.Context) (map[model.Status]int, error) {
	out := make(map[model.Status]int)
	if err := c.doJSON(ctx, http.MethodGet, "/stats", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Export downloads the quiz document of a video and returns the file name
// suggested by the server with the document.
func (c *Client) Export(ctx context.Context, id string, format string) (string, []byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, videoPath(id, "export")+"?format="+url.QueryEscape(format), nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read export of %s: %w", id, err)
	}
	name := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return name, data, nil
}

// Upload streams the file to the server as a multipart form and follows the
// progress events the server sends back. The title and the declared type
// and size are checked before anything is sent.
//
// Inputs:
//   - ctx: Cancelling aborts the request.
//   - file: The file; Content is streamed, not buffered.
//   - title: The video title.
//   - onProgress: Optional; called for every progress event.
//
// Outputs:
//   - string: The id of the new video.
//   - error: A *model.ValidationError, a transport error or a *StatusError.
func (c *Client) Upload(ctx context.Context, file *model.UploadFile, title string, onProgress func(progress int)) (string, error) {
	if err := model.ValidateTitle(title); err != nil {
		return "", err
	}
	if err := model.ValidateUploadFile(file, c.maxUploadBytes); err != nil {
		return "", err
	}
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadForm(form, file, title))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/videos", pr)
	if err != nil {
		pr.Close()
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "text/event-stream")
	resp, err := c.send(req)
	if err != nil {
		pr.Close()
		return "", err
	}
	defer resp.Body.Close()

	id := ""
	err = readEvents(resp.Body, func(event string, data []byte) error {
		switch event {
		case EventProgress:
			var p progressEvent
			if err := json.Unmarshal(data, &p); err != nil {
				return err
			}
			if onProgress != nil {
				onProgress(p.Progress)
			}
		case EventComplete:
			var u uploadResponse
			if err := json.Unmarshal(data, &u); err != nil {
				return err
			}
			id = u.VideoId
		case EventError:
			var body errorBody
			if err := json.Unmarshal(data, &body); err != nil {
				return err
			}
			return body.asError(http.StatusInternalServerError)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errors.New("upload stream ended without a result")
	}
	return id, nil
}

func writeUploadForm(form *multipart.Writer, file *model.UploadFile, title string) error {
	if err := form.WriteField("title", title); err != nil {
		return err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": "file", "filename": file.Name}))
	h.Set("Content-Type", file.MediaType)
	part, err := form.CreatePart(h)
	if err != nil {
		return err
	}
	content := file.Content
	if content == nil {
		content = bytes.NewReader(file.Head)
	}
	if _, err := io.Copy(part, content); err != nil {
		return err
	}
	return form.Close()
}

// readEvents splits a text/event-stream body into events.
func readEvents(r io.Reader, fn func(event string, data []byte) error) error {
	sc := bufio.NewScanner(r)
	var event string
	var data bytes.Buffer
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if event != "" || data.Len() > 0 {
				if err := fn(event, data.Bytes()); err != nil {
					return err
				}
			}
			event = ""
			data.Reset()
			continue
		}
		if v, ok := strings.CutPrefix(line, "event:"); ok {
			event = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "data:"); ok {
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(v, " "))
		}
	}
	return sc.Err()
}
