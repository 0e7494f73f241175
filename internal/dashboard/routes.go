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
	"fmt"
	"net/url"
	"strings"
)

// Client side routes.
const (
	RouteHome   = "/"
	RouteUpload = "/upload"

	processingPrefix = "/processing/"
	resultsPrefix    = "/results/"
)

// Page identifies the screen a route leads to.
type Page string

const (
	PageHome       Page = "home"
	PageUpload     Page = "upload"
	PageProcessing Page = "processing"
	PageResults    Page = "results"
)

// Route is a parsed client route.
type Route struct {
	Page    Page
	VideoId string
}

// ProcessingRoute returns the route of the processing page of a video.
func ProcessingRoute(videoId string) string {
	return processingPrefix + url.PathEscape(videoId)
}

// ResultsRoute returns the route of the results page of a video.
func ResultsRoute(videoId string) string {
	return resultsPrefix + url.PathEscape(videoId)
}

// ParseRoute maps a path produced by the functions above back to a Route.
func ParseRoute(path string) (Route, error) {
	switch path {
	case RouteHome, "":
		return Route{Page: PageHome}, nil
	case RouteUpload:
		return Route{Page: PageUpload}, nil
	}
	for prefix, page := range map[string]Page{processingPrefix: PageProcessing, resultsPrefix: PageResults} {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok {
			continue
		}
		id, err := url.PathUnescape(rest)
		if err != nil || id == "" || strings.Contains(rest, "/") {
			return Route{}, fmt.Errorf("invalid route %q", path)
		}
		return Route{Page: page, VideoId: id}, nil
	}
	return Route{}, fmt.Errorf("unknown route %q", path)
}
