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

package commands

import (
	"fmt"
	"log/slog"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/cor"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
)

// ResultsWriter is the part of the store the persist step needs.
type ResultsWriter interface {
	PutResultsIfAbsent(r *model.Results) (*model.Results, bool)
}

// ResultsPersist stores assembled results. When results already exist for the
// video the stored copy wins and becomes the output.
type ResultsPersist struct {
	cor.BaseCommand
	writer ResultsWriter
}

// NewResultsPersist is the constructor for ResultsPersist.
//
// Inputs:
//   - name: The command name.
//   - writer: The results table.
//   - outputParamName: The context key receiving the stored results.
func NewResultsPersist(name string, writer ResultsWriter, outputParamName string) *ResultsPersist {
	out := &ResultsPersist{BaseCommand: *cor.NewBaseCommand(name), writer: writer}
	out.OutputParamName = outputParamName
	return out
}

// Execute stores the results from CtxIn, keeping any already stored copy.
func (p *ResultsPersist) Execute(context cor.Context) {
	results, ok := cor.Get[*model.Results](context, p.GetInputParam())
	if !ok {
		p.Fail(context, fmt.Errorf("expected *model.Results input, got %T", context.Get(p.GetInputParam())))
		return
	}

	stored, created := p.writer.PutResultsIfAbsent(results)
	slog.DebugContext(context.GetContext(), "results persisted",
		"video_id", stored.Id, "segments", len(stored.Segments), "created", created)

	p.Succeed(context)
	context.Add(p.GetOutputParam(), stored)
	context.Add(cor.CtxOut, stored)
}
