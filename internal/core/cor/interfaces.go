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

// Package cor implements a Chain of Responsibility used to run the simulated
// video processing pipeline. A Chain runs its Commands in order over a shared
// Context; the output a command leaves under CtxOut becomes the CtxIn of the
// next one, and the first recorded error stops the chain unless it was told
// to continue on failure.
//
// Interfaces:
//   - Context: The state bag handed from command to command.
//   - Executable: Anything that can run against a Context.
//   - Command: A named, traced and counted unit of work.
//   - Chain: An ordered list of Commands that is itself a Command.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// CtxIn is the default input key; the chain fills it with the previous
	// command's output.
	CtxIn = "__IN__"
	// CtxOut is the default output key.
	CtxOut = "__OUT__"
)

// Context carries data and errors between commands.
type Context interface {
	// SetContext replaces the Go context used for cancellation and tracing.
	SetContext(context context.Context)
	GetContext() context.Context

	// Add stores a value and returns the Context for chaining.
	Add(key string, value interface{}) Context
	Get(key string) interface{}
	Remove(key string)

	// AddError records the error produced by the named command.
	AddError(key string, err error)
	GetErrors() map[string]error
	HasErrors() bool
	// Err joins every recorded error, or returns nil.
	Err() error
}

// Executable is anything that can run against a Context.
type Executable interface {
	Execute(context Context)
}

// Command is a single named step.
type Command interface {
	Executable

	GetName() string

	// GetInputParam is the key the command reads its input from.
	GetInputParam() string
	// GetOutputParam is the key the command writes its result to.
	GetOutputParam() string

	// IsExecutable is the precondition checked before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command made of other commands.
type Chain interface {
	Command

	// ContinueOnFailure controls whether commands after a failed one still run.
	ContinueOnFailure(bool) Chain
	AddCommand(command Command) Chain
}
