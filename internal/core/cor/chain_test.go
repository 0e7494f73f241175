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

package cor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/cor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appendCommand appends its suffix to the string input.
type appendCommand struct {
	cor.BaseCommand
	suffix string
	calls  *[]string
}

func newAppend(name, suffix string, calls *[]string) *appendCommand {
	return &appendCommand{BaseCommand: *cor.NewBaseCommand(name), suffix: suffix, calls: calls}
}

func (a *appendCommand) Execute(context cor.Context) {
	*a.calls = append(*a.calls, a.GetName())
	in, _ := cor.Get[string](context, a.GetInputParam())
	context.Add(cor.CtxOut, in+a.suffix)
	a.Succeed(context)
}

type failCommand struct {
	cor.BaseCommand
	calls *[]string
}

func (f *failCommand) Execute(context cor.Context) {
	*f.calls = append(*f.calls, f.GetName())
	f.Fail(context, errors.New("boom"))
}

func TestChainPipesOutputToInput(t *testing.T) {
	var calls []string
	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(newAppend("a", "-a", &calls)).
		AddCommand(newAppend("b", "-b", &calls)).
		AddCommand(newAppend("c", "-c", &calls))

	ctx := cor.NewBaseContext(context.Background())
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	require.NoError(t, ctx.Err())
	assert.Equal(t, []string{"a", "b", "c"}, calls)
	out, ok := cor.Get[string](ctx, cor.CtxIn)
	require.True(t, ok)
	assert.Equal(t, "start-a-b-c", out)
	assert.Nil(t, ctx.Get(cor.CtxOut))
	assert.Equal(t, []string{"a", "b", "c"}, chain.Commands())
}

func TestChainStopsOnFailure(t *testing.T) {
	var calls []string
	chain := cor.NewBaseChain("failing-chain")
	chain.AddCommand(newAppend("a", "-a", &calls)).
		AddCommand(&failCommand{BaseCommand: *cor.NewBaseCommand("fail"), calls: &calls}).
		AddCommand(newAppend("c", "-c", &calls))

	ctx := cor.NewBaseContext(context.Background())
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	assert.Equal(t, []string{"a", "fail"}, calls)
	require.True(t, ctx.HasErrors())
	assert.EqualError(t, ctx.Err(), "fail: boom")
	assert.Contains(t, ctx.GetErrors(), "fail")
}

func TestChainContinueOnFailure(t *testing.T) {
	var calls []string
	chain := cor.NewBaseChain("tolerant-chain").ContinueOnFailure(true)
	chain.AddCommand(&failCommand{BaseCommand: *cor.NewBaseCommand("fail"), calls: &calls}).
		AddCommand(&failCommand{BaseCommand: *cor.NewBaseCommand("fail-again"), calls: &calls})

	ctx := cor.NewBaseContext(context.Background())
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	assert.Equal(t, []string{"fail", "fail-again"}, calls)
	assert.Len(t, ctx.GetErrors(), 2)
	assert.EqualError(t, ctx.Err(), "fail: boom\nfail-again: boom")
}

func TestChainMissingInput(t *testing.T) {
	var calls []string
	chain := cor.NewBaseChain("no-input")
	chain.AddCommand(newAppend("a", "-a", &calls))

	ctx := cor.NewBaseContext(context.Background())
	chain.Execute(ctx)

	assert.Empty(t, calls)
	assert.ErrorContains(t, ctx.Err(), "command not executable")
}

func TestChainHonoursCancellation(t *testing.T) {
	var calls []string
	chain := cor.NewBaseChain("cancelled")
	chain.AddCommand(newAppend("a", "-a", &calls))

	goCtx, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := cor.NewBaseContext(goCtx)
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	assert.Empty(t, calls)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Equal(t, goCtx, ctx.GetContext())
}

func TestGetWrongType(t *testing.T) {
	ctx := cor.NewBaseContext(context.Background())
	ctx.Add("n", 42)
	_, ok := cor.Get[string](ctx, "n")
	assert.False(t, ok)
	n, ok := cor.Get[int](ctx, "n")
	assert.True(t, ok)
	assert.Equal(t, 42, n)
}
