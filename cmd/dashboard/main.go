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

// Command dashboard is the terminal front end of the lecture quiz dashboard.
// It drives the same flows as the web dashboard against a running server, or
// against an in-process mock backend with --local.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/api"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/config"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/generator"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/services"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/store"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/dashboard"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by the commands of one invocation.
type app struct {
	cfg      *config.Config
	backend  api.Backend
	client   *api.Client
	session  *dashboard.Session
	nav      *terminalNavigator
	notifier *terminalNotifier
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var server string
	var local bool

	root := &cobra.Command{
		Use:          "dashboard",
		Short:        "Upload lecture videos and work with their generated quizzes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, server, local)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.client != nil {
				a.client.CloseIdleConnections()
			}
		},
	}
	root.PersistentFlags().StringVar(&server, "server", "", "server URL (default from dashboard.server_url)")
	root.PersistentFlags().BoolVar(&local, "local", false, "use an in-process mock backend instead of a server")

	root.AddCommand(
		newListCmd(a),
		newUploadCmd(a),
		newWatchCmd(a),
		newResultsCmd(a),
		newRegenerateCmd(a),
		newEditCmd(a),
		newExportCmd(a),
		newStatsCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, server string, local bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	level, err := telemetry.ParseLevel(cfg.Application.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(telemetry.NewLogHandler(cmd.ErrOrStderr(), level, cfg.Application.Name+"-cli")))

	a.cfg = cfg
	a.session = dashboard.NewSession()
	a.nav = &terminalNavigator{}
	a.notifier = &terminalNotifier{out: cmd.ErrOrStderr()}

	if local {
		st := store.NewSeededMemoryStore(time.Now())
		source := generator.NewQuotaAwareSource(generator.NewPlaceholderSource(), cfg.Processing.RateLimit)
		a.backend = services.NewVideoService(cfg, st, source, services.NewMetrics(prometheus.NewRegistry()))
		return nil
	}
	if server == "" {
		server = cfg.Dashboard.ServerURL
	}
	a.client = api.NewClient(server, nil).WithMaxUploadBytes(cfg.Upload.MaxFileSize())
	a.backend = a.client
	return nil
}

// context returns the command context carrying the session.
func (a *app) context(cmd *cobra.Command) context.Context {
	return dashboard.NewContext(cmd.Context(), a.session)
}
