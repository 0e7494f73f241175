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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jaycherian/gcp-go-lecture-quiz/internal/core/model"
	"github.com/jaycherian/gcp-go-lecture-quiz/internal/dashboard"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the uploaded videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := dashboard.NewHomeFlow(a.backend, a.nav).Load(a.context(cmd))
			if err != nil {
				return fmt.Errorf("an error occurred while loading your videos: %w", err)
			}
			printVideos(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}

func newUploadCmd(a *app) *cobra.Command {
	var title string
	var noFollow bool
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an MP4 video and follow it through processing to its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			file, closeFile, err := openVideo(args[0])
			if err != nil {
				return err
			}
			defer closeFile()

			flow := dashboard.NewUploadFlow(a.backend, a.nav, a.notifier, a.cfg.Upload.MaxFileSize())
			if title != "" {
				flow.SetTitle(title)
			}
			if err := flow.SelectFile(file); err != nil {
				return err
			}
			out := cmd.ErrOrStderr()
			flow.OnProgress(func(p int) { fmt.Fprintf(out, "\rUploading... %3d%%", p) })
			id, err := flow.Submit(ctx)
			fmt.Fprintln(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			if noFollow {
				return nil
			}
			return a.follow(ctx, cmd)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "video title (default: the file name)")
	cmd.Flags().BoolVar(&noFollow, "no-follow", false, "stop after the upload")
	return cmd
}

// openVideo describes a local file for upload. The media type is sniffed
// from the first bytes of the content.
func openVideo(path string) (*model.UploadFile, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	head := make([]byte, model.HeadSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		f.Close()
		return nil, nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, nil, err
	}
	head = head[:n]
	return &model.UploadFile{
		Name:      filepath.Base(path),
		MediaType: model.SniffMediaType(head),
		Size:      info.Size(),
		Head:      head,
		Content:   f,
	}, f.Close, nil
}

// follow runs the page of every route the flows navigated to.
func (a *app) follow(ctx context.Context, cmd *cobra.Command) error {
	for {
		next, ok := a.nav.next()
		if !ok {
			return nil
		}
		route, err := dashboard.ParseRoute(next)
		if err != nil {
			return err
		}
		switch route.Page {
		case dashboard.PageProcessing:
			if err := a.watch(ctx, cmd, route.VideoId); err != nil {
				return err
			}
		case dashboard.PageResults:
			return a.showResults(ctx, cmd, route.VideoId, nil, true)
		default:
			return nil
		}
	}
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, id string) error {
	out := cmd.OutOrStdout()
	return dashboard.NewProcessingFlow(a.backend, a.nav, a.cfg.Dashboard).Run(ctx, id, func(v *dashboard.ProcessingView) {
		if v.Error != nil {
			printErrorView(out, v.Error)
			return
		}
		fmt.Fprintln(out, v)
	})
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <id>",
		Short: "Poll the processing status of a video until it completes or fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			if err := a.watch(ctx, cmd, args[0]); err != nil {
				return err
			}
			return a.follow(ctx, cmd)
		},
	}
}

func (a *app) loadResults(ctx context.Context, cmd *cobra.Command, id string) (*dashboard.ResultsFlow, error) {
	flow := dashboard.NewResultsFlow(a.backend, a.nav, a.notifier)
	if _, err := flow.Load(ctx, id); err != nil {
		printErrorView(cmd.ErrOrStderr(), dashboard.LoadErrorView(err))
		return nil, err
	}
	return flow, nil
}

func (a *app) showResults(ctx context.Context, cmd *cobra.Command, id string, expand []string, all bool) error {
	flow, err := a.loadResults(ctx, cmd, id)
	if err != nil {
		return err
	}
	for _, segmentId := range expand {
		flow.ToggleSegment(segmentId)
	}
	printResults(cmd.OutOrStdout(), flow.Results(), func(segmentId string) bool {
		return all || flow.IsExpanded(segmentId)
	})
	return nil
}

func newResultsCmd(a *app) *cobra.Command {
	var expand []string
	var all bool
	var jump string
	cmd := &cobra.Command{
		Use:   "results <id>",
		Short: "Show the transcript segments and quiz questions of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			if jump == "" {
				return a.showResults(ctx, cmd, args[0], expand, all)
			}
			flow, err := a.loadResults(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			if err := flow.JumpToSegment(jump); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Playing %s from %s\n", jump, flow.Player().Position())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "segment ids to expand")
	cmd.Flags().BoolVar(&all, "all", false, "expand every segment")
	cmd.Flags().StringVar(&jump, "jump", "", "seek the player to the start of a segment")
	return cmd
}

func newRegenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate <id> <segment>",
		Short: "Regenerate the questions of a segment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			flow, err := a.loadResults(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			segment, err := flow.RegenerateQuestions(ctx, args[1])
			if err != nil {
				return err
			}
			printQuestions(cmd.OutOrStdout(), segment)
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var text string
	var options []string
	var answer int
	cmd := &cobra.Command{
		Use:   "edit <id> <segment> <index>",
		Short: "Edit one question of a segment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid question index %q", args[2])
			}
			if len(options) != 0 && len(options) != model.OptionsPerQuestion {
				return fmt.Errorf("--option must be given %d times", model.OptionsPerQuestion)
			}
			ctx := a.context(cmd)
			flow, err := a.loadResults(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			editor, err := flow.EditQuestion(args[1], index)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("text") {
				editor.Text = text
			}
			for i, o := range options {
				if err := editor.SetOption(i, o); err != nil {
					return err
				}
			}
			if answer >= 0 {
				if err := editor.SelectAnswer(answer); err != nil {
					return err
				}
			}
			segment, err := flow.SaveQuestion(ctx, editor)
			if err != nil {
				return err
			}
			printQuestions(cmd.OutOrStdout(), segment)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "question text")
	cmd.Flags().StringArrayVar(&options, "option", nil, "an answer option; repeat four times to replace all options")
	cmd.Flags().IntVar(&answer, "answer", -1, "zero based index of the correct option")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var dir, format string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export the quiz of a video to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.context(cmd)
			flow, err := a.loadResults(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			file, err := flow.Export(format)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = a.cfg.Dashboard.ExportDir
			}
			path, err := writeExport(dir, file)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "out", "", "output directory (default: dashboard.export_dir)")
	cmd.Flags().StringVar(&format, "format", model.ExportFormatJSON, "json or yaml")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count videos by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := a.backend.Stats(a.context(cmd))
			if err != nil {
				return err
			}
			for _, s := range []model.Status{model.StatusUploading, model.StatusProcessing, model.StatusCompleted, model.StatusFailed} {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d\n", s, counts[s])
			}
			return nil
		},
	}
}
