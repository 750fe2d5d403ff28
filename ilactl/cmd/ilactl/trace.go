// Copyright 2026 ILA Router Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/private/app/command"
	"github.com/ilarouter/ila/router/mgmtapi"
)

func newTrace(api *apiFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Trace packets through the forwarding graph",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		newTraceAdd(cmd, api),
		newTraceShow(cmd, api),
		newTraceClear(api),
	)
	return cmd
}

func newTraceAdd(pather command.Pather, api *apiFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "add <count>",
		Short:   "Trace the next input packets",
		Args:    cobra.ExactArgs(1),
		Example: fmt.Sprintf(`  %[1]s add 10`, pather.CommandPath()),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return serrors.New("count must be a positive integer", "count", args[0])
			}
			cmd.SilenceUsage = true
			c, err := api.client()
			if err != nil {
				return err
			}
			ctx, cancel := api.context(cmd)
			defer cancel()
			if err := c.AddTrace(ctx, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tracing the next %d packets\n", n)
			return nil
		},
	}
}

func newTraceShow(pather command.Pather, api *apiFlags) *cobra.Command {
	var flags struct {
		output  outputFlags
		noColor bool
	}

	var cmd = &cobra.Command{
		Use:     "show",
		Short:   "Display the collected traces",
		Args:    cobra.NoArgs,
		Example: fmt.Sprintf(`  %[1]s show --no-color`, pather.CommandPath()),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.output.resolve(cmd)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			c, err := api.client()
			if err != nil {
				return err
			}
			ctx, cancel := api.context(cmd)
			defer cancel()
			rep, err := c.Trace(ctx)
			if err != nil {
				return err
			}
			if format != "human" {
				return encode(cmd.OutOrStdout(), format, rep)
			}
			renderTrace(cmd.OutOrStdout(), rep, !flags.noColor)
			return nil
		},
	}

	flags.output.register(cmd.Flags())
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	return cmd
}

func newTraceClear(api *apiFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop the collected traces and stop tracing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			c, err := api.client()
			if err != nil {
				return err
			}
			ctx, cancel := api.context(cmd)
			defer cancel()
			if err := c.ClearTrace(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Trace cleared")
			return nil
		},
	}
}

func renderTrace(w io.Writer, rep mgmtapi.TraceResponse, colored bool) {
	noColor := color.New()
	header, node := noColor, noColor
	if colored {
		header = color.New(color.FgHiBlack)
		node = color.New(color.FgHiCyan)
	}
	if len(rep.Records) == 0 {
		fmt.Fprintf(w, "No packets traced, %d pending\n", rep.Pending)
		return
	}
	last := ^uint64(0)
	for _, r := range rep.Records {
		if r.Packet != last {
			header.Fprintf(w, "Packet %d\n", r.Packet)
			last = r.Packet
		}
		fmt.Fprintf(w, "  %s %s: %s\n", r.Time.Format(time.RFC3339Nano),
			node.Sprint(r.Node), r.Msg)
	}
	if rep.Pending > 0 {
		fmt.Fprintf(w, "%d packets pending\n", rep.Pending)
	}
}
