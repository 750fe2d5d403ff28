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
	"math"

	"github.com/spf13/cobra"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/private/app/command"
	"github.com/ilarouter/ila/router/mgmtapi"
)

func newEntry(pather command.Pather, api *apiFlags) *cobra.Command {
	var flags struct {
		adjIndex int64
		csumMode string
		del      bool
		output   outputFlags
	}

	var cmd = &cobra.Command{
		Use:   "entry <identifier> [<locator> <sir-prefix>]",
		Short: "Add or delete an identifier mapping",
		Args:  cobra.RangeArgs(1, 3),
		Example: fmt.Sprintf(`  %[1]s entry 0011:2233:4455:6677 aaaa:0:0:1 bbbb:0:0:2
  %[1]s entry 0011:2233:4455:6677 aaaa:0:0:1 bbbb:0:0:2 --adj-index 3 --csum-mode neutral-map
  %[1]s entry 0011:2233:4455:6677 --del`, pather.CommandPath()),
		Long: `'entry' adds the mapping of an identifier to a locator and a SIR prefix.

All three values are 64-bit halves of an IPv6 address written as four groups of
up to four hex digits. Traffic for the identifier is terminated on this node if
a local adjacency is given with --adj-index. With --del, the mapping of the
identifier is removed and only the identifier is required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ila.ParseHalf(args[0])
			if err != nil {
				return serrors.Wrap("invalid identifier", err)
			}
			if flags.del {
				if len(args) != 1 {
					return serrors.New("delete takes only the identifier",
						"args", len(args))
				}
				cmd.SilenceUsage = true
				return deleteEntry(cmd, api, id)
			}
			if len(args) != 3 {
				return serrors.New("locator and SIR prefix are required", "args", len(args))
			}
			req := mgmtapi.EntryRequest{Identifier: id}
			if req.Locator, err = ila.ParseHalf(args[1]); err != nil {
				return serrors.Wrap("invalid locator", err)
			}
			if req.SIRPrefix, err = ila.ParseHalf(args[2]); err != nil {
				return serrors.Wrap("invalid SIR prefix", err)
			}
			if req.CsumMode, err = ila.ParseChecksumMode(flags.csumMode); err != nil {
				return err
			}
			if flags.adjIndex < -1 || flags.adjIndex > math.MaxUint32 {
				return serrors.New("adjacency index out of range", "adj_index", flags.adjIndex)
			}
			if flags.adjIndex >= 0 {
				adj := uint32(flags.adjIndex)
				req.AdjacencyIndex = &adj
			}
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
			e, err := c.AddEntry(ctx, req)
			if err != nil {
				return serrors.Wrap("adding entry", err, "identifier", id)
			}
			if format != "human" {
				return encode(cmd.OutOrStdout(), format, newEntryView(e))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added entry %d for identifier %s\n", e.Index, id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&flags.adjIndex, "adj-index", -1,
		"Local adjacency traffic for the identifier is forwarded to")
	cmd.Flags().StringVar(&flags.csumMode, "csum-mode", ila.ModeNoAction.String(),
		"Checksum mode (no-action|neutral-map)")
	cmd.Flags().BoolVar(&flags.del, "del", false, "Delete the mapping of the identifier")
	flags.output.register(cmd.Flags())
	return cmd
}

func deleteEntry(cmd *cobra.Command, api *apiFlags, id ila.Half) error {
	c, err := api.client()
	if err != nil {
		return err
	}
	ctx, cancel := api.context(cmd)
	defer cancel()
	if err := c.DeleteEntry(ctx, id); err != nil {
		return serrors.Wrap("deleting entry", err, "identifier", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry for identifier %s\n", id)
	return nil
}
