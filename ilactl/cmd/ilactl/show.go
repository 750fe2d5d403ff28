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

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ilarouter/ila/private/app/command"
	"github.com/ilarouter/ila/router/mgmtapi"
)

// entryView is the machine readable rendering of an entry.
type entryView struct {
	Index          uint32  `json:"index" yaml:"index"`
	Identifier     string  `json:"identifier" yaml:"identifier"`
	Locator        string  `json:"locator" yaml:"locator"`
	SIRPrefix      string  `json:"sir_prefix" yaml:"sir_prefix"`
	AdjacencyIndex *uint32 `json:"adjacency_index,omitempty" yaml:"adjacency_index,omitempty"`
	CsumMode       string  `json:"csum_mode" yaml:"csum_mode"`
}

func newEntryView(e mgmtapi.Entry) entryView {
	return entryView{
		Index:          e.Index,
		Identifier:     e.Identifier.String(),
		Locator:        e.Locator.String(),
		SIRPrefix:      e.SIRPrefix.String(),
		AdjacencyIndex: e.AdjacencyIndex,
		CsumMode:       e.CsumMode.String(),
	}
}

func newShow(pather command.Pather, api *apiFlags) *cobra.Command {
	var flags struct {
		output outputFlags
	}

	var cmd = &cobra.Command{
		Use:   "show",
		Short: "Display the identifier mappings",
		Args:  cobra.NoArgs,
		Example: fmt.Sprintf(`  %[1]s show
  %[1]s show --json`, pather.CommandPath()),
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
			entries, err := c.Entries(ctx)
			if err != nil {
				return err
			}
			views := make([]entryView, 0, len(entries))
			for _, e := range entries {
				views = append(views, newEntryView(e))
			}
			if format != "human" {
				return encode(cmd.OutOrStdout(), format, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries")
				return nil
			}
			renderEntries(cmd.OutOrStdout(), views)
			return nil
		},
	}

	flags.output.register(cmd.Flags())
	return cmd
}

func renderEntries(w io.Writer, views []entryView) {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		adj := "n/a"
		if v.AdjacencyIndex != nil {
			adj = strconv.FormatUint(uint64(*v.AdjacencyIndex), 10)
		}
		rows = append(rows, []string{v.Identifier, v.Locator, v.SIRPrefix, adj, v.CsumMode})
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{
		"Identifier", "Locator", "SIR prefix", "Adjacency Index", "Checksum Mode",
	})
	table.AppendBulk(rows)
	table.Render()
}
