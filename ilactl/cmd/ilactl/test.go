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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/private/app/command"
)

func newTest(api *apiFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Inspect how the router translates addresses",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newTestAddresses(cmd, api))
	return cmd
}

func newTestAddresses(pather command.Pather, api *apiFlags) *cobra.Command {
	var flags struct {
		output outputFlags
	}

	var cmd = &cobra.Command{
		Use:     "addresses <index>",
		Short:   "Show the SIR and locator addresses of an entry",
		Args:    cobra.ExactArgs(1),
		Example: fmt.Sprintf(`  %[1]s addresses 0`, pather.CommandPath()),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return serrors.Wrap("invalid entry index", err, "index", args[0])
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
			a, err := c.EntryAddresses(ctx, uint32(index))
			if err != nil {
				return err
			}
			if format != "human" {
				return encode(cmd.OutOrStdout(), format, a)
			}
			printf := getPrintf(format, cmd.OutOrStdout())
			printf("Entry %d\n", a.Index)
			printf("  SIR address:       %s\n", a.SIR)
			printf("  Locator address:   %s\n", a.Locator)
			printf("  Checksum modifier: %s\n", a.ChecksumModifier)
			return nil
		},
	}

	flags.output.register(cmd.Flags())
	return cmd
}
