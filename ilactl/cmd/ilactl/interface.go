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

	"github.com/spf13/cobra"

	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/private/app/command"
)

func newInterface(pather command.Pather, api *apiFlags) *cobra.Command {
	var flags struct {
		disable bool
	}

	var cmd = &cobra.Command{
		Use:   "interface <name>",
		Short: "Enable or disable ILA translation on an interface",
		Args:  cobra.ExactArgs(1),
		Example: fmt.Sprintf(`  %[1]s interface eth0
  %[1]s interface eth0 --disable`, pather.CommandPath()),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			c, err := api.client()
			if err != nil {
				return err
			}
			ctx, cancel := api.context(cmd)
			defer cancel()
			if err := c.SetInterfaceILA(ctx, args[0], !flags.disable); err != nil {
				return serrors.Wrap("setting interface state", err, "interface", args[0])
			}
			state := "enabled"
			if flags.disable {
				state = "disabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ILA translation %s on %s\n", state, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.disable, "disable", false, "Disable translation")
	return cmd
}
