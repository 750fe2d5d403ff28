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

// ilactl configures a running ILA router through its management API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ilarouter/ila/private/app/command"
)

func main() {
	cmd := newRootCommand(filepath.Base(os.Args[0]))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCommand(executable string) *cobra.Command {
	var flags apiFlags
	cmd := &cobra.Command{
		Use:   executable,
		Short: "ILA router management tool",
		Args:  cobra.NoArgs,
		// Errors are printed in main. Commands turn off the usage message
		// once their arguments are known to be well-formed.
		SilenceErrors: true,
	}
	flags.register(cmd.PersistentFlags())
	cmd.AddCommand(
		newEntry(cmd, &flags),
		newInterface(cmd, &flags),
		newShow(cmd, &flags),
		newTest(&flags),
		newTrace(&flags),
		command.NewVersion(cmd),
		command.NewGendocs(cmd),
	)
	return cmd
}
