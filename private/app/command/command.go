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

// Package command contains subcommands shared by the ILA binaries.
package command

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ilarouter/ila/private/config"
	"github.com/ilarouter/ila/private/env"
)

// Pather returns the command path of the parent command, which is used to
// render examples.
type Pather interface {
	CommandPath() string
}

// NewSample returns a command that prints a commented sample configuration
// of sampler.
func NewSample(pather Pather, sampler config.Sampler, ctx config.CtxMap) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Display sample configuration",
		Example: fmt.Sprintf("  %[1]s sample > %[2]s.toml\n  %[1]s --config %[2]s.toml",
			pather.CommandPath(), ctx[config.ID]),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			WriteSample(cmd.OutOrStdout(), sampler, ctx)
			return nil
		},
	}
	return cmd
}

// WriteSample writes the sample of sampler to w.
func WriteSample(w io.Writer, sampler config.Sampler, ctx config.CtxMap) {
	sampler.Sample(w, nil, ctx)
}

// NewVersion returns a command that prints build information.
func NewVersion(pather Pather) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), env.VersionInfo())
		},
	}
}
