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

package command

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/ilarouter/ila/pkg/private/serrors"
)

// NewGendocs returns a hidden command that writes markdown documentation
// for the whole command tree into a directory.
func NewGendocs(pather Pather) *cobra.Command {
	var cmd = &cobra.Command{
		Use:    "gendocs <directory>",
		Short:  "Generate documentation",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			root.DisableAutoGenTag = true
			if err := os.MkdirAll(args[0], 0o755); err != nil {
				return serrors.Wrap("creating directory", err, "dir", args[0])
			}
			return genMarkdownTree(root, args[0])
		},
	}
	return cmd
}

func docName(cmd *cobra.Command) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "_") + ".md"
}

// genMarkdownTree writes one file per available command. Links between the
// files are relative.
func genMarkdownTree(cmd *cobra.Command, dir string) error {
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
			continue
		}
		if err := genMarkdownTree(c, dir); err != nil {
			return err
		}
	}
	f, err := os.Create(filepath.Join(dir, docName(cmd)))
	if err != nil {
		return serrors.Wrap("creating file", err, "command", cmd.CommandPath())
	}
	defer f.Close()
	link := func(name string) string { return name }
	if err := doc.GenMarkdownCustom(cmd, f, link); err != nil {
		return serrors.Wrap("generating markdown", err, "command", cmd.CommandPath())
	}
	return nil
}
