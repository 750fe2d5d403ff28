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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/ilarouter/ila/ilactl/client"
	"github.com/ilarouter/ila/pkg/private/serrors"
)

// apiFlags are the flags shared by all commands that talk to the router.
type apiFlags struct {
	url     string
	timeout time.Duration
}

func (f *apiFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.url, "api", client.DefaultBaseURL,
		"Base URL of the router management API")
	flags.DurationVar(&f.timeout, "timeout", 5*time.Second,
		"Timeout of a single API request")
}

func (f *apiFlags) client() (*client.Client, error) {
	return client.New(f.url, nil)
}

func (f *apiFlags) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, f.timeout)
}

// outputFlags select between human readable and machine readable output.
type outputFlags struct {
	json   bool
	format string
}

func (f *outputFlags) register(flags *pflag.FlagSet) {
	flags.BoolVarP(&f.json, "json", "j", false,
		"Write the output as machine readable json")
	flags.StringVar(&f.format, "format", "human",
		"Specify the output format (human|json|yaml)")
}

func (f *outputFlags) resolve(cmd *cobra.Command) (string, error) {
	if f.json && !cmd.Flags().Lookup("format").Changed {
		f.format = "json"
	}
	switch f.format {
	case "human", "json", "yaml":
		return f.format, nil
	default:
		return "", serrors.New("output format not supported", "format", f.format)
	}
}

// encode writes v in one of the machine readable formats.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case "yaml":
		return yaml.NewEncoder(w).Encode(v)
	default:
		return serrors.New("output format not supported", "format", format)
	}
}

// getPrintf returns a printf function for human readable output and a no-op
// for the machine readable formats.
func getPrintf(format string, w io.Writer) func(string, ...any) {
	if format != "human" {
		return func(string, ...any) {}
	}
	return func(f string, ctx ...any) {
		fmt.Fprintf(w, f, ctx...)
	}
}
