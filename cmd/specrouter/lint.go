// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
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
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"rivaas.dev/specrouter"
	"rivaas.dev/specrouter/specfile"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint FILE...",
		Short: "Check route files and print their routes",
		Long: `Load each route file, compile every schema and output rule, and print
the resulting routes. A file fails when it cannot be decoded, names an
unknown handler, declares overlapping output rules or an invalid schema.

Examples:
  specrouter lint routes.yaml
  specrouter lint api.toml admin.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				if err := lintFile(cmd.OutOrStdout(), path); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d route files failed", failed, len(args))
			}

			return nil
		},
	}
}

// load builds a router from the route file at path.
func load(path string, opts ...specrouter.Option) (*specrouter.Router, error) {
	f, err := specfile.Load(path)
	if err != nil {
		return nil, err
	}

	r, err := specrouter.New(opts...)
	if err != nil {
		return nil, err
	}
	if err = f.Apply(r, builtinHandlers()); err != nil {
		return nil, err
	}

	return r, nil
}

func lintFile(w io.Writer, path string) error {
	r, err := load(path)
	if err != nil {
		return err
	}

	routes := r.Routes()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("METHODS", "PATTERN", "NAME", "VALIDATES", "OUTPUT")
	for _, rt := range routes {
		t.Row(strings.Join(rt.Methods, ","), rt.Pattern, rt.Name, validates(rt.Validate), outputs(rt.Validate))
	}

	_, err = fmt.Fprintf(w, "%s: %d routes\n%s\n", path, len(routes), t.Render())

	return err
}

// validates lists the checked request parts of a route in validation order.
func validates(v *specrouter.Validate) string {
	if v == nil {
		return "-"
	}

	var parts []string
	if v.Type != "" {
		parts = append(parts, "type="+string(v.Type))
	}
	for _, c := range []struct {
		name string
		def  any
	}{
		{"header", v.Header},
		{"query", v.Query},
		{"params", v.Params},
		{"body", v.Body},
	} {
		if c.def != nil {
			parts = append(parts, c.name)
		}
	}
	if len(parts) == 0 {
		return "-"
	}

	return strings.Join(parts, " ")
}

// outputs lists the status expressions of a route's output rules.
func outputs(v *specrouter.Validate) string {
	if v == nil || len(v.Output) == 0 {
		return "-"
	}

	exprs := make([]string, len(v.Output))
	for i, e := range v.Output {
		exprs[i] = e.Status
	}

	return strings.Join(exprs, " | ")
}
