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
	"net/http"

	"rivaas.dev/specrouter"
	"rivaas.dev/specrouter/specfile"
)

// builtinHandlers are the handler names route files may use with this command.
func builtinHandlers() specfile.Handlers {
	return specfile.Handlers{
		"echo":      echo,
		"ok":        ok,
		"noContent": noContent,
	}
}

// echo responds with the validated request parts.
func echo(c *specrouter.Context) error {
	resp := map[string]any{
		"header": c.Header(),
		"query":  c.Query(),
		"params": c.Params(),
	}
	if c.Body != nil {
		resp["body"] = c.Body
	}
	if invalid := c.Invalid(); len(invalid) > 0 {
		errs := make(map[string]string, len(invalid))
		for category, err := range invalid {
			errs[category] = err.Error()
		}
		resp["invalid"] = errs
	}

	return c.JSON(http.StatusOK, resp)
}

func ok(c *specrouter.Context) error {
	return c.String(http.StatusOK, http.StatusText(http.StatusOK))
}

func noContent(c *specrouter.Context) error {
	c.SetStatus(http.StatusNoContent)
	c.SetBody(nil)

	return nil
}
