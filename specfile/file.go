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

package specfile

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"

	"rivaas.dev/specrouter/output"
)

// File is a decoded route file.
type File struct {
	// Path is the file the routes were loaded from, if any.
	Path string `mapstructure:"-"`

	// Prefix is applied to the router with [specrouter.Router.Prefix].
	Prefix string `mapstructure:"prefix"`

	Defaults Defaults `mapstructure:"defaults"`
	Routes   []Route  `mapstructure:"routes"`
}

// Defaults holds values shared by every route of a file.
type Defaults struct {
	// Validate is merged into each route's validate block before decoding.
	Validate map[string]any `mapstructure:"validate"`
}

// Route declares one route. Handler and Pre name entries of [Handlers].
type Route struct {
	Name     string         `mapstructure:"name"`
	Method   string         `mapstructure:"method"`
	Path     string         `mapstructure:"path"`
	Handler  []string       `mapstructure:"handler"`
	Pre      []string       `mapstructure:"pre"`
	Validate *Validate      `mapstructure:"validate"`
	Meta     map[string]any `mapstructure:"meta"`
}

// Validate mirrors [specrouter.Validate]. Schemas are kept as decoded
// trees and compiled by the router's schema builder.
type Validate struct {
	Header          any        `mapstructure:"header"`
	Query           any        `mapstructure:"query"`
	Params          any        `mapstructure:"params"`
	Body            any        `mapstructure:"body"`
	Type            string     `mapstructure:"type"`
	MaxBody         int64      `mapstructure:"maxBody"`
	MultipartMemory int64      `mapstructure:"multipartMemory"`
	Failure         int        `mapstructure:"failure"`
	ContinueOnError bool       `mapstructure:"continueOnError"`
	Output          output.Map `mapstructure:"output"`
}

// Load reads and parses the route file at path. The format is taken from
// the extension.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route file: %w", err)
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path

	return f, nil
}

// Parse decodes a route file of the given format.
func Parse(data []byte, format Format) (*File, error) {
	tree, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	tree, _ = normalize(tree).(map[string]any)
	if err = applyDefaults(tree); err != nil {
		return nil, err
	}

	var f File
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err = dec.Decode(tree); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &f, nil
}

// applyDefaults merges defaults.validate into the validate block of every
// route. Each route receives its own copy of the defaults.
func applyDefaults(tree map[string]any) error {
	defaults, _ := tree["defaults"].(map[string]any)
	shared, _ := defaults["validate"].(map[string]any)
	if len(shared) == 0 {
		return nil
	}

	routes, _ := tree["routes"].([]any)
	for i, item := range routes {
		route, ok := item.(map[string]any)
		if !ok {
			continue
		}

		v, _ := route["validate"].(map[string]any)
		if v == nil {
			v = make(map[string]any)
		}
		if err := mergo.Merge(&v, normalize(shared)); err != nil {
			return fmt.Errorf("%w: routes[%d]: merge defaults: %w", ErrDecode, i, err)
		}
		route["validate"] = v
	}

	return nil
}

// normalize deep-copies a decoded tree, turning every map into
// map[string]any and every slice into []any.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
