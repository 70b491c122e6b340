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

package specrouter

import (
	"net/http"

	"rivaas.dev/specrouter/output"
	"rivaas.dev/specrouter/schema"
)

// State is the validation state of one request category.
type State uint8

// Validation states. A category starts pending and ends skipped (no
// schema), valid or invalid.
const (
	StatePending State = iota
	StateSkipped
	StateValid
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateSkipped:
		return "skipped"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return "pending"
	}
}

// Input categories in validation order.
const (
	categoryHeader = "header"
	categoryQuery  = "query"
	categoryParams = "params"
	categoryBody   = "body"
	categoryOutput = "output"
)

// inputSchemas holds the compiled schemas of a route, indexed like categories.
type inputSchemas [4]schema.Validator

var categories = [4]string{categoryHeader, categoryQuery, categoryParams, categoryBody}

// validator returns the chain step that checks the request, runs the rest
// of the chain and then checks the response.
func (r *Router) validator(v *Validate, in inputSchemas, out *output.Validator) HandlerFunc {
	return func(c *Context) error {
		for i, category := range categories {
			if in[i] == nil {
				c.setState(category, StateSkipped)
				continue
			}

			if err := r.validateInput(c, category, in[i]); err != nil {
				verr := &ValidationError{Category: category, Status: v.Failure, Err: err}
				c.setState(category, StateInvalid)
				r.observeFailure(c, category, verr)
				if !v.ContinueOnError {
					return verr
				}
				c.recordInvalid(category, verr)
				continue
			}

			c.setState(category, StateValid)
			r.recorder.RecordValidation(c.Request.Context(), c.binding.pattern, category, nil)
		}

		if err := c.Next(); err != nil || out == nil {
			return err
		}

		if err := out.Validate(c.Request.Context(), outputResponse{c}); err != nil {
			verr := &ValidationError{Category: categoryOutput, Status: http.StatusInternalServerError, Err: err}
			c.status = http.StatusInternalServerError
			c.setState(categoryOutput, StateInvalid)
			r.observeFailure(c, categoryOutput, verr)
			return verr
		}

		c.setState(categoryOutput, StateValid)
		r.recorder.RecordValidation(c.Request.Context(), c.binding.pattern, categoryOutput, nil)

		return nil
	}
}

// validateInput runs one schema and writes the casted value back.
func (r *Router) validateInput(c *Context, category string, s schema.Validator) error {
	ctx := c.Request.Context()

	switch category {
	case categoryHeader:
		casted, err := s.Validate(ctx, c.header)
		if err != nil {
			return err
		}
		values, err := schema.ToMap(casted)
		if err != nil {
			return err
		}
		for name, value := range values {
			c.setHeader(name, value)
		}

	case categoryQuery:
		casted, err := s.Validate(ctx, c.query)
		if err != nil {
			return err
		}
		values, err := schema.ToMap(casted)
		if err != nil {
			return err
		}
		for name, value := range values {
			c.query[name] = value
		}

	case categoryParams:
		casted, err := s.Validate(ctx, c.params)
		if err != nil {
			return err
		}
		values, err := schema.ToMap(casted)
		if err != nil {
			return err
		}
		c.params = values

	case categoryBody:
		casted, err := s.Validate(ctx, c.Body)
		if err != nil {
			return err
		}
		c.Body = casted
	}

	return nil
}
