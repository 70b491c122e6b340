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
	"errors"
	"net/http"

	"rivaas.dev/specrouter/body"
)

// categoryType is the Invalid key for body parsing failures.
const categoryType = "type"

// bodyParser returns the chain step that parses the request body as the
// route's declared type.
func (r *Router) bodyParser(v *Validate) HandlerFunc {
	return func(c *Context) error {
		err := parseBody(c, v)
		if err == nil {
			return nil
		}

		r.observeFailure(c, categoryType, err)
		if v.ContinueOnError {
			c.recordInvalid(categoryType, err)
			return nil
		}

		return err
	}
}

func parseBody(c *Context, v *Validate) error {
	opts := body.Options{Limit: v.MaxBody, MaxMemory: v.MultipartMemory}
	req := c.Request

	switch v.Type {
	case BodyJSON:
		if c.Body != nil {
			return nil
		}
		if !body.Is(req, body.FamilyJSON) {
			return &ParseError{Status: http.StatusBadRequest, Message: "expected json"}
		}
		payload, err := body.JSON(req, opts)
		if err != nil {
			return parseFailure("json", err)
		}
		c.Body = payload

	case BodyForm:
		if c.Body != nil {
			return nil
		}
		if !body.Is(req, body.FamilyForm) {
			return &ParseError{Status: http.StatusBadRequest, Message: "expected x-www-form-urlencoded"}
		}
		payload, err := body.Form(req, opts)
		if err != nil {
			return parseFailure("x-www-form-urlencoded", err)
		}
		c.Body = payload

	case BodyMultipart:
		if !body.Is(req, body.FamilyMultipart) {
			return &ParseError{Status: http.StatusBadRequest, Message: "expected multipart"}
		}
		res, err := body.Multipart(req, opts)
		if err != nil {
			return parseFailure("multipart", err)
		}
		c.OnDone(func() { _ = res.RemoveAll() })
		c.Body = res.Fields
		c.files = res.Files

	case BodyStream:
		if !body.Is(req, body.FamilyMultipart) {
			return &ParseError{Status: http.StatusBadRequest, Message: "expected multipart"}
		}
		parts, err := body.Stream(req)
		if err != nil {
			return parseFailure("multipart", err)
		}
		c.parts = parts
	}

	return nil
}

func parseFailure(kind string, err error) error {
	if errors.Is(err, body.ErrTooLarge) {
		return &ParseError{Status: http.StatusRequestEntityTooLarge, Message: "request entity too large", Err: err}
	}

	return &ParseError{Status: http.StatusBadRequest, Message: "invalid " + kind + " body", Err: err}
}
