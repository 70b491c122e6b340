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

package specrouter_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/specrouter"
	"rivaas.dev/specrouter/httperror"
	"rivaas.dev/specrouter/output"
	"rivaas.dev/specrouter/schema"
)

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func jsonBody(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())

	return out
}

var _ = Describe("Request validation", func() {
	var r *specrouter.Router

	BeforeEach(func() {
		r = specrouter.MustNew()
	})

	Describe("query casting", func() {
		BeforeEach(func() {
			r.MustRoute(specrouter.Spec{
				Method: "get",
				Path:   "/search",
				Validate: &specrouter.Validate{
					Query: `{"type":"object","properties":{"q":{"type":"number","minimum":5,"maximum":8}},"required":["q"]}`,
				},
				Handler: []specrouter.HandlerFunc{func(c *specrouter.Context) error {
					return c.String(http.StatusOK, fmt.Sprintf("%T %v", c.Query()["q"], c.Query()["q"]))
				}},
			})
		})

		It("rejects a value below the minimum with 400", func() {
			rec := do(r, httptest.NewRequest(http.MethodGet, "/search?q=4", nil))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(jsonBody(rec)).To(HaveKeyWithValue("status", BeNumerically("==", 400)))
		})

		It("casts an accepted value to a number", func() {
			rec := do(r, httptest.NewRequest(http.MethodGet, "/search?q=6", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("float64 6"))
		})

		It("rejects a missing value", func() {
			rec := do(r, httptest.NewRequest(http.MethodGet, "/search", nil))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("json bodies", func() {
		BeforeEach(func() {
			r.MustRoute(specrouter.Spec{
				Method: "post",
				Path:   "/name",
				Validate: &specrouter.Validate{
					Type: specrouter.BodyJSON,
					Body: schema.YAML(`
type: object
properties:
  first: {type: string}
  last: {type: string}
required: [first, last]
`),
				},
				Handler: []specrouter.HandlerFunc{func(c *specrouter.Context) error {
					b := c.Body.(map[string]any)
					return c.String(http.StatusOK, fmt.Sprintf("%s %s", b["last"], b["first"]))
				}},
			})
		})

		It("passes the validated body to the handler", func() {
			req := httptest.NewRequest(http.MethodPost, "/name", strings.NewReader(`{"last":"H","first":"A"}`))
			req.Header.Set("Content-Type", "application/json")

			rec := do(r, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("H A"))
		})

		It("rejects a form content type", func() {
			req := httptest.NewRequest(http.MethodPost, "/name", strings.NewReader("last=H&first=A"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			rec := do(r, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(jsonBody(rec)).To(HaveKeyWithValue("msg", "expected json"))
		})

		It("rejects a body missing required fields", func() {
			req := httptest.NewRequest(http.MethodPost, "/name", strings.NewReader(`{"last":"H"}`))
			req.Header.Set("Content-Type", "application/json")

			rec := do(r, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(jsonBody(rec)).To(HaveKey("details"))
		})
	})

	Describe("continueOnError", func() {
		It("lets the handler observe a body type mismatch", func() {
			r.MustRoute(specrouter.Spec{
				Method: "post",
				Path:   "/lenient",
				Validate: &specrouter.Validate{
					Type:            specrouter.BodyJSON,
					ContinueOnError: true,
				},
				Handler: []specrouter.HandlerFunc{func(c *specrouter.Context) error {
					err, found := c.Invalid()["type"]
					if !found {
						return c.String(http.StatusOK, "no error")
					}
					return c.String(http.StatusOK, httperror.Message(err, 0))
				}},
			})

			req := httptest.NewRequest(http.MethodPost, "/lenient", strings.NewReader("a=1"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			rec := do(r, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("expected json"))
		})
	})

	Describe("form bodies", func() {
		It("casts urlencoded fields", func() {
			r.MustRoute(specrouter.Spec{
				Method: "put",
				Path:   "/settings/:id",
				Validate: &specrouter.Validate{
					Type:   specrouter.BodyForm,
					Params: `{"type":"object","properties":{"id":{"type":"integer","minimum":1}}}`,
					Body:   `{"type":"object","properties":{"enabled":{"type":"boolean"},"tags":{"type":"array","items":{"type":"string"}}}}`,
				},
				Handler: []specrouter.HandlerFunc{func(c *specrouter.Context) error {
					return c.JSON(http.StatusOK, map[string]any{"id": c.Params()["id"], "body": c.Body})
				}},
			})

			req := httptest.NewRequest(http.MethodPut, "/settings/3", strings.NewReader("enabled=true&tags=a"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			rec := do(r, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`{"id":3,"body":{"enabled":true,"tags":["a"]}}`))
		})
	})
})

var _ = Describe("Output validation", func() {
	var r *specrouter.Router

	BeforeEach(func() {
		r = specrouter.MustNew()
		r.MustRoute(specrouter.Spec{
			Method: "get",
			Path:   "/n/:value",
			Validate: &specrouter.Validate{
				Output: output.Map{
					"200": {Body: `{"type":"object","properties":{"n":{"type":"number"}},"required":["n"]}`},
				}.Entries(),
			},
			Handler: []specrouter.HandlerFunc{func(c *specrouter.Context) error {
				return c.JSON(http.StatusOK, map[string]any{"n": c.Param("value")})
			}},
		})
	})

	It("casts a valid response body", func() {
		rec := do(r, httptest.NewRequest(http.MethodGet, "/n/3", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`{"n":3}`))
	})

	It("replaces an invalid response with a 500", func() {
		rec := do(r, httptest.NewRequest(http.MethodGet, "/n/three", nil))
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(jsonBody(rec)).To(HaveKeyWithValue("status", BeNumerically("==", 500)))
	})

	It("applies only the first matching rule", func() {
		seen := map[string]int{}
		counting := func(name string) schema.Validator {
			return schema.Func(func(_ context.Context, v any) (any, error) {
				seen[name]++
				return v, nil
			})
		}

		r.MustRoute(specrouter.Spec{
			Method: "get",
			Path:   "/gateway",
			Validate: &specrouter.Validate{
				Output: []output.Entry{
					{Status: "200", Spec: &output.Spec{Body: counting("ok")}},
					{Status: "500-502,504,506-510,201", Spec: &output.Spec{Body: counting("errors")}},
				},
			},
			Handler: []specrouter.HandlerFunc{func(c *specrouter.Context) error {
				return c.String(http.StatusGatewayTimeout, "timeout")
			}},
		})

		rec := do(r, httptest.NewRequest(http.MethodGet, "/gateway", nil))
		Expect(rec.Code).To(Equal(http.StatusGatewayTimeout))
		Expect(seen).To(Equal(map[string]int{"errors": 1}))
	})

	It("rejects overlapping rules at registration", func() {
		err := r.Route(specrouter.Spec{
			Method: "get",
			Path:   "/overlap",
			Validate: &specrouter.Validate{
				Output: []output.Entry{
					{Status: "200", Spec: &output.Spec{Body: schema.Identity}},
					{Status: "200,201", Spec: &output.Spec{Body: schema.Identity}},
				},
			},
			Handler: []specrouter.HandlerFunc{func(*specrouter.Context) error { return nil }},
		})

		var cerr *specrouter.ConfigError
		Expect(err).To(BeAssignableToTypeOf(cerr))
		Expect(err).To(MatchError(output.ErrOverlap))
		Expect(err.Error()).To(ContainSubstring("200 <=> 200,201"))
	})
})

var _ = Describe("Error formatting", func() {
	It("renders problem details with the RFC 9457 formatter", func() {
		r := specrouter.MustNew(specrouter.WithErrorFormatter(httperror.NewRFC9457("https://errors.example.com")))
		r.MustRoute(specrouter.Spec{
			Method:   "get",
			Path:     "/",
			Validate: &specrouter.Validate{Query: `{"type":"object","required":["q"]}`},
			Handler:  []specrouter.HandlerFunc{func(*specrouter.Context) error { return nil }},
		})

		rec := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Header().Get("Content-Type")).To(HavePrefix("application/problem+json"))

		body := jsonBody(rec)
		Expect(body).To(HaveKeyWithValue("type", "https://errors.example.com/validation_error"))
		Expect(body).To(HaveKeyWithValue("instance", "/"))
		Expect(body).To(HaveKey("error_id"))
		Expect(body).To(HaveKey("errors"))
	})
})
