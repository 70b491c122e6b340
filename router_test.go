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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/specrouter/output"
	"rivaas.dev/specrouter/schema"
)

func ok(c *Context) error {
	return c.String(http.StatusOK, "ok")
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestNew_RejectsNilOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
	}{
		{name: "builder", opt: WithSchemaBuilder(nil)},
		{name: "logger", opt: WithLogger(nil)},
		{name: "formatter", opt: WithErrorFormatter(nil)},
		{name: "recorder", opt: WithRecorder(nil)},
		{name: "prefix", opt: WithPrefix("api")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.opt)
			require.ErrorIs(t, err, ErrInvalidOption)
			assert.Panics(t, func() { MustNew(tt.opt) })
		})
	}
}

func TestRoute_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    Spec
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing path",
			spec:    Spec{Method: "get", Handler: []HandlerFunc{ok}},
			wantErr: ErrInvalidSpec,
		},
		{
			name:    "missing method",
			spec:    Spec{Path: "/", Handler: []HandlerFunc{ok}},
			wantErr: ErrInvalidSpec,
		},
		{
			name:    "unknown method",
			spec:    Spec{Method: "fetch", Path: "/", Handler: []HandlerFunc{ok}},
			wantErr: ErrInvalidSpec,
		},
		{
			name:    "missing handler",
			spec:    Spec{Method: "get", Path: "/"},
			wantErr: ErrInvalidSpec,
		},
		{
			name:    "nil handler",
			spec:    Spec{Method: "get", Path: "/", Handler: []HandlerFunc{nil}},
			wantErr: ErrInvalidSpec,
		},
		{
			name:    "nil handler after a valid one",
			spec:    Spec{Method: "get", Path: "/", Handler: []HandlerFunc{ok, nil}},
			wantErr: ErrInvalidSpec,
			wantMsg: "handlers may not be nil",
		},
		{
			name:    "nil pre handler",
			spec:    Spec{Method: "get", Path: "/", Pre: []HandlerFunc{nil}, Handler: []HandlerFunc{ok}},
			wantErr: ErrInvalidSpec,
			wantMsg: "handlers may not be nil",
		},
		{
			name: "unsupported body type",
			spec: Spec{
				Method: "post", Path: "/", Handler: []HandlerFunc{ok},
				Validate: &Validate{Type: "xml"},
			},
			wantErr: ErrUnsupportedBodyType,
			wantMsg: "unsupported body type: xml",
		},
		{
			name: "body schema without type",
			spec: Spec{
				Method: "post", Path: "/", Handler: []HandlerFunc{ok},
				Validate: &Validate{Body: schema.Identity},
			},
			wantErr: ErrInvalidSpec,
			wantMsg: "validate.type must be declared when using validate.body",
		},
		{
			name: "body schema with stream",
			spec: Spec{
				Method: "post", Path: "/", Handler: []HandlerFunc{ok},
				Validate: &Validate{Type: BodyStream, Body: schema.Identity},
			},
			wantErr: ErrInvalidSpec,
		},
		{
			name: "bad failure status",
			spec: Spec{
				Method: "get", Path: "/", Handler: []HandlerFunc{ok},
				Validate: &Validate{Failure: 42},
			},
			wantErr: ErrInvalidSpec,
		},
		{
			name: "negative body limit",
			spec: Spec{
				Method: "post", Path: "/", Handler: []HandlerFunc{ok},
				Validate: &Validate{Type: BodyJSON, MaxBody: -1},
			},
			wantErr: ErrInvalidSpec,
		},
		{
			name: "broken schema",
			spec: Spec{
				Method: "get", Path: "/", Handler: []HandlerFunc{ok},
				Validate: &Validate{Query: `{"type":`},
			},
			wantErr: schema.ErrCompile,
			wantMsg: "validate.query",
		},
		{
			name: "invalid output range",
			spec: Spec{
				Method: "get", Path: "/", Handler: []HandlerFunc{ok},
				Validate: &Validate{Output: []output.Entry{{Status: "600", Spec: &output.Spec{Body: schema.Identity}}}},
			},
			wantErr: output.ErrInvalidRange,
		},
		{
			name: "overlapping output rules",
			spec: Spec{
				Method: "get", Path: "/", Handler: []HandlerFunc{ok},
				Validate: &Validate{Output: []output.Entry{
					{Status: "200", Spec: &output.Spec{Body: schema.Identity}},
					{Status: "200,201", Spec: &output.Spec{Body: schema.Identity}},
				}},
			},
			wantErr: output.ErrOverlap,
			wantMsg: "output validation rules may not overlap: 200 <=> 200,201",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := MustNew()
			err := r.Route(tt.spec)
			require.ErrorIs(t, err, tt.wantErr)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			assert.Empty(t, r.Routes(), "a rejected spec must not be registered")
			assert.Panics(t, func() { r.MustRoute(tt.spec) })
		})
	}
}

func TestRoute_AllOrNothing(t *testing.T) {
	t.Parallel()

	r := MustNew()
	err := r.Route(
		Spec{Method: "get", Path: "/a", Handler: []HandlerFunc{ok}},
		Spec{Method: "get", Path: "/b"},
	)
	require.Error(t, err)
	assert.Empty(t, r.Routes())
}

func TestRoute_Duplicate(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.GET("/users/:id", Config{}, ok))

	err := r.Route(Spec{Method: "get post", Path: "/users/{id}", Handler: []HandlerFunc{ok}})
	require.ErrorIs(t, err, ErrDuplicateRoute)

	require.NoError(t, r.POST("/users/:id", Config{}, ok))
}

func TestRouter_Shortcuts(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.GET("/r", Config{Name: "get"}, ok))
	require.NoError(t, r.POST("/r", Config{}, ok))
	require.NoError(t, r.PUT("/r", Config{}, ok))
	require.NoError(t, r.PATCH("/r", Config{}, ok))
	require.NoError(t, r.DELETE("/r", Config{}, ok))
	require.NoError(t, r.OPTIONS("/r", Config{}, ok))
	require.NoError(t, r.HEAD("/r", Config{}, ok))

	methods := make([]string, 0, 7)
	for _, info := range r.Routes() {
		methods = append(methods, info.Methods...)
	}
	assert.Equal(t, []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}, methods)
	assert.Equal(t, "get", r.Routes()[0].Name)

	for _, m := range methods {
		rec := serve(r, httptest.NewRequest(m, "/r", nil))
		assert.Equal(t, http.StatusOK, rec.Code, m)
	}
}

func TestRouter_MultiMethodSpec(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustRoute(Spec{Method: "GET del", Path: "/items/:id", Handler: []HandlerFunc{func(c *Context) error {
		return c.String(http.StatusOK, c.Request.Method+" "+c.Param("id"))
	}}})

	assert.Equal(t, "GET 7", serve(r, httptest.NewRequest(http.MethodGet, "/items/7", nil)).Body.String())
	assert.Equal(t, "DELETE 7", serve(r, httptest.NewRequest(http.MethodDelete, "/items/7", nil)).Body.String())
	assert.Equal(t, http.StatusMethodNotAllowed, serve(r, httptest.NewRequest(http.MethodPost, "/items/7", nil)).Code)
}

func TestRouter_Prefix(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.GET("/users", Config{}, ok))
	require.NoError(t, r.Prefix("/api/"))

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/api/users", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodGet, "/users", nil)).Code)
	assert.Equal(t, "/api/users", r.Routes()[0].Pattern)
	assert.Equal(t, "/users", r.Routes()[0].Path)

	require.ErrorIs(t, r.Prefix("api"), ErrInvalidOption)
}

func TestRouter_NotFound(t *testing.T) {
	t.Parallel()

	r := MustNew(WithNotFound(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	require.NoError(t, r.GET("/", Config{}, ok))

	assert.Equal(t, http.StatusTeapot, serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil)).Code)
}

func TestRouter_ChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	step := func(name string) HandlerFunc {
		return func(c *Context) error {
			order = append(order, name)
			return nil
		}
	}

	r := MustNew()
	r.Use(step("middleware"))
	r.Param("id", func(c *Context, id string) error {
		order = append(order, "param:"+id)
		return nil
	})
	r.Param("other", func(*Context, string) error {
		order = append(order, "unused param")
		return nil
	})
	r.MustRoute(Spec{
		Method: "get",
		Path:   "/things/:id",
		Pre:    []HandlerFunc{step("pre")},
		Validate: &Validate{Params: schema.Func(func(_ context.Context, v any) (any, error) {
			order = append(order, "validate")
			return v, nil
		})},
		Handler: []HandlerFunc{step("handler"), ok},
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/things/9", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"middleware", "param:9", "pre", "validate", "handler"}, order)
}

func TestRouter_UseAfterRouteApplies(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.GET("/", Config{}, ok))
	serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	r.Use(func(c *Context) error {
		c.SetHeader("X-Mw", "1")
		return nil
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "1", rec.Header().Get("X-Mw"))
}

func TestRouter_ParamHandlerError(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.Param("id", func(_ *Context, id string) error {
		if id != "1" {
			return &ParseError{Status: http.StatusNotFound, Message: "no such user"}
		}
		return nil
	})
	require.NoError(t, r.GET("/users/:id", Config{}, ok))

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/users/1", nil)).Code)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/users/2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":404,"msg":"no such user"}`, rec.Body.String())
}

func TestRouter_RoutesAreSnapshots(t *testing.T) {
	t.Parallel()

	r := MustNew()
	meta := map[string]any{"owner": "team-a"}
	r.MustRoute(Spec{
		Method:  "get",
		Path:    "/",
		Meta:    meta,
		Handler: []HandlerFunc{ok},
	})
	meta["owner"] = "mutated after registration"

	routes := r.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "team-a", routes[0].Meta["owner"])

	routes[0].Meta["owner"] = "mutated snapshot"
	assert.Equal(t, "team-a", r.Routes()[0].Meta["owner"])
}

func TestContext_RouteIsSnapshot(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustRoute(Spec{
		Name:   "show",
		Method: "get",
		Path:   "/show/:id",
		Meta:   map[string]any{"v": 1},
		Handler: []HandlerFunc{func(c *Context) error {
			info := c.Route()
			info.Meta["v"] = 2
			return c.JSON(http.StatusOK, map[string]any{
				"name":    info.Name,
				"pattern": info.Pattern,
				"again":   c.Route().Meta["v"],
			})
		}},
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/show/1", nil))
	assert.JSONEq(t, `{"name":"show","pattern":"/show/{id}","again":1}`, rec.Body.String())
}

func TestRouter_HandlerErrors(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.GET("/plain", Config{}, func(*Context) error {
		return errors.New("database unreachable")
	}))
	require.NoError(t, r.GET("/typed", Config{}, func(*Context) error {
		return &ValidationError{Category: "body", Status: http.StatusConflict, Err: errors.New("already exists")}
	}))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":500,"msg":"Internal Server Error"}`, rec.Body.String())

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/typed", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"status":409,"msg":"already exists"}`, rec.Body.String())
}

func TestRouter_ConcurrentRegistrationAndServing(t *testing.T) {
	t.Parallel()

	r := MustNew()
	require.NoError(t, r.GET("/", Config{}, ok))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.GET("/r"+strings.Repeat("x", i+1), Config{}, ok)
		}()
		go func() {
			defer wg.Done()
			rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
	}
	wg.Wait()

	assert.Len(t, r.Routes(), 9)
}

type fakeRecorder struct {
	mu          sync.Mutex
	validations []string
	requests    []int
}

func (f *fakeRecorder) RecordValidation(_ context.Context, route, category string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	outcome := "valid"
	if err != nil {
		outcome = "invalid"
	}
	f.validations = append(f.validations, route+" "+category+" "+outcome)
}

func (f *fakeRecorder) RecordRequest(_ context.Context, _, _ string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, status)
}

func TestRouter_Recorder(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	r := MustNew(WithRecorder(rec))
	r.MustRoute(Spec{
		Method: "get",
		Path:   "/n/:n",
		Validate: &Validate{
			Params: `{"type":"object","properties":{"n":{"type":"integer"}}}`,
		},
		Handler: []HandlerFunc{ok},
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/n/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/n/x", nil))

	assert.Equal(t, []string{"/n/{n} params valid", "/n/{n} params invalid"}, rec.validations)
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, rec.requests)
}
