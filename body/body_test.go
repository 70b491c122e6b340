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

package body

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(contentType, payload string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}

	return r
}

// chunked hides the content length so only the read limit applies.
func chunked(r *http.Request) *http.Request {
	r.ContentLength = -1
	return r
}

func TestIs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		family      Family
		want        bool
	}{
		{"application/json", FamilyJSON, true},
		{"application/json; charset=utf-8", FamilyJSON, true},
		{"application/problem+json", FamilyJSON, true},
		{"text/plain", FamilyJSON, false},
		{"application/x-www-form-urlencoded", FamilyJSON, false},
		{"application/x-www-form-urlencoded", FamilyForm, true},
		{"multipart/form-data; boundary=x", FamilyMultipart, true},
		{"multipart/mixed; boundary=x", FamilyMultipart, true},
		{"multipart/form-data; boundary=x", FamilyForm, false},
		{"", FamilyJSON, false},
		{";;;", FamilyJSON, false},
		{"application/json", Family("xml"), false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType+"/"+string(tt.family), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Is(newRequest(tt.contentType, ""), tt.family))
		})
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    any
		wantErr error
	}{
		{name: "object", payload: `{"last":"H","first":"A"}`, want: map[string]any{"last": "H", "first": "A"}},
		{name: "numbers are float64", payload: `{"n":3}`, want: map[string]any{"n": float64(3)}},
		{name: "array", payload: `[1,"a"]`, want: []any{float64(1), "a"}},
		{name: "empty body", payload: "", want: map[string]any{}},
		{name: "whitespace only", payload: " \n", want: map[string]any{}},
		{name: "truncated", payload: `{"a":`, wantErr: ErrMalformed},
		{name: "not json", payload: `hello`, wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := JSON(newRequest("application/json", tt.payload), Options{})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSON_Limit(t *testing.T) {
	t.Parallel()

	payload := `{"a":"` + strings.Repeat("x", 64) + `"}`

	t.Run("content length", func(t *testing.T) {
		t.Parallel()
		_, err := JSON(newRequest("application/json", payload), Options{Limit: 16})
		require.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("bytes read", func(t *testing.T) {
		t.Parallel()
		_, err := JSON(chunked(newRequest("application/json", payload)), Options{Limit: 16})
		require.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("exactly at limit", func(t *testing.T) {
		t.Parallel()
		got, err := JSON(chunked(newRequest("application/json", payload)), Options{Limit: int64(len(payload))})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": strings.Repeat("x", 64)}, got)
	})
}

func TestForm(t *testing.T) {
	t.Parallel()

	got, err := Form(newRequest("application/x-www-form-urlencoded", "a=1&b=x&b=y&c="), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1", "b": []any{"x", "y"}, "c": ""}, got)

	_, err = Form(newRequest("application/x-www-form-urlencoded", "a=%zz"), Options{})
	require.ErrorIs(t, err, ErrMalformed)

	_, err = Form(chunked(newRequest("application/x-www-form-urlencoded", strings.Repeat("a=1&", 100))), Options{Limit: 10})
	require.ErrorIs(t, err, ErrTooLarge)
}

func multipartRequest(t *testing.T) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "rivaas"))
	require.NoError(t, w.WriteField("tag", "a"))
	require.NoError(t, w.WriteField("tag", "b"))
	fw, err := w.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return newRequest(w.FormDataContentType(), buf.String())
}

func TestMultipart(t *testing.T) {
	t.Parallel()

	res, err := Multipart(multipartRequest(t), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.RemoveAll() })

	assert.Equal(t, map[string]any{"name": "rivaas", "tag": []any{"a", "b"}}, res.Fields)
	require.Len(t, res.Files["avatar"], 1)
	assert.Equal(t, "avatar.png", res.Files["avatar"][0].Filename)

	f, err := res.Files["avatar"][0].Open()
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestMultipart_Errors(t *testing.T) {
	t.Parallel()

	_, err := Multipart(chunked(multipartRequest(t)), Options{Limit: 32})
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = Multipart(newRequest("multipart/form-data", "garbage"), Options{})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestStream(t *testing.T) {
	t.Parallel()

	mr, err := Stream(multipartRequest(t))
	require.NoError(t, err)

	var names []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, part.FormName())
	}
	assert.Equal(t, []string{"name", "tag", "tag", "avatar"}, names)

	_, err = Stream(newRequest("application/json", "{}"))
	require.ErrorIs(t, err, ErrMalformed)
}
