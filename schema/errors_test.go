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

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  Error
		want string
	}{
		{name: "empty", err: Error{}, want: "validation failed"},
		{
			name: "single field",
			err:  Error{Fields: []FieldError{{Path: "q", Message: "must be at least 5"}}},
			want: "q: must be at least 5",
		},
		{
			name: "multiple fields truncated",
			err: Error{
				Fields:    []FieldError{{Path: "a", Message: "x"}, {Message: "y"}},
				Truncated: true,
			},
			want: "validation failed: a: x; y (truncated)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrValidation)
		})
	}
}

func TestError_SortAndCodes(t *testing.T) {
	t.Parallel()

	var verr Error
	verr.Add("b", "tag.required", "is required", nil)
	verr.Add("a", "tag.min", "too small", nil)
	verr.Sort()

	assert.Equal(t, "a", verr.Fields[0].Path)
	assert.True(t, verr.HasCode("tag.required"))
	assert.False(t, verr.HasCode("tag.max"))
	assert.Equal(t, "validation_error", verr.Code())
	assert.Equal(t, verr.Fields, verr.Details())
}
