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
	"mime"
	"net/http"
	"strings"
)

// Family names a group of related media types.
type Family string

// Families recognized by [Is].
const (
	FamilyJSON      Family = "json"
	FamilyForm      Family = "form"
	FamilyMultipart Family = "multipart"
)

// Is reports whether the Content-Type of r belongs to family.
//
//   - FamilyJSON: application/json and any +json suffix type
//   - FamilyForm: application/x-www-form-urlencoded
//   - FamilyMultipart: any multipart/* type
//
// Requests without a Content-Type or with an unparsable one never match.
func Is(r *http.Request, family Family) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}

	switch family {
	case FamilyJSON:
		return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
	case FamilyForm:
		return mediaType == "application/x-www-form-urlencoded"
	case FamilyMultipart:
		return strings.HasPrefix(mediaType, "multipart/")
	default:
		return false
	}
}
