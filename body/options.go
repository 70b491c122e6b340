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

// Default limits, in bytes.
const (
	DefaultJSONLimit      int64 = 1 << 20
	DefaultFormLimit      int64 = 56 << 10
	DefaultMultipartLimit int64 = 32 << 20

	// DefaultMultipartMemory is how much of a multipart payload is kept in
	// memory before file parts spill to temporary files.
	DefaultMultipartMemory int64 = 10 << 20
)

// Options configures a decoder. Zero values select the decoder's default.
type Options struct {
	// Limit is the maximum number of payload bytes read.
	Limit int64

	// MaxMemory bounds the in-memory part of a multipart payload.
	MaxMemory int64
}

func (o Options) limit(def int64) int64 {
	if o.Limit > 0 {
		return o.Limit
	}

	return def
}

func (o Options) maxMemory() int64 {
	if o.MaxMemory > 0 {
		return o.MaxMemory
	}

	return DefaultMultipartMemory
}
