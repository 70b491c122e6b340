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
	"fmt"
	"io"
	"net/http"
)

// limitedReader stops reading after limit bytes and reports an error if the
// underlying reader holds more data.
type limitedReader struct {
	reader   io.ReadCloser
	limit    int64
	read     int64
	exceeded bool
}

func (lr *limitedReader) Read(p []byte) (int, error) {
	if lr.exceeded {
		return 0, lr.err()
	}
	if lr.read >= lr.limit {
		return 0, io.EOF
	}

	if remaining := lr.limit - lr.read; int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := lr.reader.Read(p)
	lr.read += int64(n)

	// At the limit: peek one byte to tell "exactly limit" from "more".
	if lr.read >= lr.limit && err == nil {
		var one [1]byte
		extra, extraErr := lr.reader.Read(one[:])
		if extra > 0 {
			lr.exceeded = true
			return n, lr.err()
		}
		if extraErr == io.EOF {
			err = io.EOF
		}
	}

	return n, err
}

func (lr *limitedReader) Close() error {
	return lr.reader.Close()
}

func (lr *limitedReader) err() error {
	return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, lr.limit)
}

// limit installs a limitedReader as r.Body. It fails early when the declared
// Content-Length already exceeds the limit.
func limit(r *http.Request, n int64) (*limitedReader, error) {
	if r.ContentLength > n {
		return nil, fmt.Errorf("%w: content length %d exceeds %d bytes", ErrTooLarge, r.ContentLength, n)
	}

	src := r.Body
	if src == nil {
		src = http.NoBody
	}

	lr := &limitedReader{reader: src, limit: n}
	r.Body = lr

	return lr, nil
}

// readAll reads the limited body of r.
func readAll(r *http.Request, n int64) ([]byte, error) {
	lr, err := limit(r, n)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(lr)
	if err != nil {
		if lr.exceeded {
			return nil, lr.err()
		}
		return nil, fmt.Errorf("read body: %w", err)
	}

	return data, nil
}
