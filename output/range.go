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

package output

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Wildcard is the range matched by the "*" expression.
var Wildcard = Range{Lower: 0, Upper: math.MaxInt}

var reStatusCode = regexp.MustCompile(`^[1-5][0-9]{2}$`)

// Range is an inclusive interval of HTTP status codes.
type Range struct {
	Lower int
	Upper int
}

// ParseRange parses a single range token: "*", a status code such as "404"
// or an inclusive range such as "500-599". Both bounds must be status codes
// between 100 and 599 and the lower bound may not exceed the upper bound.
func ParseRange(token string) (Range, error) {
	if token == "*" {
		return Wildcard, nil
	}

	parts := strings.Split(token, "-")
	if len(parts) == 0 || len(parts) > 2 {
		return Range{}, fmt.Errorf("%w: %s", ErrInvalidRange, token)
	}

	lower, err := parseCode(parts[0])
	if err != nil {
		return Range{}, err
	}

	upper := lower
	if len(parts) == 2 {
		if upper, err = parseCode(parts[1]); err != nil {
			return Range{}, err
		}
	}

	if lower > upper {
		return Range{}, fmt.Errorf("%w: %s lower bound exceeds upper bound", ErrInvalidRange, token)
	}

	return Range{Lower: lower, Upper: upper}, nil
}

func parseCode(code string) (int, error) {
	if !reStatusCode.MatchString(code) {
		return 0, fmt.Errorf("%w: %s must be between 100-599", ErrInvalidRange, code)
	}

	return strconv.Atoi(code)
}

// Contains reports whether status lies within the range.
func (r Range) Contains(status int) bool {
	return status >= r.Lower && status <= r.Upper
}

// Overlaps reports whether r and o share at least one status code.
func (r Range) Overlaps(o Range) bool {
	return r.Lower <= o.Upper && r.Upper >= o.Lower
}

// String returns the range in expression syntax.
func (r Range) String() string {
	if r == Wildcard {
		return "*"
	}
	if r.Lower == r.Upper {
		return strconv.Itoa(r.Lower)
	}

	return strconv.Itoa(r.Lower) + "-" + strconv.Itoa(r.Upper)
}
