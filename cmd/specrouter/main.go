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

// Command specrouter checks and serves declarative route files.
//
// Usage:
//
//	# Print the routes and output rules of a file
//	specrouter lint routes.yaml
//
//	# Serve a file with the built-in handlers, reloading on change
//	specrouter serve routes.yaml --addr :8080 --watch
//
// Route files name their handlers. The command provides echo, ok and
// noContent; see handlers.go.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
