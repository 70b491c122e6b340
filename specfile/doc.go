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

// Package specfile loads route declarations from YAML, TOML or JSON files
// and turns them into [specrouter.Spec] values.
//
// Handlers cannot be expressed in a file, so routes name them and a
// [Handlers] table resolves the names when the specs are built.
//
// Example file:
//
//	prefix: /api
//	defaults:
//	  validate:
//	    failure: 422
//	routes:
//	  - name: createUser
//	    method: post
//	    path: /users
//	    handler: [create]
//	    validate:
//	      type: json
//	      body:
//	        type: object
//	        required: [name]
//	      output:
//	        "201":
//	          body: {type: object}
//
// Every key under defaults.validate is merged into each route's validate
// block. Keys set on the route win; nested maps are merged key by key.
//
// Loading and applying:
//
//	f, err := specfile.Load("routes.yaml")
//	if err != nil {
//		return err
//	}
//	err = f.Apply(r, specfile.Handlers{"create": createUser})
package specfile
