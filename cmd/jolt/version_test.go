/*
Copyright SUSE LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rancher-sandbox/jolt/internal/version"
)

func TestVersion(t *testing.T) {
	tests := []cmdTestCase{
		{
			name: "default",
			cmd:  "version",
			want: []string{"jolt v0.1.0 (commit unknown, tree unknown, go"},
		},
		{
			name:    "short",
			cmd:     "version --short",
			want:    []string{"v0.1.0"},
			notWant: []string{"commit"},
		},
		{
			name: "template",
			cmd:  "version --template='Version: {{.Version}}'",
			want: []string{"Version: v0.1.0"},
		},
		{
			name: "json",
			cmd:  "version -o json",
			want: []string{`"version":"v0.1.0"`, `"go_version":"go`},
		},
		{
			name: "yaml",
			cmd:  "version -o yaml",
			want: []string{"version: v0.1.0", "go_version: go"},
		},
		{
			name:      "bad template",
			cmd:       "version --template='{{.Nope'",
			wantError: true,
		},
		{
			name:      "arguments",
			cmd:       "version now",
			wantError: true,
		},
	}
	runTestCmd(t, tests)
}

func TestShortVersion(t *testing.T) {
	assert.Equal(t, "v0.1.0", shortVersion(version.BuildInfo{Version: "v0.1.0"}))
	assert.Equal(t, "v0.1.0+gfe51cd1", shortVersion(version.BuildInfo{
		Version:   "v0.1.0",
		GitCommit: "fe51cd1e31e6a202cba7dead9552a6d418ded79a",
	}))
}
