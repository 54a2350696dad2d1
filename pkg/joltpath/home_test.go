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

package joltpath

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigPath(t *testing.T) {
	t.Setenv(ConfigHomeEnvVar, "")
	t.Setenv(XDGConfigHomeEnvVar, filepath.FromSlash("/config"))

	assert.Equal(t, filepath.FromSlash("/config/jolt"), ConfigPath())
	assert.Equal(t, filepath.FromSlash("/config/jolt/config.yaml"), ConfigFile())

	// environment variables are read on every call
	t.Setenv(XDGConfigHomeEnvVar, filepath.FromSlash("/config2"))
	assert.Equal(t, filepath.FromSlash("/config2/jolt/config.yaml"), ConfigFile())

	t.Setenv(ConfigHomeEnvVar, filepath.FromSlash("/jolt"))
	assert.Equal(t, filepath.FromSlash("/jolt/config.yaml"), ConfigFile())
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv(ConfigHomeEnvVar, "")
	t.Setenv(XDGConfigHomeEnvVar, "")

	assert.Equal(t, filepath.Join(configHome(), "jolt"), ConfigPath())
}
