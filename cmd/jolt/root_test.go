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
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	tests := []struct {
		name     string
		args     string
		envvars  map[string]string
		debug    bool
		noEmojis bool
	}{
		{
			name: "defaults",
			args: "version",
		},
		{
			name:  "debug flag",
			args:  "--debug version",
			debug: true,
		},
		{
			name:     "no emojis flag",
			args:     "--no-emojis version",
			noEmojis: true,
		},
		{
			name:    "debug from environment",
			args:    "version",
			envvars: map[string]string{"JOLT_DEBUG": "true"},
			debug:   true,
		},
		{
			name:     "no emojis from environment",
			args:     "version",
			envvars:  map[string]string{"JOLT_NO_EMOJIS": "1"},
			noEmojis: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetEnv()()

			for k, v := range tt.envvars {
				t.Setenv(k, v)
			}

			_, _, err := executeCommandStdinC(tt.args, "")
			require.NoError(t, err)

			assert.Equal(t, tt.debug, settings.Debug)
			assert.Equal(t, tt.noEmojis, settings.NoEmojis)
		})
	}
}

func TestRootCmdDebugOutput(t *testing.T) {
	defer resetEnv()()

	_, out, err := executeCommandStdinC("--debug solve -q testdata/machines.txt", "")
	require.NoError(t, err)
	assert.Contains(t, out, "read 3 machines from testdata/machines.txt")
	assert.Contains(t, out, "machine 0: 2 presses")
}

func TestUnknownCommand(t *testing.T) {
	defer resetEnv()()

	_, _, err := executeCommandStdinC("frobnicate", "")
	require.Error(t, err)
}
