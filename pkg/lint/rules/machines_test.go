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

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rancher-sandbox/jolt/internal/machine"
	"github.com/rancher-sandbox/jolt/pkg/lint/support"
)

func TestValidators(t *testing.T) {
	good := &machine.Machine{
		Lights:   []int{0, 1, 1, 0},
		Buttons:  [][]int{{3}, {1, 3}, {2}, {2, 3}, {0, 2}, {0, 1}},
		Joltages: []int64{3, 5, 4, 7},
	}

	for _, tcase := range []struct {
		name     string
		validate func(*machine.Machine) error
		bad      *machine.Machine
	}{
		{"buttons", validateButtons, &machine.Machine{Lights: []int{1}}},
		{"empty button", validateButtons, &machine.Machine{Lights: []int{1}, Buttons: [][]int{{0}, {}}}},
		{"light indices", validateLightIndices, &machine.Machine{Lights: []int{1}, Buttons: [][]int{{1}}}},
		{"joltage indices", validateJoltageIndices, &machine.Machine{Lights: []int{1, 0}, Buttons: [][]int{{1}}, Joltages: []int64{1}}},
		{"lights", validateLights, &machine.Machine{Lights: []int{2}, Buttons: [][]int{{0}}}},
		{"slot counts", validateSlotCounts, &machine.Machine{Lights: []int{1}, Buttons: [][]int{{0}}, Joltages: []int64{1, 2}}},
		{"no joltages", validateSlotCounts, &machine.Machine{Lights: []int{1}, Buttons: [][]int{{0}}}},
		{"unreachable light", validateReachable, &machine.Machine{Lights: []int{0, 1}, Buttons: [][]int{{0}}, Joltages: []int64{0, 0}}},
		{"unreachable joltage", validateReachable, &machine.Machine{Lights: []int{0, 0}, Buttons: [][]int{{0}}, Joltages: []int64{0, 4}}},
		{"repeated slots", validateRepeatedSlots, &machine.Machine{Lights: []int{1}, Buttons: [][]int{{0, 0}}}},
		{"duplicate buttons", validateDuplicateButtons, &machine.Machine{Lights: []int{1, 1}, Buttons: [][]int{{0, 1}, {1, 0}}}},
	} {
		t.Run(tcase.name, func(t *testing.T) {
			assert.NoError(t, tcase.validate(good))
			assert.Error(t, tcase.validate(tcase.bad))
		})
	}
}

func TestMachine(t *testing.T) {
	linter := support.Linter{}
	Machine(&linter, 0, &machine.Machine{Lights: []int{1}, Line: 7})
	assert.Len(t, linter.Messages, 1, "no further rules once buttons fail")
	assert.Equal(t, support.ErrorSev, linter.HighestSeverity)
	assert.Equal(t, "machine 0 (line 7)", linter.Messages[0].Path)

	linter = support.Linter{}
	Machine(&linter, 1, &machine.Machine{Lights: []int{1, 0}, Buttons: [][]int{{0}, {0}}, Joltages: []int64{1, 0}})
	assert.Equal(t, support.InfoSev, linter.HighestSeverity)
	assert.Len(t, linter.Messages, 1)
}
