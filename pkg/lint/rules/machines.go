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

/*
Package rules contains all the rules that jolt runs against machine input when jolt lint is
run. Errors mark machines that cannot be solved in some mode, warnings mark input that is
probably a mistake, and info messages mark harmless oddities.
*/
package rules

import (
	"fmt"
	"slices"
	"sort"

	"github.com/pkg/errors"

	"github.com/rancher-sandbox/jolt/internal/machine"
	"github.com/rancher-sandbox/jolt/pkg/lint/support"
)

// Machine runs the machine rules against m, the i-th machine of the input.
func Machine(linter *support.Linter, i int, m *machine.Machine) {
	path := fmt.Sprintf("machine %d", i)
	if m.Line > 0 {
		path = fmt.Sprintf("machine %d (line %d)", i, m.Line)
	}
	if !linter.RunLinterRule(support.ErrorSev, path, validateButtons(m)) {
		return
	}
	linter.RunLinterRule(support.ErrorSev, path, validateLightIndices(m))
	linter.RunLinterRule(support.ErrorSev, path, validateJoltageIndices(m))
	linter.RunLinterRule(support.ErrorSev, path, validateLights(m))
	linter.RunLinterRule(support.WarningSev, path, validateSlotCounts(m))
	linter.RunLinterRule(support.WarningSev, path, validateReachable(m))
	linter.RunLinterRule(support.InfoSev, path, validateRepeatedSlots(m))
	linter.RunLinterRule(support.InfoSev, path, validateDuplicateButtons(m))
}

// validateButtons checks that the machine has buttons and none of them is empty
func validateButtons(m *machine.Machine) error {
	if len(m.Buttons) == 0 {
		return errors.New("machine has no buttons")
	}
	for b, button := range m.Buttons {
		if len(button) == 0 {
			return errors.Errorf("button %d touches no slot", b)
		}
	}
	return nil
}

// validateLightIndices checks that every button slot exists among the lights
func validateLightIndices(m *machine.Machine) error {
	return validateIndices(m, len(m.Lights), "lights")
}

// validateJoltageIndices checks that every button slot exists among the joltages
func validateJoltageIndices(m *machine.Machine) error {
	if len(m.Joltages) == 0 {
		return nil
	}
	return validateIndices(m, len(m.Joltages), "joltages")
}

func validateIndices(m *machine.Machine, slots int, what string) error {
	for b, button := range m.Buttons {
		for _, s := range button {
			if s < 0 || s >= slots {
				return errors.Errorf("button %d touches slot %d, but there are %d %s", b, s, slots, what)
			}
		}
	}
	return nil
}

// validateLights checks that lights are 0 or 1
func validateLights(m *machine.Machine) error {
	for s, l := range m.Lights {
		if l != 0 && l != 1 {
			return errors.Errorf("light %d is %d, expected 0 or 1", s, l)
		}
	}
	return nil
}

// validateSlotCounts checks that there is one joltage per light
func validateSlotCounts(m *machine.Machine) error {
	if len(m.Joltages) == 0 {
		return errors.New("machine has no joltages, it can only be solved in parity mode")
	}
	if len(m.Lights) != len(m.Joltages) {
		return errors.Errorf("machine has %d lights but %d joltages", len(m.Lights), len(m.Joltages))
	}
	return nil
}

// validateReachable checks that every slot with a non-zero target is touched by some button
func validateReachable(m *machine.Machine) error {
	touched := map[int]bool{}
	for _, button := range m.Buttons {
		for _, s := range button {
			touched[s] = true
		}
	}
	for s, l := range m.Lights {
		if l != 0 && !touched[s] {
			return errors.Errorf("light %d is on but no button touches it, parity mode is infeasible", s)
		}
	}
	for s, j := range m.Joltages {
		if j != 0 && !touched[s] {
			return errors.Errorf("joltage %d is %d but no button touches it, exact mode is infeasible", s, j)
		}
	}
	return nil
}

// validateRepeatedSlots checks that buttons list each slot once
func validateRepeatedSlots(m *machine.Machine) error {
	for b, button := range m.Buttons {
		seen := map[int]bool{}
		for _, s := range button {
			if seen[s] {
				return errors.Errorf("button %d lists slot %d more than once, it still counts once", b, s)
			}
			seen[s] = true
		}
	}
	return nil
}

// validateDuplicateButtons checks that no two buttons touch the same slots
func validateDuplicateButtons(m *machine.Machine) error {
	seen := map[string]int{}
	for b, button := range m.Buttons {
		slots := append([]int(nil), button...)
		sort.Ints(slots)
		slots = slices.Compact(slots)
		key := fmt.Sprint(slots)
		if prev, ok := seen[key]; ok {
			return errors.Errorf("buttons %d and %d touch the same slots", prev, b)
		}
		seen[key] = b
	}
	return nil
}
