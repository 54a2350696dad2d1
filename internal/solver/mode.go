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

package solver

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/rancher-sandbox/jolt/internal/machine"
)

// Mode selects the satisfaction semantics of a machine.
type Mode int

const (
	// Parity treats the lights as toggles: a slot is satisfied when the number of presses
	// touching it has the parity of its light.
	Parity Mode = iota
	// ExactSum treats the joltages as counters: the presses touching a slot must add up to
	// its joltage exactly.
	ExactSum
)

func (m Mode) String() string {
	switch m {
	case Parity:
		return "parity"
	case ExactSum:
		return "exact"
	default:
		return "unknown"
	}
}

// ParseMode accepts the mode names and the part1/part2 aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "parity", "lights", "part1", "1":
		return Parity, nil
	case "exact", "exactsum", "joltage", "part2", "2":
		return ExactSum, nil
	}
	return Parity, errors.Errorf("unknown mode %q, use parity or exact", s)
}

// Targets returns the target vector the mode reads from m.
func (m Mode) Targets(mc *machine.Machine) []int64 {
	if m == ExactSum {
		return mc.Joltages
	}
	targets := make([]int64, len(mc.Lights))
	for i, l := range mc.Lights {
		targets[i] = int64(l)
	}
	return targets
}
