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
	"fmt"

	"github.com/pkg/errors"

	"github.com/rancher-sandbox/jolt/internal/constraint"
	"github.com/rancher-sandbox/jolt/internal/machine"
)

// BuildSystem translates m into a constraint system under mode.
//
// There is one press variable per button, in button order, with cost 1. Each target slot s
// gets the equation
//
//	sum(press[b] for b touching s) == target[s]                 (ExactSum)
//	sum(press[b] for b touching s) - 2*carry[s] == target[s]    (Parity)
//
// where carry[s] is a cost-free variable that absorbs pairs of presses. A button listing a
// slot more than once touches it once.
//
// Every variable is bounded above. Under ExactSum a button can be pressed at most as often as
// the smallest target it touches. Under Parity, a button touching only slots with targets of
// at most 1 is pressed at most once since pressing it twice changes nothing; otherwise it is
// bounded by the largest touched target plus one.
func BuildSystem(m *machine.Machine, mode Mode) (*constraint.System, error) {
	if m == nil {
		return nil, errors.Wrap(constraint.ErrMalformed, "no machine")
	}
	if len(m.Buttons) == 0 {
		return nil, errors.Wrap(constraint.ErrMalformed, "machine has no buttons")
	}
	targets := mode.Targets(m)
	touching := make([][]int, len(targets))
	for b, button := range m.Buttons {
		seen := make(map[int]bool, len(button))
		for _, s := range button {
			if s < 0 || s >= len(targets) {
				return nil, errors.Wrapf(constraint.ErrMalformed,
					"button %d touches slot %d but the machine has %d %s slots", b, s, len(targets), mode)
			}
			if seen[s] {
				continue
			}
			seen[s] = true
			touching[s] = append(touching[s], b)
		}
	}

	sys := constraint.New()
	upper := make([]int64, len(m.Buttons))
	for b, button := range m.Buttons {
		upper[b] = pressBound(button, targets, mode)
		if _, err := sys.AddVariable(constraint.Variable{
			Name:  fmt.Sprintf("b%d", b),
			Kind:  constraint.Press,
			Upper: upper[b],
			Cost:  1,
		}); err != nil {
			return nil, err
		}
	}

	for s, t := range targets {
		eq := constraint.Equation{Name: fmt.Sprintf("s%d", s), RHS: t}
		var reach int64
		for _, b := range touching[s] {
			eq.Terms = append(eq.Terms, constraint.Term{Var: b, Coeff: 1})
			var err error
			if reach, err = constraint.Add(reach, upper[b]); err != nil {
				return nil, errors.Wrapf(err, "slot %d", s)
			}
		}
		if mode == Parity {
			carry, err := sys.AddVariable(constraint.Variable{
				Name:  fmt.Sprintf("c%d", s),
				Kind:  constraint.Carry,
				Upper: max(0, (reach-t)/2),
			})
			if err != nil {
				return nil, err
			}
			eq.Terms = append(eq.Terms, constraint.Term{Var: carry, Coeff: -2})
		}
		if err := sys.AddEquation(eq); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

func pressBound(button []int, targets []int64, mode Mode) int64 {
	if len(button) == 0 {
		return 0
	}
	switch mode {
	case ExactSum:
		lo := targets[button[0]]
		for _, s := range button[1:] {
			lo = min(lo, targets[s])
		}
		return max(0, lo)
	default:
		hi := targets[button[0]]
		for _, s := range button[1:] {
			hi = max(hi, targets[s])
		}
		if hi <= 1 {
			return 1
		}
		return hi + 1
	}
}
