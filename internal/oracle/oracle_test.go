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

package oracle_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rancher-sandbox/jolt/internal/constraint"
	"github.com/rancher-sandbox/jolt/internal/machine"
	"github.com/rancher-sandbox/jolt/internal/oracle"
	"github.com/rancher-sandbox/jolt/internal/solver"
)

func backends(t *testing.T) map[string]oracle.Oracle {
	t.Helper()
	out := map[string]oracle.Oracle{}
	for _, name := range oracle.Backends() {
		o, err := oracle.New(name, oracle.Options{})
		require.NoError(t, err)
		out[name] = o
	}
	return out
}

func newSystem(t *testing.T, vars []constraint.Variable, eqs ...constraint.Equation) *constraint.System {
	t.Helper()
	sys := constraint.New()
	for _, v := range vars {
		_, err := sys.AddVariable(v)
		require.NoError(t, err)
	}
	for _, eq := range eqs {
		require.NoError(t, sys.AddEquation(eq))
	}
	return sys
}

func TestBackends(t *testing.T) {
	assert.Equal(t, []string{"gf2", "lp", "pb", "search"}, oracle.Backends())

	o, err := oracle.New("", oracle.Options{})
	require.NoError(t, err)
	assert.IsType(t, &oracle.Search{}, o)

	_, err = oracle.New("cbc", oracle.Options{})
	assert.Error(t, err)
}

func TestSolveHandBuilt(t *testing.T) {
	for _, tcase := range []struct {
		name   string
		sys    func(t *testing.T) *constraint.System
		values []int64
	}{
		{
			name: "cheapest variable wins",
			sys: func(t *testing.T) *constraint.System {
				return newSystem(t,
					[]constraint.Variable{
						{Name: "x", Kind: constraint.Press, Upper: 1, Cost: 1},
						{Name: "y", Kind: constraint.Press, Upper: 1, Cost: 1},
						{Name: "z", Kind: constraint.Press, Upper: 1, Cost: 1},
					},
					constraint.Equation{Name: "a", Terms: []constraint.Term{{Var: 0, Coeff: 1}, {Var: 1, Coeff: 1}}, RHS: 1},
					constraint.Equation{Name: "b", Terms: []constraint.Term{{Var: 0, Coeff: 1}, {Var: 2, Coeff: 1}}, RHS: 1},
				)
			},
			values: []int64{1, 0, 0},
		},
		{
			name: "parity with carry",
			sys: func(t *testing.T) *constraint.System {
				return newSystem(t,
					[]constraint.Variable{
						{Name: "x", Kind: constraint.Press, Upper: 1, Cost: 1},
						{Name: "y", Kind: constraint.Press, Upper: 1, Cost: 1},
						{Name: "c", Kind: constraint.Carry, Upper: 1},
					},
					constraint.Equation{Name: "a", Terms: []constraint.Term{{Var: 0, Coeff: 1}, {Var: 1, Coeff: 1}, {Var: 2, Coeff: -2}}, RHS: 0},
				)
			},
			values: []int64{0, 0, 0},
		},
		{
			name: "no variables",
			sys: func(t *testing.T) *constraint.System {
				return newSystem(t, nil)
			},
			values: []int64{},
		},
	} {
		for name, o := range backends(t) {
			t.Run(tcase.name+"/"+name, func(t *testing.T) {
				sys := tcase.sys(t)
				sol, err := o.Solve(context.Background(), sys)
				require.NoError(t, err)
				assert.Equal(t, tcase.values, sol.Values)
				require.NoError(t, sys.Verify(sol.Values))
			})
		}
	}
}

func TestSolveInfeasible(t *testing.T) {
	for _, line := range []string{
		"[#.] (1) {1,0}",
		"[##] (0,1) (0) {1,2}",
	} {
		m, err := machine.ParseLine(line)
		require.NoError(t, err)
		for _, mode := range []solver.Mode{solver.Parity, solver.ExactSum} {
			sys, err := solver.BuildSystem(m, mode)
			require.NoError(t, err)
			for name, o := range backends(t) {
				_, err := o.Solve(context.Background(), sys)
				if errors.Is(err, oracle.ErrUnsupported) {
					continue
				}
				if mode == solver.Parity && line == "[##] (0,1) (0) {1,2}" {
					// pressing (0,1) lights both
					assert.NoError(t, err, "%s %s %s", line, mode, name)
					continue
				}
				assert.True(t, errors.Is(err, oracle.ErrInfeasible), "%s %s %s: %v", line, mode, name, err)
			}
		}
	}
}

func TestSolveDeadline(t *testing.T) {
	m, err := machine.ParseLine("[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}")
	require.NoError(t, err)
	sys, err := solver.BuildSystem(m, solver.Parity)
	require.NoError(t, err)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	for name, o := range backends(t) {
		_, err := o.Solve(ctx, sys)
		assert.True(t, errors.Is(err, oracle.ErrTimeout), "%s: %v", name, err)
		assert.False(t, errors.Is(err, oracle.ErrInfeasible), name)
	}
}

func TestSearchBudget(t *testing.T) {
	m, err := machine.ParseLine("[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}")
	require.NoError(t, err)
	sys, err := solver.BuildSystem(m, solver.ExactSum)
	require.NoError(t, err)

	_, err = (&oracle.Search{Budget: 1}).Solve(context.Background(), sys)
	assert.True(t, errors.Is(err, oracle.ErrTimeout), "%v", err)

	sol, err := (&oracle.Search{Budget: -1}).Solve(context.Background(), sys)
	require.NoError(t, err)
	assert.Equal(t, int64(10), sol.Objective)
	assert.Len(t, sol.Presses(sys), 6)
}

// bruteForce returns the least number of presses satisfying m under mode, or -1.
func bruteForce(m *machine.Machine, mode solver.Mode) int64 {
	targets := mode.Targets(m)
	limit := int64(1)
	if mode == solver.ExactSum {
		for _, t := range targets {
			limit = max(limit, t)
		}
	}
	presses := make([]int64, len(m.Buttons))
	best := int64(-1)
	var walk func(b int, total int64)
	walk = func(b int, total int64) {
		if b == len(presses) {
			for s, t := range targets {
				var sum int64
				for i := range m.Buttons {
					if m.Touches(i, s) {
						sum += presses[i]
					}
				}
				if (mode == solver.ExactSum && sum != t) || (mode == solver.Parity && sum%2 != t) {
					return
				}
			}
			if best < 0 || total < best {
				best = total
			}
			return
		}
		for v := int64(0); v <= limit; v++ {
			presses[b] = v
			walk(b+1, total+v)
		}
		presses[b] = 0
	}
	walk(0, 0)
	return best
}

func randomMachine(r *rand.Rand) *machine.Machine {
	slots := 2 + r.Intn(3)
	m := &machine.Machine{
		Lights:   make([]int, slots),
		Joltages: make([]int64, slots),
	}
	for s := range m.Lights {
		m.Lights[s] = r.Intn(2)
		m.Joltages[s] = int64(r.Intn(5))
	}
	n := 2 + r.Intn(4)
	for i := 0; i < n; i++ {
		var button []int
		for s := 0; s < slots; s++ {
			if r.Intn(2) == 0 {
				button = append(button, s)
			}
		}
		if len(button) == 0 {
			button = []int{r.Intn(slots)}
		}
		m.Buttons = append(m.Buttons, button)
	}
	return m
}

func TestSolveMinimal(t *testing.T) {
	r := rand.New(rand.NewSource(10))
	all := backends(t)
	for i := 0; i < 60; i++ {
		m := randomMachine(r)
		for _, mode := range []solver.Mode{solver.Parity, solver.ExactSum} {
			want := bruteForce(m, mode)
			sys, err := solver.BuildSystem(m, mode)
			require.NoError(t, err)
			for name, o := range all {
				sol, err := o.Solve(context.Background(), sys)
				if errors.Is(err, oracle.ErrUnsupported) {
					continue
				}
				if want < 0 {
					assert.True(t, errors.Is(err, oracle.ErrInfeasible), "%s %s %s: %v", m, mode, name, err)
					continue
				}
				require.NoError(t, err, "%s %s %s", m, mode, name)
				assert.Equal(t, want, sol.Objective, "%s %s %s", m, mode, name)
				assert.NoError(t, sys.Verify(sol.Values))
			}
		}
	}
}
