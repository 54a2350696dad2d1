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
Package oracle solves integer constraint systems to optimality.

An Oracle receives a constraint.System and returns either a Solution, an assignment that
satisfies every equation exactly and minimizes the objective among all non-negative integer
assignments within the variable bounds, or an error:

  - ErrInfeasible: no such assignment exists.
  - ErrTimeout: the search budget or the context deadline ran out before optimality or
    infeasibility was proven. This is not a proof of anything.
  - ErrUnsupported: the backend cannot represent the system.

Several backends are available:

  - search: exact elimination followed by a bounded depth-first branch and bound over the
    free variables. No dependencies, the default.
  - pb: pseudo-boolean encoding solved by the gophersat MAXSAT solver.
  - lp: branch and bound over the LP relaxation, solved with gonum's simplex.
  - gf2: SAT encoding for 0/1 systems (parity and cardinality equations) solved by gini.

Whatever the backend, the assignment is checked against the system with integer arithmetic
before it is returned.
*/
package oracle

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/rancher-sandbox/jolt/internal/constraint"
)

var (
	// ErrInfeasible means no non-negative integer assignment satisfies the system.
	ErrInfeasible = errors.New("infeasible")
	// ErrTimeout means the search stopped before reaching a proof.
	ErrTimeout = errors.New("search budget exhausted")
	// ErrUnsupported means the backend cannot handle the system.
	ErrUnsupported = errors.New("system not supported by backend")
)

// DefaultNodeBudget bounds the number of search nodes when Options.NodeBudget is zero.
const DefaultNodeBudget = 100_000_000

// Oracle finds optimal integer assignments.
type Oracle interface {
	Solve(ctx context.Context, sys *constraint.System) (*Solution, error)
}

// Solution is an optimal assignment, parallel to the system variables.
type Solution struct {
	Values    []int64
	Objective int64
	Nodes     int64 // search nodes or solver calls spent, for diagnostics
}

// Presses returns the values of the press variables in index order.
func (s *Solution) Presses(sys *constraint.System) []int64 {
	idx := sys.Indices(constraint.Press)
	out := make([]int64, len(idx))
	for i, j := range idx {
		out[i] = s.Values[j]
	}
	return out
}

// Options tune a backend.
type Options struct {
	// NodeBudget caps branch and bound nodes for the search and lp backends. Zero means
	// DefaultNodeBudget, negative means unlimited.
	NodeBudget int64
}

func (o Options) budget() int64 {
	switch {
	case o.NodeBudget == 0:
		return DefaultNodeBudget
	case o.NodeBudget < 0:
		return -1
	default:
		return o.NodeBudget
	}
}

type factory func(Options) Oracle

var backends = map[string]factory{
	"search": func(o Options) Oracle { return &Search{Budget: o.budget()} },
	"pb":     func(o Options) Oracle { return &PB{} },
	"lp":     func(o Options) Oracle { return &LP{Budget: o.budget()} },
	"gf2":    func(o Options) Oracle { return &GF2{} },
}

// Default is the name of the default backend.
const Default = "search"

// Backends returns the names of the available backends, sorted.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the backend registered under name.
func New(name string, opts Options) (Oracle, error) {
	if name == "" {
		name = Default
	}
	f, ok := backends[name]
	if !ok {
		return nil, errors.Errorf("unknown oracle backend %q, available: %v", name, Backends())
	}
	return f(opts), nil
}

// certify checks values against sys and packages them as a Solution.
func certify(sys *constraint.System, values []int64, nodes int64) (*Solution, error) {
	if err := sys.Verify(values); err != nil {
		return nil, errors.Wrap(err, "backend produced an invalid assignment")
	}
	obj, err := sys.Objective(values)
	if err != nil {
		return nil, err
	}
	return &Solution{Values: values, Objective: obj, Nodes: nodes}, nil
}

// reduce wraps constraint.System.Reduce, turning inconsistency into infeasibility.
func reduce(sys *constraint.System) (*constraint.Reduced, error) {
	red, err := sys.Reduce()
	if errors.Is(err, constraint.ErrInconsistent) {
		return nil, errors.Wrap(ErrInfeasible, err.Error())
	}
	return red, err
}

// ctxErr maps a done context to ErrTimeout on deadline and to the context error otherwise.
func ctxErr(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(ErrTimeout, err.Error())
	}
	return err
}
