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

package oracle

import (
	"context"
	"fmt"
	"math/bits"
	"sort"

	"github.com/crillab/gophersat/maxsat"
	"github.com/pkg/errors"

	"github.com/rancher-sandbox/jolt/internal/constraint"
)

// PB solves systems with the gophersat MAXSAT solver.
//
// Every variable x with bound U is written in binary with bits.Len(U) boolean digits. An
// equation sum(c*x) == rhs becomes two hard pseudo-boolean constraints (at least rhs, at most
// rhs) over the digits, weighted c*2^k. Negative weights are moved to the negated digit so
// that every weight handed to the solver is positive. Each digit of a costed variable gets a
// soft clause "not digit" weighted cost*2^k, so the MAXSAT cost equals the objective.
type PB struct{}

// Solve implements Oracle.
func (b *PB) Solve(ctx context.Context, sys *constraint.System) (*Solution, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	vars := sys.Variables()
	digits := make([][]string, len(vars))
	var constrs []maxsat.Constr
	nlits := 0
	for j, v := range vars {
		n := bits.Len64(uint64(v.Upper))
		for k := 0; k < n; k++ {
			digits[j] = append(digits[j], fmt.Sprintf("x%d.%d", j, k))
		}
		nlits += n
		if n > 0 && v.Upper < int64(1)<<n-1 {
			lits, ws := make([]maxsat.Lit, n), make([]int, n)
			for k, name := range digits[j] {
				lits[k], ws[k] = maxsat.Var(name), 1<<k
			}
			constrs = append(constrs, atMost(lits, ws, int(v.Upper))...)
		}
		if v.Cost == 0 {
			continue
		}
		for k, name := range digits[j] {
			w, err := constraint.Mul(v.Cost, int64(1)<<k)
			if err != nil {
				return nil, err
			}
			constrs = append(constrs, maxsat.WeightedClause([]maxsat.Lit{maxsat.Not(name)}, int(w)))
		}
	}

	for _, eq := range sys.Equations() {
		lits, ws, rhs, total, err := encodeEquation(eq, digits)
		if err != nil {
			return nil, err
		}
		if rhs < 0 || rhs > total {
			return nil, errors.Wrapf(ErrInfeasible, "%s cannot reach %d", eq.Name, eq.RHS)
		}
		constrs = append(constrs, atLeast(lits, ws, int(rhs))...)
		constrs = append(constrs, atMost(lits, ws, int(rhs))...)
	}

	values := make([]int64, len(vars))
	if nlits == 0 || len(constrs) == 0 {
		return certify(sys, values, 0)
	}
	model, cost := maxsat.New(constrs...).Solve()
	if cost < 0 {
		return nil, errors.Wrap(ErrInfeasible, "pseudo-boolean encoding is unsatisfiable")
	}
	for j := range vars {
		for k, name := range digits[j] {
			if model[name] {
				values[j] |= int64(1) << k
			}
		}
	}
	return certify(sys, values, 1)
}

// encodeEquation returns the digit literals and positive weights of eq, together with the
// right-hand side shifted by the negated digits and the sum of all weights.
func encodeEquation(eq constraint.Equation, digits [][]string) ([]maxsat.Lit, []int, int64, int64, error) {
	coeffs := map[int]int64{}
	for _, t := range eq.Terms {
		c, err := constraint.Add(coeffs[t.Var], t.Coeff)
		if err != nil {
			return nil, nil, 0, 0, err
		}
		coeffs[t.Var] = c
	}
	order := make([]int, 0, len(coeffs))
	for j := range coeffs {
		order = append(order, j)
	}
	sort.Ints(order)

	var lits []maxsat.Lit
	var ws []int
	rhs, total := eq.RHS, int64(0)
	for _, j := range order {
		for k, name := range digits[j] {
			w, err := constraint.Mul(coeffs[j], int64(1)<<k)
			if err != nil {
				return nil, nil, 0, 0, err
			}
			switch {
			case w > 0:
				lits = append(lits, maxsat.Var(name))
			case w < 0:
				// w*x == w + |w|*(not x)
				w = -w
				lits = append(lits, maxsat.Not(name))
				if rhs, err = constraint.Add(rhs, w); err != nil {
					return nil, nil, 0, 0, err
				}
			default:
				continue
			}
			ws = append(ws, int(w))
			if total, err = constraint.Add(total, w); err != nil {
				return nil, nil, 0, 0, err
			}
		}
	}
	return lits, ws, rhs, total, nil
}

// atLeast is sum(ws*lits) >= n, omitted when trivially true.
func atLeast(lits []maxsat.Lit, ws []int, n int) []maxsat.Constr {
	if n <= 0 {
		return nil
	}
	return []maxsat.Constr{maxsat.HardPBConstr(lits, append([]int(nil), ws...), n)}
}

// atMost is sum(ws*lits) <= n, written as sum(ws*not(lits)) >= sum(ws)-n.
func atMost(lits []maxsat.Lit, ws []int, n int) []maxsat.Constr {
	total := 0
	neg := make([]maxsat.Lit, len(lits))
	for i, l := range lits {
		neg[i] = l.Negation()
		total += ws[i]
	}
	return atLeast(neg, ws, total-n)
}
