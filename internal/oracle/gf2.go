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
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/rancher-sandbox/jolt/internal/constraint"
)

// GF2 solves 0/1 systems with the gini SAT solver.
//
// Supported equations have unit coefficients over variables bounded by 1, plus at most one
// carry term with coefficient -2. A carry equation sum(x) - 2c == t is a parity constraint
// (an XOR circuit) together with a cardinality window on sum(x) that keeps c within its
// bounds. Equations without a carry are cardinality constraints. The objective is counted by
// a sorting network and minimized by raising the admitted cost one step at a time.
type GF2 struct{}

type gf2Carry struct {
	v   int
	ms  []z.Lit
	rhs int64
}

// Solve implements Oracle.
func (b *GF2) Solve(ctx context.Context, sys *constraint.System) (*Solution, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	vars := sys.Variables()
	eqs := sys.Equations()

	carries := map[int]*gf2Carry{}
	for _, eq := range eqs {
		for _, t := range eq.Terms {
			if t.Coeff == -2 {
				if _, dup := carries[t.Var]; dup {
					return nil, errors.Wrapf(ErrUnsupported, "gf2: %s appears in two parity equations", vars[t.Var].Name)
				}
				carries[t.Var] = &gf2Carry{v: t.Var}
			}
		}
	}

	c := logic.NewCCap(4 * len(vars))
	lits := make([]z.Lit, len(vars))
	var cost []z.Lit
	for j, v := range vars {
		if _, ok := carries[j]; ok {
			if v.Cost != 0 {
				return nil, errors.Wrapf(ErrUnsupported, "gf2: carry %s has a cost", v.Name)
			}
			continue
		}
		switch {
		case v.Upper > 1:
			return nil, errors.Wrapf(ErrUnsupported, "gf2: %s is not a 0/1 variable", v.Name)
		case v.Cost > 1:
			return nil, errors.Wrapf(ErrUnsupported, "gf2: %s has cost %d", v.Name, v.Cost)
		case v.Upper == 0:
			lits[j] = c.F
		default:
			lits[j] = c.Lit()
		}
		if v.Cost == 1 {
			cost = append(cost, lits[j])
		}
	}

	var hard []z.Lit
	for _, eq := range eqs {
		var ms []z.Lit
		var carry *gf2Carry
		used := map[int]bool{}
		for _, t := range eq.Terms {
			if used[t.Var] {
				return nil, errors.Wrapf(ErrUnsupported, "gf2: %s repeats a variable", eq.Name)
			}
			used[t.Var] = true
			switch {
			case t.Coeff == -2:
				if carry != nil {
					return nil, errors.Wrapf(ErrUnsupported, "gf2: %s has two carries", eq.Name)
				}
				carry = carries[t.Var]
			case t.Coeff == 1 && carries[t.Var] == nil:
				ms = append(ms, lits[t.Var])
			default:
				return nil, errors.Wrapf(ErrUnsupported, "gf2: %s has coefficient %d", eq.Name, t.Coeff)
			}
		}
		card := c.CardSort(ms)
		if carry == nil {
			if eq.RHS < 0 || eq.RHS > int64(len(ms)) {
				return nil, errors.Wrapf(ErrInfeasible, "%s cannot reach %d", eq.Name, eq.RHS)
			}
			hard = append(hard, card.Geq(int(eq.RHS)), card.Leq(int(eq.RHS)))
			continue
		}

		parity := c.F
		for _, m := range ms {
			parity = c.Xor(parity, m)
		}
		if eq.RHS%2 == 0 {
			parity = parity.Not()
		}
		hi := eq.RHS + 2*vars[carry.v].Upper
		if hi > int64(len(ms)) {
			hi = int64(len(ms))
		}
		if eq.RHS > hi {
			return nil, errors.Wrapf(ErrInfeasible, "%s cannot reach %d", eq.Name, eq.RHS)
		}
		hard = append(hard, parity, card.Geq(int(eq.RHS)), card.Leq(int(hi)))
		carry.ms, carry.rhs = ms, eq.RHS
	}
	objective := c.CardSort(cost)

	g := gini.New()
	c.ToCnf(g)
	for _, m := range hard {
		g.Add(m)
		g.Add(0)
	}

	var calls int64
	solve := func(assumptions ...z.Lit) (bool, error) {
		if err := ctxErr(ctx); err != nil {
			return false, err
		}
		calls++
		g.Assume(assumptions...)
		var res int
		if deadline, ok := ctx.Deadline(); ok {
			res = g.Try(time.Until(deadline))
		} else {
			res = g.Solve()
		}
		if res == 0 {
			return false, errors.Wrap(ErrTimeout, "gf2: sat call interrupted")
		}
		return res == 1, nil
	}

	sat, err := solve()
	if err != nil {
		return nil, err
	}
	if !sat {
		return nil, errors.Wrap(ErrInfeasible, "gf2: constraints are unsatisfiable")
	}
	for w := 0; w < objective.N(); w++ {
		if sat, err = solve(objective.Leq(w)); err != nil {
			return nil, err
		}
		if sat {
			break
		}
	}
	if !sat {
		// only the unrestricted call succeeded, restore its model
		if _, err := solve(); err != nil {
			return nil, err
		}
	}

	values := make([]int64, len(vars))
	for j := range vars {
		if carries[j] == nil && lits[j] != c.F && g.Value(lits[j]) {
			values[j] = 1
		}
	}
	for _, cr := range carries {
		var s int64
		for _, m := range cr.ms {
			if m != c.F && g.Value(m) {
				s++
			}
		}
		values[cr.v] = (s - cr.rhs) / 2
	}
	return certify(sys, values, calls)
}
