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
	"sort"

	"github.com/pkg/errors"

	"github.com/rancher-sandbox/jolt/internal/constraint"
)

// Search is an exact branch and bound backend without dependencies.
//
// The system is first reduced to independent integer rows, each determining one pivot
// variable from the free ones. The free variables are then enumerated depth first within
// their bounds. A branch is cut when some row can no longer produce a pivot value within the
// pivot's bounds, or when the best objective still reachable is not better than the incumbent.
type Search struct {
	Budget int64 // node budget, negative for unlimited
}

// Solve implements Oracle.
func (b *Search) Solve(ctx context.Context, sys *constraint.System) (*Solution, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	red, err := reduce(sys)
	if err != nil {
		return nil, err
	}
	p, err := newBnB(sys, red, b.Budget)
	if err != nil {
		return nil, err
	}
	if err := p.run(ctx); err != nil {
		return nil, err
	}
	if !p.found {
		return nil, errors.Wrap(ErrInfeasible, "no assignment within bounds")
	}
	return certify(sys, p.bestValues, p.nodes)
}

// bnb holds the search state. Free variables are referred to by their position k in the
// search order; a[r][k] is the coefficient of free position k in row r.
type bnb struct {
	vars []constraint.Variable
	rows []constraint.Row
	free []int
	ub   []int64
	a    [][]int64
	pu   []int64 // Coeffs[pivot] * Upper(pivot), per row

	// restLo[r][k], restHi[r][k] bound -sum(a[r][i]*x[i] for i >= k).
	restLo, restHi [][]int64

	// The objective times scale is base + sum(h[k]*x[k]); objLo[k] is the least value
	// sum(h[i]*x[i] for i >= k) can take.
	scale int64
	base  int64
	h     []int64
	objLo []int64

	resid  []int64
	assign []int64
	acc    int64

	found      bool
	best       int64
	bestValues []int64

	nodes  int64
	budget int64
}

func newBnB(sys *constraint.System, red *constraint.Reduced, budget int64) (*bnb, error) {
	p := &bnb{
		vars:   sys.Variables(),
		rows:   red.Rows,
		budget: budget,
	}
	// smallest domains first
	p.free = make([]int, len(red.Free))
	copy(p.free, red.Free)
	sort.SliceStable(p.free, func(i, j int) bool {
		return p.vars[p.free[i]].Upper < p.vars[p.free[j]].Upper
	})
	nf := len(p.free)
	p.ub = make([]int64, nf)
	for k, f := range p.free {
		p.ub[k] = p.vars[f].Upper
	}

	p.a = make([][]int64, len(p.rows))
	p.pu = make([]int64, len(p.rows))
	p.restLo = make([][]int64, len(p.rows))
	p.restHi = make([][]int64, len(p.rows))
	p.resid = make([]int64, len(p.rows))
	for r, row := range p.rows {
		var err error
		if p.pu[r], err = constraint.Mul(row.Coeffs[row.Pivot], p.vars[row.Pivot].Upper); err != nil {
			return nil, err
		}
		p.a[r] = make([]int64, nf)
		mag := abs(row.RHS)
		for k, f := range p.free {
			p.a[r][k] = row.Coeffs[f]
			if mag, err = constraint.MulAdd(mag, abs(row.Coeffs[f]), p.ub[k]); err != nil {
				return nil, err
			}
		}
		// every partial residual and range stays within twice the row magnitude
		if _, err = constraint.Add(mag, mag); err != nil {
			return nil, err
		}
		p.restLo[r] = make([]int64, nf+1)
		p.restHi[r] = make([]int64, nf+1)
		for k := nf - 1; k >= 0; k-- {
			c := -p.a[r][k] * p.ub[k]
			p.restLo[r][k] = p.restLo[r][k+1] + min(0, c)
			p.restHi[r][k] = p.restHi[r][k+1] + max(0, c)
		}
		p.resid[r] = row.RHS
	}

	if err := p.objective(); err != nil {
		return nil, err
	}
	p.assign = make([]int64, nf)
	p.acc = p.base
	return p, nil
}

// objective expresses the objective in the free variables, scaled to integers.
func (p *bnb) objective() error {
	var err error
	p.scale = 1
	for _, row := range p.rows {
		if p.vars[row.Pivot].Cost == 0 {
			continue
		}
		d := row.Coeffs[row.Pivot]
		if p.scale, err = constraint.Mul(p.scale/gcd(p.scale, d), d); err != nil {
			return err
		}
	}
	nf := len(p.free)
	p.h = make([]int64, nf)
	for k, f := range p.free {
		if p.h[k], err = constraint.Mul(p.scale, p.vars[f].Cost); err != nil {
			return err
		}
	}
	p.base = 0
	for r, row := range p.rows {
		cost := p.vars[row.Pivot].Cost
		if cost == 0 {
			continue
		}
		w, err := constraint.Mul(cost, p.scale/row.Coeffs[row.Pivot])
		if err != nil {
			return err
		}
		if p.base, err = constraint.MulAdd(p.base, w, row.RHS); err != nil {
			return err
		}
		for k := range p.free {
			if p.h[k], err = constraint.MulAdd(p.h[k], -w, p.a[r][k]); err != nil {
				return err
			}
		}
	}
	mag := abs(p.base)
	p.objLo = make([]int64, nf+1)
	for k := nf - 1; k >= 0; k-- {
		if mag, err = constraint.MulAdd(mag, abs(p.h[k]), p.ub[k]); err != nil {
			return err
		}
		p.objLo[k] = p.objLo[k+1] + min(0, p.h[k]*p.ub[k])
	}
	return nil
}

func (p *bnb) run(ctx context.Context) error {
	if !p.feasible(0) {
		return nil
	}
	return p.dfs(ctx, 0)
}

func (p *bnb) feasible(k int) bool {
	for r := range p.rows {
		if p.resid[r]+p.restHi[r][k] < 0 || p.resid[r]+p.restLo[r][k] > p.pu[r] {
			return false
		}
	}
	return true
}

func (p *bnb) dfs(ctx context.Context, k int) error {
	if k == len(p.free) {
		p.nodes++
		p.leaf()
		return nil
	}
	u, h := p.ub[k], p.h[k]
	v, end, step := int64(0), u, int64(1)
	if h < 0 {
		v, end, step = u, 0, -1
	}
	for ; ; v += step {
		p.nodes++
		if p.budget >= 0 && p.nodes > p.budget {
			return errors.Wrapf(ErrTimeout, "%d nodes", p.budget)
		}
		if p.nodes&1023 == 0 {
			if err := ctxErr(ctx); err != nil {
				return err
			}
		}
		acc := p.acc + h*v
		if p.found && acc+p.objLo[k+1] >= p.best {
			// the bound only grows along the iteration order
			break
		}
		for r := range p.rows {
			p.resid[r] -= p.a[r][k] * v
		}
		if p.feasible(k + 1) {
			saved := p.acc
			p.acc, p.assign[k] = acc, v
			err := p.dfs(ctx, k+1)
			p.acc = saved
			if err != nil {
				return err
			}
		}
		for r := range p.rows {
			p.resid[r] += p.a[r][k] * v
		}
		if v == end {
			break
		}
	}
	return nil
}

func (p *bnb) leaf() {
	if p.found && p.acc >= p.best {
		return
	}
	values := make([]int64, len(p.vars))
	for k, f := range p.free {
		values[f] = p.assign[k]
	}
	for r, row := range p.rows {
		d := row.Coeffs[row.Pivot]
		num := p.resid[r]
		if num < 0 || num%d != 0 || num/d > p.vars[row.Pivot].Upper {
			return
		}
		values[row.Pivot] = num / d
	}
	p.found, p.best, p.bestValues = true, p.acc, values
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func gcd(a, b int64) int64 {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
