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
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/rancher-sandbox/jolt/internal/constraint"
)

const lpTol = 1e-9

// LP is a branch and bound backend over the linear relaxation of the reduced system.
//
// Each node restricts every variable to [lo, hi]. After shifting by lo, the relaxation is put
// in standard form with one slack column per variable for the upper bounds, and solved with
// gonum's simplex. A relaxation that is integral within tolerance is rounded and checked with
// integer arithmetic before it becomes the incumbent; floats are never trusted otherwise.
type LP struct {
	Budget int64 // node budget, negative for unlimited
}

type lpNode struct {
	lo, hi []int64
}

// Solve implements Oracle.
func (b *LP) Solve(ctx context.Context, sys *constraint.System) (*Solution, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	red, err := reduce(sys)
	if err != nil {
		return nil, err
	}
	vars := sys.Variables()
	n := len(vars)
	if n == 0 {
		return certify(sys, []int64{}, 0)
	}

	root := lpNode{lo: make([]int64, n), hi: make([]int64, n)}
	for j, v := range vars {
		root.hi[j] = v.Upper
	}

	var (
		found bool
		best  int64
		bestX []int64
		nodes int64
		stack = []lpNode{root}
	)
	for len(stack) > 0 {
		if err := ctxErr(ctx); err != nil {
			return nil, err
		}
		nodes++
		if b.Budget >= 0 && nodes > b.Budget {
			return nil, errors.Wrapf(ErrTimeout, "lp backend: %d nodes", b.Budget)
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if widest(nd) < 0 {
			if sys.Verify(nd.lo) != nil {
				continue
			}
			obj, err := sys.Objective(nd.lo)
			if err != nil {
				return nil, err
			}
			if !found || obj < best {
				found, best, bestX = true, obj, nd.lo
			}
			continue
		}

		x, bound, ok := relax(vars, red.Rows, nd)
		if !ok {
			continue
		}
		if found && bound >= best {
			continue
		}
		branch := -1
		if x != nil {
			branch = mostFractional(x, nd)
			if branch < 0 {
				values := make([]int64, n)
				for j := range x {
					values[j] = int64(math.Round(x[j]))
				}
				if sys.Verify(values) == nil && sys.InBounds(values) {
					obj, err := sys.Objective(values)
					if err != nil {
						return nil, err
					}
					if !found || obj < best {
						found, best, bestX = true, obj, values
					}
					continue
				}
				// rounding went wrong, split the widest domain instead
				branch = widest(nd)
			}
		} else {
			branch = widest(nd)
		}
		if branch < 0 {
			continue
		}

		split := (nd.lo[branch] + nd.hi[branch]) / 2
		if x != nil && x[branch] >= float64(nd.lo[branch]) && x[branch] < float64(nd.hi[branch]) {
			split = int64(math.Floor(x[branch]))
		}
		down, up := nd.clone(), nd.clone()
		down.hi[branch] = split
		up.lo[branch] = split + 1
		if x != nil && x[branch]-float64(split) > 0.5 {
			stack = append(stack, down, up)
		} else {
			stack = append(stack, up, down)
		}
	}
	if !found {
		return nil, errors.Wrap(ErrInfeasible, "no integral relaxation within bounds")
	}
	return certify(sys, bestX, nodes)
}

func (nd lpNode) clone() lpNode {
	c := lpNode{lo: make([]int64, len(nd.lo)), hi: make([]int64, len(nd.hi))}
	copy(c.lo, nd.lo)
	copy(c.hi, nd.hi)
	return c
}

// relax solves the relaxation of nd. It returns ok=false when the node can be discarded. A nil
// x with ok=true means the simplex failed numerically and the node must be split blindly; the
// returned bound is then the objective at lo.
func relax(vars []constraint.Variable, rows []constraint.Row, nd lpNode) (x []float64, bound int64, ok bool) {
	n := len(vars)
	var base float64
	for j, v := range vars {
		if nd.lo[j] > nd.hi[j] {
			return nil, 0, false
		}
		base += float64(v.Cost) * float64(nd.lo[j])
	}

	m := len(rows) + n
	a := mat.NewDense(m, 2*n, nil)
	rhs := make([]float64, m)
	for r, row := range rows {
		b := float64(row.RHS)
		for j, c := range row.Coeffs {
			if c == 0 {
				continue
			}
			a.Set(r, j, float64(c))
			b -= float64(c) * float64(nd.lo[j])
		}
		rhs[r] = b
	}
	for j := 0; j < n; j++ {
		a.Set(len(rows)+j, j, 1)
		a.Set(len(rows)+j, n+j, 1)
		rhs[len(rows)+j] = float64(nd.hi[j] - nd.lo[j])
	}
	for r := range rhs {
		if rhs[r] < 0 {
			rhs[r] = -rhs[r]
			for c := 0; c < 2*n; c++ {
				a.Set(r, c, -a.At(r, c))
			}
		}
	}
	cost := make([]float64, 2*n)
	for j, v := range vars {
		cost[j] = float64(v.Cost)
	}

	f, sol, err := lp.Simplex(cost, a, rhs, lpTol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return nil, 0, false
	case err != nil:
		return nil, int64(math.Round(base)), true
	}
	x = make([]float64, n)
	for j := range x {
		x[j] = sol[j] + float64(nd.lo[j])
	}
	return x, int64(math.Ceil(base + f - 1e-6)), true
}

// mostFractional returns the free variable whose value is farthest from an integer, or -1
// when x is integral within tolerance.
func mostFractional(x []float64, nd lpNode) int {
	pick, dist := -1, 1e-6
	for j, v := range x {
		if nd.lo[j] == nd.hi[j] {
			continue
		}
		d := math.Abs(v - math.Round(v))
		if d > dist {
			pick, dist = j, d
		}
	}
	return pick
}

// widest returns the variable with the largest domain, or -1 when every variable is fixed.
func widest(nd lpNode) int {
	pick := -1
	var size int64
	for j := range nd.lo {
		if d := nd.hi[j] - nd.lo[j]; d > size {
			pick, size = j, d
		}
	}
	return pick
}
