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

package constraint

import (
	"math/big"

	"github.com/pkg/errors"
)

// ErrInconsistent is returned by Reduce when the equations contradict each other regardless
// of bounds and integrality.
var ErrInconsistent = errors.New("equations are inconsistent")

// Row is the integer equation
//
//	Coeffs[Pivot]*x[Pivot] + sum(Coeffs[f]*x[f] for f free) == RHS
//
// with Coeffs[Pivot] > 0 and Coeffs zero on every other pivot variable.
type Row struct {
	Pivot  int
	Coeffs []int64
	RHS    int64
}

// Reduced is a system in reduced row echelon form: each row determines one pivot variable
// from the free ones.
type Reduced struct {
	Rows []Row
	Free []int
}

// Reduce performs exact Gauss-Jordan elimination over the rationals and scales every
// resulting row back to coprime integers. The rows are linearly independent and have the
// same non-negative integer solutions as the original equations.
func (s *System) Reduce() (*Reduced, error) {
	n := len(s.vars)
	m := make([][]*big.Rat, len(s.eqs))
	for i, eq := range s.eqs {
		row := make([]*big.Rat, n+1)
		for j := range row {
			row[j] = new(big.Rat)
		}
		for _, t := range eq.Terms {
			row[t.Var].Add(row[t.Var], new(big.Rat).SetInt64(t.Coeff))
		}
		row[n].SetInt64(eq.RHS)
		m[i] = row
	}

	isPivot := make([]bool, n)
	var pivots []int
	r := 0
	for c := 0; c < n && r < len(m); c++ {
		p := -1
		for i := r; i < len(m); i++ {
			if m[i][c].Sign() != 0 {
				p = i
				break
			}
		}
		if p < 0 {
			continue
		}
		m[r], m[p] = m[p], m[r]
		inv := new(big.Rat).Inv(m[r][c])
		for j := c; j <= n; j++ {
			m[r][j].Mul(m[r][j], inv)
		}
		for i := range m {
			if i == r || m[i][c].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(m[i][c])
			for j := c; j <= n; j++ {
				m[i][j].Sub(m[i][j], new(big.Rat).Mul(f, m[r][j]))
			}
		}
		isPivot[c] = true
		pivots = append(pivots, c)
		r++
	}
	for i := r; i < len(m); i++ {
		if m[i][n].Sign() != 0 {
			return nil, errors.Wrapf(ErrInconsistent, "0 = %s", m[i][n].RatString())
		}
	}

	red := &Reduced{Rows: make([]Row, 0, r)}
	for i, p := range pivots {
		coeffs, err := integerRow(m[i])
		if err != nil {
			return nil, errors.Wrapf(err, "scaling row for %s", s.vars[p].Name)
		}
		red.Rows = append(red.Rows, Row{Pivot: p, Coeffs: coeffs[:n], RHS: coeffs[n]})
	}
	for j := 0; j < n; j++ {
		if !isPivot[j] {
			red.Free = append(red.Free, j)
		}
	}
	return red, nil
}

// integerRow scales row by the lcm of its denominators and divides by the gcd of the
// resulting numerators.
func integerRow(row []*big.Rat) ([]int64, error) {
	l := big.NewInt(1)
	for _, x := range row {
		d := x.Denom()
		g := new(big.Int).GCD(nil, nil, l, d)
		l.Mul(l, new(big.Int).Quo(d, g))
	}
	nums := make([]*big.Int, len(row))
	g := new(big.Int)
	for j, x := range row {
		v := new(big.Int).Mul(x.Num(), new(big.Int).Quo(l, x.Denom()))
		nums[j] = v
		g.GCD(nil, nil, g, new(big.Int).Abs(v))
	}
	out := make([]int64, len(row))
	for j, v := range nums {
		if g.Sign() != 0 {
			v.Quo(v, g)
		}
		if !v.IsInt64() {
			return nil, errors.Wrapf(ErrOverflow, "coefficient %s", v.String())
		}
		out[j] = v.Int64()
	}
	return out, nil
}
