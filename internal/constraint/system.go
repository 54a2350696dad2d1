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
Package constraint holds linear integer constraint systems: non-negative bounded integer
variables, linear equalities with integer coefficients, and a linear objective to minimize.

A System does not know how it gets solved. Oracles query it (variables, equations), evaluate
candidate assignments against it, and use Reduce to obtain an equivalent set of independent
integer rows.
*/
package constraint

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMalformed is returned for variables or equations that cannot be part of a system.
	ErrMalformed = errors.New("malformed constraint system")
	// ErrUnsatisfied is returned by Verify when an assignment breaks the system.
	ErrUnsatisfied = errors.New("assignment does not satisfy the system")
)

// Kind tells what a variable stands for.
type Kind int

const (
	// Press counts how many times a button is pressed.
	Press Kind = iota
	// Carry is an auxiliary variable linearizing a modulo-2 equation.
	Carry
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Carry:
		return "carry"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Variable is a non-negative integer unknown bounded by Upper (inclusive).
type Variable struct {
	Name  string
	Kind  Kind
	Upper int64
	Cost  int64 // objective coefficient
}

// Term is Coeff * variable Var.
type Term struct {
	Var   int
	Coeff int64
}

// Equation is sum(Terms) == RHS.
type Equation struct {
	Name  string
	Terms []Term
	RHS   int64
}

// System is a set of variables, equations over them and a minimization objective given by
// the variable costs.
type System struct {
	vars []Variable
	eqs  []Equation
}

// New returns an empty system.
func New() *System {
	return &System{}
}

// AddVariable adds v and returns its index.
func (s *System) AddVariable(v Variable) (int, error) {
	if v.Upper < 0 {
		return -1, errors.Wrapf(ErrMalformed, "variable %q has negative upper bound %d", v.Name, v.Upper)
	}
	if v.Cost < 0 {
		return -1, errors.Wrapf(ErrMalformed, "variable %q has negative cost %d", v.Name, v.Cost)
	}
	s.vars = append(s.vars, v)
	return len(s.vars) - 1, nil
}

// AddEquation adds eq, rejecting terms that reference unknown variables.
func (s *System) AddEquation(eq Equation) error {
	for _, t := range eq.Terms {
		if t.Var < 0 || t.Var >= len(s.vars) {
			return errors.Wrapf(ErrMalformed, "equation %q references variable %d, system has %d",
				eq.Name, t.Var, len(s.vars))
		}
	}
	terms := make([]Term, len(eq.Terms))
	copy(terms, eq.Terms)
	eq.Terms = terms
	s.eqs = append(s.eqs, eq)
	return nil
}

// NumVariables returns the number of variables.
func (s *System) NumVariables() int {
	return len(s.vars)
}

// Variables returns a copy of the variables, in index order.
func (s *System) Variables() []Variable {
	vs := make([]Variable, len(s.vars))
	copy(vs, s.vars)
	return vs
}

// Variable returns the variable at index i.
func (s *System) Variable(i int) Variable {
	return s.vars[i]
}

// Equations returns a copy of the equations.
func (s *System) Equations() []Equation {
	eqs := make([]Equation, len(s.eqs))
	for i, eq := range s.eqs {
		terms := make([]Term, len(eq.Terms))
		copy(terms, eq.Terms)
		eqs[i] = Equation{Name: eq.Name, Terms: terms, RHS: eq.RHS}
	}
	return eqs
}

// Indices returns the indices of the variables of kind k.
func (s *System) Indices(k Kind) []int {
	var idx []int
	for i, v := range s.vars {
		if v.Kind == k {
			idx = append(idx, i)
		}
	}
	return idx
}

func (s *System) checkLen(values []int64) error {
	if len(values) != len(s.vars) {
		return errors.Wrapf(ErrMalformed, "assignment has %d values, system has %d variables",
			len(values), len(s.vars))
	}
	return nil
}

// Evaluate returns the left-hand side of equation i under values.
func (s *System) Evaluate(i int, values []int64) (int64, error) {
	if err := s.checkLen(values); err != nil {
		return 0, err
	}
	if i < 0 || i >= len(s.eqs) {
		return 0, errors.Wrapf(ErrMalformed, "no equation %d", i)
	}
	var lhs int64
	var err error
	for _, t := range s.eqs[i].Terms {
		if lhs, err = MulAdd(lhs, t.Coeff, values[t.Var]); err != nil {
			return 0, errors.Wrapf(err, "evaluating %s", s.eqs[i].Name)
		}
	}
	return lhs, nil
}

// Objective returns the objective value of values.
func (s *System) Objective(values []int64) (int64, error) {
	if err := s.checkLen(values); err != nil {
		return 0, err
	}
	var obj int64
	var err error
	for i, v := range s.vars {
		if obj, err = MulAdd(obj, v.Cost, values[i]); err != nil {
			return 0, errors.Wrap(err, "evaluating objective")
		}
	}
	return obj, nil
}

// Verify checks that values is a non-negative integer assignment satisfying every equation
// exactly.
func (s *System) Verify(values []int64) error {
	if err := s.checkLen(values); err != nil {
		return err
	}
	for i, x := range values {
		if x < 0 {
			return errors.Wrapf(ErrUnsatisfied, "%s = %d is negative", s.vars[i].Name, x)
		}
	}
	for i, eq := range s.eqs {
		lhs, err := s.Evaluate(i, values)
		if err != nil {
			return err
		}
		if lhs != eq.RHS {
			return errors.Wrapf(ErrUnsatisfied, "%s: %d != %d", eq.Name, lhs, eq.RHS)
		}
	}
	return nil
}

// InBounds reports whether every value lies within its variable's bounds.
func (s *System) InBounds(values []int64) bool {
	if len(values) != len(s.vars) {
		return false
	}
	for i, x := range values {
		if x < 0 || x > s.vars[i].Upper {
			return false
		}
	}
	return true
}

// String renders the system in an LP-like text form.
func (s *System) String() string {
	var sb strings.Builder
	sb.WriteString("minimize:")
	first := true
	for _, v := range s.vars {
		if v.Cost == 0 {
			continue
		}
		writeTerm(&sb, v.Cost, v.Name, first)
		first = false
	}
	if first {
		sb.WriteString(" 0")
	}
	sb.WriteString("\nsubject to:\n")
	for _, eq := range s.eqs {
		sb.WriteString("  ")
		sb.WriteString(eq.Name)
		sb.WriteString(":")
		if len(eq.Terms) == 0 {
			sb.WriteString(" 0")
		}
		for i, t := range eq.Terms {
			writeTerm(&sb, t.Coeff, s.vars[t.Var].Name, i == 0)
		}
		sb.WriteString(fmt.Sprintf(" = %d\n", eq.RHS))
	}
	sb.WriteString("bounds:\n")
	for _, v := range s.vars {
		sb.WriteString(fmt.Sprintf("  0 <= %s <= %d (%s)\n", v.Name, v.Upper, v.Kind))
	}
	return sb.String()
}

func writeTerm(sb *strings.Builder, coeff int64, name string, first bool) {
	switch {
	case coeff < 0 && first:
		sb.WriteString(" -")
	case coeff < 0:
		sb.WriteString(" - ")
	case !first:
		sb.WriteString(" + ")
	default:
		sb.WriteString(" ")
	}
	if coeff < 0 {
		coeff = -coeff
	}
	if coeff != 1 {
		sb.WriteString(fmt.Sprintf("%d ", coeff))
	}
	sb.WriteString(name)
}
