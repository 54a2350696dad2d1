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
	"strings"

	"github.com/pkg/errors"

	"github.com/rancher-sandbox/jolt/internal/constraint"
)

// Combiner folds the per-machine totals, in input order, into the final answer.
type Combiner interface {
	Combine(totals []int64) (int64, error)
	String() string
}

// Sum adds all totals. It is the default Combiner.
type Sum struct{}

// Combine implements Combiner.
func (Sum) Combine(totals []int64) (int64, error) {
	var acc int64
	for i, t := range totals {
		var err error
		if acc, err = constraint.Add(acc, t); err != nil {
			return 0, errors.Wrapf(err, "adding machine %d", i)
		}
	}
	return acc, nil
}

func (Sum) String() string { return "sum" }

// Product multiplies the totals of the machines at Indices. An empty Indices multiplies all
// of them.
type Product struct {
	Indices []int
}

// Combine implements Combiner.
func (p Product) Combine(totals []int64) (int64, error) {
	pick := p.Indices
	if len(pick) == 0 {
		pick = make([]int, len(totals))
		for i := range pick {
			pick[i] = i
		}
	}
	acc := int64(1)
	for _, i := range pick {
		if i < 0 || i >= len(totals) {
			return 0, errors.Errorf("product index %d out of range, have %d machines", i, len(totals))
		}
		var err error
		if acc, err = constraint.Mul(acc, totals[i]); err != nil {
			return 0, errors.Wrapf(err, "multiplying machine %d", i)
		}
	}
	return acc, nil
}

func (p Product) String() string {
	if len(p.Indices) == 0 {
		return "product"
	}
	s := make([]string, len(p.Indices))
	for i, idx := range p.Indices {
		s[i] = fmt.Sprint(idx)
	}
	return "product(" + strings.Join(s, ",") + ")"
}

// ParseCombiner returns the Combiner named by name ("sum" or "product") over the given
// indices. Indices are only meaningful for products.
func ParseCombiner(name string, indices []int) (Combiner, error) {
	switch strings.ToLower(name) {
	case "", "sum":
		if len(indices) > 0 {
			return nil, errors.New("machine indices only apply to the product combiner")
		}
		return Sum{}, nil
	case "product":
		return Product{Indices: indices}, nil
	}
	return nil, errors.Errorf("unknown combiner %q, use sum or product", name)
}
