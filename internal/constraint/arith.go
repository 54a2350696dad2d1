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
	"math"

	"github.com/pkg/errors"
)

// ErrOverflow is returned when a computation does not fit in 64 bits.
var ErrOverflow = errors.New("integer overflow")

// Add returns a+b, or ErrOverflow if the sum does not fit in an int64.
func Add(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, errors.Wrapf(ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

// Sub returns a-b, or ErrOverflow.
func Sub(a, b int64) (int64, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, errors.Wrapf(ErrOverflow, "%d - %d", a, b)
	}
	return a - b, nil
}

// Mul returns a*b, or ErrOverflow.
func Mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, errors.Wrapf(ErrOverflow, "%d * %d", a, b)
	}
	c := a * b
	if c/b != a {
		return 0, errors.Wrapf(ErrOverflow, "%d * %d", a, b)
	}
	return c, nil
}

// MulAdd returns acc + a*b, or ErrOverflow.
func MulAdd(acc, a, b int64) (int64, error) {
	p, err := Mul(a, b)
	if err != nil {
		return 0, err
	}
	return Add(acc, p)
}
