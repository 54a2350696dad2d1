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
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/log-go"
	logcli "github.com/Masterminds/log-go/impl/cli"

	"github.com/rancher-sandbox/jolt/internal/machine"
	"github.com/rancher-sandbox/jolt/internal/oracle"
)

func ExampleSolver() {
	input := `[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}
[...#.] (0,2,3,4) (2,3) (0,4) (0,1,2) (1,2,3,4) {7,5,12,7,2}
[.###.#] (0,1,2,3,4) (0,3,4) (0,1,2,4,5) (1,2) {10,11,11,5,10,5}
`
	machines, err := machine.Parse(strings.NewReader(input))
	if err != nil {
		fmt.Println(err)
		return
	}

	// create our own Logger that satisfies impl/cli.Logger, but with a buffer for tests
	buf := new(bytes.Buffer)
	logger := logcli.NewStandard()
	logger.InfoOut = buf
	logger.WarnOut = buf
	logger.ErrorOut = buf
	logger.DebugOut = buf
	log.Current = logger

	o, _ := oracle.New(oracle.Default, oracle.Options{})
	for _, mode := range []Mode{Parity, ExactSum} {
		s := New(o, mode, logger, WithWorkers(2))
		answer, err := s.Solve(context.Background(), machines)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("%s: %d\n", mode, answer)
	}

	// Output:
	// parity: 7
	// exact: 33
}
