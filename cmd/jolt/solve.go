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

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/log-go"
	logio "github.com/Masterminds/log-go/io"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rancher-sandbox/jolt/internal/machine"
	"github.com/rancher-sandbox/jolt/internal/oracle"
	"github.com/rancher-sandbox/jolt/internal/solver"
	"github.com/rancher-sandbox/jolt/pkg/eyecandy"
)

const solveDesc = `
This command solves every machine of FILE, or of the standard input when FILE
is '-' or missing, and prints the fewest presses of each together with the
combined answer.

Machines are read one per line:

    [.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}

or from a YAML/JSON document when the file is named *.yaml, *.yml or *.json.

With '--mode parity' the lights must be reached, with '--mode exact' the
joltages. By default the per-machine totals are summed; '--combine product'
multiplies them instead, restricted to the machines given with '--pick'.

The first machine that cannot be solved stops the run. Use '--keep-going' to
solve every machine and report all failures at once.
`

type solveOptions struct {
	mode        solver.Mode
	keepGoing   bool
	combine     string
	pick        []int
	output      outputFormat
	short       bool
	metricsFile string
}

func newSolveCmd(logger log.Logger) *cobra.Command {
	o := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve [FILE|-]",
		Short: "solve machines for the fewest button presses",
		Long:  solveDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			machines, source, err := readMachines(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			logger.Debugf("read %d machines from %s", len(machines), source)

			wInfo := logio.NewWriter(logger, log.InfoLevel)
			return o.run(cmd.Context(), logger, machines, wInfo)
		},
	}

	f := cmd.Flags()
	bindModeFlag(cmd, &o.mode)
	f.BoolVar(&o.keepGoing, "keep-going", false, "solve every machine even after a failure, and report all failures")
	f.StringVar(&o.combine, "combine", "sum", "how machine totals are combined: sum or product")
	f.IntSliceVar(&o.pick, "pick", nil, "machine indices multiplied by --combine product, all machines when empty")
	f.BoolVarP(&o.short, "short", "q", false, "print only the answer")
	f.StringVar(&o.metricsFile, "metrics-textfile", "", "write Prometheus metrics of the run to this file")
	bindOutputFlag(cmd, &o.output)
	settings.AddSolverFlags(f)
	registerBackendCompletion(cmd)

	return cmd
}

func (o *solveOptions) run(ctx context.Context, logger log.Logger, machines []*machine.Machine, out io.Writer) error {
	orc, err := oracle.New(settings.Backend, settings.OracleOptions())
	if err != nil {
		return err
	}
	combiner, err := solver.ParseCombiner(o.combine, o.pick)
	if err != nil {
		return err
	}

	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	var metrics *solver.Metrics
	if o.metricsFile != "" {
		metrics = solver.NewMetrics()
	}

	s := solver.New(orc, o.mode, logger,
		solver.WithWorkers(settings.Workers),
		solver.WithKeepGoing(o.keepGoing),
		solver.WithCombiner(combiner),
		solver.WithMetrics(metrics),
	)
	logger.Debugf("solving with backend %s, %d workers", settings.Backend, settings.Workers)
	answer, solveErr := s.Solve(ctx, machines)

	if metrics != nil {
		if err := metrics.WriteToTextfile(o.metricsFile); err != nil {
			logger.Warnf("could not write metrics: %s", err)
		}
	}

	if o.short {
		if solveErr != nil {
			return solveErr
		}
		_, _ = fmt.Fprintln(out, answer)
		return nil
	}

	text, err := s.FormatOutput(o.output.mode())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(out, text)

	if o.output != tableFormat {
		return solveErr
	}
	if solveErr != nil {
		for _, r := range s.ResultSet.Machines {
			if r.Error == "" {
				continue
			}
			logger.Error(fmt.Sprintf("%s %s", red(eyecandy.Status(settings.NoEmojis, r.Status)), r.Error))
		}
		return solveErr
	}
	logger.Info(eyecandy.ESPrint(settings.NoEmojis, "Done! :clapping_hands:"))
	return nil
}

// readMachines reads the machines named by the optional FILE argument, falling back to in.
// It returns the machines and a name for where they came from.
func readMachines(in io.Reader, args []string) ([]*machine.Machine, string, error) {
	if len(args) == 0 || args[0] == "-" {
		machines, err := machine.Read(in, "")
		if err != nil {
			return nil, "", errors.Wrap(err, "reading standard input")
		}
		return machines, "<stdin>", nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	machines, err := machine.Read(f, args[0])
	if err != nil {
		return nil, "", errors.Wrapf(err, "reading %s", args[0])
	}
	return machines, args[0], nil
}
