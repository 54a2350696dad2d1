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
	"fmt"
	"io"

	"github.com/Masterminds/log-go"
	logio "github.com/Masterminds/log-go/io"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rancher-sandbox/jolt/pkg/eyecandy"
	"github.com/rancher-sandbox/jolt/pkg/lint"
	"github.com/rancher-sandbox/jolt/pkg/lint/support"
)

var longLintHelp = `
This command takes a machine file, or the standard input, and runs a series of
tests to verify that the machines are well-formed.

If the linter encounters things that will cause a machine to fail solving, it
will emit [ERROR] messages. If it encounters problems that make a machine
likely unsolvable or surprising, it will emit [WARNING] messages. Harmless
oddities are reported as [INFO].
`

type lintOptions struct {
	strict bool
	quiet  bool
}

func newLintCmd(logger log.Logger) *cobra.Command {
	o := &lintOptions{}

	cmd := &cobra.Command{
		Use:   "lint [FILE|-]",
		Short: "examine machine input for possible issues",
		Long:  longLintHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			machines, source, err := readMachines(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			wInfo := logio.NewWriter(logger, log.InfoLevel)
			return o.run(lint.All(source, machines), wInfo)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&o.strict, "strict", false, "fail on lint warnings")
	f.BoolVar(&o.quiet, "quiet", false, "print only warnings and errors")

	return cmd
}

func (o *lintOptions) run(linter support.Linter, out io.Writer) error {
	failSeverity := support.ErrorSev
	if o.strict {
		failSeverity = support.WarningSev
	}

	_ = eyecandy.ESFprintf(out, settings.NoEmojis, ":mag: Linting %s\n", linter.Source)

	table := uitable.New()
	table.Wrap = true
	shown := 0
	for _, msg := range linter.Messages {
		if o.quiet && msg.Severity < support.WarningSev {
			continue
		}
		table.AddRow(severityColor(msg.Severity)("["+msg.SeverityName()+"]"), msg.Path, msg.Err)
		shown++
	}
	if shown > 0 {
		_, _ = fmt.Fprintln(out, table)
	}

	if linter.HighestSeverity >= failSeverity {
		return errors.Errorf("%s: %d lint message(s), highest severity %s", linter.Source,
			len(linter.Messages), support.Message{Severity: linter.HighestSeverity}.SeverityName())
	}
	_, _ = fmt.Fprintln(out, green(eyecandy.ESPrint(settings.NoEmojis, ":white_check_mark: no failures")))
	return nil
}

func severityColor(severity int) func(a ...interface{}) string {
	switch severity {
	case support.ErrorSev:
		return red
	case support.WarningSev:
		return yellow
	default:
		return blue
	}
}
