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
	"github.com/spf13/cobra"

	"github.com/rancher-sandbox/jolt/internal/machine"
	"github.com/rancher-sandbox/jolt/internal/solver"
)

const modelDesc = `
This command prints the constraint system built for every machine of FILE, or
of the standard input when FILE is '-' or missing: one press variable per
button, the carry variables of parity mode, one equation per slot and the
objective.

With '--document' the machines are printed as a YAML document instead, which
'jolt solve' reads back when saved as *.yaml.
`

type modelOptions struct {
	mode     solver.Mode
	document bool
}

func newModelCmd(logger log.Logger) *cobra.Command {
	o := &modelOptions{}

	cmd := &cobra.Command{
		Use:   "model [FILE|-]",
		Short: "print the constraint system of every machine",
		Long:  modelDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			machines, _, err := readMachines(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			wInfo := logio.NewWriter(logger, log.InfoLevel)
			return o.run(machines, wInfo)
		},
	}

	bindModeFlag(cmd, &o.mode)
	cmd.Flags().BoolVar(&o.document, "document", false, "print the machines as a YAML document")

	return cmd
}

func (o *modelOptions) run(machines []*machine.Machine, out io.Writer) error {
	if o.document {
		data, err := machine.MarshalDocument(machines)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	for i, m := range machines {
		sys, err := solver.BuildSystem(m, o.mode)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "# machine %d: %s\n%s\n", i, m, sys)
	}
	return nil
}
