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
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rancher-sandbox/jolt/internal/oracle"
	"github.com/rancher-sandbox/jolt/internal/solver"
)

const outputFlag = "output"

// outputFormat is the format results are printed in.
type outputFormat string

const (
	tableFormat outputFormat = "table"
	jsonFormat  outputFormat = "json"
	yamlFormat  outputFormat = "yaml"
)

func formats() []string {
	return []string{string(tableFormat), string(jsonFormat), string(yamlFormat)}
}

func (o outputFormat) mode() solver.OutputMode {
	switch o {
	case jsonFormat:
		return solver.JSON
	case yamlFormat:
		return solver.YAML
	default:
		return solver.Table
	}
}

// bindOutputFlag will add the output flag to the given command and bind the
// value to the given format pointer
func bindOutputFlag(cmd *cobra.Command, varRef *outputFormat) {
	cmd.Flags().VarP(newOutputValue(tableFormat, varRef), outputFlag, "o",
		fmt.Sprintf("prints the output in the specified format. Allowed values: %s", strings.Join(formats(), ", ")))

	err := cmd.RegisterFlagCompletionFunc(outputFlag, func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeFrom(formats(), toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	if err != nil {
		panic(err)
	}
}

type outputValue outputFormat

func newOutputValue(defaultValue outputFormat, p *outputFormat) *outputValue {
	*p = defaultValue
	return (*outputValue)(p)
}

func (o *outputValue) String() string {
	// It is much cleaner looking (and technically less allocations) to just
	// convert to a string rather than type asserting to the underlying
	// outputFormat
	return string(*o)
}

func (o *outputValue) Type() string {
	return "format"
}

func (o *outputValue) Set(s string) error {
	for _, f := range formats() {
		if s == f {
			*o = outputValue(s)
			return nil
		}
	}
	return errors.Errorf("invalid format type %q, use one of: %s", s, strings.Join(formats(), ", "))
}

// bindModeFlag adds --mode to cmd, parsed with solver.ParseMode.
func bindModeFlag(cmd *cobra.Command, varRef *solver.Mode) {
	*varRef = solver.Parity
	cmd.Flags().Var((*modeValue)(varRef), "mode", "satisfaction semantics: parity (part1) or exact (part2)")

	err := cmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeFrom([]string{"parity", "exact"}, toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	if err != nil {
		panic(err)
	}
}

type modeValue solver.Mode

func (m *modeValue) String() string {
	return solver.Mode(*m).String()
}

func (m *modeValue) Type() string {
	return "mode"
}

func (m *modeValue) Set(s string) error {
	mode, err := solver.ParseMode(s)
	if err != nil {
		return err
	}
	*m = modeValue(mode)
	return nil
}

// registerBackendCompletion completes --backend with the registered oracles.
func registerBackendCompletion(cmd *cobra.Command) {
	err := cmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeFrom(oracle.Backends(), toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	if err != nil {
		panic(err)
	}
}

func completeFrom(candidates []string, toComplete string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, toComplete) {
			out = append(out, c)
		}
	}
	return out
}
