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
	"github.com/Masterminds/log-go"
	logcli "github.com/Masterminds/log-go/impl/cli"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var globalUsage = `Minimum button presses for indicator and joltage machines.

Each machine is a row of target slots and a set of buttons, each button adding one
to a fixed subset of the slots. jolt finds the fewest presses that reach the
targets exactly, in one of two modes:

- parity: the lights, [.##.], must end in the given on/off state.
- exact:  the joltage counters, {3,5,4,7}, must reach the given values.

Common actions for jolt:

- jolt solve:      solve every machine of a file and combine the results
- jolt model:      print the constraint system of every machine
- jolt lint:       check machine input for mistakes
- jolt version:    print the version

Environment variables:

| Name                 | Description                                                     |
|----------------------|-----------------------------------------------------------------|
| $JOLT_DEBUG          | indicate whether or not jolt is running in Debug mode           |
| $JOLT_NO_COLORS      | disable colored output                                          |
| $JOLT_NO_EMOJIS      | disable emojis in output                                        |
| $JOLT_BACKEND        | oracle backend used by solve (search, pb, lp, gf2)              |
| $JOLT_WORKERS        | number of machines solved concurrently                          |
| $JOLT_NODE_BUDGET    | search node budget per machine                                  |
| $JOLT_TIMEOUT        | give up solving after this long                                 |

The same keys (debug, no-colors, backend, node-budget, ...) may be set in a YAML
file passed with --config. Flags override environment variables, which override
the config file.
`

func newRootCmd(logger log.Logger, args []string) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:           "jolt",
		Short:         "Minimum button presses for indicator and joltage machines",
		Long:          globalUsage,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := settings.Load(); err != nil {
				return err
			}
			applySettings(logger)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	settings.AddFlags(flags)

	cmd.AddCommand(
		newSolveCmd(logger),
		newModelCmd(logger),
		newLintCmd(logger),
		newVersionCmd(logger),
	)

	flags.ParseErrorsWhitelist.UnknownFlags = true
	err := flags.Parse(args)

	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		return nil, errors.Wrapf(err, "failed while parsing flags for %s", args)
	}

	applySettings(logger)

	return cmd, nil
}

func applySettings(logger log.Logger) {
	if settings.NoColors {
		color.NoColor = true // disable colorized output
	}
	if l, ok := logger.(*logcli.Logger); ok && settings.Debug {
		l.Level = log.DebugLevel
	}
}
