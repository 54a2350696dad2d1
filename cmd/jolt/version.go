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
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/log-go"
	logio "github.com/Masterminds/log-go/io"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/rancher-sandbox/jolt/internal/version"
)

const versionDesc = `
Show the version of jolt together with the commit and Go toolchain it was built
from.

'--short' prints the version alone, with the abbreviated commit appended when
one was recorded at build time. '-o json' and '-o yaml' print the build info
in a form scripts can read, and '--template' formats it with any of .Version,
.GitCommit, .GitTreeState and .GoVersion:

    jolt version --template '{{.Version}} ({{.GoVersion}})'
`

type versionOptions struct {
	short    bool
	template string
	output   outputFormat
}

func newVersionCmd(logger log.Logger) *cobra.Command {
	o := &versionOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "print the jolt version",
		Long:  versionDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wInfo := logio.NewWriter(logger, log.InfoLevel)
			return o.run(wInfo)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&o.short, "short", false, "print the version number only")
	f.StringVar(&o.template, "template", "", "template for version string format")
	bindOutputFlag(cmd, &o.output)

	return cmd
}

func (o *versionOptions) run(w io.Writer) error {
	info := version.Get()

	switch {
	case o.template != "":
		tt, err := template.New("version").Parse(o.template)
		if err != nil {
			return err
		}
		return tt.Execute(w, info)
	case o.short:
		_, err := fmt.Fprintln(w, shortVersion(info))
		return err
	case o.output == jsonFormat:
		data, err := json.Marshal(info)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case o.output == yamlFormat:
		data, err := yaml.Marshal(info)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	_, err := fmt.Fprintf(w, "jolt %s (commit %s, tree %s, %s)\n", info.Version,
		orUnknown(info.GitCommit), orUnknown(info.GitTreeState), info.GoVersion)
	return err
}

func shortVersion(info version.BuildInfo) string {
	if len(info.GitCommit) >= 7 {
		return fmt.Sprintf("%s+g%s", info.Version, info.GitCommit[:7])
	}
	return info.Version
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
