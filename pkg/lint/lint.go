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

package lint

import (
	"github.com/rancher-sandbox/jolt/internal/machine"
	"github.com/rancher-sandbox/jolt/pkg/lint/rules"
	"github.com/rancher-sandbox/jolt/pkg/lint/support"
)

// All runs all of the available linters on the machines read from source.
func All(source string, machines []*machine.Machine) support.Linter {
	linter := support.Linter{Source: source}
	if len(machines) == 0 {
		linter.RunLinterRule(support.WarningSev, source, errNoMachines)
		return linter
	}
	for i, m := range machines {
		rules.Machine(&linter, i, m)
	}
	return linter
}
