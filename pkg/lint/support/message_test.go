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

package support

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var errLint = errors.New("lint failure")

func TestRunLinterRule(t *testing.T) {
	var tests = []struct {
		Severity                int
		LintError               error
		ExpectedMessages        int
		ExpectedReturn          bool
		ExpectedHighestSeverity int
	}{
		{InfoSev, errLint, 1, false, InfoSev},
		{WarningSev, errLint, 2, false, WarningSev},
		{ErrorSev, errLint, 3, false, ErrorSev},
		// No error so it returns true
		{ErrorSev, nil, 3, true, ErrorSev},
		// Retains highest severity
		{InfoSev, errLint, 4, false, ErrorSev},
		// Invalid severity values
		{4, errLint, 4, false, ErrorSev},
		{22, errLint, 4, false, ErrorSev},
		{-1, errLint, 4, false, ErrorSev},
	}

	linter := Linter{}
	for _, test := range tests {
		isValid := linter.RunLinterRule(test.Severity, "machine 0", test.LintError)
		assert.Len(t, linter.Messages, test.ExpectedMessages)
		assert.Equal(t, test.ExpectedReturn, isValid)
		assert.Equal(t, test.ExpectedHighestSeverity, linter.HighestSeverity)
	}
}

func TestMessage(t *testing.T) {
	m := NewMessage(ErrorSev, "machine 2 (line 3)", errors.New("no buttons"))
	assert.Equal(t, "[ERROR] machine 2 (line 3): no buttons", m.Error())
	assert.Equal(t, "ERROR", m.SeverityName())
}
