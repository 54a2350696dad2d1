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
	"os"
	"strings"
	"testing"

	"github.com/rancher-sandbox/jolt/internal/machine"
	"github.com/rancher-sandbox/jolt/pkg/lint/support"
)

const badMachines = "testdata/bad.txt"
const goodMachines = "testdata/good.txt"

func load(t *testing.T, path string) []*machine.Machine {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	machines, err := machine.Read(f, path)
	if err != nil {
		t.Fatal(err)
	}
	return machines
}

func TestBadMachines(t *testing.T) {
	m := All(badMachines, load(t, badMachines)).Messages
	if len(m) != 7 {
		t.Errorf("Number of errors %v", len(m))
		t.Errorf("All didn't fail with expected errors, got %#v", m)
	}
	// There should be 3 ERRORs, 3 WARNINGs and 1 INFO, check for them
	var e1, e2, w1, w2, w3, i1 bool
	for _, msg := range m {
		switch msg.Severity {
		case support.ErrorSev:
			if strings.Contains(msg.Err.Error(), "button 0 touches slot 5, but there are 3 lights") {
				e1 = true
			}
			if strings.Contains(msg.Err.Error(), "button 1 touches slot 2, but there are 2 joltages") {
				e2 = true
			}
		case support.WarningSev:
			if strings.Contains(msg.Err.Error(), "machine has 3 lights but 2 joltages") {
				w1 = true
			}
			if strings.Contains(msg.Err.Error(), "light 0 is on but no button touches it") {
				w2 = true
			}
			if strings.Contains(msg.Err.Error(), "light 2 is on but no button touches it") {
				w3 = true
			}
		case support.InfoSev:
			if strings.Contains(msg.Err.Error(), "buttons 1 and 2 touch the same slots") {
				i1 = true
			}
		}
	}
	if !e1 || !e2 || !w1 || !w2 || !w3 || !i1 {
		t.Errorf("Didn't find all the expected errors, got %#v", m)
	}
}

func TestGoodMachines(t *testing.T) {
	m := All(goodMachines, load(t, goodMachines)).Messages
	if len(m) != 0 {
		t.Errorf("All failed but shouldn't have: %#v", m)
	}
}

func TestNoMachines(t *testing.T) {
	l := All("empty", nil)
	if l.HighestSeverity != support.WarningSev || len(l.Messages) != 1 {
		t.Errorf("expected a single warning, got %#v", l.Messages)
	}
}
