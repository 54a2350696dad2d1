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

/*
Package machine describes the machines whose buttons are solved for.

A machine has a row of indicator lights, a set of buttons and a joltage counter per slot.
Each button toggles the lights and increments the counters of a fixed subset of slots.
Machines are read from the line-oriented text format

	[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}

or from a YAML or JSON document with a top-level "machines" list.
*/
package machine

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Machine is a parsed machine. It is not modified after parsing.
type Machine struct {
	Lights   []int   // parity targets, 0 or 1 per slot
	Buttons  [][]int // slots touched by each button, 0-based
	Joltages []int64 // counter targets per slot
	Line     int     // source line, 0 when unknown
}

// Touches reports whether button b touches slot s.
func (m *Machine) Touches(b, s int) bool {
	for _, i := range m.Buttons[b] {
		if i == s {
			return true
		}
	}
	return false
}

// JSON serializes m into JSON.
func (m *Machine) JSON() ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(toEntry(m))
	return buffer.Bytes(), err
}

// String renders m in the text format.
func (m *Machine) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(lightsString(m.Lights))
	sb.WriteByte(']')
	for _, b := range m.Buttons {
		sb.WriteString(" (")
		for i, s := range b {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(s))
		}
		sb.WriteByte(')')
	}
	sb.WriteString(" {")
	for i, j := range m.Joltages {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(j, 10))
	}
	sb.WriteByte('}')
	return sb.String()
}

func lightsString(lights []int) string {
	var sb strings.Builder
	for _, l := range lights {
		if l != 0 {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}
