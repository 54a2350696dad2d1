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

package machine

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Document is the structured form of a machine list, read from YAML or JSON.
type Document struct {
	Machines []Entry `json:"machines"`
}

// Entry is one machine of a Document. Lights use the same '.'/'#' notation as the text format.
type Entry struct {
	Lights   string  `json:"lights"`
	Buttons  [][]int `json:"buttons"`
	Joltages []int64 `json:"joltages,omitempty"`
}

func toEntry(m *Machine) Entry {
	return Entry{
		Lights:   lightsString(m.Lights),
		Buttons:  m.Buttons,
		Joltages: m.Joltages,
	}
}

// ParseDocument decodes a YAML or JSON document.
func ParseDocument(data []byte) ([]*Machine, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, errors.Wrap(ErrSyntax, err.Error())
	}
	machines := make([]*Machine, 0, len(doc.Machines))
	for i, e := range doc.Machines {
		m := &Machine{Buttons: e.Buttons, Joltages: e.Joltages}
		for _, c := range e.Lights {
			switch c {
			case '.':
				m.Lights = append(m.Lights, 0)
			case '#':
				m.Lights = append(m.Lights, 1)
			default:
				return nil, errors.Wrapf(ErrSyntax, "machine %d: unexpected %q in lights", i, c)
			}
		}
		machines = append(machines, m)
	}
	return machines, nil
}

// MarshalDocument encodes machines as a YAML document.
func MarshalDocument(machines []*Machine) ([]byte, error) {
	doc := Document{Machines: make([]Entry, 0, len(machines))}
	for _, m := range machines {
		doc.Machines = append(doc.Machines, toEntry(m))
	}
	return yaml.Marshal(doc)
}

// Read loads machines from r. Files named *.yaml, *.yml or *.json are documents and anything
// else is text. Without a recognizable name the content decides: text lines start with '['.
func Read(r io.Reader, name string) ([]*Machine, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", name)
		}
		return ParseDocument(data)
	case ".txt", ".in":
		return Parse(r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] == '[' {
		return Parse(bytes.NewReader(data))
	}
	return ParseDocument(data)
}
