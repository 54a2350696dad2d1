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
Package eyecandy renders the emoji shortcodes (":white_check_mark:") used in jolt's user
facing messages, or strips them when emojis are disabled.
*/
package eyecandy

import (
	"fmt"
	"io"
	"regexp"

	"github.com/kyokomi/emoji/v2"
)

var shortcode = regexp.MustCompile(`:[a-zA-Z0-9-_+]+?:`)

// statusCodes maps solve outcomes to the emoji shown next to them.
var statusCodes = map[string]string{
	"solved":      ":white_check_mark:",
	"OK":          ":white_check_mark:",
	"skipped":     ":fast_forward:",
	"malformed":   ":warning:",
	"infeasible":  ":no_entry:",
	"timeout":     ":hourglass:",
	"overflow":    ":boom:",
	"unsupported": ":construction:",
}

// ESPrintf formats like fmt.Sprintf, expanding or dropping the emoji shortcodes in format.
func ESPrintf(emojisDisabled bool, format string, v ...interface{}) string {
	if emojisDisabled {
		return fmt.Sprintf(removeEmojiFromString(format), v...)
	}
	return emoji.Sprintf(format, v...)
}

// ESPrint expands or drops the emoji shortcodes in s.
func ESPrint(emojisDisabled bool, s string) string {
	if emojisDisabled {
		return fmt.Sprint(removeEmojiFromString(s))
	}
	return emoji.Sprint(s)
}

// ESFprintf is ESPrintf writing to w.
func ESFprintf(w io.Writer, emojisDisabled bool, format string, v ...interface{}) error {
	_, err := io.WriteString(w, ESPrintf(emojisDisabled, format, v...))
	return err
}

// Status prefixes a solve outcome with its emoji, if it has one.
func Status(emojisDisabled bool, status string) string {
	code, ok := statusCodes[status]
	if !ok {
		code = ":x:"
	}
	return ESPrint(emojisDisabled, code+" "+status)
}

func removeEmojiFromString(s string) string {
	return shortcode.ReplaceAllString(s, "")
}
