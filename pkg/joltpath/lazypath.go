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

package joltpath

import (
	"os"
	"path/filepath"
)

const (
	// ConfigHomeEnvVar overrides the config home of jolt alone.
	ConfigHomeEnvVar = "JOLT_CONFIG_HOME"
	// XDGConfigHomeEnvVar is the environment variable used by the XDG base
	// directory specification for the config directory.
	XDGConfigHomeEnvVar = "XDG_CONFIG_HOME"
)

// lazypath is an lazy-loaded path buffer for the XDG base directory specification.
type lazypath string

func (l lazypath) path(jOverride, xdgEnv string, defaultFn func() string, elem ...string) string {
	// There is an order to checking for a path.
	// 1. See if a jolt specific environment variable has been set.
	// 2. Check if an XDG environment variable is set
	// 3. Fall back to a default
	base := os.Getenv(jOverride)
	if base != "" {
		return filepath.Join(base, filepath.Join(elem...))
	}
	base = os.Getenv(xdgEnv)
	if base == "" {
		base = defaultFn()
	}
	return filepath.Join(base, string(l), filepath.Join(elem...))
}

// configPath defines the base directory relative to which user specific configuration files should
// be stored.
func (l lazypath) configPath(elem ...string) string {
	return l.path(ConfigHomeEnvVar, XDGConfigHomeEnvVar, configHome, elem...)
}

func configHome() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config")
	}
	return dir
}
