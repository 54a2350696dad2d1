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

// Package joltpath calculates filesystem paths to jolt's configuration.
package joltpath

// This helper builds paths to jolt's configuration.
const lp = lazypath("jolt")

// ConfigPath returns the path where jolt stores configuration.
func ConfigPath(elem ...string) string { return lp.configPath(elem...) }

// ConfigFile is the config file read when --config is not given and it exists.
func ConfigFile() string { return ConfigPath("config.yaml") }
