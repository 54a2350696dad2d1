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
Package cli describes the operating environment for the jolt CLI.

Settings are resolved from, in decreasing priority: command line flags, JOLT_* environment
variables, the optional YAML config file given with --config, and defaults.
*/
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rancher-sandbox/jolt/internal/oracle"
	"github.com/rancher-sandbox/jolt/pkg/joltpath"
)

// EnvPrefix prefixes every environment variable read by jolt.
const EnvPrefix = "JOLT"

// Setting keys, shared by flags, environment variables and the config file.
const (
	KeyDebug      = "debug"
	KeyNoColors   = "no-colors"
	KeyNoEmojis   = "no-emojis"
	KeyBackend    = "backend"
	KeyWorkers    = "workers"
	KeyNodeBudget = "node-budget"
	KeyTimeout    = "timeout"
)

// EnvSettings describes all of the environment settings.
type EnvSettings struct {
	v *viper.Viper

	// ConfigFile is the path to an optional YAML config file
	ConfigFile string
	// Debug indicates whether or not jolt is running in Debug mode.
	Debug bool
	// NoColors disables colored output
	NoColors bool
	// NoEmojis replaces emoji in output with plain text
	NoEmojis bool
	// Backend is the oracle used to solve machines
	Backend string
	// Workers is the number of machines solved concurrently
	Workers int
	// NodeBudget bounds the branch and bound of the search and lp backends
	NodeBudget int64
	// Timeout bounds a whole run, 0 for none
	Timeout time.Duration
}

// New returns settings initialized from the environment.
func New() *EnvSettings {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyNoColors, false)
	v.SetDefault(KeyNoEmojis, false)
	v.SetDefault(KeyBackend, oracle.Default)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyNodeBudget, int64(oracle.DefaultNodeBudget))
	v.SetDefault(KeyTimeout, time.Duration(0))

	env := &EnvSettings{v: v}
	env.resolve()
	return env
}

func (s *EnvSettings) resolve() {
	s.Debug = s.v.GetBool(KeyDebug)
	s.NoColors = s.v.GetBool(KeyNoColors)
	s.NoEmojis = s.v.GetBool(KeyNoEmojis)
	s.Backend = s.v.GetString(KeyBackend)
	s.Workers = s.v.GetInt(KeyWorkers)
	s.NodeBudget = s.v.GetInt64(KeyNodeBudget)
	s.Timeout = s.v.GetDuration(KeyTimeout)
}

// AddFlags binds the global flags to the given flagset.
func (s *EnvSettings) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.ConfigFile, "config", s.ConfigFile, "path to a YAML config file")
	fs.BoolVar(&s.Debug, KeyDebug, s.Debug, "enable verbose output")
	fs.BoolVar(&s.NoColors, KeyNoColors, s.NoColors, "disable colored output")
	fs.BoolVar(&s.NoEmojis, KeyNoEmojis, s.NoEmojis, "disable emojis in output")
	s.bind(fs, KeyDebug, KeyNoColors, KeyNoEmojis)
}

// AddSolverFlags binds the flags that tune solving.
func (s *EnvSettings) AddSolverFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.Backend, KeyBackend, s.Backend,
		fmt.Sprintf("oracle backend, one of: %s", strings.Join(oracle.Backends(), ", ")))
	fs.IntVarP(&s.Workers, KeyWorkers, "j", s.Workers, "number of machines solved concurrently")
	fs.Int64Var(&s.NodeBudget, KeyNodeBudget, s.NodeBudget, "search node budget per machine, negative for unlimited")
	fs.DurationVar(&s.Timeout, KeyTimeout, s.Timeout, "give up after this long, 0 for no limit")
	s.bind(fs, KeyBackend, KeyWorkers, KeyNodeBudget, KeyTimeout)
}

func (s *EnvSettings) bind(fs *pflag.FlagSet, keys ...string) {
	for _, k := range keys {
		_ = s.v.BindPFlag(k, fs.Lookup(k))
	}
}

// Load reads the config file, if any, and resolves every setting again so that values from
// the file fill in whatever flags and environment left unset. Call it after parsing flags.
//
// Without --config, the file at joltpath.ConfigFile() is read when it exists.
func (s *EnvSettings) Load() error {
	path := s.ConfigFile
	if path == "" {
		if _, err := os.Stat(joltpath.ConfigFile()); err == nil {
			path = joltpath.ConfigFile()
		}
	}
	if path != "" {
		s.v.SetConfigFile(path)
		if err := s.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", path)
		}
	}
	s.resolve()
	if s.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	return nil
}

// EnvVars returns the environment variables jolt reads, with their current values.
func (s *EnvSettings) EnvVars() map[string]string {
	envvars := map[string]string{
		"JOLT_DEBUG":       fmt.Sprint(s.Debug),
		"JOLT_NO_COLORS":   fmt.Sprint(s.NoColors),
		"JOLT_NO_EMOJIS":   fmt.Sprint(s.NoEmojis),
		"JOLT_BACKEND":     s.Backend,
		"JOLT_WORKERS":     fmt.Sprint(s.Workers),
		"JOLT_NODE_BUDGET": fmt.Sprint(s.NodeBudget),
		"JOLT_TIMEOUT":     s.Timeout.String(),
	}
	return envvars
}

// OracleOptions returns the backend options implied by the settings.
func (s *EnvSettings) OracleOptions() oracle.Options {
	return oracle.Options{NodeBudget: s.NodeBudget}
}
