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

package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/log-go"
	"github.com/docker/go-units"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/rancher-sandbox/jolt/internal/constraint"
	"github.com/rancher-sandbox/jolt/internal/machine"
	"github.com/rancher-sandbox/jolt/internal/oracle"
)

// Solver computes the minimum number of presses of a list of machines.
type Solver struct {
	oracle    oracle.Oracle
	mode      Mode
	logger    log.Logger
	workers   int
	keepGoing bool
	combiner  Combiner
	metrics   *Metrics

	ResultSet ResultSet // outcome of the last Solve
}

// Option configures a Solver.
type Option func(*Solver)

// WithWorkers bounds the number of machines solved concurrently. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(s *Solver) {
		s.workers = max(1, n)
	}
}

// WithKeepGoing makes Solve attempt every machine and report all failures together, instead
// of stopping at the first one.
func WithKeepGoing(keepGoing bool) Option {
	return func(s *Solver) {
		s.keepGoing = keepGoing
	}
}

// WithCombiner replaces the default Sum combiner.
func WithCombiner(c Combiner) Option {
	return func(s *Solver) {
		if c != nil {
			s.combiner = c
		}
	}
}

// WithMetrics records every machine solve in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Solver) {
		s.metrics = m
	}
}

// New creates a Solver that solves machines in mode with o.
func New(o oracle.Oracle, mode Mode, logger log.Logger, opts ...Option) *Solver {
	s := &Solver{
		oracle:   o,
		mode:     mode,
		logger:   logger,
		workers:  1,
		combiner: Sum{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MachineResult is the outcome for one machine.
type MachineResult struct {
	Index   int     `json:"index" yaml:"index"`
	Line    int     `json:"line,omitempty" yaml:"line,omitempty"`
	Status  string  `json:"status" yaml:"status"`
	Presses []int64 `json:"presses,omitempty" yaml:"presses,omitempty"`
	Total   int64   `json:"total" yaml:"total"`
	Nodes   int64   `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// ResultSet contains the outcome of solving a list of machines.
// It will be marshalled into Yaml and Json.
type ResultSet struct {
	Mode     string          `json:"mode" yaml:"mode"`
	Combiner string          `json:"combiner" yaml:"combiner"`
	Status   string          `json:"status" yaml:"status"`
	Answer   int64           `json:"answer" yaml:"answer"`
	Machines []MachineResult `json:"machines" yaml:"machines"`
}

// Result statuses.
const (
	StatusSolved  = "solved"
	StatusSkipped = "skipped"
	StatusOK      = "OK"
	StatusFailed  = "FAILED"
)

// MachineError is the failure of a single machine.
type MachineError struct {
	Index int
	Err   error
}

func (e *MachineError) Error() string {
	return fmt.Sprintf("machine %d: %v", e.Index, e.Err)
}

func (e *MachineError) Unwrap() error { return e.Err }

// Kind classifies the failure: malformed, infeasible, timeout, overflow, unsupported or
// error.
func (e *MachineError) Kind() string {
	return kindOf(e.Err)
}

func kindOf(err error) string {
	switch {
	case errors.Is(err, constraint.ErrMalformed):
		return "malformed"
	case errors.Is(err, oracle.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, oracle.ErrTimeout):
		return "timeout"
	case errors.Is(err, constraint.ErrOverflow):
		return "overflow"
	case errors.Is(err, oracle.ErrUnsupported):
		return "unsupported"
	default:
		return "error"
	}
}

// Solve solves every machine independently and combines their totals. When any machine fails
// no answer is returned: by default the first failure aborts the remaining machines, and with
// WithKeepGoing all failures are returned together. Failures are *MachineError values.
func (s *Solver) Solve(ctx context.Context, machines []*machine.Machine) (int64, error) {
	start := time.Now()
	s.ResultSet = ResultSet{
		Mode:     s.mode.String(),
		Combiner: s.combiner.String(),
		Machines: make([]MachineResult, len(machines)),
	}
	for i, m := range machines {
		s.ResultSet.Machines[i] = MachineResult{Index: i, Line: lineOf(m), Status: StatusSkipped}
	}
	totals := make([]int64, len(machines))
	failures := make([]error, len(machines))

	g, gctx := errgroup.WithContext(ctx)
	if s.keepGoing {
		g, gctx = &errgroup.Group{}, ctx
	}
	g.SetLimit(s.workers)
	for i, m := range machines {
		i, m := i, m
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := s.solveOne(gctx, i, m)
			s.ResultSet.Machines[i] = res
			if err != nil {
				failures[i] = &MachineError{Index: i, Err: err}
				if !s.keepGoing {
					return failures[i]
				}
				return nil
			}
			totals[i] = res.Total
			return nil
		})
	}
	err := g.Wait()
	if s.keepGoing {
		err = multierr.Combine(failures...)
	}
	if err == nil && ctx.Err() != nil {
		err = s.interrupted(ctx)
	}
	if err != nil {
		s.ResultSet.Status = StatusFailed
		s.logger.Debugf("%s: %d machines, failed after %s", s.mode, len(machines), units.HumanDuration(time.Since(start)))
		return 0, err
	}

	answer, err := s.combiner.Combine(totals)
	if err != nil {
		s.ResultSet.Status = StatusFailed
		return 0, err
	}
	s.ResultSet.Status = StatusOK
	s.ResultSet.Answer = answer
	s.metrics.setAnswer(s.mode, answer)
	s.logger.Debugf("%s: %d machines, %s %d, took %s", s.mode, len(machines), s.combiner, answer,
		units.HumanDuration(time.Since(start)))
	return answer, nil
}

// interrupted blames the first machine that never ran on the end of ctx. A passed deadline
// is a timeout.
func (s *Solver) interrupted(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		err = errors.Wrap(oracle.ErrTimeout, err.Error())
	}
	for i, r := range s.ResultSet.Machines {
		if r.Status != StatusSkipped {
			continue
		}
		s.ResultSet.Machines[i].Status = kindOf(err)
		s.ResultSet.Machines[i].Error = err.Error()
		return &MachineError{Index: i, Err: err}
	}
	return err
}

func lineOf(m *machine.Machine) int {
	if m == nil {
		return 0
	}
	return m.Line
}

func (s *Solver) solveOne(ctx context.Context, i int, m *machine.Machine) (MachineResult, error) {
	start := time.Now()
	res := MachineResult{Index: i, Line: lineOf(m)}

	sys, err := BuildSystem(m, s.mode)
	var sol *oracle.Solution
	if err == nil {
		sol, err = s.oracle.Solve(ctx, sys)
	}
	if err != nil {
		res.Status = kindOf(err)
		res.Error = err.Error()
		s.metrics.observe(s.mode, res.Status, time.Since(start))
		s.logger.Debugf("machine %d: %s: %s", i, res.Status, err)
		return res, err
	}

	res.Status = StatusSolved
	res.Presses = sol.Presses(sys)
	res.Total = sol.Objective
	res.Nodes = sol.Nodes
	s.metrics.observe(s.mode, res.Status, time.Since(start))
	s.logger.Debugf("machine %d: %d presses %v", i, res.Total, res.Presses)
	return res, nil
}

// IsOK reports whether the last Solve produced an answer.
func (s *Solver) IsOK() bool {
	return s.ResultSet.Status == StatusOK
}

// OutputMode selects the FormatOutput encoding.
type OutputMode int

const (
	JSON OutputMode = iota
	YAML
	Table
)

// FormatOutput renders the ResultSet of the last Solve.
func (s *Solver) FormatOutput(t OutputMode) (string, error) {
	var sb strings.Builder
	switch t {
	case Table:
		table := uitable.New()
		table.AddRow("MACHINE", "LINE", "STATUS", "PRESSES", "TOTAL")
		for _, r := range s.ResultSet.Machines {
			presses, total := "-", "-"
			if r.Status == StatusSolved {
				presses = fmt.Sprint(r.Presses)
				total = fmt.Sprint(r.Total)
			}
			line := "-"
			if r.Line > 0 {
				line = fmt.Sprint(r.Line)
			}
			table.AddRow(r.Index, line, r.Status, presses, total)
		}
		sb.WriteString(table.String())
		sb.WriteString("\n")
		if s.IsOK() {
			sb.WriteString(fmt.Sprintf("%s (%s, %s): %d\n", s.ResultSet.Status, s.ResultSet.Mode, s.ResultSet.Combiner, s.ResultSet.Answer))
		} else {
			sb.WriteString(fmt.Sprintf("%s (%s)\n", s.ResultSet.Status, s.ResultSet.Mode))
		}
	case YAML:
		o, err := yaml.Marshal(s.ResultSet)
		if err != nil {
			return "", err
		}
		sb.Write(o)
	case JSON:
		o, err := json.Marshal(s.ResultSet)
		if err != nil {
			return "", err
		}
		sb.Write(o)
		sb.WriteString("\n")
	default:
		return "", errors.Errorf("unknown output mode %d", t)
	}
	return sb.String(), nil
}
