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
Solver computes the minimum number of button presses for a list of machines.

A machine is a row of target slots and a set of buttons, each button adding one to a fixed
subset of the slots.

First, a constraint system is built per machine (BuildSystem). The mode decides which target
vector the slots use and what satisfying a slot means. In Parity mode the presses touching a
slot must have the parity of its light, which is written as an equation with an extra carry
variable counting pairs of presses. In ExactSum mode the presses touching a slot must add up
to its joltage. Every variable gets an upper bound derived from the targets, so that the
oracle searches a finite space that still contains an optimal assignment.

Then each system goes to an oracle (see package oracle), which returns an assignment of
minimal total presses, or reports the machine as infeasible or out of budget. Machines share
nothing, so they are solved concurrently, bounded by the worker count.

Finally the totals are collected in input order into a ResultSet and combined with the
configured Combiner: the sum by default, or the product of selected machines.

A failing machine fails the whole run and no partial answer is ever returned. By default the
first failure cancels the remaining machines; with WithKeepGoing every machine is attempted
and all failures are reported together.
*/
package solver
