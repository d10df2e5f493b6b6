// Copyright 2026 The Shipit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deploy

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/shiptool/shipit/app"
	"github.com/shiptool/shipit/conf/types"
	"github.com/shiptool/shipit/run/remote"
)

// Policy decides how an operation composes its steps when one of them fails.
type Policy string

const (
	// PolicyAbort stops the operation at the first failing step.
	PolicyAbort Policy = "abort"
	// PolicyContinue runs every step and aggregates the failures.
	PolicyContinue Policy = "continue"
)

// StepResult records one issued remote command and its outcome.
type StepResult struct {
	Service string
	Command remote.Command
	Output  string
	Err     error
}

// Deployment runs the ordered deployment operations against one remote host.
type Deployment interface {
	Stop(ctx context.Context) ([]StepResult, error)
	Update(ctx context.Context) ([]StepResult, error)
	Build(ctx context.Context) ([]StepResult, error)
	Start(ctx context.Context) ([]StepResult, error)
	Deploy(ctx context.Context) ([]StepResult, error)
}

type Maker interface {
	Make(config *types.Config, executor remote.Executor, policy Policy) Deployment
}

type nativeMaker struct {
	fnd app.Foundation
}

func CreateMaker(fnd app.Foundation) Maker {
	return &nativeMaker{
		fnd: fnd,
	}
}

func (m *nativeMaker) Make(config *types.Config, executor remote.Executor, policy Policy) Deployment {
	return &deployment{
		fnd:      m.fnd,
		config:   config,
		executor: executor,
		policy:   policy,
	}
}

type deployment struct {
	fnd      app.Foundation
	config   *types.Config
	executor remote.Executor
	policy   Policy
}

type step struct {
	service string
	cmd     remote.Command
}

// Stop force terminates the managed processes by name, in reverse start
// order. Both kills are always attempted: terminating an absent process makes
// killall fail, which must not shadow the other service.
func (d *deployment) Stop(ctx context.Context) ([]StepResult, error) {
	services := d.config.Services
	steps := make([]step, 0, len(services))
	for i := len(services) - 1; i >= 0; i-- {
		steps = append(steps, step{
			service: services[i].Name,
			cmd:     remote.Command{Cmd: fmt.Sprintf("killall -9 %s", services[i].Binary)},
		})
	}
	return d.runSteps(ctx, "stop", steps, PolicyContinue)
}

// Update fetches and installs the latest source of each service module.
func (d *deployment) Update(ctx context.Context) ([]StepResult, error) {
	steps := make([]step, 0, len(d.config.Services))
	for _, svc := range d.config.Services {
		steps = append(steps, step{
			service: svc.Name,
			cmd:     remote.Command{Cmd: fmt.Sprintf("go get -u %s", svc.Module)},
		})
	}
	return d.runSteps(ctx, "update", steps, d.policy)
}

// Build compiles each service in its source directory.
func (d *deployment) Build(ctx context.Context) ([]StepResult, error) {
	steps := make([]step, 0, len(d.config.Services))
	for _, svc := range d.config.Services {
		steps = append(steps, step{
			service: svc.Name,
			cmd: remote.Command{
				Cmd: fmt.Sprintf("go build -o %s main.go", svc.Binary),
				Dir: svc.Dir,
			},
		})
	}
	return d.runSteps(ctx, "build", steps, d.policy)
}

// Start launches each compiled binary detached so it survives the session.
func (d *deployment) Start(ctx context.Context) ([]StepResult, error) {
	steps := make([]step, 0, len(d.config.Services))
	for _, svc := range d.config.Services {
		steps = append(steps, step{
			service: svc.Name,
			cmd: remote.Command{
				Cmd:      svc.Dir + "/" + svc.Binary,
				Detached: true,
			},
		})
	}
	return d.runSteps(ctx, "start", steps, d.policy)
}

// Deploy runs stop, update, build and start in order. Stop failures are
// reported but never abort the run since a dead process is the desired state
// at that point. The remaining phases follow the configured policy.
func (d *deployment) Deploy(ctx context.Context) ([]StepResult, error) {
	var results []StepResult
	var errs *multierror.Error

	stopResults, err := d.Stop(ctx)
	results = append(results, stopResults...)
	if err != nil {
		d.fnd.Logger().Warnf("Stop phase reported failures: %v", err)
	}

	phases := []struct {
		name string
		run  func(ctx context.Context) ([]StepResult, error)
	}{
		{"update", d.Update},
		{"build", d.Build},
		{"start", d.Start},
	}
	for _, phase := range phases {
		phaseResults, err := phase.run(ctx)
		results = append(results, phaseResults...)
		if err != nil {
			if d.policy == PolicyAbort {
				return results, errors.Wrapf(err, "%s phase failed", phase.name)
			}
			errs = multierror.Append(errs, errors.Wrapf(err, "%s phase failed", phase.name))
		}
	}

	return results, errs.ErrorOrNil()
}

func (d *deployment) runSteps(ctx context.Context, operation string, steps []step, policy Policy) ([]StepResult, error) {
	d.fnd.Logger().Infof("Executing %s operation", operation)
	var errs *multierror.Error
	results := make([]StepResult, 0, len(steps))
	for _, s := range steps {
		d.fnd.Logger().Debugf("Issuing command for service %s: %s", s.service, s.cmd.ShellString())
		output, err := d.executor.Exec(ctx, s.cmd)
		results = append(results, StepResult{
			Service: s.service,
			Command: s.cmd,
			Output:  output,
			Err:     err,
		})
		if err != nil {
			d.fnd.Logger().Errorf("Service %s %s failed: %v", s.service, operation, err)
			wrapped := errors.Wrapf(err, "%s of service %s failed", operation, s.service)
			if policy == PolicyAbort {
				return results, wrapped
			}
			errs = multierror.Append(errs, wrapped)
		}
	}
	return results, errs.ErrorOrNil()
}
