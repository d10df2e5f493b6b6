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

package run

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shiptool/shipit/app"
	"github.com/shiptool/shipit/conf"
	"github.com/shiptool/shipit/run/deploy"
	"github.com/shiptool/shipit/run/remote"
	"github.com/shiptool/shipit/run/remote/sshexec"
)

// Operation names one orchestrator operation selectable from the CLI.
type Operation string

const (
	OperationStop   Operation = "stop"
	OperationUpdate Operation = "update"
	OperationBuild  Operation = "build"
	OperationStart  Operation = "start"
	OperationDeploy Operation = "deploy"
)

type Options struct {
	ConfigPaths []string
	Overwrites  map[string]string
	NoEnvs      bool
	KeepGoing   bool
	Operation   Operation
}

// Execute runs a single deployment operation: it builds the configuration,
// opens the remote execution channel and dispatches to the orchestrator.
func Execute(options *Options, fnd app.Foundation) error {
	runID := uuid.New().String()
	logger := fnd.Logger()
	logger.Infof("Starting %s (run %s)", options.Operation, runID)

	configPaths := options.ConfigPaths
	if len(configPaths) == 0 {
		configPaths = GetConfigPaths(fnd)
	}

	configMaker := conf.CreateConfigMaker(fnd)
	config, err := configMaker.Make(configPaths, options.Overwrites)
	if err != nil {
		return errors.Wrap(err, "failed to make config")
	}

	var executor remote.Executor
	if fnd.DryRun() {
		executor = remote.CreateDryRunExecutor(fnd)
	} else {
		executor, err = sshexec.CreateMaker(fnd).Make(config)
		if err != nil {
			return errors.Wrap(err, "failed to make SSH executor")
		}
	}
	defer executor.Close()

	policy := deploy.PolicyAbort
	if options.KeepGoing {
		policy = deploy.PolicyContinue
	}
	deployment := deploy.CreateMaker(fnd).Make(config, executor, policy)

	ctx := context.Background()
	var results []deploy.StepResult
	switch options.Operation {
	case OperationStop:
		results, err = deployment.Stop(ctx)
	case OperationUpdate:
		results, err = deployment.Update(ctx)
	case OperationBuild:
		results, err = deployment.Build(ctx)
	case OperationStart:
		results, err = deployment.Start(ctx)
	case OperationDeploy:
		results, err = deployment.Deploy(ctx)
	default:
		return errors.Errorf("unknown operation %s", options.Operation)
	}

	logger.Infof("Issued %d commands on %s (run %s)", len(results), config.Host, runID)
	if err != nil {
		return errors.Wrapf(err, "%s failed", options.Operation)
	}
	return nil
}

// GetConfigPaths returns the existing default config file locations.
func GetConfigPaths(fnd app.Foundation) []string {
	var paths []string
	home, _ := fnd.UserHomeDir()
	validateAndAppendPath("shipit.yaml", &paths, fnd)
	validateAndAppendPath(filepath.Join(home, ".shipit/shipit.yaml"), &paths, fnd)
	validateAndAppendPath(filepath.Join(home, ".config/shipit/shipit.yaml"), &paths, fnd)

	return paths
}

func validateAndAppendPath(path string, paths *[]string, fnd app.Foundation) {
	if _, err := fnd.Fs().Stat(path); !os.IsNotExist(err) {
		*paths = append(*paths, path)
	}
}
