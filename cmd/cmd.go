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

package cmd

import (
	"fmt"
	"os"

	"github.com/shiptool/shipit/app"
	"github.com/shiptool/shipit/run"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var debug bool
var overwriteValues []string

func Run() {
	var rootCmd = &cobra.Command{
		Use:           "shipit",
		Short:         "Remotely stop, update, build and start the managed services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "", false,
		"Provide a more detailed output by logging additional debugging information")
	rootCmd.PersistentFlags().StringSliceP("config", "c", []string{}, "List of paths to configuration files")
	rootCmd.PersistentFlags().StringSliceVarP(&overwriteValues, "overwrite", "o", nil, "Overwrite configuration values")
	rootCmd.PersistentFlags().Bool("no-envs", false, "Prevent environment variables from superseding parameters")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Log the remote commands instead of executing them")
	rootCmd.PersistentFlags().Bool("keep-going", false, "Continue with the remaining steps when one fails")

	operations := []struct {
		operation run.Operation
		short     string
	}{
		{run.OperationStop, "Terminate the managed processes on the remote host"},
		{run.OperationUpdate, "Fetch the latest source of the managed service modules"},
		{run.OperationBuild, "Compile the managed services in their source directories"},
		{run.OperationStart, "Launch the compiled binaries as detached background processes"},
		{run.OperationDeploy, "Run stop, update, build and start in order"},
	}
	for _, op := range operations {
		rootCmd.AddCommand(makeOperationCommand(op.operation, op.short))
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func makeOperationCommand(operation run.Operation, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(operation),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPaths, _ := cmd.Flags().GetStringSlice("config")
			noEnvs, _ := cmd.Flags().GetBool("no-envs")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			keepGoing, _ := cmd.Flags().GetBool("keep-going")

			var logger *zap.Logger
			var err error
			if debug {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			if err != nil {
				panic(fmt.Sprintf("Cannot initialize zap logger: %v", err))
			}

			fnd := app.CreateFoundation(logger.Sugar(), afero.NewOsFs(), dryRun)

			options := &run.Options{
				ConfigPaths: configPaths,
				Overwrites:  getOverwrites(overwriteValues, noEnvs, fnd),
				NoEnvs:      noEnvs,
				KeepGoing:   keepGoing,
				Operation:   operation,
			}
			return run.Execute(options, fnd)
		},
	}
}
