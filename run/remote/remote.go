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

package remote

import (
	"context"
	"fmt"

	"github.com/shiptool/shipit/app"
)

// Command is a single remote shell command. Dir scopes the command to a remote
// working directory explicitly rather than through session state. Detached
// launches the command in the background with its standard streams redirected
// to the null device so it survives the end of the session.
type Command struct {
	Cmd      string
	Dir      string
	Detached bool
}

// ShellString renders the final command line passed to the remote shell.
func (c Command) ShellString() string {
	cmd := c.Cmd
	if c.Detached {
		cmd = fmt.Sprintf("nohup %s >/dev/null 2>&1 </dev/null &", cmd)
	}
	if c.Dir != "" {
		cmd = fmt.Sprintf("cd %s && %s", c.Dir, cmd)
	}
	return cmd
}

// Executor runs commands on the remote host. Exec blocks until the remote
// command returns and yields its combined stdout and stderr.
type Executor interface {
	Exec(ctx context.Context, cmd Command) (string, error)
	Close() error
}

// DryRunExecutor logs the commands it would run instead of executing them.
type DryRunExecutor struct {
	fnd app.Foundation
}

func CreateDryRunExecutor(fnd app.Foundation) Executor {
	return &DryRunExecutor{
		fnd: fnd,
	}
}

func (e *DryRunExecutor) Exec(ctx context.Context, cmd Command) (string, error) {
	e.fnd.Logger().Infof("Dry run: %s", cmd.ShellString())
	return "", nil
}

func (e *DryRunExecutor) Close() error {
	return nil
}
