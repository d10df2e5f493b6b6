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

package sshexec

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shiptool/shipit/app"
	"github.com/shiptool/shipit/conf/types"
	"github.com/shiptool/shipit/run/remote"
	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
)

type Maker interface {
	Make(config *types.Config) (remote.Executor, error)
}

type nativeMaker struct {
	fnd app.Foundation
}

func CreateMaker(fnd app.Foundation) Maker {
	return &nativeMaker{
		fnd: fnd,
	}
}

func (m *nativeMaker) Make(config *types.Config) (remote.Executor, error) {
	if config.KeyFile == "" {
		return nil, errors.New("key_file must be configured")
	}

	keyPath := config.KeyFile
	if strings.HasPrefix(keyPath, "~/") {
		home, err := m.fnd.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve user home directory")
		}
		keyPath = home + keyPath[1:]
	}

	key, err := afero.ReadFile(m.fnd.Fs(), keyPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read private key %s", keyPath)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse private key %s", keyPath)
	}

	return &sshExecutor{
		fnd:            m.fnd,
		addr:           net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		user:           config.User,
		signer:         signer,
		connectTimeout: time.Duration(config.Timeouts.Connect) * time.Second,
		commandTimeout: time.Duration(config.Timeouts.Command) * time.Second,
	}, nil
}

type sshExecutor struct {
	fnd            app.Foundation
	addr           string
	user           string
	signer         ssh.Signer
	connectTimeout time.Duration
	commandTimeout time.Duration
	mu             sync.Mutex // Protects client
	client         *ssh.Client
}

// connect establishes the SSH connection if not already connected.
func (e *sshExecutor) connect() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		// Check if connection is still alive
		_, _, err := e.client.SendRequest("keepalive@shipit", true, nil)
		if err == nil {
			return nil
		}
		// Connection dead, reconnect
		e.client.Close()
		e.client = nil
	}

	config := &ssh.ClientConfig{
		User:            e.user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(e.signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: Store and verify host keys
		Timeout:         e.connectTimeout,
	}

	client, err := ssh.Dial("tcp", e.addr, config)
	if err != nil {
		return errors.Wrapf(err, "SSH dial %s", e.addr)
	}

	e.client = client
	return nil
}

func (e *sshExecutor) Exec(ctx context.Context, cmd remote.Command) (string, error) {
	if err := e.connect(); err != nil {
		return "", err
	}

	e.mu.Lock()
	session, err := e.client.NewSession()
	e.mu.Unlock()
	if err != nil {
		return "", errors.Wrap(err, "failed to create SSH session")
	}
	defer session.Close()

	var output bytes.Buffer
	session.Stdout = &output
	session.Stderr = &output

	shellCmd := cmd.ShellString()
	e.fnd.Logger().Debugf("Running %s on %s", shellCmd, e.addr)

	done := make(chan error, 1)
	go func() {
		done <- session.Run(shellCmd)
	}()

	select {
	case <-ctx.Done():
		return output.String(), ctx.Err()
	case <-time.After(e.commandTimeout):
		return output.String(), errors.Errorf("command timeout after %v", e.commandTimeout)
	case err := <-done:
		if err != nil {
			return output.String(), errors.Wrapf(err, "remote command failed: %s", output.String())
		}
		return output.String(), nil
	}
}

func (e *sshExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}
