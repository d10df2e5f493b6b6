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
	"strings"
	"testing"

	"github.com/shiptool/shipit/mocks/authored/external"
	appMocks "github.com/shiptool/shipit/mocks/generated/app"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_dryRunDeploy(t *testing.T) {
	fndMock := appMocks.NewMockFoundation(t)
	mockLogger := external.NewMockLogger()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "shipit.yaml",
		[]byte("host: deploy.example.com\nroot: /srv/tsuru\n"), 0644))
	fndMock.On("Logger").Return(mockLogger.SugaredLogger)
	fndMock.On("Fs").Return(fs)
	fndMock.On("DryRun").Return(true)

	err := Execute(&Options{
		ConfigPaths: []string{"shipit.yaml"},
		Operation:   OperationDeploy,
	}, fndMock)
	require.NoError(t, err)

	var dryRunCommands []string
	for _, message := range mockLogger.Messages() {
		if strings.HasPrefix(message, "Dry run: ") {
			dryRunCommands = append(dryRunCommands, strings.TrimPrefix(message, "Dry run: "))
		}
	}
	assert.Equal(t, []string{
		"killall -9 webserverd",
		"killall -9 collector",
		"go get -u github.com/timeredbull/tsuru/collector",
		"go get -u github.com/timeredbull/tsuru/api/webserverd",
		"cd /srv/tsuru/collector && go build -o collector main.go",
		"cd /srv/tsuru/api/webserverd && go build -o webserverd main.go",
		"nohup /srv/tsuru/collector/collector >/dev/null 2>&1 </dev/null &",
		"nohup /srv/tsuru/api/webserverd/webserverd >/dev/null 2>&1 </dev/null &",
	}, dryRunCommands)
}

func TestExecute_configFailure(t *testing.T) {
	fndMock := appMocks.NewMockFoundation(t)
	mockLogger := external.NewMockLogger()
	fndMock.On("Logger").Return(mockLogger.SugaredLogger)
	fndMock.On("Fs").Return(afero.NewMemMapFs())
	fndMock.On("UserHomeDir").Return("/home/mockuser", nil)

	err := Execute(&Options{
		ConfigPaths: []string{},
		Overwrites:  map[string]string{"user": "deployer"},
		Operation:   OperationStop,
	}, fndMock)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to make config")
	assert.Contains(t, err.Error(), "host must be configured")
}

func TestExecute_unknownOperation(t *testing.T) {
	fndMock := appMocks.NewMockFoundation(t)
	mockLogger := external.NewMockLogger()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "shipit.yaml", []byte("host: deploy.example.com\n"), 0644))
	fndMock.On("Logger").Return(mockLogger.SugaredLogger)
	fndMock.On("Fs").Return(fs)
	fndMock.On("DryRun").Return(true)

	err := Execute(&Options{
		ConfigPaths: []string{"shipit.yaml"},
		Operation:   Operation("restart"),
	}, fndMock)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation restart")
}

func TestGetConfigPaths(t *testing.T) {
	fndMock := appMocks.NewMockFoundation(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "shipit.yaml", []byte("host: a\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/home/mockuser/.shipit/shipit.yaml", []byte("host: b\n"), 0644))
	fndMock.On("Fs").Return(fs)
	fndMock.On("UserHomeDir").Return("/home/mockuser", nil)

	paths := GetConfigPaths(fndMock)

	assert.Equal(t, []string{"shipit.yaml", "/home/mockuser/.shipit/shipit.yaml"}, paths)
}
