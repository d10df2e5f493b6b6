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

package loader

import (
	"testing"

	"github.com/shiptool/shipit/conf/types"
	appMocks "github.com/shiptool/shipit/mocks/generated/app"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_LoadConfig(t *testing.T) {
	tests := []struct {
		name             string
		path             string
		content          string
		expected         *types.Config
		expectError      bool
		expectedErrorMsg string
	}{
		{
			name: "yaml config",
			path: "shipit.yaml",
			content: "host: deploy.example.com\nport: 2022\nuser: deployer\n" +
				"services:\n  - name: collector\n    module: github.com/timeredbull/tsuru/collector\n",
			expected: &types.Config{
				Host: "deploy.example.com",
				Port: 2022,
				User: "deployer",
				Services: []types.Service{
					{Name: "collector", Module: "github.com/timeredbull/tsuru/collector"},
				},
			},
		},
		{
			name:    "json config",
			path:    "shipit.json",
			content: `{"host": "deploy.example.com", "key_file": "/keys/deploy"}`,
			expected: &types.Config{
				Host:    "deploy.example.com",
				KeyFile: "/keys/deploy",
			},
		},
		{
			name:    "toml config",
			path:    "shipit.toml",
			content: "host = \"deploy.example.com\"\nroot = \"/srv/tsuru\"\n\n[timeouts]\nconnect = 20\n",
			expected: &types.Config{
				Host:     "deploy.example.com",
				Root:     "/srv/tsuru",
				Timeouts: types.Timeouts{Connect: 20},
			},
		},
		{
			name:             "unsupported extension",
			path:             "shipit.ini",
			content:          "host=deploy.example.com",
			expectError:      true,
			expectedErrorMsg: "unsupported extension: .ini",
		},
		{
			name:        "invalid yaml",
			path:        "shipit.yaml",
			content:     "host: [broken",
			expectError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fndMock := appMocks.NewMockFoundation(t)
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.path, []byte(tt.content), 0644))
			fndMock.On("Fs").Return(fs)

			loadedConfig, err := CreateLoader(fndMock).LoadConfig(tt.path)

			if tt.expectError {
				assert.Error(t, err)
				if tt.expectedErrorMsg != "" {
					assert.Contains(t, err.Error(), tt.expectedErrorMsg)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.path, loadedConfig.Path())
				assert.Equal(t, tt.expected, loadedConfig.Config())
			}
		})
	}
}

func TestConfigLoader_LoadConfigs(t *testing.T) {
	fndMock := appMocks.NewMockFoundation(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.yaml", []byte("host: a.example.com\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "b.yaml", []byte("host: b.example.com\n"), 0644))
	fndMock.On("Fs").Return(fs)
	l := CreateLoader(fndMock)

	configs, err := l.LoadConfigs([]string{"a.yaml", "b.yaml"})
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "a.example.com", configs[0].Config().Host)
	assert.Equal(t, "b.example.com", configs[1].Config().Host)

	_, err = l.LoadConfigs([]string{"a.yaml", "missing.yaml"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "loading config missing.yaml failed")
}
