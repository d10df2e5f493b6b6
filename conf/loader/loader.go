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
	"encoding/json"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shiptool/shipit/app"
	"github.com/shiptool/shipit/conf/types"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type LoadedConfig interface {
	Path() string
	Config() *types.Config
}

type Loader interface {
	LoadConfig(path string) (LoadedConfig, error)
	LoadConfigs(paths []string) ([]LoadedConfig, error)
}

type LoadedConfigData struct {
	path   string
	config *types.Config
}

func (d LoadedConfigData) Path() string {
	return d.path
}

func (d LoadedConfigData) Config() *types.Config {
	return d.config
}

type ConfigLoader struct {
	fnd app.Foundation
}

func CreateLoader(fnd app.Foundation) Loader {
	return &ConfigLoader{
		fnd: fnd,
	}
}

func (l ConfigLoader) LoadConfig(path string) (LoadedConfig, error) {
	fs := l.fnd.Fs()

	rawData, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var config types.Config

	// Check file extension and choose appropriate unmarshal function
	extension := filepath.Ext(path)
	switch extension {
	case ".json":
		err = json.Unmarshal(rawData, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(rawData, &config)
	case ".toml":
		err = toml.Unmarshal(rawData, &config)
	default:
		return nil, errors.Errorf("unsupported extension: %s", extension)
	}

	if err != nil {
		return nil, err
	}

	return LoadedConfigData{
		path:   path,
		config: &config,
	}, nil
}

func (l ConfigLoader) LoadConfigs(paths []string) ([]LoadedConfig, error) {
	configs := make([]LoadedConfig, 0, len(paths))
	for _, path := range paths {
		config, err := l.LoadConfig(path)
		if err != nil {
			return nil, errors.Errorf("loading config %s failed: %v", path, err)
		}
		configs = append(configs, config)
	}
	return configs, nil
}
