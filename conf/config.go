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

package conf

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/shiptool/shipit/app"
	"github.com/shiptool/shipit/conf/loader"
	"github.com/shiptool/shipit/conf/types"
)

const (
	DefaultPort           = 22
	DefaultUser           = "ubuntu"
	DefaultRoot           = "/home/ubuntu/.go/src/github.com/timeredbull/tsuru"
	DefaultConnectTimeout = 10
	DefaultCommandTimeout = 300
)

// DefaultServices returns the two services managed out of the box. The
// webserver daemon lives under api/ in the source tree, hence the longer path.
func DefaultServices() []types.Service {
	return []types.Service{
		{
			Name:   "collector",
			Module: "github.com/timeredbull/tsuru/collector",
			Path:   "collector",
		},
		{
			Name:   "webserverd",
			Module: "github.com/timeredbull/tsuru/api/webserverd",
			Path:   "api/webserverd",
		},
	}
}

type Maker interface {
	Make(paths []string, overwrites map[string]string) (*types.Config, error)
}

type ConfigMaker struct {
	fnd    app.Foundation
	loader loader.Loader
}

func CreateConfigMaker(fnd app.Foundation) Maker {
	return &ConfigMaker{
		fnd:    fnd,
		loader: loader.CreateLoader(fnd),
	}
}

func (m *ConfigMaker) Make(paths []string, overwrites map[string]string) (*types.Config, error) {
	config := &types.Config{}

	loadedConfigs, err := m.loader.LoadConfigs(paths)
	if err != nil {
		return nil, err
	}
	for _, loadedConfig := range loadedConfigs {
		m.fnd.Logger().Debugf("Merging config %s", loadedConfig.Path())
		mergeConfig(config, loadedConfig.Config())
	}

	applyDefaults(config)

	if err := m.applyOverwrites(config, overwrites); err != nil {
		return nil, err
	}

	deriveServiceLayout(config)

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// mergeConfig overlays src on dst, later configs winning field by field.
// Services are replaced as a whole when the later config provides any.
func mergeConfig(dst *types.Config, src *types.Config) {
	if src.Host != "" {
		dst.Host = src.Host
	}
	if src.Port != 0 {
		dst.Port = src.Port
	}
	if src.User != "" {
		dst.User = src.User
	}
	if src.KeyFile != "" {
		dst.KeyFile = src.KeyFile
	}
	if src.Root != "" {
		dst.Root = src.Root
	}
	if len(src.Services) > 0 {
		dst.Services = src.Services
	}
	if src.Timeouts.Connect != 0 {
		dst.Timeouts.Connect = src.Timeouts.Connect
	}
	if src.Timeouts.Command != 0 {
		dst.Timeouts.Command = src.Timeouts.Command
	}
}

func applyDefaults(config *types.Config) {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.User == "" {
		config.User = DefaultUser
	}
	if config.Root == "" {
		config.Root = DefaultRoot
	}
	if len(config.Services) == 0 {
		config.Services = DefaultServices()
	}
	if config.Timeouts.Connect == 0 {
		config.Timeouts.Connect = DefaultConnectTimeout
	}
	if config.Timeouts.Command == 0 {
		config.Timeouts.Command = DefaultCommandTimeout
	}
}

func (m *ConfigMaker) applyOverwrites(config *types.Config, overwrites map[string]string) error {
	for key, value := range overwrites {
		switch key {
		case "host":
			config.Host = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return errors.Errorf("invalid port overwrite %s: %v", value, err)
			}
			config.Port = port
		case "user":
			config.User = value
		case "key_file":
			config.KeyFile = value
		case "root":
			config.Root = value
		case "timeouts.connect":
			seconds, err := strconv.Atoi(value)
			if err != nil {
				return errors.Errorf("invalid timeouts.connect overwrite %s: %v", value, err)
			}
			config.Timeouts.Connect = seconds
		case "timeouts.command":
			seconds, err := strconv.Atoi(value)
			if err != nil {
				return errors.Errorf("invalid timeouts.command overwrite %s: %v", value, err)
			}
			config.Timeouts.Command = seconds
		default:
			m.fnd.Logger().Warnf("Unknown overwrite key: %s", key)
		}
	}
	return nil
}

// deriveServiceLayout fills in per service values that follow from the
// repository root: source directory and output binary name.
func deriveServiceLayout(config *types.Config) {
	for i := range config.Services {
		svc := &config.Services[i]
		if svc.Path == "" {
			svc.Path = svc.Name
		}
		if svc.Dir == "" {
			svc.Dir = config.Root + "/" + svc.Path
		}
		if svc.Binary == "" {
			svc.Binary = svc.Name
		}
	}
}

func validate(config *types.Config) error {
	if config.Host == "" {
		return errors.New("host must be configured")
	}
	if len(config.Services) == 0 {
		return errors.New("at least one service must be configured")
	}
	for _, svc := range config.Services {
		if svc.Name == "" {
			return errors.New("service name must be set")
		}
		if svc.Module == "" {
			return errors.Errorf("service %s has no module configured", svc.Name)
		}
	}
	return nil
}
