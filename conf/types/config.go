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

package types

// Service describes one managed remote service.
type Service struct {
	Name   string `yaml:"name" json:"name" toml:"name"`
	Module string `yaml:"module" json:"module" toml:"module"`
	Path   string `yaml:"path" json:"path" toml:"path"`
	Dir    string `yaml:"dir" json:"dir" toml:"dir"`
	Binary string `yaml:"binary" json:"binary" toml:"binary"`
}

// Timeouts holds remote execution timeouts in seconds.
type Timeouts struct {
	Connect int `yaml:"connect" json:"connect" toml:"connect"`
	Command int `yaml:"command" json:"command" toml:"command"`
}

// Config is the full deployment target configuration.
type Config struct {
	Host     string    `yaml:"host" json:"host" toml:"host"`
	Port     int       `yaml:"port" json:"port" toml:"port"`
	User     string    `yaml:"user" json:"user" toml:"user"`
	KeyFile  string    `yaml:"key_file" json:"key_file" toml:"key_file"`
	Root     string    `yaml:"root" json:"root" toml:"root"`
	Services []Service `yaml:"services" json:"services" toml:"services"`
	Timeouts Timeouts  `yaml:"timeouts" json:"timeouts" toml:"timeouts"`
}
