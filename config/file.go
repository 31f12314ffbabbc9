/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"dirpx.dev/objx/apis"
)

// File is the on-disk form of an apis.Config:
//
//	namespace: 5b3c0f3e-8e0a-4d7c-9a4e-2f61c3d9b7a1
//	max_unwrap: 4
//	trace_lifecycle: true
//	identifiers:
//	  example.com/geo.Vector3: 94014c8c-aec8-492d-bbdf-64bf0cadee36
type File struct {
	Namespace      apis.ID            `yaml:"namespace,omitempty"`
	MaxUnwrap      *int               `yaml:"max_unwrap,omitempty"`
	TraceLifecycle bool               `yaml:"trace_lifecycle,omitempty"`
	Identifiers    map[string]apis.ID `yaml:"identifiers,omitempty"`
}

// Options converts f into options applied on top of the defaults.
func (f File) Options() []Option {
	opts := []Option{
		WithNamespace(f.Namespace),
		WithTraceLifecycle(f.TraceLifecycle),
		WithOverrides(f.Identifiers),
	}
	if f.MaxUnwrap != nil {
		opts = append(opts, WithMaxUnwrap(*f.MaxUnwrap))
	}
	return opts
}

// Parse decodes a YAML config document. Unknown keys are rejected.
// An empty document yields DefaultConfig.
func Parse(data []byte) (apis.Config, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return apis.Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	for name, id := range f.Identifiers {
		if name == "" {
			return apis.Config{}, errors.New("failed to parse config: empty identifier name")
		}
		if id.IsNil() {
			return apis.Config{}, fmt.Errorf("failed to parse config: nil identifier for %q", name)
		}
	}
	return NewConfig(f.Options()...), nil
}

// Load reads and parses the config file at path.
func Load(path string) (apis.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOptional is like Load but returns DefaultConfig when the file does
// not exist.
func LoadOptional(path string) (apis.Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}
