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
	"maps"

	"dirpx.dev/objx/apis"
	"dirpx.dev/objx/utils/typeid"
)

const (
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultTraceLifecycle represents the default for TraceLifecycle.
	DefaultTraceLifecycle = false
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Namespace:      typeid.DefaultNamespace,
		MaxUnwrap:      DefaultMaxUnwrap,
		TraceLifecycle: DefaultTraceLifecycle,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithNamespace sets the namespace for name-derived IDs.
// The Nil ID resets to the default namespace.
func WithNamespace(ns apis.ID) Option {
	return func(c *apis.Config) {
		if ns.IsNil() {
			c.Namespace = typeid.DefaultNamespace
			return
		}
		c.Namespace = ns
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithOverride pins the ID of the type with the given canonical name.
func WithOverride(name string, id apis.ID) Option {
	return func(c *apis.Config) {
		// Copy so configs that share a map stay independent.
		m := make(map[string]apis.ID, len(c.Overrides)+1)
		maps.Copy(m, c.Overrides)
		m[name] = id
		c.Overrides = m
	}
}

// WithOverrides merges a set of name -> ID overrides.
func WithOverrides(overrides map[string]apis.ID) Option {
	return func(c *apis.Config) {
		if len(overrides) == 0 {
			return
		}
		m := make(map[string]apis.ID, len(c.Overrides)+len(overrides))
		maps.Copy(m, c.Overrides)
		maps.Copy(m, overrides)
		c.Overrides = m
	}
}

// WithTraceLifecycle sets the TraceLifecycle option.
func WithTraceLifecycle(trace bool) Option {
	return func(c *apis.Config) {
		c.TraceLifecycle = trace
	}
}
