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

package builder

import (
	"dirpx.dev/objx/apis"
	"dirpx.dev/objx/registry"
	"dirpx.dev/objx/resolver"
	"dirpx.dev/objx/strategy"
	ulog "dirpx.dev/objx/utils/log"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its entries are copied
// into the new registry in registration order, and a sealed registry stays sealed.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry) apis.Registry {
	nreg := registry.New(cfg)
	if preg == nil {
		return nreg
	}
	for _, e := range preg.Entries() {
		var err error
		if e.Generic {
			err = nreg.RegisterGeneric(e.Name, e.ID)
		} else {
			err = nreg.Register(e.Type, e.ID)
		}
		if err != nil {
			// Entries were valid in prev; a failure here means cfg
			// changed how a type normalizes.
			ulog.Logger().Warn("objx: dropped registry entry on rebuild",
				"name", e.Name, "id", e.ID.String(), "err", err)
		}
	}
	if preg.Sealed() {
		nreg.Seal()
	}
	return nreg
}

// BuildResolver builds and returns a new apis.Resolver based on the provided configuration,
// registry, and pre-existing resolver. The chain is: live object, registry, then
// name derivation, which always handles a non-nil type.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver) apis.Resolver {
	return resolver.New(
		strategy.NewObjectStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewNameStrategy(reg),
	)
}
