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

package reflect

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"dirpx.dev/objx/apis"
	"dirpx.dev/objx/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping pointers)
	// is not a named type (e.g., anonymous struct, func, []T).
	ErrReflectTypeNotNamed = errors.New("reflect: type is not named")
)

// Normalize unwraps pointers according to cfg.MaxUnwrap and returns the
// nearest named type, or an error if none is found. *T and T share one
// identity; slices, maps and other composites do not unwrap.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	t = Unwrap(t, cfg.MaxUnwrap)
	if t.Kind() == reflect.Ptr || t.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return t, nil
}

// Unwrap strips up to max pointer levels from t.
func Unwrap(t reflect.Type, max int) reflect.Type {
	if max <= 0 {
		max = config.DefaultMaxUnwrap
	}
	for i := 0; t != nil && i < max && t.Kind() == reflect.Ptr; i++ {
		t = t.Elem()
	}
	return t
}

// CanonicalName returns a build-independent name for t: named types are
// qualified by their full package path ("dirpx.dev/objx/box.Box[int]"),
// builtins keep their bare name, and composites are spelled out
// recursively in Go syntax. This matches how the Go runtime spells type
// arguments inside generic instantiation names.
func CanonicalName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if name := t.Name(); name != "" {
		if p := t.PkgPath(); p != "" {
			return p + "." + name
		}
		return name
	}
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + CanonicalName(t.Elem())
	case reflect.Slice:
		return "[]" + CanonicalName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + CanonicalName(t.Elem())
	case reflect.Map:
		return "map[" + CanonicalName(t.Key()) + "]" + CanonicalName(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + CanonicalName(t.Elem())
		case reflect.SendDir:
			return "chan<- " + CanonicalName(t.Elem())
		default:
			return "chan " + CanonicalName(t.Elem())
		}
	default:
		return t.String()
	}
}

// StripPointers removes up to max leading '*' from a canonical name.
func StripPointers(name string, max int) string {
	if max <= 0 {
		max = config.DefaultMaxUnwrap
	}
	for i := 0; i < max && strings.HasPrefix(name, "*"); i++ {
		name = name[1:]
	}
	return name
}

// SplitGeneric splits a canonical generic instantiation name into its base
// name and argument names: "p.Pair[int,p.Box[string]]" yields
// ("p.Pair", ["int", "p.Box[string]"]). ok is false for names that are not
// generic instantiations, including "[]T", "[4]T" and "map[K]V".
func SplitGeneric(name string) (base string, args []string, ok bool) {
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return "", nil, false
	}
	base = name[:open]
	if base == "map" || strings.ContainsAny(base, " ()[]*{}<") {
		return "", nil, false
	}

	depth := 0
	start := open + 1
	for i := open; i < len(name); i++ {
		switch name[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth == 0 && i != len(name)-1 {
				// The first bracket closes before the end: "p.G[int].X".
				return "", nil, false
			}
		case ',':
			if depth == 1 {
				args = append(args, strings.TrimSpace(name[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return "", nil, false
	}
	args = append(args, strings.TrimSpace(name[start:len(name)-1]))
	for _, a := range args {
		if a == "" {
			return "", nil, false
		}
	}
	return base, args, true
}

// StripTypeParams removes the generic instantiation suffix: "T[int,string]" -> "T".
func StripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i > 0 {
		return s[:i]
	}
	return s
}
