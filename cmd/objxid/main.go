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

// Command objxid prints the identifier registry and derives type IDs.
//
//	objxid                          print the registry
//	objxid -format yaml             print it as a config file fragment
//	objxid -name 'example.com/geo.Pair[int,string]'
//	objxid -derive BASE ARG...      derive a generic instantiation ID
//
// -config loads a YAML config file first; its identifiers take part in
// name resolution.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"dirpx.dev/objx"
	"dirpx.dev/objx/apis"
	_ "dirpx.dev/objx/box"
	"dirpx.dev/objx/config"
	ulog "dirpx.dev/objx/utils/log"
	"dirpx.dev/objx/utils/typeid"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, terminalWidth(os.Stdout)))
}

// terminalWidth returns the width of f when it is a terminal, or 0.
func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	return 80
}

// run executes the command and returns the exit code. width > 0 truncates
// table rows to fit a terminal.
func run(args []string, stdout, stderr io.Writer, width int) int {
	fs := flag.NewFlagSet("objxid", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "YAML config file")
		name       = fs.String("name", "", "print the ID of a canonical type name")
		derive     = fs.Bool("derive", false, "derive an instantiation ID from BASE ARG... IDs")
		format     = fs.String("format", "table", "registry output format: table or yaml")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			ulog.Logger().Error("objxid: load config", "path", *configPath, "err", err)
			return 1
		}
		objx.SetConfig(cfg)
	}

	switch {
	case *derive:
		id, err := deriveID(fs.Args())
		if err != nil {
			ulog.Logger().Error("objxid: derive", "err", err)
			return 1
		}
		fmt.Fprintln(stdout, id)
	case *name != "":
		fmt.Fprintln(stdout, objx.NameID(*name))
	default:
		if err := printRegistry(stdout, *format, width); err != nil {
			ulog.Logger().Error("objxid: print registry", "err", err)
			return 1
		}
	}
	return 0
}

// deriveID parses BASE ARG... and returns their derived ID.
func deriveID(args []string) (apis.ID, error) {
	if len(args) < 2 {
		return apis.Nil, errors.New("need a base ID and at least one argument ID")
	}
	ids := make([]apis.ID, len(args))
	for i, a := range args {
		id, err := typeid.Parse(a)
		if err != nil {
			return apis.Nil, err
		}
		ids[i] = id
	}
	return objx.Generic(ids[0], ids[1:]...), nil
}

// printRegistry writes every registry entry in registration order.
func printRegistry(w io.Writer, format string, width int) error {
	entries := objx.Registry().Entries()
	switch format {
	case "yaml":
		f := config.File{Identifiers: make(map[string]apis.ID, len(entries))}
		for _, e := range entries {
			f.Identifiers[e.Name] = e.ID
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		for _, e := range entries {
			kind := "type"
			if e.Generic {
				kind = "generic"
			}
			fmt.Fprintln(w, truncate(fmt.Sprintf("%s  %-7s  %s", e.ID, kind, e.Name), width))
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// truncate cuts line to at most width runes, marking the cut with an
// ellipsis. A width of zero or less leaves line alone.
func truncate(line string, width int) string {
	if width <= 0 || utf8.RuneCountInString(line) <= width {
		return line
	}
	r := []rune(line)
	return string(r[:width-1]) + "…"
}
