// Copyright 2026 The Skir Authors
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

// Command skircheck is a minimal example driver over skir/compile: it
// reads every ".skir" file under one or more directories, compiles them as
// a single ModuleSet, and prints diagnostics (spec §3.14 "Example driver").
// It exists to exercise the library end to end, not as the project's
// sanctioned CLI.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gepheum/skir/skir/compile"
	skirerrors "github.com/gepheum/skir/skir/errors"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <dir> [<dir> ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	dirs := flag.Args()
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	sources, err := collectModules(dirs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(sources) == 0 {
		fmt.Fprintln(os.Stderr, "skircheck: no .skir files found")
		os.Exit(2)
	}

	ms := compile.Compile(sources)
	if len(ms.Errors) == 0 {
		fmt.Printf("skircheck: %d module(s), %d record(s), no errors\n",
			len(ms.ResolvedModules), len(ms.RecordMap))
		return
	}

	skirerrors.Print(os.Stderr, ms.Errors)
	os.Exit(1)
}

// collectModules walks each directory in dirs, reading every ".skir" file
// into a path->source map keyed by its path relative to that directory (so
// two directories with the same relative layout collide loudly instead of
// silently shadowing one another).
func collectModules(dirs []string) (map[string]string, error) {
	sources := map[string]string{}
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".skir" {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if existing, dup := sources[rel]; dup {
				return fmt.Errorf("module path %q found under multiple roots (already have %d bytes, now %s)", rel, len(existing), path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			sources[rel] = string(data)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return sources, nil
}
