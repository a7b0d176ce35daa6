// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pngc compiles a DSL source file into a PNGB artifact and,
// if the source declares one, an #animation JSON sidecar. It is a
// thin driver over the compile package (spec.md §1 scopes the CLI
// itself out of the core; this exists only as a runnable entry
// point for manual verification).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pngc.dev/compiler/base/errors"
	"pngc.dev/compiler/compile"
)

// config is the optional file layer underneath the command-line flags
// below; flags always win where both set the same value.
type config struct {
	BaseDir string `yaml:"base_dir"`
	Output  string `yaml:"output"`
}

func loadConfig(path string) (config, error) {
	var c config
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pngc", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "YAML config file (base_dir, output)")
	output := fs.String("o", "", "PNGB output path (default: <source> with a .pngb extension)")
	baseDir := fs.String("base-dir", "", "directory #wgsl file properties resolve against")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pngc [flags] <source.pngl>")
		return 2
	}
	sourcePath := fs.Arg(0)

	cfg, err := loadConfig(*cfgPath)
	if errors.Log(err) != nil {
		return 1
	}
	if *baseDir != "" {
		cfg.BaseDir = *baseDir
	}
	if *output != "" {
		cfg.Output = *output
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(sourcePath)
	}

	source, err := os.ReadFile(sourcePath)
	if errors.Log(err) != nil {
		return 1
	}

	result, err := compile.Compile(source, compile.Options{
		BaseDir:  cfg.BaseDir,
		Filename: sourcePath,
	})
	if errors.Log(err) != nil {
		return 1
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}

	if result.HasErrors() {
		return 1
	}

	if errors.Log(writeOutput(cfg.Output, sourcePath, result)) != nil {
		return 1
	}

	return 0
}

func writeOutput(outPath, sourcePath string, result *compile.Result) error {
	if outPath == "" {
		outPath = strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".pngb"
	}
	if err := os.WriteFile(outPath, result.PNGB, 0o644); err != nil {
		return err
	}
	if result.Animation != nil {
		animPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".anim.json"
		if err := os.WriteFile(animPath, result.Animation, 0o644); err != nil {
			return err
		}
	}
	return nil
}
