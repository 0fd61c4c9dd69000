// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/emer/sonata/errs"
)

// Load parses the JSON configuration file at path, resolves its manifest
// and substitutes path variables throughout the tree.
func Load(path string) (*Config, error) {
	raw, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// LoadWithSim parses a network configuration plus a separate simulation
// configuration.  Top-level keys of the simulation config override those
// of the network config; each file is resolved against its own manifest
// before the merge.
func LoadWithSim(path, simPath string) (*Config, error) {
	raw, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	simRaw, err := loadRaw(simPath)
	if err != nil {
		return nil, err
	}
	for k, v := range simRaw {
		raw[k] = v
	}
	return decode(raw)
}

// loadRaw reads one JSON config file and resolves it in place: manifest
// entries become absolute paths (keys stripped of their leading $), and
// every $VAR string in the tree is substituted.
func loadRaw(path string) (map[string]any, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.Configf("resolve config path %s: %w", path, err)
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return nil, errs.Configf("read config file %s: %w", abs, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, errs.Configf("parse config file %s: %w", abs, err)
	}

	manifest := resolveManifest(raw, filepath.Dir(abs))
	substituteTree(raw, manifest)
	return raw, nil
}

// resolveManifest rewrites the manifest section: $BASE_DIR inside values
// maps to the config file's parent directory, relative values are joined
// onto it, and keys lose their leading $.  Returns the resolved
// name -> absolute path map used for substitution.
func resolveManifest(raw map[string]any, baseDir string) map[string]string {
	resolved := map[string]string{}
	man, ok := raw["manifest"].(map[string]any)
	if !ok {
		return resolved
	}
	for key, v := range man {
		val, ok := v.(string)
		if !ok {
			continue
		}
		val = strings.ReplaceAll(val, "$BASE_DIR", ".")
		var abs string
		if filepath.IsAbs(val) {
			abs = filepath.Clean(val)
		} else {
			abs = filepath.Join(baseDir, val)
		}
		resolved[strings.TrimPrefix(key, "$")] = abs
	}
	out := make(map[string]any, len(resolved))
	for k, v := range resolved {
		out[k] = v
	}
	raw["manifest"] = out
	return resolved
}

// substituteTree walks the config tree and rewrites every string that
// begins with $: each manifest variable name occurring in it is replaced
// by its resolved path, then the leading $ is stripped.  A token matching
// no manifest entry is left with only the $ stripped -- compatibility
// behavior, see the package tests.
func substituteTree(obj any, manifest map[string]string) any {
	// longest name first, so NETWORK_DIR is never clobbered by NETWORK
	names := make([]string, 0, len(manifest))
	for k := range manifest {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return substitute(obj, names, manifest)
}

func substitute(obj any, names []string, manifest map[string]string) any {
	switch v := obj.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = substitute(e, names, manifest)
		}
		return v
	case []any:
		for i, e := range v {
			v[i] = substitute(e, names, manifest)
		}
		return v
	case string:
		if !strings.HasPrefix(v, "$") {
			return v
		}
		for _, name := range names {
			v = strings.ReplaceAll(v, name, manifest[name])
		}
		return v[1:]
	default:
		return obj
	}
}

func decode(raw map[string]any) (*Config, error) {
	var c Config
	if err := mapstructure.Decode(raw, &c); err != nil {
		return nil, errs.Configf("decode config: %w", err)
	}
	c.raw = raw
	if c.TargetSimulator != "" && c.TargetSimulator != "NEST" {
		return nil, errs.Configf("'target_simulator' in configuration file must be 'NEST', got %q", c.TargetSimulator)
	}
	return &c, nil
}
