// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sonata

import (
	"encoding/json"
	"os"

	"github.com/emer/sonata/errs"
	"github.com/emer/sonata/kernel"
)

// loadParamsFile reads one dynamics_params JSON file into a flat kernel
// parameter dictionary.
func loadParamsFile(path string) (kernel.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IOf("read parameter file %s: %w", path, err)
	}
	var p kernel.Params
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, errs.Configf("parse parameter file %s: %w", path, err)
	}
	return p, nil
}
