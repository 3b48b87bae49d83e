// Copyright 2026 The go-ssp Contributors.
// SPDX-License-Identifier: Apache-2.0
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

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig is the hopperctl config.toml key mapping. Every field is
// optional; flags override whatever the file sets.
type fileConfig struct {
	Device         string `toml:"device"`
	VendorID       string `toml:"vendor_id"`  // four-digit hex, e.g. "191c"
	ProductID      string `toml:"product_id"` // four-digit hex, e.g. "4104"
	LogLevel       string `toml:"log_level"`
	UdevDir        string `toml:"udev_dir"`
	BaudRates      []int  `toml:"baud_rates"`
	SettleMS       int    `toml:"settle_ms"`
	ReadTimeoutMS  int    `toml:"read_timeout_ms"`
	CommandDelayMS int    `toml:"command_delay_ms"`
	Disable        bool   `toml:"disable"`
}

// loadConfig reads the TOML file at path. An empty path yields an empty
// config, so running without a file needs no special casing.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// parseUSBID parses a four-digit hex USB identifier.
func parseUSBID(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid USB ID %q: %w", s, err)
	}
	return uint16(v), nil
}

// durationMS converts a millisecond count from the config file, leaving
// zero (unset) alone so component defaults apply.
func durationMS(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
