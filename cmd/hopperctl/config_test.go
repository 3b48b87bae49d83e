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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Full(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
device = "/dev/smarthopper"
vendor_id = "191c"
product_id = "4104"
log_level = "debug"
udev_dir = "/tmp/rules"
baud_rates = [9600, 19200]
settle_ms = 250
read_timeout_ms = 1000
command_delay_ms = 100
disable = true
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/smarthopper", cfg.Device)
	assert.Equal(t, "191c", cfg.VendorID)
	assert.Equal(t, "4104", cfg.ProductID)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/rules", cfg.UdevDir)
	assert.Equal(t, []int{9600, 19200}, cfg.BaudRates)
	assert.Equal(t, 250, cfg.SettleMS)
	assert.Equal(t, 1000, cfg.ReadTimeoutMS)
	assert.Equal(t, 100, cfg.CommandDelayMS)
	assert.True(t, cfg.Disable)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Device)
	assert.Empty(t, cfg.BaudRates)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadConfig_Malformed(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `device = [not toml`)
	_, err := loadConfig(path)
	require.Error(t, err)
}

func TestParseUSBID(t *testing.T) {
	t.Parallel()

	id, err := parseUSBID("191c")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x191C), id)

	_, err = parseUSBID("not-hex")
	require.Error(t, err)

	_, err = parseUSBID("10000")
	require.Error(t, err)
}

func TestDurationMS(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Duration(0), durationMS(0))
	assert.Equal(t, 250*time.Millisecond, durationMS(250))
}
