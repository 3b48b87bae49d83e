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

package hostcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hopperRule() Rule {
	return Rule{
		Symlink:   "smarthopper",
		Mode:      "0666",
		Group:     "dialout",
		Comment:   "udev rule for the smarthopper coin device",
		VendorID:  0x191C,
		ProductID: 0x4104,
	}
}

func TestRule_String(t *testing.T) {
	t.Parallel()

	out := hopperRule().String()

	// IDs must be lowercase four-digit hex, the form udev matches.
	assert.Contains(t, out, `ATTRS{idVendor}=="191c"`)
	assert.Contains(t, out, `ATTRS{idProduct}=="4104"`)
	assert.Contains(t, out, `ACTION=="add"`)
	assert.Contains(t, out, `SUBSYSTEM=="tty"`)
	assert.Contains(t, out, `MODE="0666"`)
	assert.Contains(t, out, `GROUP="dialout"`)
	assert.Contains(t, out, `SYMLINK+="smarthopper"`)
	assert.Contains(t, out, "# udev rule for the smarthopper coin device")
}

func TestRule_ZeroPaddedIDs(t *testing.T) {
	t.Parallel()

	r := hopperRule()
	r.VendorID = 0x001C
	r.ProductID = 0x0004

	out := r.String()
	assert.Contains(t, out, `ATTRS{idVendor}=="001c"`)
	assert.Contains(t, out, `ATTRS{idProduct}=="0004"`)
}

func TestRule_FileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "99-smarthopper.rules", hopperRule().FileName())
}

func TestRule_WriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := hopperRule()

	path, err := r.WriteFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "99-smarthopper.rules"), path)

	content, err := os.ReadFile(path) //nolint:gosec // test-owned path
	require.NoError(t, err)
	assert.Equal(t, r.String(), string(content))
}

func TestRule_WriteFile_BadDir(t *testing.T) {
	t.Parallel()

	_, err := hopperRule().WriteFile(filepath.Join(t.TempDir(), "missing", "nested"))
	require.Error(t, err)
}

func TestRule_InstallInstructions(t *testing.T) {
	t.Parallel()

	lines := hopperRule().InstallInstructions("/tmp/99-smarthopper.rules")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "sudo cp /tmp/99-smarthopper.rules /etc/udev/rules.d/99-smarthopper.rules")
	assert.Contains(t, lines[1], "udevadm control --reload-rules")
	assert.Contains(t, lines[1], "udevadm trigger")
}
