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

// Package hostcfg generates host configuration artifacts for the
// device, currently a udev naming rule. Artifacts are only emitted,
// never installed; installation stays a deliberate operator step.
package hostcfg

import (
	"fmt"
	"os"
	"path/filepath"
)

// Rule describes a udev rule that gives the device a stable symlink and
// access mode when it is plugged in.
type Rule struct {
	// Symlink is the name created under /dev, e.g. "smarthopper".
	Symlink string
	// Mode is the device node mode, e.g. "0666".
	Mode string
	// Group is the owning group, e.g. "dialout".
	Group string
	// Comment heads the rule file.
	Comment string

	VendorID  uint16
	ProductID uint16
}

// String renders the rule. Vendor and product IDs are lowercase
// four-digit hex, the form udev matches ATTRS against.
func (r Rule) String() string {
	return fmt.Sprintf(
		"# %s\n"+
			`ACTION=="add", SUBSYSTEM=="tty", ATTRS{idVendor}=="%04x", ATTRS{idProduct}=="%04x", `+
			`MODE="%s", GROUP="%s", SYMLINK+="%s"`+"\n",
		r.Comment, r.VendorID, r.ProductID, r.Mode, r.Group, r.Symlink)
}

// FileName returns the rule file's name, sorted late so it wins over
// distribution defaults.
func (r Rule) FileName() string {
	return "99-" + r.Symlink + ".rules"
}

// WriteFile writes the rendered rule into dir and returns the file's
// path. dir is typically a staging location like /tmp, not
// /etc/udev/rules.d; see InstallInstructions.
func (r Rule) WriteFile(dir string) (string, error) {
	path := filepath.Join(dir, r.FileName())
	if err := os.WriteFile(path, []byte(r.String()), 0o644); err != nil { //nolint:gosec // rule file is world-readable by design
		return "", fmt.Errorf("write udev rule: %w", err)
	}
	return path, nil
}

// InstallInstructions returns the commands an operator runs to install
// the rule written at stagedPath and make udev pick it up.
func (r Rule) InstallInstructions(stagedPath string) []string {
	return []string{
		fmt.Sprintf("sudo cp %s /etc/udev/rules.d/%s", stagedPath, r.FileName()),
		"sudo udevadm control --reload-rules && sudo udevadm trigger",
	}
}
