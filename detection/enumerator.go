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

package detection

import (
	"fmt"
	"path/filepath"
	"strconv"

	"go.bug.st/serial/enumerator"
)

// SerialEnumerator enumerates serial ports through the OS port list,
// carrying over USB identifiers and descriptors where the platform
// provides them.
type SerialEnumerator struct{}

// Enumerate implements Enumerator.
func (SerialEnumerator) Enumerate() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d.Name == "" {
			continue
		}
		info := PortInfo{
			Path:         d.Name,
			Name:         filepath.Base(d.Name),
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		}
		if d.IsUSB {
			info.VID = parseHexID(d.VID)
			info.PID = parseHexID(d.PID)
		}
		ports = append(ports, info)
	}
	return ports, nil
}

// parseHexID converts the enumerator's hex ID strings; malformed or
// absent IDs come back as zero, which never matches a real target.
func parseHexID(s string) uint16 {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

// Ensure SerialEnumerator implements Enumerator
var _ Enumerator = SerialEnumerator{}
