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

// Package detection locates the device's communication port. It
// enumerates candidate serial ports with their USB identifiers and
// descriptive metadata and selects the one matching the target
// vendor/product IDs. Access checking and permission remediation live
// here too; the protocol core only ever consumes the results.
package detection

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoDeviceFound means no enumerated port matched the target
	// vendor/product IDs.
	ErrNoDeviceFound = errors.New("no matching device found")

	// ErrAccessDenied means the device path lacks read/write permission
	// for the current process.
	ErrAccessDenied = errors.New("device path is not accessible")
)

// PortInfo describes one enumerated communication port.
type PortInfo struct {
	// Path is the device node, e.g. /dev/ttyUSB0.
	Path string
	// Name is the short port name.
	Name string

	Manufacturer string
	Product      string
	SerialNumber string
	Location     string
	Interface    string

	// VID and PID are zero for non-USB ports.
	VID uint16
	PID uint16
}

// Enumerator lists candidate communication ports. SerialEnumerator
// implements it against the OS; tests substitute fixed lists.
type Enumerator interface {
	Enumerate() ([]PortInfo, error)
}

// Find returns the first enumerated port whose vendor and product IDs
// match, logging the port's descriptive metadata on the way. A nil
// logger disables logging.
func Find(enum Enumerator, vid, pid uint16, log logrus.FieldLogger) (*PortInfo, error) {
	ports, err := enum.Enumerate()
	if err != nil {
		return nil, fmt.Errorf("enumerate ports: %w", err)
	}

	for i := range ports {
		p := &ports[i]
		if p.VID != vid || p.PID != pid {
			continue
		}

		ensureLogger(log).WithFields(logrus.Fields{
			"port":         p.Path,
			"vid":          fmt.Sprintf("%04x", p.VID),
			"pid":          fmt.Sprintf("%04x", p.PID),
			"manufacturer": p.Manufacturer,
			"product":      p.Product,
			"serial":       p.SerialNumber,
			"location":     p.Location,
			"interface":    p.Interface,
		}).Info("found device port")
		return p, nil
	}

	return nil, fmt.Errorf("%w: vid=%04x pid=%04x", ErrNoDeviceFound, vid, pid)
}

func ensureLogger(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
