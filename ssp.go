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

// Package ssp drives cash-handling peripherals that speak an SSP-variant
// serial protocol (length-prefixed frames with a CRC-16 trailer).
//
// The package covers three concerns: building and validating protocol
// packets, discovering the link parameters (baud rate and DTR/RTS levels)
// a device answers on by active probing, and running the fixed bring-up
// command sequence once a working link is known. Port enumeration lives in
// the detection subpackage and real serial I/O in transport/serialport;
// everything here talks to the port through the Transport interface.
package ssp

import (
	"io"

	"github.com/sirupsen/logrus"
)

// USB identifiers of the target device.
const (
	VendorID  uint16 = 0x191C
	ProductID uint16 = 0x4104
)

// Command opcodes understood by the device.
const (
	CmdReset        byte = 0x01
	CmdSetupRequest byte = 0x05
	CmdPoll         byte = 0x07
	CmdDisable      byte = 0x09
	CmdEnable       byte = 0x0A
	CmdSync         byte = 0x11
)

// ensureLogger returns log, or a discard logger when log is nil so that
// components never have to branch before logging.
func ensureLogger(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
