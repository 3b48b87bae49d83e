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

package ssp

import (
	"errors"
	"fmt"
)

// Outcome errors. Callers branch on these with errors.Is rather than on
// thrown faults, so every failure class is an explicit return value.
var (
	// ErrConfigNotFound is returned by discovery when the full baud rate
	// by line-state search space is exhausted without any response.
	ErrConfigNotFound = errors.New("no working link configuration found")

	// ErrDataTooLarge is returned when a payload does not fit the
	// one-byte length field.
	ErrDataTooLarge = errors.New("payload too large for length field")
)

// TransportError wraps an I/O fault on an open serial channel with the
// operation and port it happened on. During discovery such faults are
// demoted to "no response" for the candidate being probed; during
// command sequencing they are fatal to the run.
type TransportError struct {
	Err  error
	Op   string
	Port string
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportFault reports whether err originated from the serial
// channel rather than from the protocol layer.
func IsTransportFault(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
