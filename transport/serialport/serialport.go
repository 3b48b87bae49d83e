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

// Package serialport implements the ssp.Transport interface over a real
// serial port.
package serialport

import (
	"errors"
	"time"

	"go.bug.st/serial"

	ssp "github.com/tempstore/go-ssp"
	"github.com/tempstore/go-ssp/internal/syncutil"
)

// Transport adapts a system serial port to ssp.Transport. A mutex
// serializes port operations so a Transport can be shared defensively,
// although the protocol layer itself is strictly sequential.
type Transport struct {
	port     serial.Port
	portName string
	mu       syncutil.Mutex
}

// Open opens the port with the protocol's fixed frame parameters:
// 8 data bits, no parity, one stop bit.
func Open(portName string, baudRate int) (*Transport, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, &ssp.TransportError{Op: "open", Port: portName, Err: err}
	}
	return &Transport{port: port, portName: portName}, nil
}

// errClosed is returned for operations on a closed transport.
var errClosed = errors.New("port is closed")

// Write implements ssp.Transport.
func (t *Transport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return 0, &ssp.TransportError{Op: "write", Port: t.portName, Err: errClosed}
	}
	n, err := t.port.Write(p)
	if err != nil {
		return n, &ssp.TransportError{Op: "write", Port: t.portName, Err: err}
	}
	return n, nil
}

// Read implements ssp.Transport. It returns once at least one byte is
// available or the read timeout expires, in which case n is 0.
func (t *Transport) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return 0, &ssp.TransportError{Op: "read", Port: t.portName, Err: errClosed}
	}
	n, err := t.port.Read(p)
	if err != nil {
		return n, &ssp.TransportError{Op: "read", Port: t.portName, Err: err}
	}
	return n, nil
}

// SetDTR implements ssp.Transport.
func (t *Transport) SetDTR(dtr bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.port.SetDTR(dtr); err != nil {
		return &ssp.TransportError{Op: "set DTR", Port: t.portName, Err: err}
	}
	return nil
}

// SetRTS implements ssp.Transport.
func (t *Transport) SetRTS(rts bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.port.SetRTS(rts); err != nil {
		return &ssp.TransportError{Op: "set RTS", Port: t.portName, Err: err}
	}
	return nil
}

// SetReadTimeout implements ssp.Transport.
func (t *Transport) SetReadTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return &ssp.TransportError{Op: "set read timeout", Port: t.portName, Err: err}
	}
	return nil
}

// ResetInputBuffer implements ssp.Transport.
func (t *Transport) ResetInputBuffer() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.port.ResetInputBuffer(); err != nil {
		return &ssp.TransportError{Op: "reset input buffer", Port: t.portName, Err: err}
	}
	return nil
}

// ResetOutputBuffer implements ssp.Transport.
func (t *Transport) ResetOutputBuffer() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.port.ResetOutputBuffer(); err != nil {
		return &ssp.TransportError{Op: "reset output buffer", Port: t.portName, Err: err}
	}
	return nil
}

// Close implements ssp.Transport.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return nil
	}
	if err := t.port.Close(); err != nil {
		return &ssp.TransportError{Op: "close", Port: t.portName, Err: err}
	}
	t.port = nil
	return nil
}

// Ensure Transport implements ssp.Transport
var _ ssp.Transport = (*Transport)(nil)
