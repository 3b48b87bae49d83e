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
	"time"

	"github.com/tempstore/go-ssp/internal/syncutil"
)

// Transport is the abstract serial channel the protocol core talks
// through. transport/serialport implements it over a real port; the
// MockTransport below implements it for tests. Read returns up to
// len(p) bytes and returns n == 0 when the read timeout expires with
// nothing received.
type Transport interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)

	// SetDTR and SetRTS drive the handshake lines, which double as the
	// device's undocumented power/reset signals.
	SetDTR(dtr bool) error
	SetRTS(rts bool) error

	SetReadTimeout(timeout time.Duration) error
	ResetInputBuffer() error
	ResetOutputBuffer() error
	Close() error
}

// OpenFunc opens a serial transport on the given path at the given baud
// rate with the fixed frame parameters (8 data bits, no parity, one
// stop bit).
type OpenFunc func(path string, baudRate int) (Transport, error)

// Responder scripts a MockTransport: given the opcode of the last
// written packet and the current line states, it returns the bytes the
// simulated device answers with, or nil for silence.
type Responder func(cmd byte, dtr, rts bool) []byte

// MockTransport provides a scripted implementation of Transport for
// tests. It records every write, answers reads from the Responder
// output for the most recent write, and supports error injection.
type MockTransport struct {
	responder Responder
	writeErr  error
	readErr   error
	writes    [][]byte
	pending   []byte
	timeout   time.Duration
	flushes   int
	dtr       bool
	rts       bool
	closed    bool
	mu        syncutil.Mutex
}

// NewMockTransport creates a mock transport answering reads via the
// given responder. A nil responder simulates a silent device.
func NewMockTransport(responder Responder) *MockTransport {
	return &MockTransport{responder: responder}
}

// Write implements Transport. The written packet is recorded and, when
// it is long enough to carry a command byte, the responder is consulted
// to queue the next read's data.
func (m *MockTransport) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, errors.New("transport is closed")
	}
	if m.writeErr != nil {
		return 0, m.writeErr
	}

	m.writes = append(m.writes, append([]byte(nil), p...))
	if m.responder != nil && len(p) >= 4 {
		m.pending = m.responder(p[3], m.dtr, m.rts)
	}
	return len(p), nil
}

// Read implements Transport, draining whatever the responder queued.
// An empty queue reads as a timeout: n == 0, no error.
func (m *MockTransport) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, errors.New("transport is closed")
	}
	if m.readErr != nil {
		return 0, m.readErr
	}

	n := copy(p, m.pending)
	m.pending = m.pending[n:]
	return n, nil
}

// SetDTR implements Transport.
func (m *MockTransport) SetDTR(dtr bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dtr = dtr
	return nil
}

// SetRTS implements Transport.
func (m *MockTransport) SetRTS(rts bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rts = rts
	return nil
}

// SetReadTimeout implements Transport.
func (m *MockTransport) SetReadTimeout(timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return nil
}

// ResetInputBuffer implements Transport, discarding queued read data.
func (m *MockTransport) ResetInputBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
	m.flushes++
	return nil
}

// ResetOutputBuffer implements Transport.
func (m *MockTransport) ResetOutputBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return nil
}

// Close implements Transport.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helper methods

// SetWriteError injects an error returned by every subsequent Write.
func (m *MockTransport) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// SetReadError injects an error returned by every subsequent Read.
func (m *MockTransport) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Writes returns copies of every packet written so far.
func (m *MockTransport) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// WriteCount returns how many packets have been written.
func (m *MockTransport) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// FlushCount returns how many buffer resets have been requested.
func (m *MockTransport) FlushCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// Lines returns the current DTR and RTS levels.
func (m *MockTransport) Lines() (dtr, rts bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dtr, m.rts
}

// Closed reports whether Close has been called.
func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Ensure MockTransport implements Transport
var _ Transport = (*MockTransport)(nil)
