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
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaudRates is the baud rate search order used when a Discoverer
// is not configured with its own list.
var DefaultBaudRates = []int{9600, 19200, 38400, 115200}

// lineStates is the fixed DTR/RTS search order, tried per baud rate.
var lineStates = [4][2]bool{
	{false, false},
	{true, false},
	{false, true},
	{true, true},
}

const (
	// DefaultSettleDelay is how long the device gets to observe a
	// handshake line transition before it is probed.
	DefaultSettleDelay = 500 * time.Millisecond

	// DefaultReadTimeout bounds every read on the port.
	DefaultReadTimeout = 2 * time.Second

	// readLimit is the most bytes a single response read collects. Only
	// presence is interpreted, so there is no point reading more.
	readLimit = 64
)

// probeCommands are sent per candidate, in order, until one draws a
// response.
var probeCommands = [2]byte{CmdSync, CmdReset}

// LinkConfig is a working set of link parameters for a device.
// Immutable once discovery has produced it.
type LinkConfig struct {
	BaudRate int
	DTR      bool
	RTS      bool
}

func (c LinkConfig) String() string {
	return fmt.Sprintf("baud=%d dtr=%t rts=%t", c.BaudRate, c.DTR, c.RTS)
}

// Discoverer finds the link parameters a device answers on by brute
// force: every baud rate crossed with every DTR/RTS combination, each
// candidate probed with a SYNC and then a RESET packet. The first
// candidate that draws any bytes at all wins.
type Discoverer struct {
	// Open opens the transport for one baud rate. Required.
	Open OpenFunc

	// Logger receives per-candidate progress. Optional.
	Logger logrus.FieldLogger

	// BaudRates overrides DefaultBaudRates when non-empty.
	BaudRates []int

	// SettleDelay and ReadTimeout default to DefaultSettleDelay and
	// DefaultReadTimeout when zero.
	SettleDelay time.Duration
	ReadTimeout time.Duration
}

// Discover searches the candidate space for path and returns the first
// configuration under which the device responds. The search space is
// finite, so a silent device costs at most 4x4 candidates at two probe
// packets each. Exhaustion returns ErrConfigNotFound; faults on
// individual candidates are logged and count as no response.
func (d *Discoverer) Discover(ctx context.Context, path string) (*LinkConfig, error) {
	log := ensureLogger(d.Logger).WithField("port", path)

	bauds := d.BaudRates
	if len(bauds) == 0 {
		bauds = DefaultBaudRates
	}

	for _, baud := range bauds {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		log.WithField("baud", baud).Info("testing baud rate")
		cfg, err := d.probeBaud(ctx, path, baud, log)
		if err != nil {
			log.WithField("baud", baud).WithError(err).Warn("baud rate candidate failed")
			continue
		}
		if cfg != nil {
			log.WithFields(logrus.Fields{
				"baud": cfg.BaudRate,
				"dtr":  cfg.DTR,
				"rts":  cfg.RTS,
			}).Info("found working link configuration")
			return cfg, nil
		}
	}

	log.Warn("device did not respond under any candidate configuration")
	return nil, ErrConfigNotFound
}

// probeBaud opens the port once per baud rate and walks the handshake
// line candidates. The transport is always closed before the caller
// moves on, whichever way this returns.
func (d *Discoverer) probeBaud(ctx context.Context, path string, baud int, log logrus.FieldLogger) (*LinkConfig, error) {
	tr, err := d.Open(path, baud)
	if err != nil {
		return nil, fmt.Errorf("open %s at %d baud: %w", path, baud, err)
	}
	defer func() { _ = tr.Close() }()

	if err := tr.SetReadTimeout(d.readTimeout()); err != nil {
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	for _, lines := range lineStates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		dtr, rts := lines[0], lines[1]
		candidateLog := log.WithFields(logrus.Fields{"baud": baud, "dtr": dtr, "rts": rts})

		responded, err := d.probeLines(tr, dtr, rts, candidateLog)
		if err != nil {
			// A fault on one candidate must not abort the search.
			candidateLog.WithError(err).Warn("candidate fault, treating as no response")
			continue
		}
		if responded {
			return &LinkConfig{BaudRate: baud, DTR: dtr, RTS: rts}, nil
		}
	}

	return nil, nil
}

// probeLines drives one candidate: set the lines, let the device settle,
// then probe with SYNC and, failing that, RESET.
func (d *Discoverer) probeLines(tr Transport, dtr, rts bool, log logrus.FieldLogger) (bool, error) {
	if err := tr.SetDTR(dtr); err != nil {
		return false, fmt.Errorf("set DTR: %w", err)
	}
	if err := tr.SetRTS(rts); err != nil {
		return false, fmt.Errorf("set RTS: %w", err)
	}

	// The device observes the line transition before it will talk.
	time.Sleep(d.settleDelay())

	for _, cmd := range probeCommands {
		responded, err := d.probe(tr, cmd, log)
		if err != nil {
			return false, err
		}
		if responded {
			return true, nil
		}
		log.WithField("command", fmt.Sprintf("0x%02X", cmd)).Info("no response to probe")
	}

	return false, nil
}

// probe flushes both buffers, sends a single payload-free probe packet
// and reports whether anything at all came back.
func (d *Discoverer) probe(tr Transport, cmd byte, log logrus.FieldLogger) (bool, error) {
	if err := tr.ResetInputBuffer(); err != nil {
		return false, fmt.Errorf("reset input buffer: %w", err)
	}
	if err := tr.ResetOutputBuffer(); err != nil {
		return false, fmt.Errorf("reset output buffer: %w", err)
	}

	// Probes always carry the initial sequence byte and no payload.
	pkt, err := BuildPacket(cmd, seqInitial, nil)
	if err != nil {
		return false, err
	}

	log.WithField("packet", fmt.Sprintf("%X", pkt)).Debug("sending probe packet")
	if _, err := tr.Write(pkt); err != nil {
		return false, fmt.Errorf("write probe: %w", err)
	}

	buf := make([]byte, readLimit)
	n, err := tr.Read(buf)
	if err != nil {
		return false, fmt.Errorf("read probe response: %w", err)
	}
	if n > 0 {
		log.WithField("response", fmt.Sprintf("%X", buf[:n])).Info("device responded to probe")
		return true, nil
	}
	return false, nil
}

func (d *Discoverer) settleDelay() time.Duration {
	if d.SettleDelay > 0 {
		return d.SettleDelay
	}
	return DefaultSettleDelay
}

func (d *Discoverer) readTimeout() time.Duration {
	if d.ReadTimeout > 0 {
		return d.ReadTimeout
	}
	return DefaultReadTimeout
}
