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
	"github.com/tempstore/go-ssp/detection"
)

// Client ties the pieces together: find the device's port, check access
// to it, discover a working link configuration and drive the bring-up
// command sequence. Each stage reports its failure class as a distinct
// error value so callers can branch on the outcome.
type Client struct {
	// Enumerator lists candidate ports. Required for FindPort/Run.
	Enumerator detection.Enumerator

	// Open opens the serial transport. Required for Exercise/Run.
	Open OpenFunc

	// Remediator, when set, is invoked best-effort if the device path is
	// not accessible. Its failure is logged and never fatal; the core
	// itself only reports the access problem.
	Remediator detection.PermissionRemediator

	// Logger is handed down to every component. Optional.
	Logger logrus.FieldLogger

	// Commands overrides InitSequence when non-empty.
	Commands []Command

	// VendorID and ProductID default to the package constants when zero.
	VendorID  uint16
	ProductID uint16

	// Discovery and sequencing knobs; zero values mean the defaults.
	BaudRates    []int
	SettleDelay  time.Duration
	ReadTimeout  time.Duration
	CommandDelay time.Duration
}

// RunReport is what a completed run observed.
type RunReport struct {
	Port    detection.PortInfo
	Results []CommandResult
	Link    LinkConfig
}

// Responses counts how many commands in the run drew a response.
func (r *RunReport) Responses() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Responded {
			n++
		}
	}
	return n
}

// FindPort locates the device among the enumerated ports by its USB
// vendor and product IDs. Returns detection.ErrNoDeviceFound when no
// port matches.
func (c *Client) FindPort() (*detection.PortInfo, error) {
	vid, pid := c.VendorID, c.ProductID
	if vid == 0 && pid == 0 {
		vid, pid = VendorID, ProductID
	}
	return detection.Find(c.Enumerator, vid, pid, c.Logger)
}

// Exercise runs discovery and the command sequence against a known
// port. The access check result is reported and, when a Remediator is
// configured, remediation is attempted; either way the probe itself
// still goes ahead, since the check can be stale or too strict.
func (c *Client) Exercise(ctx context.Context, port *detection.PortInfo) (*RunReport, error) {
	log := ensureLogger(c.Logger)

	if err := detection.CheckAccess(port.Path); err != nil {
		log.WithError(err).Error("device path is not accessible")
		if c.Remediator != nil {
			if rerr := c.Remediator.Remediate(port.Path); rerr != nil {
				log.WithError(rerr).Warn("permission remediation failed, continuing anyway")
			}
		}
	}

	discoverer := &Discoverer{
		Open:        c.Open,
		Logger:      c.Logger,
		BaudRates:   c.BaudRates,
		SettleDelay: c.SettleDelay,
		ReadTimeout: c.ReadTimeout,
	}
	link, err := discoverer.Discover(ctx, port.Path)
	if err != nil {
		return nil, err
	}

	results, err := c.runSequence(ctx, port.Path, link)
	if err != nil {
		return nil, err
	}

	return &RunReport{Port: *port, Link: *link, Results: results}, nil
}

// Run is FindPort followed by Exercise.
func (c *Client) Run(ctx context.Context) (*RunReport, error) {
	port, err := c.FindPort()
	if err != nil {
		return nil, err
	}
	return c.Exercise(ctx, port)
}

// runSequence reopens the port under the discovered configuration and
// drives the command sequence over it.
func (c *Client) runSequence(ctx context.Context, path string, link *LinkConfig) ([]CommandResult, error) {
	tr, err := c.Open(path, link.BaudRate)
	if err != nil {
		return nil, &TransportError{Op: "open", Port: path, Err: err}
	}
	defer func() { _ = tr.Close() }()

	if err := c.prepareTransport(tr, link); err != nil {
		return nil, &TransportError{Op: "prepare", Port: path, Err: err}
	}

	commands := c.Commands
	if len(commands) == 0 {
		commands = InitSequence()
	}

	sequencer := &Sequencer{Logger: c.Logger, Delay: c.CommandDelay}
	return sequencer.Run(ctx, tr, commands)
}

// prepareTransport applies the discovered line states and starts the
// sequence from clean buffers.
func (c *Client) prepareTransport(tr Transport, link *LinkConfig) error {
	timeout := c.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	if err := tr.SetReadTimeout(timeout); err != nil {
		return fmt.Errorf("set read timeout: %w", err)
	}
	if err := tr.SetDTR(link.DTR); err != nil {
		return fmt.Errorf("set DTR: %w", err)
	}
	if err := tr.SetRTS(link.RTS); err != nil {
		return fmt.Errorf("set RTS: %w", err)
	}
	if err := tr.ResetInputBuffer(); err != nil {
		return fmt.Errorf("reset input buffer: %w", err)
	}
	if err := tr.ResetOutputBuffer(); err != nil {
		return fmt.Errorf("reset output buffer: %w", err)
	}
	return nil
}
