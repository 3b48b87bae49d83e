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

// DefaultCommandDelay is the pause between writing a command and reading
// its response.
const DefaultCommandDelay = 500 * time.Millisecond

// extraPolls is how many additional POLL packets follow a POLL that drew
// a response.
const extraPolls = 3

// Command pairs a protocol opcode with a loggable name and an optional
// payload.
type Command struct {
	Name string
	Data []byte
	Code byte
}

// InitSequence returns the bring-up sequence the device expects once a
// working link configuration is known.
func InitSequence() []Command {
	return []Command{
		{Name: "SYNC", Code: CmdSync},
		{Name: "SETUP_REQUEST", Code: CmdSetupRequest},
		{Name: "ENABLE", Code: CmdEnable},
		{Name: "POLL", Code: CmdPoll},
	}
}

// CommandResult records one framed command and whether the device said
// anything back. Response content is kept for logging only, never
// interpreted.
type CommandResult struct {
	Name      string
	Response  []byte
	Code      byte
	Sequence  byte
	Responded bool
}

// Sequencer drives an ordered command sequence over an established
// link. Unlike discovery, a transport fault here is fatal to the run:
// the sequence aborts and the fault is surfaced to the caller. A
// missing response is an observation, not an error.
type Sequencer struct {
	// Logger receives per-command progress. Optional.
	Logger logrus.FieldLogger

	// Delay defaults to DefaultCommandDelay when zero.
	Delay time.Duration
}

// Run sends commands in order, toggling the sequence counter after each
// one regardless of outcome. When a POLL draws a response, three extra
// POLL packets follow immediately, framed with pre-advanced sequence
// values; their outcomes are recorded independently and a missed
// response does not cut the sub-sequence short.
//
// The returned results cover every command that was framed before an
// error, so callers can see how far the run got.
func (s *Sequencer) Run(ctx context.Context, tr Transport, commands []Command) ([]CommandResult, error) {
	log := ensureLogger(s.Logger)
	seq := NewSequence()
	results := make([]CommandResult, 0, len(commands)+extraPolls)

	for _, cmd := range commands {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		res, err := s.exchange(tr, cmd, seq.Current(), log)
		results = append(results, res)
		if err != nil {
			return results, err
		}

		if cmd.Code == CmdPoll && res.Responded {
			log.Info("POLL answered, sending extra POLL packets")
			for i := 0; i < extraPolls; i++ {
				extra := Command{Name: fmt.Sprintf("POLL #%d", i+1), Code: CmdPoll}
				res, err := s.exchange(tr, extra, seq.Peek(i+1), log)
				results = append(results, res)
				if err != nil {
					return results, err
				}
			}
		}

		seq.Advance()
	}

	return results, nil
}

// exchange frames and writes one command, waits the inter-command
// delay, then reads up to readLimit bytes to decide response presence.
func (s *Sequencer) exchange(tr Transport, cmd Command, seqByte byte, log logrus.FieldLogger) (CommandResult, error) {
	res := CommandResult{Name: cmd.Name, Code: cmd.Code, Sequence: seqByte}

	pkt, err := BuildPacket(cmd.Code, seqByte, cmd.Data)
	if err != nil {
		return res, err
	}

	cmdLog := log.WithFields(logrus.Fields{
		"command": cmd.Name,
		"opcode":  fmt.Sprintf("0x%02X", cmd.Code),
		"packet":  fmt.Sprintf("%X", pkt),
	})
	cmdLog.Info("sending command")

	if _, err := tr.Write(pkt); err != nil {
		return res, &TransportError{Op: "write " + cmd.Name, Err: err}
	}

	time.Sleep(s.delay())

	buf := make([]byte, readLimit)
	n, err := tr.Read(buf)
	if err != nil {
		return res, &TransportError{Op: "read " + cmd.Name + " response", Err: err}
	}

	if n > 0 {
		res.Responded = true
		res.Response = append([]byte(nil), buf[:n]...)
		cmdLog.WithField("response", fmt.Sprintf("%X", res.Response)).Info("response received")
	} else {
		cmdLog.Warn("no response")
	}

	return res, nil
}

func (s *Sequencer) delay() time.Duration {
	if s.Delay > 0 {
		return s.Delay
	}
	return DefaultCommandDelay
}
