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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransport_ResponderAnswersLastWrite(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport(func(cmd byte, _, _ bool) []byte {
		if cmd == CmdSync {
			return []byte{0x7F, 0x80, 0x01, 0xF0}
		}
		return nil
	})

	pkt, err := BuildPacket(CmdSync, 0x80, nil)
	require.NoError(t, err)
	_, err = mock.Write(pkt)
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := mock.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7F, 0x80, 0x01, 0xF0}, buf[:n])

	// Drained: the next read times out.
	n, err = mock.Read(buf)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMockTransport_SilentWhenResponderNil(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport(nil)

	pkt, err := BuildPacket(CmdSync, 0x80, nil)
	require.NoError(t, err)
	_, err = mock.Write(pkt)
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := mock.Read(buf)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMockTransport_ResponderSeesLineStates(t *testing.T) {
	t.Parallel()

	var gotDTR, gotRTS bool
	mock := NewMockTransport(func(_ byte, dtr, rts bool) []byte {
		gotDTR, gotRTS = dtr, rts
		return nil
	})

	require.NoError(t, mock.SetDTR(true))
	require.NoError(t, mock.SetRTS(false))

	pkt, err := BuildPacket(CmdReset, 0x80, nil)
	require.NoError(t, err)
	_, err = mock.Write(pkt)
	require.NoError(t, err)

	assert.True(t, gotDTR)
	assert.False(t, gotRTS)

	dtr, rts := mock.Lines()
	assert.True(t, dtr)
	assert.False(t, rts)
}

func TestMockTransport_FlushDiscardsPending(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport(func(_ byte, _, _ bool) []byte {
		return []byte{0x01, 0x02}
	})

	pkt, err := BuildPacket(CmdSync, 0x80, nil)
	require.NoError(t, err)
	_, err = mock.Write(pkt)
	require.NoError(t, err)

	require.NoError(t, mock.ResetInputBuffer())
	require.NoError(t, mock.ResetOutputBuffer())
	assert.Equal(t, 2, mock.FlushCount())

	buf := make([]byte, 64)
	n, err := mock.Read(buf)
	require.NoError(t, err)
	assert.Zero(t, n, "flushed data must not be readable")
}

func TestMockTransport_ErrorInjection(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport(nil)
	writeErr := errors.New("write fault")
	readErr := errors.New("read fault")

	mock.SetWriteError(writeErr)
	_, err := mock.Write([]byte{0x7F})
	require.ErrorIs(t, err, writeErr)
	assert.Zero(t, mock.WriteCount(), "failed writes must not be recorded")

	mock.SetWriteError(nil)
	mock.SetReadError(readErr)
	_, err = mock.Read(make([]byte, 8))
	require.ErrorIs(t, err, readErr)
}

func TestMockTransport_ClosedRejectsIO(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport(nil)
	require.NoError(t, mock.Close())
	assert.True(t, mock.Closed())

	_, err := mock.Write([]byte{0x7F})
	require.Error(t, err)
	_, err = mock.Read(make([]byte, 8))
	require.Error(t, err)
}
