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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence_StartsAtInitialValue(t *testing.T) {
	t.Parallel()

	seq := NewSequence()
	assert.Equal(t, byte(0x80), seq.Current())
}

func TestSequence_AdvanceToggles(t *testing.T) {
	t.Parallel()

	seq := NewSequence()
	want := []byte{0x80, 0x81, 0x82, 0x83, 0x84}
	for _, w := range want {
		assert.Equal(t, w, seq.Current())
		seq.Advance()
	}
}

func TestSequence_WrapsModulo128(t *testing.T) {
	t.Parallel()

	seq := NewSequence()
	for i := 0; i < 127; i++ {
		seq.Advance()
	}
	assert.Equal(t, byte(0xFF), seq.Current())

	seq.Advance()
	assert.Equal(t, byte(0x80), seq.Current())
}

func TestSequence_HighBitAlwaysSet(t *testing.T) {
	t.Parallel()

	seq := NewSequence()
	for i := 0; i < 300; i++ {
		assert.Equal(t, byte(0x80), seq.Current()&0x80, "high bit lost after %d advances", i)
		seq.Advance()
	}
}

func TestSequence_PeekDoesNotAdvance(t *testing.T) {
	t.Parallel()

	seq := NewSequence()
	seq.Advance()
	seq.Advance()
	seq.Advance() // counter now 0x83

	assert.Equal(t, byte(0x84), seq.Peek(1))
	assert.Equal(t, byte(0x85), seq.Peek(2))
	assert.Equal(t, byte(0x86), seq.Peek(3))
	assert.Equal(t, byte(0x83), seq.Current())
}

func TestSequence_PeekWraps(t *testing.T) {
	t.Parallel()

	seq := NewSequence()
	for i := 0; i < 126; i++ {
		seq.Advance()
	}
	// counter now 0xFE
	assert.Equal(t, byte(0xFF), seq.Peek(1))
	assert.Equal(t, byte(0x80), seq.Peek(2))
	assert.Equal(t, byte(0x81), seq.Peek(3))
}
