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

// seqInitial is the sequence byte of the first packet in a run.
const seqInitial byte = 0x80

// Sequence is the rolling packet sequence byte. The device expects the
// low seven bits to advance by one on every framed command while the
// high bit stays set. A counter starts at 0x80 and is never reset
// mid-run.
type Sequence struct {
	n byte
}

// NewSequence returns a counter at the initial value 0x80.
func NewSequence() *Sequence {
	return &Sequence{n: seqInitial}
}

// Current returns the sequence byte for the next packet.
func (s *Sequence) Current() byte {
	return s.n
}

// Advance moves the counter to its next value, wrapping the low seven
// bits and keeping the high bit set.
func (s *Sequence) Advance() {
	s.n = seqInitial | ((s.n + 1) & 0x7F)
}

// Peek returns the value the counter would hold after offset advances,
// without moving it. Used for the extra POLL packets, which are framed
// with pre-advanced sequence values.
func (s *Sequence) Peek(offset int) byte {
	return seqInitial | ((s.n + byte(offset)) & 0x7F)
}
