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

import "fmt"

// STX marks the start of every packet.
const STX byte = 0x7F

const (
	// maxDataLen is the largest payload the one-byte length field can
	// represent; the length field also counts the command byte.
	maxDataLen = 254

	// minPacketLen is STX + sequence + length + command + 2 CRC bytes.
	minPacketLen = 6
)

// Checksum computes the packet CRC-16: polynomial 0x8408 applied in
// reflected form, initial register 0xFFFF, no final XOR. The device
// rejects any frame whose trailer does not match bit-for-bit.
func Checksum(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&0x0001 != 0 {
				crc >>= 1
				crc ^= 0x8408
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// BuildPacket assembles a protocol packet:
//
//	STX, sequence, len(data)+1, command, data..., CRC low, CRC high
//
// The CRC covers every byte that precedes it. Payloads larger than 254
// bytes would silently wrap the length field, so they are rejected with
// ErrDataTooLarge instead.
func BuildPacket(cmd, seq byte, data []byte) ([]byte, error) {
	if len(data) > maxDataLen {
		return nil, fmt.Errorf("%w: %d byte payload, length field holds at most %d",
			ErrDataTooLarge, len(data), maxDataLen)
	}

	pkt := make([]byte, 0, 4+len(data)+2)
	pkt = append(pkt, STX, seq, byte(len(data)+1), cmd)
	pkt = append(pkt, data...)

	crc := Checksum(pkt)
	pkt = append(pkt, byte(crc), byte(crc>>8))
	return pkt, nil
}

// ValidatePacket reports whether pkt is a well-formed packet: correct
// start marker, a length field consistent with the packet size, and a
// CRC trailer matching the recomputed checksum.
func ValidatePacket(pkt []byte) bool {
	if len(pkt) < minPacketLen || pkt[0] != STX {
		return false
	}
	if int(pkt[2]) != len(pkt)-5 {
		return false
	}
	crc := Checksum(pkt[:len(pkt)-2])
	return pkt[len(pkt)-2] == byte(crc) && pkt[len(pkt)-1] == byte(crc>>8)
}
