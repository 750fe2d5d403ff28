// Copyright 2026 ILA Router Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ila

import "encoding/binary"

const (
	// adjustmentOffset is the byte offset of the checksum adjustment word,
	// the last 16 bits of the identifier.
	adjustmentOffset = 14
	// flagOffset is the byte of the identifier holding the ILA type flag.
	flagOffset = 8
	// FlagBit is set in locator form and cleared in SIR form when the
	// address carries a checksum-neutral adjustment.
	FlagBit = 0x10
	// flagWord is the value the flag bit contributes to a 16-bit word sum.
	flagWord = uint16(FlagBit) << 8
)

// Flagged reports whether the flag bit is set in the identifier h. Such an
// identifier cannot be mapped checksum-neutrally, since the flag bit would
// not be restored on the way back to SIR form.
func (h Half) Flagged() bool {
	return byte(h>>56)&FlagBit != 0
}

// Modifier is the 16-bit one's complement quantity that, added to the
// adjustment word, compensates for rewriting a SIR prefix into a locator.
type Modifier uint16

// NewModifier computes the checksum-neutral modifier of the given mapping.
// The modifier M satisfies M + L - S + FlagBit = 0 in one's complement
// arithmetic, where L and S are the word sums of locator and SIR prefix.
func NewModifier(locator, sirPrefix Half) Modifier {
	sum := uint32(0xffff)
	for _, w := range locator.words() {
		sum += uint32(w)
	}
	sum += uint32(flagWord)
	for _, w := range sirPrefix.words() {
		sum += uint32(^w)
	}
	return Modifier(^fold(sum))
}

// ToSIR removes the modifier from the adjustment word and clears the flag
// bit. It is applied after the prefix is rewritten to the SIR prefix.
func (m Modifier) ToSIR(a *Address) {
	w := binary.BigEndian.Uint16(a[adjustmentOffset:])
	w = fold(uint32(w) + uint32(^uint16(m)))
	binary.BigEndian.PutUint16(a[adjustmentOffset:], w)
	a[flagOffset] &^= FlagBit
}

// ToLocator adds the modifier to the adjustment word and sets the flag bit.
// It is applied after the prefix is rewritten to the locator.
func (m Modifier) ToLocator(a *Address) {
	w := binary.BigEndian.Uint16(a[adjustmentOffset:])
	w = fold(uint32(w) + uint32(m))
	binary.BigEndian.PutUint16(a[adjustmentOffset:], w)
	a[flagOffset] |= FlagBit
}

// fold reduces a sum of 16-bit words to 16 bits with end-around carry.
func fold(sum uint32) uint16 {
	for sum>>16 != 0 {
		sum = sum&0xffff + sum>>16
	}
	return uint16(sum)
}

// WordSum returns the one's complement sum of all 16-bit words of the
// address, as it enters a transport pseudo-header checksum.
func WordSum(a *Address) uint16 {
	var sum uint32
	for i := 0; i < len(a); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(a[i:]))
	}
	return fold(sum)
}
