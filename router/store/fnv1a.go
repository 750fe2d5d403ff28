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

package store

import "github.com/ilarouter/ila/pkg/ila"

// fnv1aOffset32 is the initial state of an FNV-1a hash.
const fnv1aOffset32 uint32 = 2166136261

// hashFNV1a returns the hash state after combining state with c. To hash a
// sequence of bytes, feed the result of one call into the next.
func hashFNV1a(state uint32, c byte) uint32 {
	const prime32 = 16777619
	return (state ^ uint32(c)) * prime32
}

// HashIdentifier hashes the eight bytes of an identifier in wire order. It
// is used both to index the store and to spread flows over processors.
func HashIdentifier(id ila.Half) uint32 {
	s := fnv1aOffset32
	for shift := 56; shift >= 0; shift -= 8 {
		s = hashFNV1a(s, byte(id>>shift))
	}
	return s
}
