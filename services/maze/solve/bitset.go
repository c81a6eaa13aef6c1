// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package solve

// bitset tracks visited nodes by dense index. Cheaper than a map for the
// tight backtracking loop.
type bitset struct {
	words []uint64
}

func newBitset(n int) bitset {
	return bitset{words: make([]uint64, (n+63)/64)}
}

func (b *bitset) set(i int32) {
	b.words[i/64] |= 1 << uint(i%64)
}

func (b *bitset) clear(i int32) {
	b.words[i/64] &^= 1 << uint(i%64)
}

func (b *bitset) contains(i int32) bool {
	return b.words[i/64]&(1<<uint(i%64)) != 0
}
