// Package slots stores values in fixed-size blocks addressed by
// generation-checked keys. A key packs the slot generation in its upper 32
// bits and the slot index in its lower 32 bits; the zero key is never issued.
package slots

import "iter"

const BlockSize = 64

// Store keeps values of type T in blocks so pointers handed out stay valid
// while storage grows. Every reuse of a slot bumps its generation, so keys
// to the previous occupant stop resolving.
type Store[K ~uint64, T any] struct {
	blocks    [][BlockSize]T
	filled    [][BlockSize]bool
	gens      [][BlockSize]uint32
	freeSlots []int
	nextIndex int
	live      int
}

func key[K ~uint64](generation uint32, index int) K {
	return K(uint64(generation)<<32 | uint64(uint32(index)))
}

func locate[K ~uint64](k K) (index, blockIdx, slotIdx int) {
	index = int(uint32(k))
	return index, index / BlockSize, index % BlockSize
}

func (s *Store[K, T]) Insert(item T) (K, *T) {
	var index int
	if len(s.freeSlots) > 0 {
		index = s.freeSlots[len(s.freeSlots)-1]
		s.freeSlots = s.freeSlots[:len(s.freeSlots)-1]
	} else {
		index = s.nextIndex
		s.nextIndex++

		if index/BlockSize >= len(s.blocks) {
			s.blocks = append(s.blocks, [BlockSize]T{})
			s.filled = append(s.filled, [BlockSize]bool{})
			s.gens = append(s.gens, [BlockSize]uint32{})
		}
	}

	blockIdx := index / BlockSize
	slotIdx := index % BlockSize

	s.gens[blockIdx][slotIdx]++
	s.blocks[blockIdx][slotIdx] = item
	s.filled[blockIdx][slotIdx] = true
	s.live++

	return key[K](s.gens[blockIdx][slotIdx], index), &s.blocks[blockIdx][slotIdx]
}

// Get returns the value for k, or nil if k is stale or was never issued.
func (s *Store[K, T]) Get(k K) *T {
	if k == 0 {
		return nil
	}
	_, blockIdx, slotIdx := locate(k)
	if blockIdx >= len(s.blocks) {
		return nil
	}
	if !s.filled[blockIdx][slotIdx] || s.gens[blockIdx][slotIdx] != uint32(k>>32) {
		return nil
	}
	return &s.blocks[blockIdx][slotIdx]
}

func (s *Store[K, T]) Remove(k K) (T, bool) {
	var zero T
	item := s.Get(k)
	if item == nil {
		return zero, false
	}
	removed := *item

	index, blockIdx, slotIdx := locate(k)
	s.filled[blockIdx][slotIdx] = false
	s.blocks[blockIdx][slotIdx] = zero
	s.freeSlots = append(s.freeSlots, index)
	s.live--
	return removed, true
}

// Reset frees every slot. Generations survive so old keys stay dead.
func (s *Store[K, T]) Reset() {
	for k := range s.All() {
		s.Remove(k)
	}
}

func (s *Store[K, T]) All() iter.Seq2[K, *T] {
	return func(yield func(K, *T) bool) {
		for i := 0; i < s.nextIndex; i++ {
			blockIdx := i / BlockSize
			slotIdx := i % BlockSize

			if !s.filled[blockIdx][slotIdx] {
				continue
			}
			if !yield(key[K](s.gens[blockIdx][slotIdx], i), &s.blocks[blockIdx][slotIdx]) {
				return
			}
		}
	}
}

func (s *Store[K, T]) Len() int {
	return s.live
}

func (s *Store[K, T]) FreeSlots() int {
	return len(s.freeSlots)
}

func (s *Store[K, T]) Blocks() int {
	return len(s.blocks)
}

func (s *Store[K, T]) Capacity() int {
	return len(s.blocks) * BlockSize
}
