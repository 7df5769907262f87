// MIT License
//
// Copyright (c) 2024-2026 Peperworx
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package slab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndGet(t *testing.T) {
	s := New[string](4)
	require.True(t, s.IsEmpty())

	key, err := s.Insert("alpha")
	require.NoError(t, err)
	assert.EqualValues(t, 0, key.Index())
	assert.EqualValues(t, 0, key.Generation())
	assert.Equal(t, 1, s.Len())

	got, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "alpha", got)
}

func TestGetMisses(t *testing.T) {
	s := New[string](4)
	key, err := s.Insert("alpha")
	require.NoError(t, err)

	t.Run("out of range index", func(t *testing.T) {
		_, ok := s.Get(Key{index: 42})
		assert.False(t, ok)
	})
	t.Run("freed slot", func(t *testing.T) {
		_, removed := s.Remove(key)
		require.True(t, removed)
		_, ok := s.Get(key)
		assert.False(t, ok)
	})
	t.Run("stale generation", func(t *testing.T) {
		reused, err := s.Insert("beta")
		require.NoError(t, err)
		assert.Equal(t, key.Index(), reused.Index())
		_, ok := s.Get(key)
		assert.False(t, ok)
		got, ok := s.Get(reused)
		require.True(t, ok)
		assert.Equal(t, "beta", got)
	})
}

// Scenario from the allocator contract: capacity 2, fill, free slot 0,
// reinsert and observe the bumped generation.
func TestGenerationBumpOnReuse(t *testing.T) {
	s := New[string](2)

	kx, err := s.Insert("x")
	require.NoError(t, err)
	assert.Equal(t, Key{index: 0, generation: 0}, kx)

	ky, err := s.Insert("y")
	require.NoError(t, err)
	assert.Equal(t, Key{index: 1, generation: 0}, ky)

	_, removed := s.Remove(kx)
	require.True(t, removed)

	kz, err := s.Insert("z")
	require.NoError(t, err)
	assert.Equal(t, Key{index: 0, generation: 1}, kz)

	_, ok := s.Get(kx)
	assert.False(t, ok)

	got, ok := s.Get(kz)
	require.True(t, ok)
	assert.Equal(t, "z", got)
}

func TestLIFOReuse(t *testing.T) {
	s := New[int](4)
	ka, err := s.Insert(1)
	require.NoError(t, err)
	kb, err := s.Insert(2)
	require.NoError(t, err)

	// free A then B: B's index must come back first
	_, removed := s.Remove(ka)
	require.True(t, removed)
	_, removed = s.Remove(kb)
	require.True(t, removed)

	first, err := s.Insert(3)
	require.NoError(t, err)
	assert.Equal(t, kb.Index(), first.Index())

	second, err := s.Insert(4)
	require.NoError(t, err)
	assert.Equal(t, ka.Index(), second.Index())
}

func TestExhaustion(t *testing.T) {
	s := New[int](2)
	_, err := s.Insert(1)
	require.NoError(t, err)
	k2, err := s.Insert(2)
	require.NoError(t, err)

	_, err = s.Insert(3)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 2, s.Len())

	// unrelated slots are untouched by the failed insert
	got, ok := s.Get(k2)
	require.True(t, ok)
	assert.Equal(t, 2, got)

	// freeing makes room again without growing
	_, removed := s.Remove(k2)
	require.True(t, removed)
	k3, err := s.Insert(3)
	require.NoError(t, err)
	assert.Equal(t, Key{index: 1, generation: 1}, k3)
}

func TestIncreaseCapacity(t *testing.T) {
	t.Run("explicit additional", func(t *testing.T) {
		s := New[int](1)
		k, err := s.Insert(7)
		require.NoError(t, err)

		_, err = s.Insert(8)
		require.ErrorIs(t, err, ErrExhausted)

		s.IncreaseCapacity(3)
		assert.Equal(t, 4, s.Cap())

		_, err = s.Insert(8)
		require.NoError(t, err)

		got, ok := s.Get(k)
		require.True(t, ok)
		assert.Equal(t, 7, got)
	})
	t.Run("default doubles", func(t *testing.T) {
		s := New[int](2)
		s.IncreaseCapacity(0)
		assert.Equal(t, 4, s.Cap())
	})
	t.Run("zero capacity grows to one", func(t *testing.T) {
		s := New[int](0)
		_, err := s.Insert(1)
		require.ErrorIs(t, err, ErrExhausted)
		s.IncreaseCapacity(0)
		_, err = s.Insert(1)
		require.NoError(t, err)
	})
}

func TestRemoveNoOps(t *testing.T) {
	s := New[int](2)
	k, err := s.Insert(1)
	require.NoError(t, err)

	_, ok := s.Remove(Key{index: 9})
	assert.False(t, ok)

	v, ok := s.Remove(k)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// duplicate removal of the same key is harmless
	_, ok = s.Remove(k)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	// a stale key must not free the slot's new occupant
	reused, err := s.Insert(2)
	require.NoError(t, err)
	_, ok = s.Remove(k)
	assert.False(t, ok)
	got, ok := s.Get(reused)
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestUniqueKeys(t *testing.T) {
	s := New[int](8)
	live := make(map[Key]struct{})
	var keys []Key
	for i := 0; i < 8; i++ {
		k, err := s.Insert(i)
		require.NoError(t, err)
		_, dup := live[k]
		require.False(t, dup)
		live[k] = struct{}{}
		keys = append(keys, k)
	}

	// churn a few slots and verify no full key is ever handed out twice
	for round := 0; round < 10; round++ {
		victim := keys[round%len(keys)]
		if _, ok := s.Remove(victim); !ok {
			continue
		}
		k, err := s.Insert(round)
		require.NoError(t, err)
		_, dup := live[k]
		require.False(t, dup, "key %s issued twice", k)
		live[k] = struct{}{}
		keys[round%len(keys)] = k
	}
}

func TestGetRef(t *testing.T) {
	s := New[int](2)
	k, err := s.Insert(10)
	require.NoError(t, err)

	ref := s.GetRef(k)
	require.NotNil(t, ref)
	*ref = 11

	got, ok := s.Get(k)
	require.True(t, ok)
	assert.Equal(t, 11, got)

	_, removed := s.Remove(k)
	require.True(t, removed)
	assert.Nil(t, s.GetRef(k))
}

func TestNextKey(t *testing.T) {
	s := New[int](2)
	assert.Equal(t, Key{index: 0, generation: 0}, s.NextKey())

	k, err := s.Insert(1)
	require.NoError(t, err)
	assert.Equal(t, Key{index: 1, generation: 0}, s.NextKey())

	_, removed := s.Remove(k)
	require.True(t, removed)
	assert.Equal(t, Key{index: 0, generation: 1}, s.NextKey())

	next, err := s.Insert(2)
	require.NoError(t, err)
	assert.Equal(t, Key{index: 0, generation: 1}, next)
}

func TestShrink(t *testing.T) {
	s := New[int](16)
	k1, err := s.Insert(1)
	require.NoError(t, err)
	k2, err := s.Insert(2)
	require.NoError(t, err)

	s.Shrink()
	assert.Equal(t, 2, s.Cap())

	got, ok := s.Get(k1)
	require.True(t, ok)
	assert.Equal(t, 1, got)
	got, ok = s.Get(k2)
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestClearAndDeallocateTo(t *testing.T) {
	s := New[int](4)
	k, err := s.Insert(1)
	require.NoError(t, err)
	_, err = s.Insert(2)
	require.NoError(t, err)

	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 4, s.Cap())
	_, ok := s.Get(k)
	assert.False(t, ok)

	// a cleared slab starts generations over
	fresh, err := s.Insert(3)
	require.NoError(t, err)
	assert.Equal(t, Key{index: 0, generation: 0}, fresh)

	s.DeallocateTo(2)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 2, s.Cap())
}

func TestKeyString(t *testing.T) {
	k := Key{index: 3, generation: 7}
	assert.Equal(t, "3:7", k.String())
}
