//
// Copyright 2024 The mmport Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package bufpool

import (
	"testing"

	"github.com/go-mmport/port/mmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePortRef string

func (f fakePortRef) Name() string { return string(f) }

func TestMemoryPool_GetDrainsThenReturnsENOMEM(t *testing.T) {
	alloc := NewMemoryAllocator()
	pool, err := alloc.Create(fakePortRef("p"), 2, 16)
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Len())

	_, err = pool.Get()
	require.NoError(t, err)
	_, err = pool.Get()
	require.NoError(t, err)

	_, err = pool.Get()
	require.Error(t, err)
	assert.True(t, mmerr.Is(err, mmerr.ENOMEM))
}

func TestMemoryPool_ReleaseRequeues(t *testing.T) {
	alloc := NewMemoryAllocator()
	pool, err := alloc.Create(fakePortRef("p"), 1, 16)
	require.NoError(t, err)

	buf, err := pool.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, pool.Len())

	buf.Release()
	assert.Equal(t, 1, pool.Len())
}

// TestMemoryPool_CallbackConvention verifies the "true means keep in
// pool" convention: a callback returning false should prevent the
// buffer from being requeued (it claims to have resubmitted it
// elsewhere itself), while true requeues it normally.
func TestMemoryPool_CallbackConvention(t *testing.T) {
	alloc := NewMemoryAllocator()
	pool, err := alloc.Create(fakePortRef("p"), 1, 16)
	require.NoError(t, err)

	buf, err := pool.Get()
	require.NoError(t, err)

	pool.SetCallback(func(Pool, *BufferHeader, any) bool { return false }, nil)
	buf.Release()
	assert.Equal(t, 0, pool.Len(), "callback returning false must not requeue")

	buf2 := &BufferHeader{pool: pool.(*MemoryPool)}
	pool.SetCallback(func(Pool, *BufferHeader, any) bool { return true }, nil)
	buf2.Release()
	assert.Equal(t, 1, pool.Len(), "callback returning true must requeue")
}

func TestMemoryPool_DestroyClearsQueue(t *testing.T) {
	alloc := NewMemoryAllocator()
	pool, err := alloc.Create(fakePortRef("p"), 3, 16)
	require.NoError(t, err)

	alloc.Destroy(pool)
	assert.Equal(t, 0, pool.Len())
}
