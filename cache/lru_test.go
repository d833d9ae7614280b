package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUOrder(t *testing.T) {
	var l lruList[int]
	a := l.PushFront(1)
	l.PushFront(2)
	l.PushFront(3)
	require.Equal(t, 3, l.Len())

	l.MoveToFront(a)

	var order []int
	for {
		k, ok := l.RemoveOldest()
		if !ok {
			break
		}
		order = append(order, k)
	}
	assert.Equal(t, []int{2, 3, 1}, order)
	assert.Equal(t, 0, l.Len())
}

func TestLRURemove(t *testing.T) {
	var l lruList[string]
	l.PushFront("a")
	b := l.PushFront("b")
	l.PushFront("c")

	l.Remove(b)
	l.Remove(nil)
	assert.Equal(t, 2, l.Len())

	k, ok := l.RemoveOldest()
	assert.True(t, ok)
	assert.Equal(t, "a", k)

	l.Clear()
	_, ok = l.RemoveOldest()
	assert.False(t, ok)
}

func TestLRUMoveHead(t *testing.T) {
	var l lruList[int]
	l.PushFront(1)
	head := l.PushFront(2)
	l.MoveToFront(head)
	assert.Equal(t, 2, l.Len())

	k, _ := l.RemoveOldest()
	assert.Equal(t, 1, k)
}
