package command

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueuePushDrainOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Order{House: 0, Kind: KindMove})
	q.Push(Order{House: 1, Kind: KindAttack})
	q.Push(Order{House: 0, Kind: KindStop})

	got := q.Drain()
	assert.Len(t, got, 3)
	assert.Equal(t, KindMove, got[0].Kind)
	assert.Equal(t, KindAttack, got[1].Kind)
	assert.Equal(t, KindStop, got[2].Kind)
	assert.Equal(t, 0, q.Len())

	assert.Empty(t, q.Drain(), "second drain finds nothing")
}

func TestQueueConcurrentPush(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(Order{Kind: KindGuard})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, q.Len())
	assert.Len(t, q.Drain(), 800)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "move", KindMove.String())
	assert.Equal(t, "produce", KindProduce.String())
	assert.Equal(t, "place", KindPlace.String())
}
