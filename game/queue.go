package game

import (
	"errors"
	"math/rand/v2"

	"github.com/plus3/suika/rank"
)

// SpawnQueue is the two-deep preview of upcoming droppable ranks. Both slots
// always hold a rank in [0, droppable).
type SpawnQueue struct {
	droppable   int
	rng         *rand.Rand
	next        rank.Rank
	afterNext   rank.Rank
	subscribers []func(next, afterNext rank.Rank)
}

// NewSpawnQueue fills both slots with independent draws from rng.
func NewSpawnQueue(droppable int, rng *rand.Rand) (*SpawnQueue, error) {
	if droppable <= 0 {
		return nil, errors.New("droppable rank count must be positive")
	}
	if rng == nil {
		return nil, errors.New("spawn queue needs a random source")
	}

	q := &SpawnQueue{droppable: droppable, rng: rng}
	q.next = q.draw()
	q.afterNext = q.draw()
	return q, nil
}

func (q *SpawnQueue) draw() rank.Rank {
	return rank.Rank(q.rng.IntN(q.droppable))
}

func (q *SpawnQueue) PeekNext() rank.Rank {
	return q.next
}

func (q *SpawnQueue) PeekAfterNext() rank.Rank {
	return q.afterNext
}

// Droppable is the number of ranks the queue draws from.
func (q *SpawnQueue) Droppable() int {
	return q.droppable
}

// Advance consumes the next rank, shifts the preview and draws a new
// after-next. Subscribers are notified with the new pair.
func (q *SpawnQueue) Advance() (rank.Rank, error) {
	if q == nil || q.rng == nil || q.droppable <= 0 {
		return 0, ErrQueueExhausted
	}

	consumed := q.next
	q.next = q.afterNext
	q.afterNext = q.draw()

	for _, fn := range q.subscribers {
		fn(q.next, q.afterNext)
	}
	return consumed, nil
}

// Subscribe registers fn to be called after every Advance.
func (q *SpawnQueue) Subscribe(fn func(next, afterNext rank.Rank)) {
	q.subscribers = append(q.subscribers, fn)
}
