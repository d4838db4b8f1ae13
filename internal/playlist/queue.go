// Package playlist tracks the current position in the track list along
// with the shuffle and repeat modes.
package playlist

import (
	"math/rand/v2"
	"sync"
)

// Queue is a cursor over n tracks. The zero value is unusable; use New.
type Queue struct {
	mu      sync.Mutex
	n       int
	current int
	shuffle bool
	repeat  bool
	rng     *rand.Rand
}

// New returns a queue over n tracks positioned at the first one. rng may be
// nil, in which case shuffling uses the global source.
func New(n int, rng *rand.Rand) *Queue {
	return &Queue{n: max(n, 0), rng: rng}
}

// Reset replaces the track count. The cursor is kept when still in range.
func (q *Queue) Reset(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.n = max(n, 0)
	if q.current >= q.n {
		q.current = 0
	}
}

// Len returns the number of tracks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Current returns the cursor, or -1 when the queue is empty.
func (q *Queue) Current() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == 0 {
		return -1
	}
	return q.current
}

// Select moves to i. Out-of-range indices are ignored.
func (q *Queue) Select(i int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < 0 || i >= q.n {
		return false
	}
	q.current = i
	return true
}

// Previous steps back, wrapping to the last track.
func (q *Queue) Previous() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == 0 {
		return -1
	}
	q.current--
	if q.current < 0 {
		q.current = q.n - 1
	}
	return q.current
}

// Next advances to the following track, or a random one when shuffling.
func (q *Queue) Next() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.nextLocked()
}

// Finish picks what plays after the current track ends: the same track
// when repeating, otherwise Next.
func (q *Queue) Finish() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == 0 {
		return -1
	}
	if q.repeat {
		return q.current
	}
	return q.nextLocked()
}

// ToggleShuffle flips shuffle mode and returns the new state.
func (q *Queue) ToggleShuffle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.shuffle = !q.shuffle
	return q.shuffle
}

// ToggleRepeat flips repeat mode and returns the new state.
func (q *Queue) ToggleRepeat() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.repeat = !q.repeat
	return q.repeat
}

// Shuffle reports whether shuffle mode is on.
func (q *Queue) Shuffle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.shuffle
}

// Repeat reports whether repeat mode is on.
func (q *Queue) Repeat() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repeat
}

func (q *Queue) nextLocked() int {
	if q.n == 0 {
		return -1
	}
	if q.shuffle {
		q.current = q.intN(q.n)
	} else {
		q.current = (q.current + 1) % q.n
	}
	return q.current
}

func (q *Queue) intN(n int) int {
	if q.rng != nil {
		return q.rng.IntN(n)
	}
	return rand.IntN(n)
}
