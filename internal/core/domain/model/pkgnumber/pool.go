package pkgnumber

import "math/bits"

const words = (MaxNumber + 63) / 64

// Pool is the in-use set of a single mailroom, stored as a bitset where bit
// i-1 stands for number i. Pool is not safe for concurrent use.
type Pool struct {
	used  [words]uint64
	count int
}

// NewPool returns a pool with every number available.
func NewPool() *Pool {
	return &Pool{}
}

// Acquire marks the smallest available number as in use and returns it.
// The mailroom id is only used to describe the failure.
func (p *Pool) Acquire(mailroomID string) (Number, error) {
	for w := range p.used {
		free := ^p.used[w]
		if free == 0 {
			continue
		}
		bit := bits.TrailingZeros64(free)
		v := w*64 + bit + 1
		if v > MaxNumber {
			break
		}
		p.used[w] |= 1 << uint(bit)
		p.count++
		return Number{value: v}, nil
	}
	return Number{}, NewPoolExhaustedError(mailroomID)
}

// Reserve marks n as in use. It reports false when n was already in use.
// Used when rebuilding a pool from the packages currently on the shelf.
func (p *Pool) Reserve(n Number) bool {
	if n.IsZero() {
		return false
	}
	w, mask := slot(n)
	if p.used[w]&mask != 0 {
		return false
	}
	p.used[w] |= mask
	p.count++
	return true
}

// Release returns n to the pool. It reports false when n was already
// available, so a retried release never double counts.
func (p *Pool) Release(n Number) bool {
	if n.IsZero() {
		return false
	}
	w, mask := slot(n)
	if p.used[w]&mask == 0 {
		return false
	}
	p.used[w] &^= mask
	p.count--
	return true
}

func (p *Pool) InUse(n Number) bool {
	if n.IsZero() {
		return false
	}
	w, mask := slot(n)
	return p.used[w]&mask != 0
}

// Len is the number of numbers in use.
func (p *Pool) Len() int {
	return p.count
}

// Available is the number of numbers that can still be acquired.
func (p *Pool) Available() int {
	return Capacity - p.count
}

// Numbers lists the numbers in use in ascending order.
func (p *Pool) Numbers() []Number {
	out := make([]Number, 0, p.count)
	for w, word := range p.used {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			out = append(out, Number{value: w*64 + bit + 1})
			word &^= 1 << uint(bit)
		}
	}
	return out
}

func slot(n Number) (int, uint64) {
	i := n.value - 1
	return i / 64, 1 << uint(i%64)
}
