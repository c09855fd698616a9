package animation

// arena is a growth-only store of records addressed by index.
// Released slots go on a free-list and are handed out again before the arena grows.
// Pointers returned by at are invalidated by the next acquire.
type arena[T any] struct {
	items []T
	free  []int32
}

func (a *arena[T]) acquire() int32 {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return idx
	}
	var zero T
	a.items = append(a.items, zero)
	return int32(len(a.items) - 1)
}

func (a *arena[T]) release(idx int32) {
	var zero T
	a.items[idx] = zero
	a.free = append(a.free, idx)
}

func (a *arena[T]) at(idx int32) *T {
	return &a.items[idx]
}

// PoolStats describes an arena's size
type PoolStats struct {
	Allocated int // records ever created
	Free      int // records waiting for reuse
}

func (a *arena[T]) stats() PoolStats {
	return PoolStats{Allocated: len(a.items), Free: len(a.free)}
}
