package ecs

// Clock is the frame time of a World, advanced once per frame.
type Clock struct {
	// Total is the accumulated time in seconds.
	Total float32
	// Delta is the duration of the current frame in seconds.
	Delta float32
	// Frame counts calls to Advance.
	Frame uint64
}

func (c *Clock) advance(dt float32) {
	c.Delta = dt
	c.Total += dt
	c.Frame++
}
