package bridge

// Snapshot is a host-owned copy of the last research record a context
// processed. Unlike the borrowed Research view it survives the call.
type Snapshot struct {
	Signals       int32
	Opportunities int32
	Strength      float64
	PriceMin      float64
	PriceMax      float64
	Liquidity     int64
	Strategy      string
	Timeframe     string
}

// Context is the per-session state behind a handle: the current research
// snapshot, the posts generated so far, and the boundary allocations made
// on the context's behalf. A context is bound to one caller at a time;
// nothing here is synchronized.
type Context struct {
	research *Snapshot
	posts    []Post
	allocs   *AllocationList
}

func newContext() *Context {
	return &Context{
		allocs: NewAllocationList(),
	}
}

// remember copies the borrowed view into the context's snapshot.
func (c *Context) remember(r *Research) {
	c.research = &Snapshot{
		Signals:       r.Signals,
		Opportunities: r.Opportunities,
		Strength:      r.Strength,
		PriceMin:      r.PriceMin,
		PriceMax:      r.PriceMax,
		Liquidity:     r.Liquidity,
		Strategy:      string(r.Strategy),
		Timeframe:     string(r.Timeframe),
	}
}

// Research returns the context's current snapshot, or nil before the first
// successful operation that took a record.
func (c *Context) Research() *Snapshot {
	return c.research
}

// Posts returns the posts generated through this context, oldest first.
// The slice is the context's own; callers must not mutate it.
func (c *Context) Posts() []Post {
	return c.posts
}
