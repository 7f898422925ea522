package glfx

// Query is a native query object.
type Query struct {
	Handle
	active *queryKey
}

// queryKey identifies one indexed query slot.
type queryKey struct {
	target Enum
	index  uint32
}

// Active reports whether q is between Begin and End.
func (q *Query) Active() bool { return q.active != nil }

// Release deletes the native query. A running query is ended by the
// deletion and its slot becomes free.
func (q *Query) Release() {
	if q.active != nil && q.ctx != nil {
		delete(q.ctx.activeQueries, *q.active)
		q.active = nil
	}
	q.Handle.Release()
}

// Result returns the query result, waiting for it if necessary.
func (q *Query) Result() (uint64, error) {
	const op = "GetQueryObjectui64v"
	c := q.ctx
	if c.closed {
		return 0, ErrContextClosed
	}
	if q.active != nil {
		return 0, precondition(op, ErrQueryActive, "result of an active query")
	}
	if err := q.mustBeLive(c, op); err != nil {
		return 0, err
	}
	id := q.ID()
	if id == 0 {
		return 0, precondition(op, ErrInvalidArgument, "query %s", q.Handle.State())
	}
	v := c.native.GetQueryObjectUint64(id, QueryResult)
	if err := c.check(op); err != nil {
		return 0, err
	}
	return v, nil
}

// queryIndexBound returns the number of indices target accepts.
func (c *Context) queryIndexBound(target Enum) (uint32, bool) {
	switch target {
	case PrimitivesGenerated, TransformFeedbackPrimitivesWritten:
		return uint32(c.intCap("MAX_VERTEX_STREAMS")), true
	case SamplesPassed, AnySamplesPassed, TimeElapsed:
		return 1, true
	default:
		return 0, false
	}
}

// validateQuerySlot checks target and index against the context limits.
func (c *Context) validateQuerySlot(op string, target Enum, index uint32) error {
	if err := c.require(op, FeatureIndexedQuery); err != nil {
		return err
	}
	bound, ok := c.queryIndexBound(target)
	if !ok {
		return precondition(op, ErrInvalidEnum, "query target 0x%04X", uint32(target))
	}
	if index >= bound {
		return precondition(op, ErrIndexOutOfRange, "index %d, target 0x%04X accepts %d", index, uint32(target), bound)
	}
	return nil
}

// BeginQueryIndexed starts q on the target/index slot. Only one query may
// be active per slot.
func (c *Context) BeginQueryIndexed(target Enum, index uint32, q *Query) error {
	const op = "BeginQueryIndexed"
	if err := c.validateQuerySlot(op, target, index); err != nil {
		return err
	}
	if q == nil {
		return precondition(op, ErrInvalidArgument, "nil query")
	}
	if err := q.mustBeLive(c, op); err != nil {
		return err
	}
	key := queryKey{target: target, index: index}
	if _, busy := c.activeQueries[key]; busy {
		return precondition(op, ErrQueryActive, "target 0x%04X index %d", uint32(target), index)
	}
	if q.active != nil {
		return precondition(op, ErrQueryActive, "query already running on target 0x%04X index %d", uint32(q.active.target), q.active.index)
	}
	id, err := q.Allocate()
	if err != nil {
		return err
	}
	c.native.BeginQueryIndexed(target, index, id)
	if err := c.check(op); err != nil {
		return err
	}
	c.activeQueries[key] = q
	q.active = &key
	return nil
}

// EndQueryIndexed ends the query active on the target/index slot.
func (c *Context) EndQueryIndexed(target Enum, index uint32) error {
	const op = "EndQueryIndexed"
	if err := c.validateQuerySlot(op, target, index); err != nil {
		return err
	}
	key := queryKey{target: target, index: index}
	q, ok := c.activeQueries[key]
	if !ok {
		return precondition(op, ErrQueryInactive, "target 0x%04X index %d", uint32(target), index)
	}
	c.native.EndQueryIndexed(target, index)
	delete(c.activeQueries, key)
	q.active = nil
	return c.check(op)
}
