package glfx

// SetPatchVertices sets the number of vertices per tessellation patch.
// n must lie in [1, MAX_PATCH_VERTICES].
func (c *Context) SetPatchVertices(n int) error {
	const op = "PatchParameteri(PATCH_VERTICES)"
	if err := c.require(op, FeatureTessellation); err != nil {
		return err
	}
	limit := c.intCap("MAX_PATCH_VERTICES")
	if n < 1 || int64(n) > limit {
		return precondition(op, ErrIndexOutOfRange, "%d vertices, MAX_PATCH_VERTICES %d", n, limit)
	}
	c.native.PatchParameteri(PatchVertices, int32(n))
	return c.check(op)
}

// SetPatchDefaultOuterLevel sets the outer tessellation levels used when
// no control shader is bound.
func (c *Context) SetPatchDefaultOuterLevel(levels [4]float32) error {
	const op = "PatchParameterfv(PATCH_DEFAULT_OUTER_LEVEL)"
	if err := c.require(op, FeatureTessellation); err != nil {
		return err
	}
	c.native.PatchParameterfv(PatchDefaultOuterLevel, levels[:])
	return c.check(op)
}

// SetPatchDefaultInnerLevel sets the inner tessellation levels used when
// no control shader is bound.
func (c *Context) SetPatchDefaultInnerLevel(levels [2]float32) error {
	const op = "PatchParameterfv(PATCH_DEFAULT_INNER_LEVEL)"
	if err := c.require(op, FeatureTessellation); err != nil {
		return err
	}
	c.native.PatchParameterfv(PatchDefaultInnerLevel, levels[:])
	return c.check(op)
}
