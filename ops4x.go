package glfx

// SetViewportIndexed sets viewport index. index must be below
// MAX_VIEWPORTS; width and height must not be negative.
func (c *Context) SetViewportIndexed(index uint32, x, y, width, height float32) error {
	const op = "ViewportIndexedf"
	if err := c.require(op, FeatureViewportArray); err != nil {
		return err
	}
	if limit := c.intCap("MAX_VIEWPORTS"); int64(index) >= limit {
		return precondition(op, ErrIndexOutOfRange, "viewport %d, MAX_VIEWPORTS %d", index, limit)
	}
	if width < 0 || height < 0 {
		return precondition(op, ErrInvalidArgument, "viewport size %gx%g", width, height)
	}
	c.native.ViewportIndexedf(index, x, y, width, height)
	return c.check(op)
}

// BindImageTexture binds a level of t to an image unit for shader load
// and store. unit must be below MAX_IMAGE_UNITS.
func (c *Context) BindImageTexture(unit uint32, t *Texture, level int, access, format Enum) error {
	const op = "BindImageTexture"
	if err := c.require(op, FeatureImageLoadStore); err != nil {
		return err
	}
	if limit := c.intCap("MAX_IMAGE_UNITS"); int64(unit) >= limit {
		return precondition(op, ErrIndexOutOfRange, "image unit %d, MAX_IMAGE_UNITS %d", unit, limit)
	}
	switch access {
	case ReadOnly, WriteOnly, ReadWrite:
	default:
		return precondition(op, ErrInvalidEnum, "access 0x%04X", uint32(access))
	}
	switch format {
	case RGBA8, RGBA32F, R32F, R32UI:
	default:
		return precondition(op, ErrInvalidEnum, "image format 0x%04X", uint32(format))
	}
	if level < 0 {
		return precondition(op, ErrInvalidArgument, "level %d", level)
	}

	var id uint32
	if t != nil {
		if err := t.mustBeLive(c, op); err != nil {
			return err
		}
		var err error
		if id, err = t.Allocate(); err != nil {
			return err
		}
	}
	c.native.BindImageTexture(unit, id, int32(level), false, 0, access, format)
	return c.check(op)
}

// DispatchCompute launches x*y*z work groups of the current compute
// program. Every dimension must be at least 1.
func (c *Context) DispatchCompute(x, y, z uint32) error {
	const op = "DispatchCompute"
	if err := c.require(op, FeatureComputeShader); err != nil {
		return err
	}
	if x == 0 || y == 0 || z == 0 {
		return precondition(op, ErrInvalidArgument, "work groups %dx%dx%d", x, y, z)
	}
	c.native.DispatchCompute(x, y, z)
	return c.check(op)
}
