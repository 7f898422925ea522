// Package cache provides the bounded lookup cache glfx uses for per-program
// bookkeeping, such as uniform name to location maps.
//
//	c := cache.New[string, int32](64)
//	loc, err := c.GetOrLoad("u_mvp", func() (int32, error) {
//	    return native.GetUniformLocation(program, "u_mvp"), nil
//	})
//
// Entries are evicted least recently used first once the limit is exceeded.
// Purge drops every entry and is used when the owning object's native state
// is replaced wholesale (relink, binary upload).
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
