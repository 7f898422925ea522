package cache

import (
	"strconv"
	"testing"
)

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int32](64)
	for i := 0; i < 32; i++ {
		c.Set("u_"+strconv.Itoa(i), int32(i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("u_16")
	}
}

func BenchmarkCacheGetOrLoad(b *testing.B) {
	c := New[string, int32](64)
	load := func() (int32, error) { return 7, nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.GetOrLoad("u_"+strconv.Itoa(i%128), load)
	}
}
