package decompile

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

// renderCache memoizes a function body's rendered instruction listing by
// its content hash, so re-rendering a module that shares identical
// function bodies (common in compiler-emitted trampolines and thunks)
// skips redoing the walk. The hash folds in a caller-supplied salt
// because the listing text is not a pure function of the body bytes
// alone: the Flat renderer's lines carry absolute PC addresses that shift
// with pcBase, so its caller salts with pcBase; two occurrences of the
// same body at different module offsets must not collide.
type renderCache struct {
	entries map[uint64]string
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[uint64]string)}
}

func cacheKey(body []byte, salt uint64) uint64 {
	var saltBytes [8]byte
	binary.LittleEndian.PutUint64(saltBytes[:], salt)
	h := xxhash.New()
	h.Write(saltBytes[:])
	h.Write(body)
	return h.Sum64()
}

func (c *renderCache) get(body []byte, salt uint64) (string, bool) {
	v, ok := c.entries[cacheKey(body, salt)]
	return v, ok
}

func (c *renderCache) put(body []byte, salt uint64, text string) {
	c.entries[cacheKey(body, salt)] = text
}
