package feed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/golang/groupcache"

	"github.com/ancientlore/inkwell/store"
)

// Source provides the posts a feed is built from.
type Source interface {
	Snapshot() store.Snapshot
	Generation() uint64
}

// Cache renders the feed once per store generation and keeps the bytes in a
// groupcache group, so unchanged posts are never re-encoded.
type Cache struct {
	channel Channel
	source  Source
	group   *groupcache.Group
	renders atomic.Int64
}

var groupSeq atomic.Int64

// NewCache creates a Cache backed by a new groupcache group. groupcache
// group names are process wide; an empty name picks a unique one.
func NewCache(name string, sizeInBytes int64, ch Channel, src Source) *Cache {
	if name == "" {
		name = fmt.Sprintf("inkwell-feed-%d", groupSeq.Add(1))
	}
	c := &Cache{channel: ch, source: src}
	c.group = groupcache.NewGroup(name, sizeInBytes, groupcache.GetterFunc(
		func(ctx context.Context, key string, dest groupcache.Sink) error {
			if _, err := url.ParseQuery(key); err != nil {
				return errors.Wrap(err, "invalid feed cache key")
			}
			// If the store moved on since the key was built, the newer
			// posts are still the right answer.
			b, err := Render(c.channel, c.source.Snapshot().Posts)
			if err != nil {
				return err
			}
			c.renders.Add(1)
			return dest.SetBytes(b)
		}))
	return c
}

// Get returns the feed for the current store generation.
func (c *Cache) Get(ctx context.Context) ([]byte, error) {
	q := make(url.Values, 1)
	q.Set("g", strconv.FormatUint(c.source.Generation(), 10))
	var b []byte
	if err := c.group.Get(ctx, q.Encode(), groupcache.AllocatingByteSliceSink(&b)); err != nil {
		return nil, errors.Wrap(err, "building feed")
	}
	return b, nil
}

// Renders reports how many times the feed has been encoded.
func (c *Cache) Renders() int64 {
	return c.renders.Load()
}
