package geotable

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TableCache keeps loaded tables in memory with LRU eviction.
//
// The cache stores fully read tables and evicts the least recently used
// ones when the memory limit is exceeded. Tables are loaded on demand and
// frequently used ones stay at hand.
//
// Memory use is estimated from the column arrays and trailing text of
// each table. Concurrent loads of the same name share one read, and every
// caller receives the same *Table. Treat cached tables as read-only:
// queries such as SegmentsInBounds may run concurrently, mutators may not.
//
// Example:
//
//	cache := geotable.NewTableCache(256 << 20) // 256MB
//
//	t, err := cache.Load(ctx, geotable.FileSource{Root: "surveys"}, "leg01.txt", geotable.DefaultReadOptions())
type TableCache struct {
	maxMemory  int64
	usedMemory int64
	tables     map[string]*cacheEntry
	lru        *list.List // most recent at front
	mu         sync.Mutex

	loads singleflight.Group
}

type cacheEntry struct {
	name         string
	table        *Table
	memorySize   int64
	element      *list.Element
	lastAccessed time.Time
	accessCount  int
}

// CacheStats reports cache occupancy.
type CacheStats struct {
	TableCount  int
	UsedMemory  int64
	MaxMemory   int64
	TotalAccess int
}

// NewTableCache creates a cache holding up to maxMemoryBytes of tables.
//
// The limit is approximate: usage may exceed it while a table is being
// read. Set it to 0 for an unlimited cache.
//
// Example:
//
//	cache := geotable.NewTableCache(512 << 20) // 512MB
func NewTableCache(maxMemoryBytes int64) *TableCache {
	return &TableCache{
		maxMemory: maxMemoryBytes,
		tables:    make(map[string]*cacheEntry),
		lru:       list.New(),
	}
}

// Get returns the cached table called name, calling loader on a miss.
//
// A hit moves the table to the front of the LRU list. On a miss loader is
// called once, however many goroutines ask for name at the same time,
// and the result is cached, evicting least recently used tables to make
// room. A table too large for the cache is returned without being cached.
//
// Example:
//
//	t, err := cache.Get("leg01", func() (*geotable.Table, error) {
//	    return geotable.ReadFile("surveys/leg01.txt", geotable.DefaultReadOptions())
//	})
func (c *TableCache) Get(name string, loader func() (*Table, error)) (*Table, error) {
	if t, ok := c.lookup(name); ok {
		return t, nil
	}

	v, err, _ := c.loads.Do(name, func() (any, error) {
		if t, ok := c.lookup(name); ok {
			return t, nil
		}
		t, err := loader()
		if err != nil {
			return nil, err
		}
		c.Add(name, t)
		return t, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load table %s: %w", name, err)
	}
	return v.(*Table), nil
}

// Load returns the table called name from the cache, reading it from src
// on a miss with LoadTable.
//
// Example:
//
//	src, err := geotable.DialObjectSource("s3.example.com", key, secret, true, "surveys", "2024/")
//	if err != nil {
//	    return err
//	}
//	t, err := cache.Load(ctx, src, "leg01.txt.zst", geotable.DefaultReadOptions())
func (c *TableCache) Load(ctx context.Context, src Source, name string, opts ReadOptions) (*Table, error) {
	return c.Get(name, func() (*Table, error) {
		return LoadTable(ctx, src, name, opts)
	})
}

func (c *TableCache) lookup(name string) (*Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.tables[name]
	if !ok {
		return nil, false
	}
	entry.lastAccessed = time.Now()
	entry.accessCount++
	c.lru.MoveToFront(entry.element)
	return entry.table, true
}

// Add stores t under name, evicting least recently used tables to make
// room. A table already cached under name is replaced.
//
// It reports whether t was cached; a table larger than the whole limit
// is not.
func (c *TableCache) Add(name string, t *Table) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := estimateTableMemory(t)
	if entry, ok := c.tables[name]; ok {
		c.usedMemory += size - entry.memorySize
		entry.table = t
		entry.memorySize = size
		entry.lastAccessed = time.Now()
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		c.evict(entry)
		return true
	}

	if c.maxMemory > 0 && size > c.maxMemory {
		return false
	}
	entry := &cacheEntry{
		name:         name,
		table:        t,
		memorySize:   size,
		lastAccessed: time.Now(),
		accessCount:  1,
	}
	c.usedMemory += size
	c.evict(nil)
	entry.element = c.lru.PushFront(entry)
	c.tables[name] = entry
	return true
}

// evict drops tables from the back of the list until the limit holds,
// never dropping keep. Must be called with c.mu held.
func (c *TableCache) evict(keep *cacheEntry) {
	if c.maxMemory <= 0 {
		return
	}
	for c.usedMemory > c.maxMemory {
		elem := c.lru.Back()
		if elem == nil {
			return
		}
		entry := elem.Value.(*cacheEntry)
		if entry == keep {
			return
		}
		c.lru.Remove(elem)
		delete(c.tables, entry.name)
		c.usedMemory -= entry.memorySize
	}
}

// Remove drops name from the cache.
func (c *TableCache) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.tables[name]; ok {
		c.lru.Remove(entry.element)
		delete(c.tables, name)
		c.usedMemory -= entry.memorySize
	}
}

// Clear empties the cache.
func (c *TableCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns cache statistics.
//
// Example:
//
//	stats := cache.Stats()
//	fmt.Printf("%d tables, %d/%d bytes\n", stats.TableCount, stats.UsedMemory, stats.MaxMemory)
func (c *TableCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, entry := range c.tables {
		total += entry.accessCount
	}
	return CacheStats{
		TableCount:  len(c.tables),
		UsedMemory:  c.usedMemory,
		MaxMemory:   c.maxMemory,
		TotalAccess: total,
	}
}

// estimateTableMemory approximates the heap held by t: a fixed overhead
// per table and segment, 8 bytes per value, and the trailing text.
func estimateTableMemory(t *Table) int64 {
	if t == nil {
		return 0
	}
	size := int64(1024)
	for _, s := range t.Segments {
		size += 256
		size += int64(s.NumRows()) * int64(s.NumColumns()) * 8
		for _, text := range s.Text {
			size += int64(len(text)) + 16
		}
	}
	return size
}
