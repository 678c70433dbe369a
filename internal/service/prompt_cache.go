package service

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Prompt sections cached independently so a write only drops what it touched.
const (
	SectionRecipes = "recipes"
	SectionTools   = "tools"
	SectionNotes   = "notes"
)

const (
	promptCacheSize = 16
	promptCacheTTL  = 60 * time.Second
)

type cachedSection struct {
	text      string
	timestamp time.Time
}

// PromptContextCache holds rendered prompt sections for a short time.
// A nil cache is valid and never hits.
//
// Each section carries a generation that Invalidate bumps, so a render that
// started before a write cannot store its stale text after that write.
type PromptContextCache struct {
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time

	mu          sync.Mutex
	generations map[string]uint64
}

func NewPromptContextCache() (*PromptContextCache, error) {
	cache, err := lru.New(promptCacheSize)
	if err != nil {
		return nil, err
	}
	return &PromptContextCache{
		cache:       cache,
		ttl:         promptCacheTTL,
		now:         time.Now,
		generations: make(map[string]uint64),
	}, nil
}

func (c *PromptContextCache) Get(section string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.cache.Get(section)
	if !ok {
		return "", false
	}
	entry := v.(cachedSection)
	if c.now().Sub(entry.timestamp) > c.ttl {
		c.cache.Remove(section)
		return "", false
	}
	return entry.text, true
}

func (c *PromptContextCache) Set(section, text string) {
	if c == nil {
		return
	}
	c.cache.Add(section, cachedSection{text: text, timestamp: c.now()})
}

// Generation reports the section's current generation. Read it before
// rendering and hand it to SetIfCurrent.
func (c *PromptContextCache) Generation(section string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[section]
}

// SetIfCurrent stores text only when the section was not invalidated since
// gen was read. It reports whether the text was stored.
func (c *PromptContextCache) SetIfCurrent(section, text string, gen uint64) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[section] != gen {
		return false
	}
	c.cache.Add(section, cachedSection{text: text, timestamp: c.now()})
	return true
}

// Invalidate drops the given sections.
func (c *PromptContextCache) Invalidate(sections ...string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range sections {
		c.generations[s]++
		c.cache.Remove(s)
	}
}
