package cache

import (
	"encoding/json"
	"sync"
	"time"

	"routeaura/pkg/logger"

	"go.uber.org/fx"
)

var Module = fx.Provide(New)

type (
	Params struct {
		fx.In
		Logger logger.Logger
	}

	ICache interface {
		SaveObj(key string, value interface{}, ttl time.Duration) error
		GetObj(key string, value interface{}) bool
		Delete(key string)
	}

	entry struct {
		data      []byte
		expiresAt time.Time
	}

	cache struct {
		logger   logger.Logger
		memCache map[string]entry
		m        sync.RWMutex
	}
)

func New(p Params) ICache {
	return &cache{
		logger:   p.Logger,
		memCache: map[string]entry{},
	}
}

func (c *cache) SaveObj(key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.m.Lock()
	defer c.m.Unlock()

	c.memCache[key] = entry{
		data:      b,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *cache) GetObj(key string, value interface{}) bool {
	c.m.RLock()
	e, ok := c.memCache[key]
	c.m.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return false
	}

	return json.Unmarshal(e.data, value) == nil
}

func (c *cache) Delete(key string) {
	c.m.Lock()
	defer c.m.Unlock()

	delete(c.memCache, key)
}
