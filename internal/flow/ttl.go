package flow

import (
	"supadmin/internal/types"
	"sync"
	"time"
)

// TTL is a minimal in-process TTL cache to trim backend reads on hot paths.
// Lazy expiration on Get.
type TTL[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]entry[V]
}

type entry[V any] struct {
	val V
	exp time.Time
}

func NewTTL[K comparable, V any]() *TTL[K, V] {
	return &TTL[K, V]{data: make(map[K]entry[V])}
}

// Get returns the value and true if found and not expired; otherwise zero value and false.
func (t *TTL[K, V]) Get(k K) (V, bool) {
	t.mu.RLock()
	e, ok := t.data[k]
	t.mu.RUnlock()
	if !ok || timeNow().After(e.exp) {
		var zero V
		return zero, false
	}
	return e.val, true
}

func (t *TTL[K, V]) Set(k K, v V, ttl time.Duration) {
	t.mu.Lock()
	t.data[k] = entry[V]{val: v, exp: timeNow().Add(ttl)}
	t.mu.Unlock()
}

func (t *TTL[K, V]) Delete(k K) {
	t.mu.Lock()
	delete(t.data, k)
	t.mu.Unlock()
}

func (t *TTL[K, V]) Purge() {
	t.mu.Lock()
	t.data = make(map[K]entry[V])
	t.mu.Unlock()
}

// ConfigCacheTTL bounds how stale a rotated service role key can be in a running process.
const ConfigCacheTTL = 30 * time.Second

// cfgCache holds project configs only. Handles are never cached: each OpenProject builds a new one.
var cfgCache = NewTTL[string, types.AdminConfig]()

var timeNow = time.Now

func SetTimeNowFn(f func() time.Time) {
	timeNow = f
}

func RestoreTimeNow() {
	timeNow = time.Now
}
