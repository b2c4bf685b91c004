package collection

import "sync"

// SyncMap is a concurrency safe map that remembers insertion order.
type SyncMap[K comparable, V any] struct {
	m    map[K]V
	keys []K
	mux  sync.RWMutex
}

func (m *SyncMap[K, V]) Get(k K) (V, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	v, ok := m.m[k]
	return v, ok
}

// Put stores v under k; an existing key keeps its position.
func (m *SyncMap[K, V]) Put(k K, v V) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.m[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.m[k] = v
}

// PutIf replaces the value of an existing key when cond holds for it, as one
// atomic step. It returns the previous value, whether k exists and whether v was stored.
func (m *SyncMap[K, V]) PutIf(k K, v V, cond func(current V) bool) (V, bool, bool) {
	m.mux.Lock()
	defer m.mux.Unlock()
	current, ok := m.m[k]
	if !ok || !cond(current) {
		return current, ok, false
	}
	m.m[k] = v
	return current, true, true
}

// Delete removes k and reports whether it was present.
func (m *SyncMap[K, V]) Delete(k K) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.m[k]; !ok {
		return false
	}
	delete(m.m, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

func (m *SyncMap[K, V]) Len() int {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return len(m.keys)
}

// Values returns a snapshot in insertion order.
func (m *SyncMap[K, V]) Values() []V {
	m.mux.RLock()
	defer m.mux.RUnlock()
	result := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		result = append(result, m.m[k])
	}
	return result
}

// Range calls f in insertion order until it returns false.
// f must not modify the map.
func (m *SyncMap[K, V]) Range(f func(key K, value V) bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	for _, k := range m.keys {
		if !f(k, m.m[k]) {
			return
		}
	}
}

func (m *SyncMap[K, V]) Clear() {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.m = make(map[K]V)
	m.keys = nil
}

func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{m: make(map[K]V)}
}
