package favicon

import (
	"container/list"
	"sync"
)

// memo remembers the picture stored for recently fetched hosts so the same
// site is not downloaded twice. The least recently used host is evicted
// once capacity is reached.
type memo struct {
	capacity int
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = most recent
}

type memoEntry struct {
	host      string
	pictureID string
}

func newMemo(capacity int) *memo {
	if capacity <= 0 {
		capacity = 1
	}
	return &memo{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (m *memo) get(host string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[host]
	if !ok {
		return "", false
	}
	m.order.MoveToFront(elem)
	return elem.Value.(*memoEntry).pictureID, true
}

func (m *memo) set(host, pictureID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[host]; ok {
		elem.Value.(*memoEntry).pictureID = pictureID
		m.order.MoveToFront(elem)
		return
	}
	if m.order.Len() >= m.capacity {
		if oldest := m.order.Back(); oldest != nil {
			m.order.Remove(oldest)
			delete(m.items, oldest.Value.(*memoEntry).host)
		}
	}
	m.items[host] = m.order.PushFront(&memoEntry{host: host, pictureID: pictureID})
}

func (m *memo) forget(host string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[host]; ok {
		m.order.Remove(elem)
		delete(m.items, host)
	}
}
