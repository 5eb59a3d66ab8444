package set

import (
	"sort"
	"sync"

	"github.com/emirpasic/gods/sets/hashset"
)

// ThreadSafeSet is a string set safe for concurrent readers and writers.
// Column policies are built once at startup and read by every request.
type ThreadSafeSet struct {
	set     *hashset.Set
	rwMutex sync.RWMutex
}

func NewThreadSafeSet(items ...string) *ThreadSafeSet {
	hashSet := hashset.New()
	for _, item := range items {
		hashSet.Add(item)
	}
	return &ThreadSafeSet{set: hashSet}
}

func (t *ThreadSafeSet) Contains(items ...string) bool {
	t.rwMutex.RLock()
	defer t.rwMutex.RUnlock()
	for _, item := range items {
		if !t.set.Contains(item) {
			return false
		}
	}
	return true
}

func (t *ThreadSafeSet) Add(items ...string) {
	t.rwMutex.Lock()
	defer t.rwMutex.Unlock()
	for _, item := range items {
		t.set.Add(item)
	}
}

func (t *ThreadSafeSet) Remove(items ...string) {
	t.rwMutex.Lock()
	defer t.rwMutex.Unlock()
	for _, item := range items {
		t.set.Remove(item)
	}
}

func (t *ThreadSafeSet) Size() int {
	t.rwMutex.RLock()
	defer t.rwMutex.RUnlock()
	return t.set.Size()
}

// Values returns the members in sorted order
func (t *ThreadSafeSet) Values() []string {
	t.rwMutex.RLock()
	defer t.rwMutex.RUnlock()
	values := make([]string, 0, t.set.Size())
	for _, v := range t.set.Values() {
		values = append(values, v.(string))
	}
	sort.Strings(values)
	return values
}

func (t *ThreadSafeSet) Clear() {
	t.rwMutex.Lock()
	defer t.rwMutex.Unlock()
	t.set.Clear()
}
