package imagecache

// Store maps keys to decoded images. Entries are written once and never evicted.
// Not safe for concurrent use; only the consuming goroutine touches it.
type Store struct {
	images map[Key]*Image
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{images: make(map[Key]*Image)}
}

// Get returns the image for key.
func (s *Store) Get(key Key) (*Image, bool) {
	img, ok := s.images[key]
	return img, ok
}

// Put stores img under key. Returns false, leaving the existing entry untouched,
// if key is already present.
func (s *Store) Put(key Key, img *Image) bool {
	if _, ok := s.images[key]; ok {
		return false
	}
	s.images[key] = img
	return true
}

// Len returns the number of cached images.
func (s *Store) Len() int {
	return len(s.images)
}

// Waiters maps keys to the sinks waiting for their pending fetch.
// Not safe for concurrent use; only the consuming goroutine touches it.
type Waiters struct {
	sinks map[Key][]Sink
}

// NewWaiters creates an empty registry.
func NewWaiters() *Waiters {
	return &Waiters{sinks: make(map[Key][]Sink)}
}

// Add appends sink to key's waiters. A nil sink is ignored.
func (w *Waiters) Add(key Key, sink Sink) {
	if sink == nil {
		return
	}
	w.sinks[key] = append(w.sinks[key], sink)
}

// Waiters returns the sinks waiting on key in registration order.
func (w *Waiters) Waiters(key Key) []Sink {
	return w.sinks[key]
}

// Clear forgets all sinks for key.
func (w *Waiters) Clear(key Key) {
	delete(w.sinks, key)
}

// Len returns the number of keys with at least one waiter.
func (w *Waiters) Len() int {
	return len(w.sinks)
}
