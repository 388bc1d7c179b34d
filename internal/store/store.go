package store

import (
	"sync"

	"bidtrack/models"
)

// collection хранит записи одного вида с сохранением порядка вставки.
// id — единственный ключ идентичности, дубликатов не бывает.
type collection[T any] struct {
	items []T
	index map[int]int // id -> позиция в items
	key   func(T) int
}

func newCollection[T any](key func(T) int) *collection[T] {
	return &collection[T]{index: map[int]int{}, key: key}
}

func (c *collection[T]) upsert(v T) {
	id := c.key(v)
	if pos, ok := c.index[id]; ok {
		c.items[pos] = v
		return
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, v)
}

func (c *collection[T]) remove(id int) bool {
	pos, ok := c.index[id]
	if !ok {
		return false
	}
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, id)
	for i := pos; i < len(c.items); i++ {
		c.index[c.key(c.items[i])] = i
	}
	return true
}

func (c *collection[T]) get(id int) (T, bool) {
	if pos, ok := c.index[id]; ok {
		return c.items[pos], true
	}
	var zero T
	return zero, false
}

func (c *collection[T]) list() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Store — проекция бизнес-записей в памяти. Никакой валидации и
// бизнес-правил здесь нет, только CRUD по ключу; правила применения
// событий живут в recon, правила мутаций — в координаторе.
type Store struct {
	mu          sync.RWMutex
	bids        *collection[models.Bid]
	vendors     *collection[models.Vendor]
	assignments *collection[models.VendorAssignment]
	notes       *collection[models.Note]
}

// New создает пустой Store
func New() *Store {
	return &Store{
		bids:        newCollection(func(b models.Bid) int { return b.ID }),
		vendors:     newCollection(func(v models.Vendor) int { return v.ID }),
		assignments: newCollection(func(a models.VendorAssignment) int { return a.ID }),
		notes:       newCollection(func(n models.Note) int { return n.ID }),
	}
}

func (s *Store) UpsertBid(b models.Bid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids.upsert(b)
}

func (s *Store) RemoveBid(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bids.remove(id)
}

func (s *Store) Bid(id int) (models.Bid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bids.get(id)
}

func (s *Store) Bids() []models.Bid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bids.list()
}

// UpdateBid атомарно читает и перезаписывает запись; false если записи нет
func (s *Store) UpdateBid(id int, fn func(*models.Bid)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bids.get(id)
	if !ok {
		return false
	}
	fn(&b)
	b.ID = id
	s.bids.upsert(b)
	return true
}

func (s *Store) UpsertVendor(v models.Vendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendors.upsert(v)
}

func (s *Store) RemoveVendor(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vendors.remove(id)
}

func (s *Store) Vendor(id int) (models.Vendor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vendors.get(id)
}

func (s *Store) Vendors() []models.Vendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vendors.list()
}

// UpdateVendor атомарно читает и перезаписывает запись; false если записи нет
func (s *Store) UpdateVendor(id int, fn func(*models.Vendor)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendors.get(id)
	if !ok {
		return false
	}
	fn(&v)
	v.ID = id
	s.vendors.upsert(v)
	return true
}

func (s *Store) UpsertAssignment(a models.VendorAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments.upsert(a)
}

func (s *Store) RemoveAssignment(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments.remove(id)
}

func (s *Store) Assignment(id int) (models.VendorAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assignments.get(id)
}

func (s *Store) Assignments() []models.VendorAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assignments.list()
}

// UpdateAssignment атомарно читает и перезаписывает запись; false если записи нет
func (s *Store) UpdateAssignment(id int, fn func(*models.VendorAssignment)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments.get(id)
	if !ok {
		return false
	}
	fn(&a)
	a.ID = id
	s.assignments.upsert(a)
	return true
}

func (s *Store) UpsertNote(n models.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.upsert(n)
}

func (s *Store) RemoveNote(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.remove(id)
}

func (s *Store) Note(id int) (models.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.get(id)
}

func (s *Store) Notes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.list()
}

// NotesForBid возвращает заметки проекта в порядке добавления
func (s *Store) NotesForBid(bidID int) []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Note
	for _, n := range s.notes.items {
		if n.BidID == bidID {
			out = append(out, n)
		}
	}
	return out
}
