package entity

// Store holds entities keyed by id, preserving first-creation order. A Store
// is owned by whichever load is currently populating it; it does no locking.
type Store struct {
	entities map[string]*Entity
	order    []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entities: make(map[string]*Entity)}
}

// Clear removes every entity.
func (s *Store) Clear() {
	s.entities = make(map[string]*Entity)
	s.order = s.order[:0]
}

// GetOrCreate returns the entity with the given id, creating it on first use.
func (s *Store) GetOrCreate(id string) *Entity {
	if e, ok := s.entities[id]; ok {
		return e
	}
	e := &Entity{ID: id}
	s.entities[id] = e
	s.order = append(s.order, id)
	return e
}

// Exists reports whether an entity with the given id is in the store.
func (s *Store) Exists(id string) bool {
	_, ok := s.entities[id]
	return ok
}

// Len returns the number of entities.
func (s *Store) Len() int {
	return len(s.entities)
}

// All returns the entities in first-creation order.
func (s *Store) All() []*Entity {
	out := make([]*Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entities[id])
	}
	return out
}
