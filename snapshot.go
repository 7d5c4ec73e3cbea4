package petsdk

import "sync"

// ──────────────────────────────────────────────
// Snapshot Store — persistence boundary contract
// ──────────────────────────────────────────────

// SnapshotStore is the persistence boundary: entities are handed over as
// plain structured records after each atomic update, and loaded fresh before
// the next one. Load methods return (nil, nil) when no record exists.
//
// Adapters live in the store/ package (redis, sqlite); the in-memory
// implementation below serves tests and single-process deployments.
type SnapshotStore interface {
	LoadPet(petID string) (*Pet, error)
	SavePet(pet *Pet) error

	LoadBelief(petID, userID string) (*BeliefState, error)
	SaveBelief(belief *BeliefState) error

	LoadProfile(userID string) (*UserProfile, error)
	SaveProfile(profile *UserProfile) error
}

// InMemorySnapshotStore is a thread-safe in-memory SnapshotStore.
type InMemorySnapshotStore struct {
	mu       sync.RWMutex
	pets     map[string]*Pet
	beliefs  map[string]*BeliefState // pet_id|user_id
	profiles map[string]*UserProfile
}

// NewInMemorySnapshotStore creates an empty in-memory store.
func NewInMemorySnapshotStore() *InMemorySnapshotStore {
	return &InMemorySnapshotStore{
		pets:     make(map[string]*Pet),
		beliefs:  make(map[string]*BeliefState),
		profiles: make(map[string]*UserProfile),
	}
}

func beliefKey(petID, userID string) string {
	return petID + "|" + userID
}

func (s *InMemorySnapshotStore) LoadPet(petID string) (*Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pet, ok := s.pets[petID]
	if !ok {
		return nil, nil
	}
	return pet.Clone(), nil
}

func (s *InMemorySnapshotStore) SavePet(pet *Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pets[pet.ID] = pet.Clone()
	return nil
}

func (s *InMemorySnapshotStore) LoadBelief(petID, userID string) (*BeliefState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	belief, ok := s.beliefs[beliefKey(petID, userID)]
	if !ok {
		return nil, nil
	}
	return belief.Clone(), nil
}

func (s *InMemorySnapshotStore) SaveBelief(belief *BeliefState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beliefs[beliefKey(belief.PetID, belief.UserID)] = belief.Clone()
	return nil
}

func (s *InMemorySnapshotStore) LoadProfile(userID string) (*UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return profile.Clone(), nil
}

func (s *InMemorySnapshotStore) SaveProfile(profile *UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile.Clone()
	return nil
}
