package petsdk

import (
	"sync"

	"go.uber.org/atomic"
)

// ──────────────────────────────────────────────
// Pet Lease Registry — per-pet serialization of mutations
// ──────────────────────────────────────────────

// PetLeaseRegistry serializes interactions per pet id: at most one in-flight
// mutation per pet, while interactions on different pets proceed in parallel.
// UserProfile writes are deliberately not serialized here (last-writer-wins
// with renormalization is acceptable across pets).
type PetLeaseRegistry struct {
	mu     sync.Mutex
	leases map[string]*sync.Mutex

	InFlight  atomic.Int64
	Completed atomic.Int64
}

// NewPetLeaseRegistry creates an empty registry.
func NewPetLeaseRegistry() *PetLeaseRegistry {
	return &PetLeaseRegistry{leases: make(map[string]*sync.Mutex)}
}

// Checkout acquires the exclusive lease for a pet, blocking until any
// in-flight interaction on the same pet completes.
func (r *PetLeaseRegistry) Checkout(petID string) {
	r.mu.Lock()
	lease, ok := r.leases[petID]
	if !ok {
		lease = &sync.Mutex{}
		r.leases[petID] = lease
	}
	r.mu.Unlock()

	lease.Lock()
	r.InFlight.Inc()
}

// Checkin releases the lease after the atomic update completed (or failed
// without persisting).
func (r *PetLeaseRegistry) Checkin(petID string) {
	r.mu.Lock()
	lease, ok := r.leases[petID]
	r.mu.Unlock()
	if !ok {
		return
	}
	r.InFlight.Dec()
	r.Completed.Inc()
	lease.Unlock()
}
