package download

import "sync"

// CoverRegistry records which artists' covers have already been
// claimed for download during this run.
//
// The registry is the primary concurrency guard for cover fetches:
// the on-disk existence check alone is insufficient because two
// workers can race between checking and writing. Check-and-mark
// happens in a single critical section, so exactly one worker wins
// the claim for any artist no matter how its tracks interleave.
//
// The registry lives for one run and is not persisted.
type CoverRegistry struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewCoverRegistry creates an empty registry.
func NewCoverRegistry() *CoverRegistry {
	return &CoverRegistry{claimed: make(map[string]struct{})}
}

// Claim reports whether the caller must fetch the cover for artist.
//
// The first caller for an artist gets true and the artist is marked
// claimed before Claim returns; every later caller gets false. The
// mark is taken when the decision to fetch is made, not when the fetch
// completes, so a failed fetch is not re-attempted within the run.
func (r *CoverRegistry) Claim(artist string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.claimed[artist]; ok {
		return false
	}
	r.claimed[artist] = struct{}{}
	return true
}
