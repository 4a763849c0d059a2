package blocklist

import (
	"sync/atomic"
	"time"

	"github.com/TinaKropaneva/restricted-domains/internal/domain"
)

// Snapshot is one loaded version of the blocklist. It is never modified
// after being installed in a Holder.
type Snapshot struct {
	Set        *domain.ForbiddenSet
	Generation uint64
	Entries    int // raw entries before deduplication
	Source     string
	LoadedAt   time.Time
}

// Holder publishes the active snapshot to concurrent readers.
type Holder struct {
	value atomic.Pointer[Snapshot]
	gen   atomic.Uint64
}

// NewHolder starts with an empty snapshot at generation 0; Ready reports
// false until the first Install.
func NewHolder() *Holder {
	h := &Holder{}
	h.value.Store(&Snapshot{Set: domain.Build(nil)})
	return h
}

func (h *Holder) Get() *Snapshot {
	return h.value.Load()
}

// Install publishes set as the next generation and returns its snapshot.
func (h *Holder) Install(set *domain.ForbiddenSet, entries int, source string) *Snapshot {
	snap := &Snapshot{
		Set:        set,
		Generation: h.gen.Add(1),
		Entries:    entries,
		Source:     source,
		LoadedAt:   time.Now().UTC(),
	}
	h.value.Store(snap)
	return snap
}

func (h *Holder) Ready() bool {
	return h.Get().Generation > 0
}
