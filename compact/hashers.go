package compact

import (
	"hash/maphash"

	"github.com/google/uuid"

	"github.com/gendx/disruptdb/intern"
)

// Content-addressing hashers, one per store. Each Hash must be consistent
// with its Equal: equal values write identical bytes. Optional fields hash a
// presence byte first so nil and zero-valued never collide.

type uuidHasher struct{}

func (uuidHasher) Hash(h *maphash.Hash, v uuid.UUID) { h.Write(v[:]) }
func (uuidHasher) Equal(a, b uuid.UUID) bool         { return a == b }

type disruptionHasher struct{}

func (disruptionHasher) Hash(h *maphash.Hash, d Disruption) {
	intern.HashHandle(h, d.ID)
	intern.HashSet(h, d.ApplicationPeriods)
	intern.HashInt64(h, int64(d.LastUpdate))
	intern.HashHandle(h, d.Cause)
	intern.HashHandle(h, d.Severity)
	intern.HashBool(h, d.Tags != nil)
	if d.Tags != nil {
		intern.HashSet(h, *d.Tags)
	}
	intern.HashHandle(h, d.Title)
	hashOptHandle(h, d.Message)
	hashOptHandle(h, d.ShortMessage)
	hashOptHandle(h, d.DisruptionID)
}

func (disruptionHasher) Equal(a, b Disruption) bool { return a.Equal(b) }

type applicationPeriodHasher struct{}

func (applicationPeriodHasher) Hash(h *maphash.Hash, p ApplicationPeriod) {
	intern.HashInt64(h, int64(p.Begin))
	intern.HashInt64(h, int64(p.End))
}

func (applicationPeriodHasher) Equal(a, b ApplicationPeriod) bool { return a == b }

type lineHasher struct{}

func (lineHasher) Hash(h *maphash.Hash, l Line) {
	intern.HashHandle(h, l.Header)
	intern.HashSet(h, l.ImpactedObjects)
}

func (lineHasher) Equal(a, b Line) bool { return a.Equal(b) }

type lineHeaderHasher struct{}

func (lineHeaderHasher) Hash(h *maphash.Hash, l LineHeader) {
	intern.HashHandle(h, l.ID)
	intern.HashHandle(h, l.Name)
	intern.HashHandle(h, l.ShortName)
	intern.HashHandle(h, l.Mode)
	intern.HashHandle(h, l.NetworkID)
}

func (lineHeaderHasher) Equal(a, b LineHeader) bool { return a == b }

type impactedObjectHasher struct{}

func (impactedObjectHasher) Hash(h *maphash.Hash, o ImpactedObject) {
	intern.HashHandle(h, o.Object)
	intern.HashHandle(h, o.DisruptionIDs)
}

func (impactedObjectHasher) Equal(a, b ImpactedObject) bool { return a == b }

type objectHasher struct{}

func (objectHasher) Hash(h *maphash.Hash, o Object) {
	intern.HashHandle(h, o.Type)
	intern.HashHandle(h, o.ID)
	intern.HashHandle(h, o.Name)
}

func (objectHasher) Equal(a, b Object) bool { return a == b }

func hashOptHandle[T any](h *maphash.Hash, hd *intern.Handle[T]) {
	intern.HashBool(h, hd != nil)
	if hd != nil {
		intern.HashHandle(h, *hd)
	}
}
