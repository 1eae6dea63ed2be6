package models

import "time"

// ItemStatus is the moderation/exchange lifecycle of a listed item.
type ItemStatus string

const (
	ItemPending  ItemStatus = "pending"
	ItemApproved ItemStatus = "approved"
	ItemRejected ItemStatus = "rejected"
	ItemSwapped  ItemStatus = "swapped"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemPending, ItemApproved, ItemRejected, ItemSwapped:
		return true
	}
	return false
}

// itemTransitions lists every legal status change. approved -> swapped is
// reserved for the exchange engine; the rest belong to moderation or the
// item owner (resubmit).
var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemPending:  {ItemApproved, ItemRejected},
	ItemApproved: {ItemPending, ItemSwapped},
	ItemRejected: {ItemPending},
}

// CanTransition reports whether an item may move from s to next.
func (s ItemStatus) CanTransition(next ItemStatus) bool {
	for _, to := range itemTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

type Item struct {
	ID             string
	Title          string
	Description    string
	Category       string
	Type           string
	Size           string
	Condition      string
	Tags           []string
	Images         []string
	OwnerID        string
	Status         ItemStatus
	PointsRequired int64
	CreatedAt      time.Time
}

// ItemFilter holds equality filters for item queries. Empty fields match
// everything; Tag matches items carrying that tag.
type ItemFilter struct {
	Status   ItemStatus
	OwnerID  string
	Category string
	Tag      string
}
