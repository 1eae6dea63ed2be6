package models

import "time"

type SwapType string

const (
	SwapTypeSwap   SwapType = "swap"
	SwapTypeRedeem SwapType = "redeem"
)

type SwapStatus string

const (
	SwapPending  SwapStatus = "pending"
	SwapAccepted SwapStatus = "accepted"
	SwapRejected SwapStatus = "rejected"
)

// SwapRequest is the audit record of one exchange attempt. Point amounts
// are not stored; they come from the item's PointsRequired.
type SwapRequest struct {
	ID          string
	RequesterID string
	OwnerID     string
	ItemID      string
	Type        SwapType
	Status      SwapStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SwapRequestFilter narrows swap request queries. ParticipantID matches
// either side of the exchange.
type SwapRequestFilter struct {
	ParticipantID string
	ItemID        string
	RequesterID   string
	Status        SwapStatus
}
