package models

import "time"

type PointKind string

const (
	PointSignupGrant     PointKind = "signup_grant"
	PointRedeemDebit     PointKind = "redeem_debit"
	PointRedeemCredit    PointKind = "redeem_credit"
	PointAdminAdjustment PointKind = "admin_adjustment"
)

// PointTransaction is one ledger row. Amount is signed; BalanceAfter is the
// user's balance once the row was applied.
type PointTransaction struct {
	ID           string
	UserID       string
	Amount       int64
	BalanceAfter int64
	Kind         PointKind
	ReferenceID  string
	Note         string
	CreatedAt    time.Time
}
