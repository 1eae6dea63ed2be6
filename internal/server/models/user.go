// Package models defines server-side data models persisted in the database.
package models

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleBanned Role = "banned"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleBanned:
		return true
	}
	return false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Role         Role
	Points       int64
	// SessionEpoch is embedded in access tokens; bumping it revokes every
	// token issued before.
	SessionEpoch int64
	CreatedAt    time.Time
}
