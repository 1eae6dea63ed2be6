package api

import "google.golang.org/protobuf/types/known/timestamppb"

type User struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Email     string                 `json:"email"`
	Role      string                 `json:"role"`
	Points    int64                  `json:"points"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
}

type Item struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	Category       string                 `json:"category,omitempty"`
	Type           string                 `json:"type,omitempty"`
	Size           string                 `json:"size,omitempty"`
	Condition      string                 `json:"condition,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	Images         []string               `json:"images,omitempty"`
	ImageURLs      []string               `json:"image_urls,omitempty"`
	OwnerID        string                 `json:"owner_id"`
	Status         string                 `json:"status"`
	PointsRequired int64                  `json:"points_required"`
	CreatedAt      *timestamppb.Timestamp `json:"created_at,omitempty"`
}

type SwapRequest struct {
	ID          string                 `json:"id"`
	RequesterID string                 `json:"requester_id"`
	OwnerID     string                 `json:"owner_id"`
	ItemID      string                 `json:"item_id"`
	Type        string                 `json:"type"`
	Status      string                 `json:"status"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at,omitempty"`
	UpdatedAt   *timestamppb.Timestamp `json:"updated_at,omitempty"`
}

type PointTransaction struct {
	ID           string                 `json:"id"`
	Amount       int64                  `json:"amount"`
	BalanceAfter int64                  `json:"balance_after"`
	Kind         string                 `json:"kind"`
	ReferenceID  string                 `json:"reference_id,omitempty"`
	Note         string                 `json:"note,omitempty"`
	CreatedAt    *timestamppb.Timestamp `json:"created_at,omitempty"`
}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
	UserID       string                 `json:"user_id"`
	Role         string                 `json:"role"`
	ExpiresAt    *timestamppb.Timestamp `json:"expires_at,omitempty"`
}

type ProfileResponse struct {
	User *User `json:"user"`
}

type CreateItemRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category,omitempty"`
	Type           string   `json:"type,omitempty"`
	Size           string   `json:"size,omitempty"`
	Condition      string   `json:"condition,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Images         []string `json:"images,omitempty"`
	PointsRequired int64    `json:"points_required"`
}

type ItemIDRequest struct {
	ItemID string `json:"item_id"`
}

type ItemResponse struct {
	Item *Item `json:"item"`
}

type ListItemsRequest struct {
	Status   string `json:"status,omitempty"`
	OwnerID  string `json:"owner_id,omitempty"`
	Category string `json:"category,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

type ListItemsResponse struct {
	Items []*Item `json:"items"`
}

type SwapRequestResponse struct {
	Request *SwapRequest `json:"request"`
}

type RedeemResponse struct {
	Request *SwapRequest `json:"request"`
	Balance int64        `json:"balance"`
}

type RespondSwapRequest struct {
	RequestID string `json:"request_id"`
	Accept    bool   `json:"accept"`
}

type RequestIDRequest struct {
	RequestID string `json:"request_id"`
}

type ListSwapRequestsRequest struct {
	Status string `json:"status,omitempty"`
}

type ListSwapRequestsResponse struct {
	Requests []*SwapRequest `json:"requests"`
}

type LedgerRequest struct {
	Limit int32 `json:"limit,omitempty"`
}

type LedgerResponse struct {
	Transactions []*PointTransaction `json:"transactions"`
}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type SetUserRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type AdjustPointsRequest struct {
	UserID string `json:"user_id"`
	Delta  int64  `json:"delta"`
	Reason string `json:"reason"`
}

type AdjustPointsResponse struct {
	Balance int64 `json:"balance"`
}
