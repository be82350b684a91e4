package model

import "github.com/google/uuid"

// Claims is the decoded identity+role payload carried by a session token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}
