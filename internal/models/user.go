package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	FullName     string    `db:"full_name" json:"fullName"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// Principal is the wire-safe projection of a User. It is what gets
// embedded in auth tokens and attached to authenticated requests; the
// password hash never crosses this boundary.
type Principal struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
}

// Principal strips the User down to its public fields.
func (u *User) Principal() Principal {
	return Principal{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
	}
}

// Claims defines the structure of the JWT claims. The full principal
// travels under the "user" key, subject is the username.
type Claims struct {
	User Principal `json:"user"`
	jwt.RegisteredClaims
}
