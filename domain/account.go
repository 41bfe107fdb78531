package domain

import "time"

// Account is a local user account. PasswordHash is empty for accounts that
// were created through an external identity provider and never set a local
// password; such accounts cannot complete password login.
type Account struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	PasswordHash string    `bson:"password_hash,omitempty" json:"-"`
	SuperAdmin   bool      `bson:"super_admin" json:"superAdmin"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasLocalPassword reports whether the account can attempt password login.
func (a *Account) HasLocalPassword() bool {
	return a.PasswordHash != ""
}
