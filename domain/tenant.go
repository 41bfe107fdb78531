package domain

import "time"

// Tenant is a named scope with exactly one designated admin account and a
// set of member accounts. The admin is always a member. Tenant names are
// unique.
type Tenant struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	AdminID   string    `bson:"admin_id" json:"adminId"`
	MemberIDs []string  `bson:"member_ids" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasMember reports whether the account is a member of the tenant.
func (t *Tenant) HasMember(accountID string) bool {
	for _, id := range t.MemberIDs {
		if id == accountID {
			return true
		}
	}
	return false
}
