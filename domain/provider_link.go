package domain

import "time"

// ProviderLink associates an Account with one external identity provider.
// The (Provider, ProviderUserID) pair is globally unique: a provider identity
// maps to at most one local account.
type ProviderLink struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	AccountID      string    `bson:"account_id" json:"accountId"`
	Provider       string    `bson:"provider" json:"provider"`
	ProviderUserID string    `bson:"provider_user_id" json:"providerUserId"`
	AccessToken    string    `bson:"access_token,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}
