package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tenauth/tenauth/domain"
)

// ProviderLinkRepository implements domain.ProviderLinkRepository on
// MongoDB.
type ProviderLinkRepository struct {
	links *mongo.Collection
}

func NewProviderLinkRepository(ctx context.Context, db *mongo.Database) (*ProviderLinkRepository, error) {
	repo := &ProviderLinkRepository{links: db.Collection(ProviderLinksCollection)}
	if err := repo.createIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ProviderLinkRepository) createIndexes(ctx context.Context) error {
	// One external identity maps to at most one local account, ever.
	_, err := r.links.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "provider", Value: 1},
				{Key: "provider_user_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "account_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("creating indexes for provider links collection: %w", err)
	}
	return nil
}

func (r *ProviderLinkRepository) CreateLink(ctx context.Context, link *domain.ProviderLink) error {
	_, err := r.links.InsertOne(ctx, link)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		log.Error().Err(err).Msg("error inserting provider link")
		return err
	}
	return nil
}

func (r *ProviderLinkRepository) GetLink(ctx context.Context, provider, providerUserID string) (*domain.ProviderLink, error) {
	var link domain.ProviderLink
	err := r.links.FindOne(ctx, bson.M{
		"provider":         provider,
		"provider_user_id": providerUserID,
	}).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("provider", provider).Msg("error getting provider link")
		return nil, err
	}
	return &link, nil
}

func (r *ProviderLinkRepository) UpdateAccessToken(ctx context.Context, linkID, accessToken string) error {
	res, err := r.links.UpdateOne(ctx,
		bson.M{"_id": linkID},
		bson.M{"$set": bson.M{
			"access_token": accessToken,
			"updated_at":   time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProviderLinkRepository) ListLinksByAccountID(ctx context.Context, accountID string) ([]*domain.ProviderLink, error) {
	cursor, err := r.links.Find(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []*domain.ProviderLink
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

var _ domain.ProviderLinkRepository = (*ProviderLinkRepository)(nil)
