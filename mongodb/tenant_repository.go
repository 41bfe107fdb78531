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

// TenantRepository implements domain.TenantRepository on MongoDB. The
// member list lives inside the tenant document; membership updates are
// single-document operations and need no transactions.
type TenantRepository struct {
	tenants *mongo.Collection
}

func NewTenantRepository(ctx context.Context, db *mongo.Database) (*TenantRepository, error) {
	repo := &TenantRepository{tenants: db.Collection(TenantsCollection)}
	if err := repo.createIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *TenantRepository) createIndexes(ctx context.Context) error {
	_, err := r.tenants.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "member_ids", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("creating indexes for tenants collection: %w", err)
	}
	return nil
}

func (r *TenantRepository) CreateTenant(ctx context.Context, tenant *domain.Tenant) error {
	_, err := r.tenants.InsertOne(ctx, tenant)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		log.Error().Err(err).Msg("error inserting tenant")
		return err
	}
	return nil
}

func (r *TenantRepository) GetTenantByID(ctx context.Context, id string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.tenants.FindOne(ctx, bson.M{"_id": id}).Decode(&tenant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("error getting tenant")
		return nil, err
	}
	return &tenant, nil
}

// AddMember appends the account in one atomic update. The filter excludes
// documents already holding the member, so ModifiedCount distinguishes a
// duplicate from a missing tenant.
func (r *TenantRepository) AddMember(ctx context.Context, tenantID, accountID string) error {
	res, err := r.tenants.UpdateOne(ctx,
		bson.M{"_id": tenantID, "member_ids": bson.M{"$ne": accountID}},
		bson.M{
			"$push": bson.M{"member_ids": accountID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		exists, err := r.tenantExists(ctx, tenantID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrDuplicate
	}
	return nil
}

func (r *TenantRepository) RemoveMember(ctx context.Context, tenantID, accountID string) error {
	res, err := r.tenants.UpdateOne(ctx,
		bson.M{"_id": tenantID, "member_ids": accountID},
		bson.M{
			"$pull": bson.M{"member_ids": accountID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TenantRepository) ListTenantsByMember(ctx context.Context, accountID string) ([]*domain.Tenant, error) {
	cursor, err := r.tenants.Find(ctx, bson.M{"member_ids": accountID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tenants []*domain.Tenant
	if err := cursor.All(ctx, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *TenantRepository) tenantExists(ctx context.Context, tenantID string) (bool, error) {
	count, err := r.tenants.CountDocuments(ctx, bson.M{"_id": tenantID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ domain.TenantRepository = (*TenantRepository)(nil)
