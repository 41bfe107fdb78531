package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tenauth/tenauth/domain"
)

// AccountRepository implements domain.AccountRepository on MongoDB.
type AccountRepository struct {
	accounts *mongo.Collection
}

func NewAccountRepository(ctx context.Context, db *mongo.Database) (*AccountRepository, error) {
	repo := &AccountRepository{accounts: db.Collection(AccountsCollection)}
	if err := repo.createIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *AccountRepository) createIndexes(ctx context.Context) error {
	// Case-insensitive unique email. The service layer lowercases emails on
	// write; the collation makes the constraint hold even for documents
	// written around it.
	_, err := r.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	})
	if err != nil {
		return fmt.Errorf("creating indexes for accounts collection: %w", err)
	}
	return nil
}

func (r *AccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := r.accounts.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		log.Error().Err(err).Msg("error inserting account")
		return err
	}
	return nil
}

func (r *AccountRepository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	err := r.accounts.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("error getting account by id")
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	opts := options.FindOne().SetCollation(&options.Collation{Locale: "en", Strength: 2})
	err := r.accounts.FindOne(ctx, bson.M{"email": email}, opts).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		log.Error().Err(err).Msg("error getting account by email")
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) GetAccountsByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.accounts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []*domain.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	res, err := r.accounts.ReplaceOne(ctx, bson.M{"_id": account.ID}, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	cursor, err := r.accounts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []*domain.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepository) CountAccounts(ctx context.Context) (int64, error) {
	return r.accounts.CountDocuments(ctx, bson.M{})
}

var _ domain.AccountRepository = (*AccountRepository)(nil)
