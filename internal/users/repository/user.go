package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	userserrors "gymstore/internal/users/errors"
	"gymstore/pkg/config"
	mongotx "gymstore/pkg/db/mongo"
	"gymstore/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Users"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, hash string, expectedVersion int) (*model.User, error)
	SetOTP(ctx context.Context, id, hash string, expiresAt time.Time) error
	ConsumeOTP(ctx context.Context, id, hash string) error
	IncrementCartItem(ctx context.Context, id, itemID, size string) (model.CartData, error)
	SetCartQuantity(ctx context.Context, id, itemID, size string, quantity int) (model.CartData, error)
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// Create inserts user. The unique email index turns a duplicate into
// ErrEmailTaken.
func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.CartData == nil {
		user.CartData = model.CartData{}
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return userserrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// UpdatePassword stores a new hash and bumps credential_version, provided
// the version is still expectedVersion.
func (r *mongoUserRepository) UpdatePassword(ctx context.Context, id, hash string, expectedVersion int) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"_id": objectID, "credential_version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"password_hash":       hash,
			"password_updated_at": now,
			"updated_at":          now,
		},
		"$inc": bson.M{"credential_version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	if n == 0 {
		return nil, userserrors.ErrNotFound
	}
	return nil, userserrors.ErrCredentialsChanged
}

// SetOTP replaces any pending login code of the user.
func (r *mongoUserRepository) SetOTP(ctx context.Context, id, hash string, expiresAt time.Time) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"otp_hash":       hash,
		"otp_expires_at": expiresAt,
		"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := r.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return fmt.Errorf("failed to store login code: %w", err)
	}
	if result.MatchedCount == 0 {
		return userserrors.ErrNotFound
	}
	return nil
}

// ConsumeOTP clears the login code and marks the email verified, only if
// hash is still the stored code. A code is therefore accepted once.
func (r *mongoUserRepository) ConsumeOTP(ctx context.Context, id, hash string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": objectID, "otp_hash": hash}
	update := bson.M{
		"$set": bson.M{
			"is_verified": true,
			"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
		},
		"$unset": bson.M{"otp_hash": "", "otp_expires_at": ""},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to consume login code: %w", err)
	}
	if result.MatchedCount == 0 {
		return userserrors.ErrOTPConsumed
	}
	return nil
}

func (r *mongoUserRepository) IncrementCartItem(ctx context.Context, id, itemID, size string) (model.CartData, error) {
	return r.updateCart(ctx, id, bson.M{
		"$inc": bson.M{cartPath(itemID, size): 1},
	})
}

// SetCartQuantity sets the quantity of one item size. Zero removes it.
func (r *mongoUserRepository) SetCartQuantity(ctx context.Context, id, itemID, size string, quantity int) (model.CartData, error) {
	if quantity == 0 {
		return r.updateCart(ctx, id, bson.M{
			"$unset": bson.M{cartPath(itemID, size): ""},
		})
	}
	return r.updateCart(ctx, id, bson.M{
		"$set": bson.M{cartPath(itemID, size): quantity},
	})
}

func (r *mongoUserRepository) updateCart(ctx context.Context, id string, update bson.M) (model.CartData, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return nil, err
	}

	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"cart_data": 1})

	var user model.User
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	if user.CartData == nil {
		user.CartData = model.CartData{}
	}
	pruneEmptyItems(user.CartData)
	return user.CartData, nil
}

func cartPath(itemID, size string) string {
	return "cart_data." + itemID + "." + size
}

// pruneEmptyItems drops products whose last size was removed.
func pruneEmptyItems(cart model.CartData) {
	for item, sizes := range cart {
		if len(sizes) == 0 {
			delete(cart, item)
		}
	}
}

func toObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}
	return objectID, nil
}
