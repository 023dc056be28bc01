package repository

import (
	"context"
	"fmt"
	"time"

	orderserrors "gymstore/internal/orders/errors"
	"gymstore/pkg/config"
	mongotx "gymstore/pkg/db/mongo"
	"gymstore/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const UsersCollectionName = "Users"

// CartRepository resets a user's cart once an order owns its contents.
type CartRepository interface {
	ClearCart(ctx context.Context, userID string) error
}

type mongoCartRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCartRepository(cfg *config.Config) CartRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCartRepository{
		cfg:        cfg,
		collection: db.Collection(UsersCollectionName),
	}
}

func (r *mongoCartRepository) ClearCart(ctx context.Context, userID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: %s", orderserrors.ErrUserNotFound, userID)
	}

	update := bson.M{"$set": bson.M{
		"cart_data":  model.CartData{},
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return orderserrors.ErrUserNotFound
	}
	return nil
}
