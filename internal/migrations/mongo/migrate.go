package mongo

import (
	"context"
	"fmt"

	bookingsrepo "gymstore/internal/bookings/repository"
	"gymstore/internal/migrations/mongo/validators"
	ordersrepo "gymstore/internal/orders/repository"
	productsrepo "gymstore/internal/products/repository"
	usersrepo "gymstore/internal/users/repository"
	"gymstore/pkg/logger"
	"gymstore/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ConfirmedSlotIndex = "uniq_confirmed_slot"

var (
	// BookingsIndexes closes the double-booking race: at most one confirmed
	// booking may hold a gym/facility/day/slot. Cancelled bookings are not
	// indexed so the slot can be booked again.
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "gym", Value: 1},
				{Key: "facility", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time_slot", Value: 1},
			},
			Options: options.Index().
				SetName(ConfirmedSlotIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": model.BookingStatusConfirmed}),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "gym", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "gym", Value: 1}, {Key: "email", Value: 1}}},
	}

	OrdersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "payment", Value: 1}, {Key: "created_at", Value: 1}}},
		{
			Keys:    bson.D{{Key: "gateway_ref", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	UsersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "gym", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	ProductsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "sub_category", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "discount", Value: -1}}},
	}
)

type Collection struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists every collection the services use, in creation order.
func Collections() []Collection {
	return []Collection{
		{Name: bookingsrepo.CollectionName, Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		{Name: ordersrepo.CollectionName, Indexes: OrdersIndexes, Validator: validators.OrderValidator},
		{Name: usersrepo.CollectionName, Indexes: UsersIndexes, Validator: validators.UserValidator},
		{Name: productsrepo.CollectionName, Indexes: ProductsIndexes, Validator: validators.ProductValidator},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	names, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", names)
	return nil
}
