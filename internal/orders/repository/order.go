package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	orderserrors "gymstore/internal/orders/errors"
	"gymstore/pkg/config"
	mongotx "gymstore/pkg/db/mongo"
	"gymstore/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Orders"
)

// StatusChange moves an order to To, but only while it is in one of From.
type StatusChange struct {
	From        []string
	To          string
	Payment     *bool
	AdminNotes  string
	TrackingRef string
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filter model.OrderFilter, limit int, offset int64) ([]*model.Order, error)
	Count(ctx context.Context, filter model.OrderFilter) (int64, error)
	SetGatewayRef(ctx context.Context, id, ref string) error
	Transition(ctx context.Context, id string, change StatusChange) (*model.Order, error)
	DeletePending(ctx context.Context, id string) error
	FindStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]*model.Order, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoOrderRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoOrderRepository(cfg *config.Config) OrderRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOrderRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	order.CreatedAt = now
	order.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid.Hex()
	}
	return nil
}

func (r *mongoOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return nil, err
	}

	var order model.Order
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, orderserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) FindAll(ctx context.Context, filter model.OrderFilter, limit int, offset int64) ([]*model.Order, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*model.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepository) Count(ctx context.Context, filter model.OrderFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *mongoOrderRepository) SetGatewayRef(ctx context.Context, id, ref string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"gateway_ref": ref,
		"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to set gateway reference: %w", err)
	}
	if result.MatchedCount == 0 {
		return orderserrors.ErrNotFound
	}
	return nil
}

// Transition applies change atomically. When the order exists but is no
// longer in change.From it returns ErrStatusChanged.
func (r *mongoOrderRepository) Transition(ctx context.Context, id string, change StatusChange) (*model.Order, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"status":     change.To,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if change.Payment != nil {
		set["payment"] = *change.Payment
	}
	if change.AdminNotes != "" {
		set["admin_notes"] = change.AdminNotes
	}
	if change.TrackingRef != "" {
		set["tracking_ref"] = change.TrackingRef
	}

	filter := bson.M{"_id": objectID, "status": bson.M{"$in": change.From}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order model.Order
	err = r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&order)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return nil, r.missOrChanged(ctx, objectID)
}

// DeletePending removes an order that is still awaiting payment. A paid order
// is never deleted.
func (r *mongoOrderRepository) DeletePending(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":     objectID,
		"status":  model.OrderStatusPaymentPending,
		"payment": false,
	})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return r.missOrChanged(ctx, objectID)
	}
	return nil
}

// FindStalePending returns unpaid gateway orders created before the cutoff,
// oldest first.
func (r *mongoOrderRepository) FindStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]*model.Order, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{
		"status":     model.OrderStatusPaymentPending,
		"payment":    false,
		"created_at": bson.M{"$lt": createdBefore},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find stale pending orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode stale pending orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoOrderRepository) missOrChanged(ctx context.Context, objectID primitive.ObjectID) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to check order: %w", err)
	}
	if n == 0 {
		return orderserrors.ErrNotFound
	}
	return orderserrors.ErrStatusChanged
}

func toObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", orderserrors.ErrInvalidID, id)
	}
	return objectID, nil
}

func buildFilter(f model.OrderFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}
