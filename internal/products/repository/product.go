package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	productserrors "gymstore/internal/products/errors"
	"gymstore/pkg/config"
	mongotx "gymstore/pkg/db/mongo"
	"gymstore/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Products"

	FieldImages = "images"
	FieldVideos = "videos"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filter model.ProductFilter, limit int, offset int64) ([]*model.Product, error)
	Count(ctx context.Context, filter model.ProductFilter) (int64, error)
	Update(ctx context.Context, id string, product *model.Product) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	AppendMedia(ctx context.Context, id, field, url string) (*model.Product, error)
}

type mongoProductRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoProductRepository(cfg *config.Config) ProductRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProductRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoProductRepository) Create(ctx context.Context, product *model.Product) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	product.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Videos == nil {
		product.Videos = []string{}
	}

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid.Hex()
	}
	return nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return nil, err
	}

	var product model.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, productserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *mongoProductRepository) FindAll(ctx context.Context, filter model.ProductFilter, limit int, offset int64) ([]*model.Product, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(buildSort(filter)).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*model.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *mongoProductRepository) Count(ctx context.Context, filter model.ProductFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Update overwrites the editable fields of the product and returns the
// stored document.
func (r *mongoProductRepository) Update(ctx context.Context, id string, product *model.Product) (*model.Product, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Product
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": updateFields(product)}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, productserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &updated, nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := toObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return productserrors.ErrNotFound
	}
	return nil
}

// AppendMedia pushes url onto the images or videos array of the product.
func (r *mongoProductRepository) AppendMedia(ctx context.Context, id, field, url string) (*model.Product, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if field != FieldImages && field != FieldVideos {
		return nil, fmt.Errorf("unknown media field %q", field)
	}
	objectID, err := toObjectID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$push": bson.M{field: url}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product model.Product
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, productserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to append media: %w", err)
	}
	return &product, nil
}

func updateFields(p *model.Product) bson.M {
	images, videos := p.Images, p.Videos
	if images == nil {
		images = []string{}
	}
	if videos == nil {
		videos = []string{}
	}
	return bson.M{
		"name":         p.Name,
		"description":  p.Description,
		"price":        p.Price,
		"category":     p.Category,
		"sub_category": p.SubCategory,
		"sizes":        p.Sizes,
		FieldImages:    images,
		FieldVideos:    videos,
		"bestseller":   p.Bestseller,
		"discount":     p.Discount,
	}
}

func buildFilter(filter model.ProductFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.SubCategory != "" {
		query["sub_category"] = filter.SubCategory
	}
	if filter.OnDiscount {
		query["discount"] = bson.M{"$gt": 0}
	}
	return query
}

// buildSort orders by the requested key, newest first by default. _id breaks
// ties so pagination is stable.
func buildSort(filter model.ProductFilter) bson.D {
	key := "created_at"
	switch filter.SortBy {
	case model.ProductSortPrice:
		key = "price"
	case model.ProductSortDiscount:
		key = "discount"
	}

	dir := -1
	if filter.Ascending {
		dir = 1
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: dir}}
}

func toObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", productserrors.ErrInvalidID, id)
	}
	return objectID, nil
}
