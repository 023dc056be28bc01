package repository

import (
	"errors"
	"testing"

	productserrors "gymstore/internal/products/errors"
	"gymstore/pkg/model"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter model.ProductFilter
		want   bson.M
	}{
		{"empty", model.ProductFilter{}, bson.M{}},
		{"category", model.ProductFilter{Category: "Men"}, bson.M{"category": "Men"}},
		{
			"all",
			model.ProductFilter{Category: "Men", SubCategory: "Topwear", OnDiscount: true},
			bson.M{"category": "Men", "sub_category": "Topwear", "discount": bson.M{"$gt": 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilter(tt.filter))
		})
	}
}

func TestBuildSort(t *testing.T) {
	tests := []struct {
		name   string
		filter model.ProductFilter
		want   bson.D
	}{
		{"default newest first", model.ProductFilter{}, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{"price ascending", model.ProductFilter{SortBy: model.ProductSortPrice, Ascending: true}, bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}},
		{"discount descending", model.ProductFilter{SortBy: model.ProductSortDiscount}, bson.D{{Key: "discount", Value: -1}, {Key: "_id", Value: -1}}},
		{"unknown key falls back", model.ProductFilter{SortBy: "name"}, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSort(tt.filter))
		})
	}
}

func TestUpdateFields(t *testing.T) {
	fields := updateFields(&model.Product{ID: "p1", Name: "Tee", Price: 20, Images: []string{"a.png"}})

	assert.Equal(t, "Tee", fields["name"])
	assert.Equal(t, []string{"a.png"}, fields[FieldImages])
	assert.Equal(t, []string{}, fields[FieldVideos], "stored arrays are never null")
	assert.NotContains(t, fields, "_id")
	assert.NotContains(t, fields, "created_at")
}

func TestToObjectID(t *testing.T) {
	_, err := toObjectID("nope")
	assert.True(t, errors.Is(err, productserrors.ErrInvalidID))

	id, err := toObjectID("65a1b2c3d4e5f60718293a4b")
	assert.NoError(t, err)
	assert.Equal(t, "65a1b2c3d4e5f60718293a4b", id.Hex())
}
