package repository

import (
	"errors"
	"reflect"
	"testing"

	orderserrors "gymstore/internal/orders/errors"
	"gymstore/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter model.OrderFilter
		want   bson.M
	}{
		{"empty", model.OrderFilter{}, bson.M{}},
		{"user", model.OrderFilter{UserID: "u1"}, bson.M{"user_id": "u1"}},
		{"user and status", model.OrderFilter{UserID: "u1", Status: model.OrderStatusPlaced}, bson.M{"user_id": "u1", "status": model.OrderStatusPlaced}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildFilter(tt.filter); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToObjectID(t *testing.T) {
	if _, err := toObjectID("not-an-id"); !errors.Is(err, orderserrors.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	id, err := toObjectID("507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Hex() != "507f1f77bcf86cd799439011" {
		t.Errorf("unexpected id %s", id.Hex())
	}
}
