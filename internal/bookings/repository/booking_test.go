package repository

import (
	"testing"

	"gymstore/pkg/model"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter model.BookingFilter
		want   bson.M
	}{
		{"empty", model.BookingFilter{}, bson.M{}},
		{"user", model.BookingFilter{UserID: "u1"}, bson.M{"user_id": "u1"}},
		{"gym", model.BookingFilter{Gym: "A"}, bson.M{"gym": "A"}},
		{"both", model.BookingFilter{UserID: "u1", Gym: "A"}, bson.M{"user_id": "u1", "gym": "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildFilter(tt.filter))
		})
	}
}
