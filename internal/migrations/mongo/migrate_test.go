package mongo

import (
	"testing"

	"gymstore/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections(t *testing.T) {
	var names []string
	for _, c := range Collections() {
		names = append(names, c.Name)
		assert.NotEmpty(t, c.Indexes, c.Name)
		assert.Contains(t, c.Validator, "$jsonSchema", c.Name)
	}
	assert.Equal(t, []string{"Bookings", "Orders", "Users", "Products"}, names)
}

func TestConfirmedSlotIndex(t *testing.T) {
	idx := BookingsIndexes[0]
	require.NotNil(t, idx.Options)

	assert.Equal(t, ConfirmedSlotIndex, *idx.Options.Name)
	assert.True(t, *idx.Options.Unique)
	assert.Equal(t, bson.M{"status": model.BookingStatusConfirmed}, idx.Options.PartialFilterExpression)

	var keys []string
	for _, k := range idx.Keys.(bson.D) {
		keys = append(keys, k.Key)
	}
	assert.Equal(t, []string{"gym", "facility", "date", "time_slot"}, keys)
}

func TestUniqueEmailIndex(t *testing.T) {
	idx := UsersIndexes[0]
	require.NotNil(t, idx.Options)
	assert.True(t, *idx.Options.Unique)
	assert.Equal(t, bson.D{{Key: "email", Value: 1}}, idx.Keys)
}
