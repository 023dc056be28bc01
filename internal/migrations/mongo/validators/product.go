package validators

import "go.mongodb.org/mongo-driver/bson"

var ProductValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "price", "category", "sub_category", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":          bson.M{"bsonType": "objectId"},
			"name":         bson.M{"bsonType": "string", "minLength": 2, "maxLength": 200},
			"description":  bson.M{"bsonType": "string"},
			"price":        bson.M{"bsonType": []string{"double", "int", "long"}, "minimum": 0},
			"images":       bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"videos":       bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"category":     bson.M{"bsonType": "string"},
			"sub_category": bson.M{"bsonType": "string"},
			"sizes":        bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"bestseller":   bson.M{"bsonType": "bool"},
			"discount": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
				"maximum":  100,
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
