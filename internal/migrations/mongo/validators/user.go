package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "password_hash", "role", "cart_data", "credential_version", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":           bson.M{"bsonType": "objectId"},
			"name":          bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"email":         bson.M{"bsonType": "string"},
			"password_hash": bson.M{"bsonType": "string"},
			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"user", "admin", "branch"},
			},
			"gym":       bson.M{"bsonType": "string"},
			"cart_data": bson.M{"bsonType": "object"},
			"credential_version": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},
			"password_updated_at": bson.M{"bsonType": "date"},
			"is_verified":         bson.M{"bsonType": "bool"},
			"otp_hash":            bson.M{"bsonType": "string"},
			"otp_expires_at":      bson.M{"bsonType": "date"},
			"created_at":          bson.M{"bsonType": "date"},
		},
	},
}
