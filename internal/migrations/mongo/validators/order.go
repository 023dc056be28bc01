package validators

import "go.mongodb.org/mongo-driver/bson"

var OrderValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"items",
			"address",
			"amount",
			"payment_method",
			"payment",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":     bson.M{"bsonType": "objectId"},
			"user_id": bson.M{"bsonType": "string"},
			"items": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"product_id", "quantity", "price"},
					"properties": bson.M{
						"product_id": bson.M{"bsonType": "string"},
						"quantity":   bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
						"price":      bson.M{"bsonType": []string{"double", "int", "long"}, "minimum": 0},
					},
				},
			},
			"address": bson.M{"bsonType": "object"},
			"amount":  bson.M{"bsonType": []string{"double", "int", "long"}, "minimum": 0},
			"payment_method": bson.M{
				"bsonType": "string",
				"enum":     []string{"COD", "MercadoPago", "Omise"},
			},
			"payment": bson.M{"bsonType": "bool"},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"PaymentPending", "OrderPlaced", "Delivered", "Cancelled"},
			},
			"gateway_ref": bson.M{"bsonType": "string"},
			"created_at":  bson.M{"bsonType": "date"},
		},
	},
}
