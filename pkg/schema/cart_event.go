package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "minizon",
	"name": "cart_event",
	"fields": [
		{"name": "profile", "type": "string"},
		{"name": "kind", "type": "string"},
		{"name": "title", "type": "string"},
		{"name": "description", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type CartEventV1 struct {
	Profile     string    `avro:"profile"`
	Kind        string    `avro:"kind"`
	Title       string    `avro:"title"`
	Description string    `avro:"description"`
	ProductID   string    `avro:"product_id"`
	OccurredAt  time.Time `avro:"occurred_at"`
}

func CartEventV1Avro() avro.Schema {
	return avro.MustParse(CartEventSchemaTextV1)
}
