package models

import (
	"fmt"
	"maps"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the document identifier key shared by every store backend.
const IDField = "_id"

// Card is a schema-free card document. Only "_id" has meaning to the service.
type Card map[string]interface{}

// ID returns the card's identifier in wire form.
func (c Card) ID() string {
	return IDString(c[IDField])
}

// StringifyID replaces a native identifier with its string form.
func (c Card) StringifyID() {
	if v, ok := c[IDField]; ok {
		c[IDField] = IDString(v)
	}
}

// EnsureID assigns a new ObjectID when the card has no identifier and
// converts a supplied hex string into an ObjectID. Any other supplied value
// is stored in its string form, so 5 and "5" name the same card on every
// backend.
func (c Card) EnsureID() {
	v, ok := c[IDField]
	if !ok || v == nil {
		c[IDField] = primitive.NewObjectID()
		return
	}
	if _, ok := v.(primitive.ObjectID); ok {
		return
	}
	s := IDString(v)
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		c[IDField] = oid
		return
	}
	c[IDField] = s
}

// Clone returns a shallow copy of the card.
func (c Card) Clone() Card {
	return maps.Clone(c)
}

// IDString renders a stored identifier as a string.
func IDString(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// number is satisfied by json.Number and attributevalue.Number.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// NormalizeNumbers walks a value decoded with UseNumber (JSON or DynamoDB)
// and replaces each number with int64 where it is integral and float64
// otherwise, so stores never see numbers as strings.
func NormalizeNumbers(v interface{}) interface{} {
	switch val := v.(type) {
	case number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]interface{}:
		for k, inner := range val {
			val[k] = NormalizeNumbers(inner)
		}
		return val
	case Card:
		for k, inner := range val {
			val[k] = NormalizeNumbers(inner)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = NormalizeNumbers(inner)
		}
		return val
	default:
		return v
	}
}
