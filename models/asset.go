package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Asset type values. Type is immutable once requests reference the asset so
// that request reporting stays consistent with the snapshot taken at
// request time.
const (
	TypeReturnable    = "returnable"
	TypeNonReturnable = "non-returnable"
)

type Asset struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Type      string             `bson:"type" json:"type"` // returnable, non-returnable
	Quantity  int                `bson:"quantity" json:"quantity"`
	HREmail   string             `bson:"hrEmail" json:"hrEmail"`
	Image     string             `bson:"img,omitempty" json:"img,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidAssetType(t string) bool {
	return t == TypeReturnable || t == TypeNonReturnable
}
