package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// HRInfo holds company metadata for an HR account.
type HRInfo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	Company     string             `bson:"company" json:"company"`
	CompanyLogo string             `bson:"company_logo,omitempty" json:"company_logo,omitempty"`
	Package     string             `bson:"package,omitempty" json:"package,omitempty"`
}
