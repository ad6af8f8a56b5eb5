package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUnassigned = "unassigned"
	RoleEmployee   = "employee"
	RoleHR         = "hr"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"` // unassigned, employee, hr
	HREmail      string             `bson:"hrEmail,omitempty" json:"hrEmail,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func ValidRole(r string) bool {
	return r == RoleUnassigned || r == RoleEmployee || r == RoleHR
}
