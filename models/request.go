package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request status values. Rejected and withdrawn requests are deleted
// outright, so only these three ever persist.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusReturned = "returned"
)

// Request is an employee's ask for one unit of an Asset. AssetName,
// AssetType and HREmail are snapshots taken at creation time: reporting
// reflects the asset as it was when requested, even if the asset is
// edited later.
type Request struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterEmail string             `bson:"requesterEmail" json:"requesterEmail"`
	RequesterName  string             `bson:"requesterName" json:"requesterName"`
	AssetID        primitive.ObjectID `bson:"assetId" json:"assetId"`
	AssetName      string             `bson:"assetName" json:"assetName"`
	AssetType      string             `bson:"assetType" json:"assetType"`
	HREmail        string             `bson:"hrEmail" json:"hrEmail"`
	Status         string             `bson:"status" json:"status"`
	Note           string             `bson:"note,omitempty" json:"note,omitempty"`
	RequestDate    time.Time          `bson:"requestDate" json:"requestDate"`
	ApproveDate    *time.Time         `bson:"approveDate,omitempty" json:"approveDate,omitempty"`
	ReturnDate     *time.Time         `bson:"returnDate,omitempty" json:"returnDate,omitempty"`
}
