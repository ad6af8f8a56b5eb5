package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
)

// Collection names.
const (
	assetsCollection   = "assets"
	requestsCollection = "requests"
	usersCollection    = "users"
	hrDataCollection   = "hrData"
)

// AssetFilter is the composed predicate for scoped asset listings. Search,
// Status and Type are pushed into the Mongo query; quantity sorting is a
// secondary in-memory pass applied by the caller (see service.sortByQuantity).
type AssetFilter struct {
	HREmail string
	Search  string // substring match on name, case-insensitive
	Status  string // "available" (quantity > 0) or "out-of-stock" (quantity <= 0)
	Type    string // "returnable" or "non-returnable"
}

// RequestFilter scopes request listings. Exactly one of HREmail or
// RequesterEmail is expected to be set. SearchRequester matches the
// denormalized requester name, SearchAsset the denormalized asset name.
type RequestFilter struct {
	HREmail         string
	RequesterEmail  string
	SearchRequester string
	SearchAsset     string
	Status          string
	Type            string
}

type AssetStore interface {
	Insert(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Asset, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]models.Asset, error)
	ListLimitedStock(ctx context.Context, hrEmail string, threshold int) ([]models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// AdjustQuantity applies an atomic conditional increment. For negative
	// deltas the update matches only while quantity >= -delta, so the stored
	// quantity can never go negative under concurrent approvals. Returns
	// false when the guard did not match.
	AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) (bool, error)
}

type RequestStore interface {
	Insert(ctx context.Context, req *models.Request) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]models.Request, error)
	CountByAsset(ctx context.Context, assetID primitive.ObjectID) (int64, error)

	// CountOpenByAsset counts only pending and approved requests; returned
	// ones are settled and do not pin the asset.
	CountOpenByAsset(ctx context.Context, assetID primitive.ObjectID) (int64, error)

	// Status transitions are conditional single-document updates: the filter
	// names the status the request must currently hold, so a concurrent
	// transition makes the update match nothing rather than double-apply.
	MarkApproved(ctx context.Context, id primitive.ObjectID, approveDate time.Time) (bool, error)
	RevertApproved(ctx context.Context, id primitive.ObjectID) error
	MarkReturned(ctx context.Context, id primitive.ObjectID, returnDate time.Time) (bool, error)
	RevertReturned(ctx context.Context, id primitive.ObjectID) error
	DeletePending(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	ListByHR(ctx context.Context, hrEmail string) ([]models.User, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role, hrEmail string) error
}

type HRInfoStore interface {
	GetByEmail(ctx context.Context, email string) (*models.HRInfo, error)
	UpdatePackage(ctx context.Context, email string, pkg string) error
}

// Stores bundles the Mongo-backed store implementations for injection.
type Stores struct {
	Assets   AssetStore
	Requests RequestStore
	Users    UserStore
	HRInfo   HRInfoStore
}

func New(db *mongo.Database) *Stores {
	return &Stores{
		Assets:   &mongoAssetStore{col: db.Collection(assetsCollection)},
		Requests: &mongoRequestStore{col: db.Collection(requestsCollection)},
		Users:    &mongoUserStore{col: db.Collection(usersCollection)},
		HRInfo:   &mongoHRInfoStore{col: db.Collection(hrDataCollection)},
	}
}

// wrapErr maps driver errors onto domain kinds: missing documents become
// NotFound, everything else is a transient store failure the caller may
// retry.
func wrapErr(err error, notFoundMsg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.NewNotFound(notFoundMsg)
	}
	return errs.NewStoreUnavailable(err)
}
