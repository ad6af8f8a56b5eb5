package service

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
	"github.com/shahriakhansejan/core-bits-server/store"
)

// Quantity sort directions accepted by asset listings.
const (
	SortQuantityHigh = "high"
	SortQuantityLow  = "low"
)

type AssetService struct {
	assets   store.AssetStore
	requests store.RequestStore
	log      *zap.SugaredLogger
}

func NewAssetService(assets store.AssetStore, requests store.RequestStore, log *zap.SugaredLogger) *AssetService {
	return &AssetService{assets: assets, requests: requests, log: log}
}

// AssetQuery is the caller-facing filter set. Search, Status and Type are
// pushed into the store query; Sort is applied afterwards as a stable
// in-memory pass so that insertion order (newest first) still breaks ties.
type AssetQuery struct {
	Search string
	Status string
	Type   string
	Sort   string
}

func (s *AssetService) ListForHR(ctx context.Context, ident Identity, q AssetQuery) ([]models.Asset, error) {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return nil, err
	}
	return s.list(ctx, ident.Email, q)
}

func (s *AssetService) ListForEmployee(ctx context.Context, ident Identity, q AssetQuery) ([]models.Asset, error) {
	if err := requireRole(ident, models.RoleEmployee); err != nil {
		return nil, err
	}
	if ident.HREmail == "" {
		return nil, errs.NewForbidden("employee has no HR affiliation")
	}
	return s.list(ctx, ident.HREmail, q)
}

func (s *AssetService) list(ctx context.Context, scope string, q AssetQuery) ([]models.Asset, error) {
	assets, err := s.assets.List(ctx, store.AssetFilter{
		HREmail: scope,
		Search:  q.Search,
		Status:  q.Status,
		Type:    q.Type,
	})
	if err != nil {
		return nil, err
	}
	sortByQuantity(assets, q.Sort)
	return assets, nil
}

func sortByQuantity(assets []models.Asset, dir string) {
	switch dir {
	case SortQuantityHigh:
		sort.SliceStable(assets, func(i, j int) bool { return assets[i].Quantity > assets[j].Quantity })
	case SortQuantityLow:
		sort.SliceStable(assets, func(i, j int) bool { return assets[i].Quantity < assets[j].Quantity })
	}
}

// Get returns one asset, visible to its owning HR and to employees
// affiliated with that HR.
func (s *AssetService) Get(ctx context.Context, ident Identity, id primitive.ObjectID) (*models.Asset, error) {
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.HREmail != ident.Scope() {
		return nil, errs.NewForbidden("asset belongs to another HR scope")
	}
	return asset, nil
}

type AssetInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Image    string `json:"img,omitempty"`
}

func (in AssetInput) validate() error {
	if in.Name == "" {
		return errs.NewInvalidArgument("name is required")
	}
	if !models.ValidAssetType(in.Type) {
		return errs.NewInvalidArgument("type must be returnable or non-returnable")
	}
	if in.Quantity < 0 {
		return errs.NewInvalidArgument("quantity cannot be negative")
	}
	return nil
}

func (s *AssetService) Create(ctx context.Context, ident Identity, in AssetInput) (*models.Asset, error) {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	asset := &models.Asset{
		Name:     in.Name,
		Type:     in.Type,
		Quantity: in.Quantity,
		Image:    in.Image,
		HREmail:  ident.Email,
	}
	if err := s.assets.Insert(ctx, asset); err != nil {
		return nil, err
	}

	s.log.Infow("asset created", "asset", asset.ID.Hex(), "hr", ident.Email)
	return asset, nil
}

// Update edits an owned asset. The type becomes immutable once any request
// references the asset, so historical type counts keep meaning.
func (s *AssetService) Update(ctx context.Context, ident Identity, id primitive.ObjectID, in AssetInput) (*models.Asset, error) {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.HREmail != ident.Email {
		return nil, errs.NewForbidden("asset belongs to another HR scope")
	}

	if in.Type != asset.Type {
		referenced, err := s.requests.CountByAsset(ctx, id)
		if err != nil {
			return nil, err
		}
		if referenced > 0 {
			return nil, errs.NewInvalidArgument("asset type cannot change once requests reference it")
		}
	}

	asset.Name = in.Name
	asset.Type = in.Type
	asset.Quantity = in.Quantity
	asset.Image = in.Image

	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, err
	}

	s.log.Infow("asset updated", "asset", id.Hex(), "hr", ident.Email)
	return asset, nil
}

// Delete removes an owned asset. Assets with open (pending or approved)
// requests cannot be deleted: an approved request still owes a return
// increment against this record, and a pending one would approve against
// nothing. Settled (returned) requests keep their snapshots and do not
// block.
func (s *AssetService) Delete(ctx context.Context, ident Identity, id primitive.ObjectID) error {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return err
	}

	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if asset.HREmail != ident.Email {
		return errs.NewForbidden("asset belongs to another HR scope")
	}

	open, err := s.requests.CountOpenByAsset(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return errs.NewInvalidArgument("asset has open requests")
	}

	if err := s.assets.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Infow("asset deleted", "asset", id.Hex(), "hr", ident.Email)
	return nil
}
