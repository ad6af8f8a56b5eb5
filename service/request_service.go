package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
	"github.com/shahriakhansejan/core-bits-server/store"
)

// RequestService is the only valid state machine for a Request:
//
//	pending  → approved (HR, decrements asset quantity)
//	pending  → deleted  (HR reject / requester withdraw; no record persists)
//	approved → returned (requester, returnable assets only, increments quantity)
//
// Every transition is a conditional single-document update paired with a
// guarded quantity adjustment; when the second half cannot be applied the
// first is compensated so no partial side effect survives.
type RequestService struct {
	requests store.RequestStore
	assets   store.AssetStore
	events   EventPublisher
	log      *zap.SugaredLogger
}

func NewRequestService(requests store.RequestStore, assets store.AssetStore, events EventPublisher, log *zap.SugaredLogger) *RequestService {
	return &RequestService{requests: requests, assets: assets, events: events, log: log}
}

type CreateRequestInput struct {
	AssetID primitive.ObjectID
	Note    string
}

// Create produces a new pending request. Asset type and owning HR are
// captured on the request at creation time so later asset edits do not
// rewrite history. Zero stock does not block creation; the shortage
// surfaces when HR tries to approve.
func (s *RequestService) Create(ctx context.Context, ident Identity, in CreateRequestInput) (*models.Request, error) {
	if err := requireRole(ident, models.RoleEmployee); err != nil {
		return nil, err
	}
	if ident.HREmail == "" {
		return nil, errs.NewForbidden("employee has no HR affiliation")
	}

	asset, err := s.assets.GetByID(ctx, in.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.HREmail != ident.HREmail {
		return nil, errs.NewForbidden("asset belongs to another HR scope")
	}

	req := &models.Request{
		RequesterEmail: ident.Email,
		RequesterName:  ident.Name,
		AssetID:        asset.ID,
		AssetName:      asset.Name,
		AssetType:      asset.Type,
		HREmail:        asset.HREmail,
		Status:         models.StatusPending,
		Note:           in.Note,
		RequestDate:    time.Now().UTC(),
	}

	if err := s.requests.Insert(ctx, req); err != nil {
		return nil, err
	}

	s.log.Infow("request created", "request", req.ID.Hex(), "asset", asset.ID.Hex(), "requester", ident.Email)
	s.publish(req.HREmail, EventRequestCreated, req)
	return req, nil
}

// Approve moves a pending request to approved and decrements the asset
// quantity by one. The status flip and the decrement are both conditional
// updates; if the decrement finds no stock the status is rolled back and
// OutOfStock is reported, leaving the request unmodified.
func (s *RequestService) Approve(ctx context.Context, ident Identity, id primitive.ObjectID, approveDate time.Time) (*models.Request, error) {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.HREmail != ident.Email {
		return nil, errs.NewForbidden("request belongs to another HR scope")
	}

	matched, err := s.requests.MarkApproved(ctx, id, approveDate)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, errs.NewInvalidTransition("only pending requests can be approved")
	}

	ok, err := s.assets.AdjustQuantity(ctx, req.AssetID, -1)
	if err != nil {
		if rerr := s.requests.RevertApproved(ctx, id); rerr != nil {
			s.log.Errorw("failed to revert approval after store error", "request", id.Hex(), "error", rerr)
		}
		return nil, err
	}
	if !ok {
		if rerr := s.requests.RevertApproved(ctx, id); rerr != nil {
			s.log.Errorw("failed to revert approval after stock shortage", "request", id.Hex(), "error", rerr)
		}
		// A non-matching decrement means either no stock or no asset;
		// look the asset up to report the right kind.
		if _, gerr := s.assets.GetByID(ctx, req.AssetID); gerr != nil {
			return nil, gerr
		}
		return nil, errs.NewOutOfStock("asset is out of stock")
	}

	req.Status = models.StatusApproved
	req.ApproveDate = &approveDate

	s.log.Infow("request approved", "request", id.Hex(), "asset", req.AssetID.Hex(), "hr", ident.Email)
	s.publish(req.HREmail, EventRequestApproved, req)
	return req, nil
}

// Reject deletes a pending request outright; no rejected record persists.
func (s *RequestService) Reject(ctx context.Context, ident Identity, id primitive.ObjectID) error {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return err
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.HREmail != ident.Email {
		return errs.NewForbidden("request belongs to another HR scope")
	}

	deleted, err := s.requests.DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NewInvalidTransition("only pending requests can be rejected")
	}

	s.log.Infow("request rejected", "request", id.Hex(), "hr", ident.Email)
	s.publish(req.HREmail, EventRequestRejected, map[string]string{"id": id.Hex()})
	return nil
}

// Return completes the lifecycle of a returnable asset: the requester hands
// the unit back, the request becomes returned and the asset quantity is
// incremented. Non-returnable asset types never reach the returned state.
func (s *RequestService) Return(ctx context.Context, ident Identity, id primitive.ObjectID, returnDate time.Time) (*models.Request, error) {
	if err := requireRole(ident, models.RoleEmployee); err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RequesterEmail != ident.Email {
		return nil, errs.NewForbidden("request belongs to another requester")
	}
	if req.AssetType != models.TypeReturnable {
		return nil, errs.NewInvalidAssetType("non-returnable assets cannot be returned")
	}

	matched, err := s.requests.MarkReturned(ctx, id, returnDate)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, errs.NewInvalidTransition("only approved requests can be returned")
	}

	ok, err := s.assets.AdjustQuantity(ctx, req.AssetID, 1)
	if err != nil {
		if rerr := s.requests.RevertReturned(ctx, id); rerr != nil {
			s.log.Errorw("failed to revert return after store error", "request", id.Hex(), "error", rerr)
		}
		return nil, err
	}
	if !ok {
		// The asset is gone; the request may not read returned while the
		// paired increment never applied.
		if rerr := s.requests.RevertReturned(ctx, id); rerr != nil {
			s.log.Errorw("failed to revert return after missing asset", "request", id.Hex(), "error", rerr)
		}
		return nil, errs.NewNotFound("asset no longer exists")
	}

	req.Status = models.StatusReturned
	req.ReturnDate = &returnDate

	s.log.Infow("request returned", "request", id.Hex(), "asset", req.AssetID.Hex(), "requester", ident.Email)
	s.publish(req.HREmail, EventRequestReturned, req)
	return req, nil
}

// Withdraw lets a requester delete their own request while it is still
// pending. Anything else - wrong requester or a request already decided -
// is forbidden.
func (s *RequestService) Withdraw(ctx context.Context, ident Identity, id primitive.ObjectID) error {
	if err := requireRole(ident, models.RoleEmployee); err != nil {
		return err
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.RequesterEmail != ident.Email {
		return errs.NewForbidden("request belongs to another requester")
	}

	deleted, err := s.requests.DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NewForbidden("only pending requests can be withdrawn")
	}

	s.log.Infow("request withdrawn", "request", id.Hex(), "requester", ident.Email)
	s.publish(req.HREmail, EventRequestWithdrawn, map[string]string{"id": id.Hex()})
	return nil
}

// RequestQuery carries the employee/HR listing filters.
type RequestQuery struct {
	Search string
	Status string
	Type   string
}

// ListForHR returns the HR's full request queue, newest first, with the
// search matching the denormalized requester name.
func (s *RequestService) ListForHR(ctx context.Context, ident Identity, q RequestQuery) ([]models.Request, error) {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return nil, err
	}
	return s.requests.List(ctx, store.RequestFilter{
		HREmail:         ident.Email,
		SearchRequester: q.Search,
		Status:          q.Status,
		Type:            q.Type,
	})
}

// ListForEmployee returns the caller's own requests, newest first, with the
// search matching the denormalized asset name.
func (s *RequestService) ListForEmployee(ctx context.Context, ident Identity, q RequestQuery) ([]models.Request, error) {
	if err := requireRole(ident, models.RoleEmployee); err != nil {
		return nil, err
	}
	return s.requests.List(ctx, store.RequestFilter{
		RequesterEmail: ident.Email,
		SearchAsset:    q.Search,
		Status:         q.Status,
		Type:           q.Type,
	})
}

func (s *RequestService) publish(scope, event string, payload interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(scope, event, payload)
}
