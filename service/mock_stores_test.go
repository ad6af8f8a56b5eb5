package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
	"github.com/shahriakhansejan/core-bits-server/store"
)

// The mocks below mirror the Mongo stores: listings come back newest
// first, status flips and quantity adjustments are conditional updates
// guarded by a mutex so concurrency tests exercise the same
// lost-update protection the real store provides.

// ── Mock AssetStore ──

type mockAssetStore struct {
	mu     sync.Mutex
	assets map[primitive.ObjectID]*models.Asset
	order  []primitive.ObjectID // insertion order
}

func newMockAssetStore() *mockAssetStore {
	return &mockAssetStore{assets: make(map[primitive.ObjectID]*models.Asset)}
}

func (m *mockAssetStore) Insert(_ context.Context, asset *models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if asset.ID.IsZero() {
		asset.ID = primitive.NewObjectID()
	}
	asset.CreatedAt = time.Now().UTC()
	asset.UpdatedAt = asset.CreatedAt
	cp := *asset
	m.assets[asset.ID] = &cp
	m.order = append(m.order, asset.ID)
	return nil
}

func (m *mockAssetStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.assets[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, errs.NewNotFound("asset not found")
}

func (m *mockAssetStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Asset
	for _, id := range ids {
		if a, ok := m.assets[id]; ok {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssetStore) List(_ context.Context, filter store.AssetFilter) ([]models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Asset
	for i := len(m.order) - 1; i >= 0; i-- {
		a := m.assets[m.order[i]]
		if a == nil || a.HREmail != filter.HREmail {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Status == "available" && a.Quantity <= 0 {
			continue
		}
		if filter.Status == "out-of-stock" && a.Quantity > 0 {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAssetStore) ListLimitedStock(_ context.Context, hrEmail string, threshold int) ([]models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Asset
	for i := len(m.order) - 1; i >= 0; i-- {
		a := m.assets[m.order[i]]
		if a != nil && a.HREmail == hrEmail && a.Quantity < threshold {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssetStore) Update(_ context.Context, asset *models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[asset.ID]; !ok {
		return errs.NewNotFound("asset not found")
	}
	asset.UpdatedAt = time.Now().UTC()
	cp := *asset
	m.assets[asset.ID] = &cp
	return nil
}

func (m *mockAssetStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[id]; !ok {
		return errs.NewNotFound("asset not found")
	}
	delete(m.assets, id)
	return nil
}

func (m *mockAssetStore) AdjustQuantity(_ context.Context, id primitive.ObjectID, delta int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return false, nil
	}
	if delta < 0 && a.Quantity < -delta {
		return false, nil
	}
	a.Quantity += delta
	a.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *mockAssetStore) quantity(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.assets[id]; ok {
		return a.Quantity
	}
	return -1
}

// ── Mock RequestStore ──

type mockRequestStore struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.Request
	order    []primitive.ObjectID
}

func newMockRequestStore() *mockRequestStore {
	return &mockRequestStore{requests: make(map[primitive.ObjectID]*models.Request)}
}

func (m *mockRequestStore) Insert(_ context.Context, req *models.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	cp := *req
	m.requests[req.ID] = &cp
	m.order = append(m.order, req.ID)
	return nil
}

func (m *mockRequestStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, errs.NewNotFound("request not found")
}

func (m *mockRequestStore) List(_ context.Context, filter store.RequestFilter) ([]models.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Request
	for i := len(m.order) - 1; i >= 0; i-- {
		r := m.requests[m.order[i]]
		if r == nil {
			continue
		}
		if filter.HREmail != "" && r.HREmail != filter.HREmail {
			continue
		}
		if filter.RequesterEmail != "" && r.RequesterEmail != filter.RequesterEmail {
			continue
		}
		if filter.SearchRequester != "" && !strings.Contains(strings.ToLower(r.RequesterName), strings.ToLower(filter.SearchRequester)) {
			continue
		}
		if filter.SearchAsset != "" && !strings.Contains(strings.ToLower(r.AssetName), strings.ToLower(filter.SearchAsset)) {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Type != "" && r.AssetType != filter.Type {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRequestStore) CountByAsset(_ context.Context, assetID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.requests {
		if r.AssetID == assetID {
			n++
		}
	}
	return n, nil
}

func (m *mockRequestStore) CountOpenByAsset(_ context.Context, assetID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.requests {
		if r.AssetID == assetID && (r.Status == models.StatusPending || r.Status == models.StatusApproved) {
			n++
		}
	}
	return n, nil
}

func (m *mockRequestStore) MarkApproved(_ context.Context, id primitive.ObjectID, approveDate time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.Status != models.StatusPending {
		return false, nil
	}
	r.Status = models.StatusApproved
	r.ApproveDate = &approveDate
	return true, nil
}

func (m *mockRequestStore) RevertApproved(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok && r.Status == models.StatusApproved {
		r.Status = models.StatusPending
		r.ApproveDate = nil
	}
	return nil
}

func (m *mockRequestStore) MarkReturned(_ context.Context, id primitive.ObjectID, returnDate time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.Status != models.StatusApproved {
		return false, nil
	}
	r.Status = models.StatusReturned
	r.ReturnDate = &returnDate
	return true, nil
}

func (m *mockRequestStore) RevertReturned(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok && r.Status == models.StatusReturned {
		r.Status = models.StatusApproved
		r.ReturnDate = nil
	}
	return nil
}

func (m *mockRequestStore) DeletePending(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.Status != models.StatusPending {
		return false, nil
	}
	delete(m.requests, id)
	return true, nil
}

func (m *mockRequestStore) status(id primitive.ObjectID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		return r.Status
	}
	return ""
}

// ── Mock UserStore ──

type mockUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *mockUserStore) add(user *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	m.users[user.ID] = &cp
	return user
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.NewNotFound("user not found")
}

func (m *mockUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, errs.NewNotFound("user not found")
}

func (m *mockUserStore) ListByRole(_ context.Context, role string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserStore) ListByHR(_ context.Context, hrEmail string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.User
	for _, u := range m.users {
		if u.HREmail == hrEmail {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserStore) UpdateRole(_ context.Context, id primitive.ObjectID, role, hrEmail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return errs.NewNotFound("user not found")
	}
	u.Role = role
	u.HREmail = hrEmail
	return nil
}

// ── Mock HRInfoStore ──

type mockHRInfoStore struct {
	mu      sync.Mutex
	records map[string]*models.HRInfo // keyed by email
}

func newMockHRInfoStore() *mockHRInfoStore {
	return &mockHRInfoStore{records: make(map[string]*models.HRInfo)}
}

func (m *mockHRInfoStore) add(info *models.HRInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if info.ID.IsZero() {
		info.ID = primitive.NewObjectID()
	}
	cp := *info
	m.records[info.Email] = &cp
}

func (m *mockHRInfoStore) GetByEmail(_ context.Context, email string) (*models.HRInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if info, ok := m.records[email]; ok {
		cp := *info
		return &cp, nil
	}
	return nil, errs.NewNotFound("hr info not found")
}

func (m *mockHRInfoStore) UpdatePackage(_ context.Context, email string, pkg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.records[email]
	if !ok {
		return errs.NewNotFound("hr info not found")
	}
	info.Package = pkg
	return nil
}

// ── Recording EventPublisher ──

type recordedEvent struct {
	Scope   string
	Event   string
	Payload interface{}
}

type mockPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (m *mockPublisher) Publish(scope, event string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{Scope: scope, Event: event, Payload: payload})
}

func (m *mockPublisher) byType(event string) []recordedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []recordedEvent
	for _, e := range m.events {
		if e.Event == event {
			result = append(result, e)
		}
	}
	return result
}
