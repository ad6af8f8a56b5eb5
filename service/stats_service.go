package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
	"github.com/shahriakhansejan/core-bits-server/store"
)

const (
	pendingPreviewLimit   = 5
	limitedStockThreshold = 10
	topRequestedLimit     = 4
)

type TypeCounts struct {
	Returnable    int `json:"returnable"`
	NonReturnable int `json:"nonReturnable"`
}

// HRStats is the derived dashboard snapshot for one HR scope. Nothing here
// is persisted; every field is recomputed from the request and asset
// collections on each call.
type HRStats struct {
	PendingRequests []models.Request `json:"pendingRequests"`
	TypeCounts      TypeCounts       `json:"typeCounts"`
	LimitedStock    []models.Asset   `json:"limitedStock"`
	TopRequested    []models.Asset   `json:"topRequested"`
}

// EmployeeSummary mirrors the employee home view: open requests plus the
// requests made in the current calendar month.
type EmployeeSummary struct {
	PendingRequests      []models.Request `json:"pendingRequests"`
	CurrentMonthRequests []models.Request `json:"currentMonthRequests"`
}

type StatsService struct {
	requests store.RequestStore
	assets   store.AssetStore
	log      *zap.SugaredLogger
}

func NewStatsService(requests store.RequestStore, assets store.AssetStore, log *zap.SugaredLogger) *StatsService {
	return &StatsService{requests: requests, assets: assets, log: log}
}

// GetHRStats computes the dashboard for the calling HR. The request scan
// and the low-stock query are independent, so they run in parallel.
func (s *StatsService) GetHRStats(ctx context.Context, ident Identity) (*HRStats, error) {
	if err := requireRole(ident, models.RoleHR); err != nil {
		return nil, err
	}
	if ident.Email == "" {
		return nil, errs.NewInvalidArgument("hr email is required")
	}

	var (
		wg           sync.WaitGroup
		allRequests  []models.Request
		limitedStock []models.Asset
		reqErr       error
		stockErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		allRequests, reqErr = s.requests.List(ctx, store.RequestFilter{HREmail: ident.Email})
	}()
	go func() {
		defer wg.Done()
		limitedStock, stockErr = s.assets.ListLimitedStock(ctx, ident.Email, limitedStockThreshold)
	}()
	wg.Wait()

	if reqErr != nil {
		return nil, reqErr
	}
	if stockErr != nil {
		return nil, stockErr
	}

	stats := &HRStats{
		PendingRequests: []models.Request{},
		LimitedStock:    limitedStock,
		TopRequested:    []models.Asset{},
	}

	// One pass over the full request set: pending preview, type breakdown
	// and the per-asset frequency map. Requests arrive newest-first, so the
	// preview is the 5 most recent pending ones.
	freq := make(map[primitive.ObjectID]int)
	for _, req := range allRequests {
		if req.Status == models.StatusPending && len(stats.PendingRequests) < pendingPreviewLimit {
			stats.PendingRequests = append(stats.PendingRequests, req)
		}
		switch req.AssetType {
		case models.TypeReturnable:
			stats.TypeCounts.Returnable++
		case models.TypeNonReturnable:
			stats.TypeCounts.NonReturnable++
		}
		freq[req.AssetID]++
	}

	topIDs := rankTopRequested(freq, topRequestedLimit)
	if len(topIDs) > 0 {
		assets, err := s.assets.GetByIDs(ctx, topIDs)
		if err != nil {
			return nil, err
		}
		stats.TopRequested = orderByRank(assets, topIDs)
	}

	return stats, nil
}

// rankTopRequested sorts asset ids by request count descending; ties break
// on ascending id so the ranking is reproducible.
func rankTopRequested(freq map[primitive.ObjectID]int, limit int) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(freq))
	for id := range freq {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if freq[ids[i]] != freq[ids[j]] {
			return freq[ids[i]] > freq[ids[j]]
		}
		return ids[i].Hex() < ids[j].Hex()
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// orderByRank restores the ranking order after the unordered $in fetch.
func orderByRank(assets []models.Asset, ranked []primitive.ObjectID) []models.Asset {
	byID := make(map[primitive.ObjectID]models.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}
	ordered := make([]models.Asset, 0, len(ranked))
	for _, id := range ranked {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

// GetEmployeeSummary returns the caller's pending requests and the requests
// they made in the current calendar month, both newest-first.
func (s *StatsService) GetEmployeeSummary(ctx context.Context, ident Identity) (*EmployeeSummary, error) {
	if err := requireRole(ident, models.RoleEmployee); err != nil {
		return nil, err
	}

	allRequests, err := s.requests.List(ctx, store.RequestFilter{RequesterEmail: ident.Email})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	summary := &EmployeeSummary{
		PendingRequests:      []models.Request{},
		CurrentMonthRequests: []models.Request{},
	}
	for _, req := range allRequests {
		if req.Status == models.StatusPending {
			summary.PendingRequests = append(summary.PendingRequests, req)
		}
		if req.RequestDate.Year() == now.Year() && req.RequestDate.Month() == now.Month() {
			summary.CurrentMonthRequests = append(summary.CurrentMonthRequests, req)
		}
	}
	return summary, nil
}
