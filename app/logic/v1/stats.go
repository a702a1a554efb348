package v1

import (
	"context"
	"database/sql"

	"github.com/swgwatch/swgwatch/app/core"
	"github.com/swgwatch/swgwatch/pkg/errors"
	"github.com/swgwatch/swgwatch/pkg/types"
)

// StatsLogic produces read-only analytics snapshots. These back both the
// API and the assistant tool surface, so they must stay side-effect free.
type StatsLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewStatsLogic(ctx context.Context, core *core.Core) *StatsLogic {
	return &StatsLogic{
		ctx:  ctx,
		core: core,
	}
}

// InventorySnapshot summarizes what is currently spawned.
type InventorySnapshot struct {
	SpawnedTotal int64                      `json:"spawned_total"`
	CountByClass map[string]int64           `json:"count_by_class"`
	TopQuality   []*types.PersistedResource `json:"top_quality"`
}

func (l *StatsLogic) InventorySnapshot(topN uint64) (*InventorySnapshot, error) {
	if topN == 0 {
		topN = 10
	}

	total, err := l.core.Store().ResourceStore().Total(l.ctx, types.ListResourceOptions{SpawnedOnly: true})
	if err != nil {
		return nil, errors.New("StatsLogic.InventorySnapshot.ResourceStore.Total", errors.ERROR_INTERNAL, err)
	}

	byClass, err := l.core.Store().ResourceStore().CountByClass(l.ctx)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("StatsLogic.InventorySnapshot.ResourceStore.CountByClass", errors.ERROR_INTERNAL, err)
	}

	top, err := l.core.Store().ResourceStore().TopQuality(l.ctx, topN)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("StatsLogic.InventorySnapshot.ResourceStore.TopQuality", errors.ERROR_INTERNAL, err)
	}

	return &InventorySnapshot{
		SpawnedTotal: total,
		CountByClass: byClass,
		TopQuality:   top,
	}, nil
}

// SalesSnapshot summarizes extracted sale events.
type SalesSnapshot struct {
	TotalCredits int64               `json:"total_credits"`
	ByCategory   []types.SaleSummary `json:"by_category"`
	Recent       []*types.SaleEvent  `json:"recent"`
}

func (l *StatsLogic) SalesSnapshot(topN, recentN uint64) (*SalesSnapshot, error) {
	if topN == 0 {
		topN = 10
	}
	if recentN == 0 {
		recentN = 20
	}

	total, err := l.core.Store().SaleStore().TotalCredits(l.ctx)
	if err != nil {
		return nil, errors.New("StatsLogic.SalesSnapshot.SaleStore.TotalCredits", errors.ERROR_INTERNAL, err)
	}

	summary, err := l.core.Store().SaleStore().SummarizeByCategoryTier(l.ctx, topN)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("StatsLogic.SalesSnapshot.SaleStore.SummarizeByCategoryTier", errors.ERROR_INTERNAL, err)
	}

	recent, err := l.core.Store().SaleStore().List(l.ctx, 1, recentN)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("StatsLogic.SalesSnapshot.SaleStore.List", errors.ERROR_INTERNAL, err)
	}

	return &SalesSnapshot{
		TotalCredits: total,
		ByCategory:   summary,
		Recent:       recent,
	}, nil
}

// OverviewSnapshot bundles the inventory and sales pictures with the last
// tree import, for a single dashboard call.
type OverviewSnapshot struct {
	Inventory *InventorySnapshot  `json:"inventory"`
	Sales     *SalesSnapshot      `json:"sales"`
	Tree      *types.TreeMetadata `json:"tree,omitempty"`
}

func (l *StatsLogic) Overview() (*OverviewSnapshot, error) {
	inventory, err := l.InventorySnapshot(0)
	if err != nil {
		return nil, err
	}

	sales, err := l.SalesSnapshot(0, 0)
	if err != nil {
		return nil, err
	}

	tree, err := l.core.Store().TreeMetadataStore().Get(l.ctx)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("StatsLogic.Overview.TreeMetadataStore.Get", errors.ERROR_INTERNAL, err)
	}

	return &OverviewSnapshot{
		Inventory: inventory,
		Sales:     sales,
		Tree:      tree,
	}, nil
}

// TreeSnapshot reports the last hierarchy import for diagnostics.
func (l *StatsLogic) TreeSnapshot() (*types.TreeMetadata, error) {
	meta, err := l.core.Store().TreeMetadataStore().Get(l.ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("StatsLogic.TreeSnapshot.NotFound", errors.ERROR_NOT_FOUND, err).Code(404)
		}
		return nil, errors.New("StatsLogic.TreeSnapshot.TreeMetadataStore.Get", errors.ERROR_INTERNAL, err)
	}
	return meta, nil
}
