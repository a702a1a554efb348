package store

import (
	"context"

	"github.com/swgwatch/swgwatch/pkg/sqlstore"
	"github.com/swgwatch/swgwatch/pkg/types"
)

// Provider is the persistence boundary the engines work against. The
// concrete sqlstore implementation is injected at core setup; tests swap
// in in-memory fakes.
type Provider interface {
	ResourceStore() ResourceStore
	ResourceClassStore() ResourceClassStore
	TreeMetadataStore() TreeMetadataStore
	CacheTimestampStore() CacheTimestampStore
	MailStore() MailStore
	SaleStore() SaleStore
	// Transaction wraps fn in one atomic transaction; nested store calls
	// made with the returned ctx join it.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ResourceStore persists harvestable resources. Rows are never deleted;
// despawn is a state transition.
type ResourceStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.PersistedResource) error
	Update(ctx context.Context, data types.PersistedResource) error
	Get(ctx context.Context, id int64) (*types.PersistedResource, error)
	GetByName(ctx context.Context, name string) (*types.PersistedResource, error)
	// ListSpawnedIDs returns the ids currently flagged as spawned.
	ListSpawnedIDs(ctx context.Context) ([]int64, error)
	// DespawnMissing transitions every spawned resource whose id is not in
	// keep to despawned, stamped with at. An empty keep despawns everything.
	DespawnMissing(ctx context.Context, keep []int64, at int64) (int64, error)
	UpdateEnrichment(ctx context.Context, id int64, stats types.ResourceStats, qualityScore float64, at int64) error
	List(ctx context.Context, opts types.ListResourceOptions, page, pageSize uint64) ([]*types.PersistedResource, error)
	Total(ctx context.Context, opts types.ListResourceOptions) (int64, error)
	CountByClass(ctx context.Context) (map[string]int64, error)
	TopQuality(ctx context.Context, limit uint64) ([]*types.PersistedResource, error)
}

// ResourceClassStore persists the classification hierarchy. The tree is
// replaced wholesale on import; there is no incremental mutation.
type ResourceClassStore interface {
	sqlstore.SqlCommons
	DeleteAll(ctx context.Context) error
	Create(ctx context.Context, data types.ResourceClassNode) error
	Get(ctx context.Context, id string) (*types.ResourceClassNode, error)
	GetByNumericID(ctx context.Context, numericID int64) (*types.ResourceClassNode, error)
	ListChildren(ctx context.Context, parentID string) ([]*types.ResourceClassNode, error)
	ListByNamePrefix(ctx context.Context, prefix string, limit uint64) ([]*types.ResourceClassNode, error)
	ListByNameSubstring(ctx context.Context, sub string, limit uint64) ([]*types.ResourceClassNode, error)
	Count(ctx context.Context) (int64, error)
}

type TreeMetadataStore interface {
	sqlstore.SqlCommons
	Upsert(ctx context.Context, data types.TreeMetadata) error
	Get(ctx context.Context) (*types.TreeMetadata, error)
}

type CacheTimestampStore interface {
	sqlstore.SqlCommons
	Get(ctx context.Context, datasetKey string) (*types.CacheTimestamp, error)
	Upsert(ctx context.Context, datasetKey string, lastUpdated int64) error
}

type MailStore interface {
	sqlstore.SqlCommons
	// Create inserts with an ignore-on-conflict policy keyed by the source
	// message id and reports whether a row was actually written.
	Create(ctx context.Context, data *types.GameMail) (bool, error)
	Get(ctx context.Context, id int64) (*types.GameMail, error)
	// ListUnprocessedSales selects mails from sender whose subject matches
	// subjectLike and that have no corresponding sale row yet.
	ListUnprocessedSales(ctx context.Context, sender, subjectLike string, limit uint64) ([]*types.GameMail, error)
}

type SaleStore interface {
	sqlstore.SqlCommons
	// Create inserts with an ignore-on-conflict policy keyed by mail id
	// and reports whether a row was actually written.
	Create(ctx context.Context, data *types.SaleEvent) (bool, error)
	GetByMailID(ctx context.Context, mailID int64) (*types.SaleEvent, error)
	List(ctx context.Context, page, pageSize uint64) ([]*types.SaleEvent, error)
	SummarizeByCategoryTier(ctx context.Context, limit uint64) ([]types.SaleSummary, error)
	TotalCredits(ctx context.Context) (int64, error)
}
