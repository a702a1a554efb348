package v1

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/swgwatch/swgwatch/app/core"
	"github.com/swgwatch/swgwatch/app/store"
	"github.com/swgwatch/swgwatch/pkg/galaxy"
	"github.com/swgwatch/swgwatch/pkg/types"
)

func newTestCore() (*core.Core, *fakeProvider) {
	provider := newFakeProvider()
	return core.New(core.CoreConfig{}, provider), provider
}

type fakeTable struct{}

func (fakeTable) GetTable(...interface{}) string { return "" }

type fakeProvider struct {
	resources *fakeResourceStore
	classes   *fakeClassStore
	treeMeta  *fakeTreeMetadataStore
	cacheTs   *fakeCacheTimestampStore
	mails     *fakeMailStore
	sales     *fakeSaleStore
}

func newFakeProvider() *fakeProvider {
	p := &fakeProvider{
		resources: &fakeResourceStore{data: map[int64]types.PersistedResource{}},
		classes:   &fakeClassStore{data: map[string]types.ResourceClassNode{}},
		treeMeta:  &fakeTreeMetadataStore{},
		cacheTs:   &fakeCacheTimestampStore{data: map[string]int64{}},
		sales:     &fakeSaleStore{data: map[int64]types.SaleEvent{}},
	}
	p.mails = &fakeMailStore{sales: p.sales}
	return p
}

func (p *fakeProvider) ResourceStore() store.ResourceStore           { return p.resources }
func (p *fakeProvider) ResourceClassStore() store.ResourceClassStore { return p.classes }
func (p *fakeProvider) TreeMetadataStore() store.TreeMetadataStore   { return p.treeMeta }
func (p *fakeProvider) CacheTimestampStore() store.CacheTimestampStore {
	return p.cacheTs
}
func (p *fakeProvider) MailStore() store.MailStore { return p.mails }
func (p *fakeProvider) SaleStore() store.SaleStore { return p.sales }
func (p *fakeProvider) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeResourceStore struct {
	fakeTable
	mu   sync.Mutex
	data map[int64]types.PersistedResource
}

func (s *fakeResourceStore) Create(ctx context.Context, data types.PersistedResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[data.ID] = data
	return nil
}

func (s *fakeResourceStore) Update(ctx context.Context, data types.PersistedResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[data.ID] = data
	return nil
}

func (s *fakeResourceStore) Get(ctx context.Context, id int64) (*types.PersistedResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.data[id]; ok {
		clone := r
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeResourceStore) GetByName(ctx context.Context, name string) (*types.PersistedResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.data {
		if strings.EqualFold(r.Name, name) {
			clone := r
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeResourceStore) ListSpawnedIDs(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for id, r := range s.data {
		if r.IsSpawned {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *fakeResourceStore) DespawnMissing(ctx context.Context, keep []int64, at int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keepSet := map[int64]bool{}
	for _, id := range keep {
		keepSet[id] = true
	}
	var count int64
	for id, r := range s.data {
		if r.IsSpawned && !keepSet[id] {
			r.IsSpawned = false
			r.DespawnAt = at
			s.data[id] = r
			count++
		}
	}
	return count, nil
}

func (s *fakeResourceStore) UpdateEnrichment(ctx context.Context, id int64, stats types.ResourceStats, qualityScore float64, at int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.ResourceStats = stats
	r.QualityScore = qualityScore
	r.LastEnrichedAt = at
	r.UpdatedAt = at
	s.data[id] = r
	return nil
}

func (s *fakeResourceStore) List(ctx context.Context, opts types.ListResourceOptions, page, pageSize uint64) ([]*types.PersistedResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.PersistedResource
	for _, r := range s.data {
		if opts.SpawnedOnly && !r.IsSpawned {
			continue
		}
		clone := r
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeResourceStore) Total(ctx context.Context, opts types.ListResourceOptions) (int64, error) {
	list, _ := s.List(ctx, opts, 0, 0)
	return int64(len(list)), nil
}

func (s *fakeResourceStore) CountByClass(ctx context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int64{}
	for _, r := range s.data {
		if r.IsSpawned {
			out[r.ClassID]++
		}
	}
	return out, nil
}

func (s *fakeResourceStore) TopQuality(ctx context.Context, limit uint64) ([]*types.PersistedResource, error) {
	list, _ := s.List(ctx, types.ListResourceOptions{SpawnedOnly: true}, 0, 0)
	sort.Slice(list, func(i, j int) bool { return list[i].QualityScore > list[j].QualityScore })
	if uint64(len(list)) > limit {
		list = list[:limit]
	}
	return list, nil
}

type fakeClassStore struct {
	fakeTable
	mu   sync.Mutex
	data map[string]types.ResourceClassNode
}

func (s *fakeClassStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]types.ResourceClassNode{}
	return nil
}

func (s *fakeClassStore) Create(ctx context.Context, data types.ResourceClassNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[data.ID] = data
	return nil
}

func (s *fakeClassStore) Get(ctx context.Context, id string) (*types.ResourceClassNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.data[id]; ok {
		clone := n
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeClassStore) GetByNumericID(ctx context.Context, numericID int64) (*types.ResourceClassNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.data {
		if n.NumericID == numericID {
			clone := n
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeClassStore) ListChildren(ctx context.Context, parentID string) ([]*types.ResourceClassNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.ResourceClassNode
	for _, n := range s.data {
		if n.ParentID == parentID {
			clone := n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeClassStore) ListByNamePrefix(ctx context.Context, prefix string, limit uint64) ([]*types.ResourceClassNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.ResourceClassNode
	for _, n := range s.data {
		if strings.HasPrefix(strings.ToLower(n.Name), strings.ToLower(prefix)) {
			clone := n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeClassStore) ListByNameSubstring(ctx context.Context, sub string, limit uint64) ([]*types.ResourceClassNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.ResourceClassNode
	for _, n := range s.data {
		lower := strings.ToLower(n.Name)
		term := strings.ToLower(sub)
		if strings.Contains(lower, term) && !strings.HasPrefix(lower, term) {
			clone := n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeClassStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data)), nil
}

type fakeTreeMetadataStore struct {
	fakeTable
	mu   sync.Mutex
	meta *types.TreeMetadata
}

func (s *fakeTreeMetadataStore) Upsert(ctx context.Context, data types.TreeMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = &data
	return nil
}

func (s *fakeTreeMetadataStore) Get(ctx context.Context) (*types.TreeMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.meta == nil {
		return nil, sql.ErrNoRows
	}
	clone := *s.meta
	return &clone, nil
}

type fakeCacheTimestampStore struct {
	fakeTable
	mu   sync.Mutex
	data map[string]int64
}

func (s *fakeCacheTimestampStore) Get(ctx context.Context, datasetKey string) (*types.CacheTimestamp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.data[datasetKey]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &types.CacheTimestamp{DatasetKey: datasetKey, LastUpdated: ts}, nil
}

func (s *fakeCacheTimestampStore) Upsert(ctx context.Context, datasetKey string, lastUpdated int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[datasetKey] = lastUpdated
	return nil
}

type fakeMailStore struct {
	fakeTable
	mu    sync.Mutex
	data  []types.GameMail
	sales *fakeSaleStore
}

func (s *fakeMailStore) Create(ctx context.Context, data *types.GameMail) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.data {
		if m.MessageID == data.MessageID {
			return false, nil
		}
	}
	s.data = append(s.data, *data)
	return true, nil
}

func (s *fakeMailStore) Get(ctx context.Context, id int64) (*types.GameMail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.data {
		if m.ID == id {
			clone := m
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeMailStore) ListUnprocessedSales(ctx context.Context, sender, subjectLike string, limit uint64) ([]*types.GameMail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subject := strings.Trim(subjectLike, "%")
	var out []*types.GameMail
	for _, m := range s.data {
		if m.Sender != sender {
			continue
		}
		if subject != "" && !strings.Contains(m.Subject, subject) {
			continue
		}
		if s.sales.has(m.ID) {
			continue
		}
		clone := m
		out = append(out, &clone)
		if uint64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

type fakeSaleStore struct {
	fakeTable
	mu   sync.Mutex
	data map[int64]types.SaleEvent
}

func (s *fakeSaleStore) has(mailID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[mailID]
	return ok
}

func (s *fakeSaleStore) Create(ctx context.Context, data *types.SaleEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[data.MailID]; ok {
		return false, nil
	}
	s.data[data.MailID] = *data
	return true, nil
}

func (s *fakeSaleStore) GetByMailID(ctx context.Context, mailID int64) (*types.SaleEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.data[mailID]; ok {
		clone := e
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeSaleStore) List(ctx context.Context, page, pageSize uint64) ([]*types.SaleEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.SaleEvent
	for _, e := range s.data {
		clone := e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SoldAt > out[j].SoldAt })
	return out, nil
}

func (s *fakeSaleStore) SummarizeByCategoryTier(ctx context.Context, limit uint64) ([]types.SaleSummary, error) {
	return nil, nil
}

func (s *fakeSaleStore) TotalCredits(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, e := range s.data {
		total += e.Credits
	}
	return total, nil
}

type countingLookup struct {
	mu    sync.Mutex
	calls int
	info  *galaxy.ResourceInfo
	err   error
}

func (c *countingLookup) LookupByName(ctx context.Context, name string) (*galaxy.ResourceInfo, error) {
	return c.lookup()
}

func (c *countingLookup) LookupByID(ctx context.Context, id int64) (*galaxy.ResourceInfo, error) {
	return c.lookup()
}

func (c *countingLookup) lookup() (*galaxy.ResourceInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.info, nil
}

func (c *countingLookup) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
