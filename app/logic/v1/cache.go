package v1

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/swgwatch/swgwatch/app/core"
	"github.com/swgwatch/swgwatch/pkg/errors"
	"github.com/swgwatch/swgwatch/pkg/types"
)

// FreshnessLogic decides whether a dataset needs a refetch. The decision
// reads one persisted timestamp row; concurrent callers may both see
// "stale" under a race, which costs a redundant fetch and nothing else.
type FreshnessLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewFreshnessLogic(ctx context.Context, core *core.Core) *FreshnessLogic {
	return &FreshnessLogic{
		ctx:  ctx,
		core: core,
	}
}

// IsFresh reports whether the dataset was synced within ttl and how old
// the last sync is in hours. A dataset never synced reports infinite age.
func (l *FreshnessLogic) IsFresh(datasetKey string, ttl time.Duration) (bool, float64, error) {
	entry, err := l.core.Store().CacheTimestampStore().Get(l.ctx, datasetKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, math.Inf(1), nil
		}
		return false, 0, errors.New("FreshnessLogic.IsFresh.CacheTimestampStore.Get", errors.ERROR_INTERNAL, err)
	}

	now := time.Now().Unix()
	ageHours := float64(now-entry.LastUpdated) / 3600
	return IsTimestampFresh(entry.LastUpdated, now, ttl), ageHours, nil
}

// IsTimestampFresh is the freshness rule itself: the last sync must be
// strictly younger than ttl. A zero timestamp means never synced.
func IsTimestampFresh(lastUpdated, now int64, ttl time.Duration) bool {
	if lastUpdated <= 0 {
		return false
	}
	return now-lastUpdated < int64(ttl/time.Second)
}

// DatasetStatus reports the freshness of one gated dataset. AgeHours is
// -1 for a dataset that has never been synced.
type DatasetStatus struct {
	Dataset  string  `json:"dataset"`
	Fresh    bool    `json:"fresh"`
	AgeHours float64 `json:"age_hours"`
	TTLHours float64 `json:"ttl_hours"`
}

// Status reports every gated dataset, including ones no importer ships
// yet, so operators can see what the next cycle would refetch.
func (l *FreshnessLogic) Status() ([]DatasetStatus, error) {
	cfg := l.core.Cfg().Sync
	gates := []struct {
		dataset string
		ttl     time.Duration
	}{
		{types.DATASET_CURRENT_RESOURCES, cfg.SpawnTTL()},
		{types.DATASET_RESOURCE_TREE, cfg.TreeTTL()},
		{types.DATASET_SCHEMATICS, cfg.SchematicTTL()},
	}

	var out []DatasetStatus
	for _, gate := range gates {
		fresh, age, err := l.IsFresh(gate.dataset, gate.ttl)
		if err != nil {
			return nil, err
		}
		if math.IsInf(age, 1) {
			age = -1
		}
		out = append(out, DatasetStatus{
			Dataset:  gate.dataset,
			Fresh:    fresh,
			AgeHours: age,
			TTLHours: gate.ttl.Hours(),
		})
	}
	return out, nil
}

// Touch records a successful sync for the dataset.
func (l *FreshnessLogic) Touch(datasetKey string, at int64) error {
	if err := l.core.Store().CacheTimestampStore().Upsert(l.ctx, datasetKey, at); err != nil {
		return errors.New("FreshnessLogic.Touch.CacheTimestampStore.Upsert", errors.ERROR_INTERNAL, err)
	}
	return nil
}
