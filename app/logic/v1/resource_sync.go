package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/swgwatch/swgwatch/app/core"
	"github.com/swgwatch/swgwatch/pkg/errors"
	"github.com/swgwatch/swgwatch/pkg/galaxy"
	"github.com/swgwatch/swgwatch/pkg/types"
)

// SyncLogic keeps the resource table consistent with the upstream spawn
// feed. One sync cycle is gate, fetch, decode, reconcile, touch.
type SyncLogic struct {
	ctx   context.Context
	core  *core.Core
	fresh *FreshnessLogic
}

func NewSyncLogic(ctx context.Context, core *core.Core) *SyncLogic {
	return &SyncLogic{
		ctx:   ctx,
		core:  core,
		fresh: NewFreshnessLogic(ctx, core),
	}
}

// SyncCurrentResources refreshes the spawn dataset when it is stale. A
// fetch or decode failure aborts this cycle only; data already persisted
// stays authoritative until the next scheduled attempt.
func (l *SyncLogic) SyncCurrentResources(force bool) (*types.ReconcileResult, error) {
	dataset := types.DATASET_CURRENT_RESOURCES

	if !force {
		fresh, ageHours, err := l.fresh.IsFresh(dataset, l.core.Cfg().Sync.SpawnTTL())
		if err != nil {
			return nil, err
		}
		if fresh {
			slog.Debug("current resources still fresh, skipping sync",
				slog.Float64("age_hours", ageHours))
			l.core.Metrics().SyncSkippedInc(dataset, "fresh")
			return &types.ReconcileResult{}, nil
		}
	}

	timer := l.core.Metrics().SyncTimer(dataset)
	defer timer.ObserveDuration()

	root, err := l.core.Fetcher().FetchAndDecode(l.ctx, l.core.Cfg().Galaxy.CurrentResourcesURL)
	if err != nil {
		slog.Error("failed to fetch current resources feed",
			slog.String("url", l.core.Cfg().Galaxy.CurrentResourcesURL),
			slog.String("error", err.Error()))
		l.core.Metrics().SyncSkippedInc(dataset, "fetch_failed")
		return nil, errors.New("SyncLogic.SyncCurrentResources.FetchAndDecode", errors.ERROR_INTERNAL, err)
	}

	snapshot := galaxy.DecodeCurrentResources(root)
	result, err := l.Reconcile(snapshot.Entries)
	if err != nil {
		return nil, err
	}

	if err := l.fresh.Touch(dataset, time.Now().Unix()); err != nil {
		return nil, err
	}

	slog.Info("current resources synced",
		slog.Int64("inserted", result.Inserted),
		slog.Int64("updated", result.Updated),
		slog.Int64("despawned", result.Despawned),
		slog.Int64("skipped", result.Skipped))
	return result, nil
}

// Reconcile merges a spawn snapshot into the resource table: despawn
// sweep first, then per-entry upsert, all inside one transaction so
// readers never observe the swept-but-not-reinserted state. An empty
// snapshot despawns everything currently spawned.
func (l *SyncLogic) Reconcile(entries []galaxy.ResourceSnapshotEntry) (*types.ReconcileResult, error) {
	now := time.Now().Unix()
	result := &types.ReconcileResult{}

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		keep := make([]int64, 0, len(entries))
		for _, entry := range entries {
			if usableEntry(entry) {
				keep = append(keep, entry.ID)
			}
		}

		despawned, err := l.core.Store().ResourceStore().DespawnMissing(ctx, keep, now)
		if err != nil {
			return err
		}
		result.Despawned = despawned

		for _, entry := range entries {
			if !usableEntry(entry) {
				result.Skipped++
				continue
			}
			if err := l.applyEntry(ctx, entry, now, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.New("SyncLogic.Reconcile.Transaction", errors.ERROR_INTERNAL, err)
	}

	dataset := types.DATASET_CURRENT_RESOURCES
	l.core.Metrics().SyncResourceAdd(dataset, "inserted", result.Inserted)
	l.core.Metrics().SyncResourceAdd(dataset, "updated", result.Updated)
	l.core.Metrics().SyncResourceAdd(dataset, "despawned", result.Despawned)
	l.core.Metrics().SyncResourceAdd(dataset, "skipped", result.Skipped)
	l.core.Metrics().SetSpawnedResources(result.Inserted + result.Updated)
	return result, nil
}

func (l *SyncLogic) applyEntry(ctx context.Context, entry galaxy.ResourceSnapshotEntry, now int64, result *types.ReconcileResult) error {
	classPath, err := ancestorPath(ctx, l.core.Store().ResourceClassStore(), entry.ClassID)
	if err != nil {
		return err
	}

	record := types.PersistedResource{
		ID:               entry.ID,
		Name:             entry.Name,
		TypeLabel:        entry.TypeLabel,
		ClassID:          entry.ClassID,
		ClassPath:        classPath,
		ResourceStats:    entry.Stats,
		Planets:          entry.Planets,
		IsSpawned:        true,
		DespawnAt:        0,
		QualityScore:     qualityScore(entry.Stats),
		BestUses:         deriveBestUses(entry.Stats, entry.TypeLabel, classPath),
		AvgConcentration: avgConcentration(entry.Planets),
		UpdatedAt:        now,
	}

	existing, err := l.core.Store().ResourceStore().Get(ctx, entry.ID)
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	if existing == nil {
		record.EnterAt = now
		record.CreatedAt = now
		if err := l.core.Store().ResourceStore().Create(ctx, record); err != nil {
			return err
		}
		result.Inserted++
		return nil
	}

	// A despawned resource reappearing reuses its row, so history before
	// the gap stays queryable under the same id.
	record.EnterAt = existing.EnterAt
	record.CreatedAt = existing.CreatedAt
	record.LastEnrichedAt = existing.LastEnrichedAt
	if err := l.core.Store().ResourceStore().Update(ctx, record); err != nil {
		return err
	}
	result.Updated++
	return nil
}

func usableEntry(entry galaxy.ResourceSnapshotEntry) bool {
	return entry.ID > 0 && strings.TrimSpace(entry.Name) != ""
}

// qualityScore is the arithmetic mean of the stats actually present.
// Missing stats stay out of the mean instead of dragging it to zero.
func qualityScore(stats types.ResourceStats) float64 {
	var sum, n int
	for _, name := range types.StatNames {
		if v, ok := stats.Get(name); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// avgConcentration is the mean of the nonzero planet percentages.
func avgConcentration(planets types.PlanetConcentration) float64 {
	var sum float64
	var n int
	for _, v := range planets {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

type bestUseRule struct {
	tag   string
	match func(stats types.ResourceStats, class string) bool
}

func statAtLeast(stats types.ResourceStats, name string, min int) bool {
	v, ok := stats.Get(name)
	return ok && v >= min
}

// bestUseRules tag a spawn with the crafting domains it is worth keeping
// for. Thresholds are heuristics tuned against historical spawn data.
var bestUseRules = []bestUseRule{
	{"weapon", func(s types.ResourceStats, class string) bool {
		return statAtLeast(s, "oq", 800) && statAtLeast(s, "cd", 800)
	}},
	{"armor", func(s types.ResourceStats, class string) bool {
		return statAtLeast(s, "sr", 800) && statAtLeast(s, "ut", 800)
	}},
	{"structure", func(s types.ResourceStats, class string) bool {
		if statAtLeast(s, "ma", 800) && statAtLeast(s, "ut", 700) {
			return true
		}
		return strings.Contains(class, "ore") || strings.Contains(class, "stone")
	}},
	{"food", func(s types.ResourceStats, class string) bool {
		if statAtLeast(s, "fl", 800) {
			return true
		}
		for _, kw := range []string{"meat", "fruit", "vegetable", "milk", "egg", "cereal"} {
			if strings.Contains(class, kw) {
				return statAtLeast(s, "pe", 600)
			}
		}
		return false
	}},
	{"energy", func(s types.ResourceStats, class string) bool {
		return statAtLeast(s, "pe", 900) || strings.Contains(class, "energy")
	}},
}

func deriveBestUses(stats types.ResourceStats, typeLabel string, classPath []string) []string {
	class := strings.ToLower(typeLabel + " " + strings.Join(classPath, " "))

	var tags []string
	for _, rule := range bestUseRules {
		if rule.match(stats, class) {
			tags = append(tags, rule.tag)
		}
	}
	return tags
}
