package v1

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/swgwatch/swgwatch/app/core"
	"github.com/swgwatch/swgwatch/pkg/errors"
	"github.com/swgwatch/swgwatch/pkg/galaxy"
	"github.com/swgwatch/swgwatch/pkg/types"
)

// EnrichLogic pulls authoritative per-resource detail from the remote
// lookup interface. A failed or throttled call degrades to serving the
// record we already have; enrichment never fails a read path.
type EnrichLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewEnrichLogic(ctx context.Context, core *core.Core) *EnrichLogic {
	return &EnrichLogic{
		ctx:  ctx,
		core: core,
	}
}

// EnrichByID refreshes one resource from the remote interface, subject to
// the throttle rules. Returns the freshest record available, which may be
// the unmodified local one.
func (l *EnrichLogic) EnrichByID(id int64, force bool) (*types.PersistedResource, error) {
	existing, err := l.getExisting(id)
	if err != nil {
		return nil, err
	}

	if !force && l.shouldSkip(existing, fmt.Sprintf("enrich:attempt:id:%d", id)) {
		return existing, nil
	}

	timer := l.core.Metrics().EnrichTimer()
	defer timer.ObserveDuration()

	info, err := l.core.GalaxyRPC().LookupByID(l.ctx, id)
	if err != nil {
		slog.Warn("enrichment lookup failed",
			slog.Int64("resource_id", id),
			slog.String("error", err.Error()))
		l.core.Metrics().EnrichRequestInc("failed")
		return existing, nil
	}

	return l.applyEnrichment(existing, info)
}

// EnrichByName is the lookup-by-name variant, used when a caller only
// knows a spawn name.
func (l *EnrichLogic) EnrichByName(name string, force bool) (*types.PersistedResource, error) {
	existing, err := l.core.Store().ResourceStore().GetByName(l.ctx, name)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("EnrichLogic.EnrichByName.ResourceStore.GetByName", errors.ERROR_INTERNAL, err)
	}

	if !force && l.shouldSkip(existing, "enrich:attempt:name:"+name) {
		return existing, nil
	}

	timer := l.core.Metrics().EnrichTimer()
	defer timer.ObserveDuration()

	info, err := l.core.GalaxyRPC().LookupByName(l.ctx, name)
	if err != nil {
		slog.Warn("enrichment lookup failed",
			slog.String("resource_name", name),
			slog.String("error", err.Error()))
		l.core.Metrics().EnrichRequestInc("failed")
		return existing, nil
	}

	return l.applyEnrichment(existing, info)
}

func (l *EnrichLogic) getExisting(id int64) (*types.PersistedResource, error) {
	existing, err := l.core.Store().ResourceStore().Get(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("EnrichLogic.getExisting.ResourceStore.Get", errors.ERROR_INTERNAL, err)
	}
	return existing, nil
}

// shouldSkip applies the throttle rules: despawned records are left
// alone, a recent successful enrichment holds for the throttle window,
// and any recent attempt (including failures) holds for the shorter
// attempt window. Marking the attempt happens here, before the call.
func (l *EnrichLogic) shouldSkip(existing *types.PersistedResource, attemptKey string) bool {
	if existing != nil {
		if !existing.IsSpawned {
			l.core.Metrics().EnrichRequestInc("skipped_despawned")
			return true
		}
		now := time.Now().Unix()
		throttle := int64(l.core.Cfg().Sync.EnrichThrottle() / time.Second)
		if existing.LastEnrichedAt > 0 && now-existing.LastEnrichedAt < throttle {
			l.core.Metrics().EnrichRequestInc("skipped_fresh")
			return true
		}
	}

	if v, _ := l.core.Cache().Get(l.ctx, attemptKey); v != "" {
		l.core.Metrics().EnrichRequestInc("skipped_attempted")
		return true
	}
	if err := l.core.Cache().SetEx(l.ctx, attemptKey, "1", l.core.Cfg().Sync.EnrichAttemptWindow()); err != nil {
		slog.Warn("failed to mark enrichment attempt", slog.String("key", attemptKey), slog.String("error", err.Error()))
	}
	return false
}

// applyEnrichment writes a validated remote response back. Malformed
// responses are discarded; when no local record exists one is fabricated
// from the response, classified through the numeric class id.
func (l *EnrichLogic) applyEnrichment(existing *types.PersistedResource, info *galaxy.ResourceInfo) (*types.PersistedResource, error) {
	if !info.Valid() {
		l.core.Metrics().EnrichRequestInc("invalid")
		return existing, nil
	}

	now := time.Now().Unix()

	if existing == nil {
		// A name lookup can land on a resource we already track under a
		// different spelling; re-check by the authoritative id.
		found, err := l.core.Store().ResourceStore().Get(l.ctx, info.ID)
		if err != nil && err != sql.ErrNoRows {
			return nil, errors.New("EnrichLogic.applyEnrichment.ResourceStore.Get", errors.ERROR_INTERNAL, err)
		}
		existing = found
	}

	if existing != nil {
		quality := qualityScore(info.Stats)
		if err := l.core.Store().ResourceStore().UpdateEnrichment(l.ctx, existing.ID, info.Stats, quality, now); err != nil {
			return nil, errors.New("EnrichLogic.applyEnrichment.ResourceStore.UpdateEnrichment", errors.ERROR_INTERNAL, err)
		}
		existing.ResourceStats = info.Stats
		existing.QualityScore = quality
		existing.LastEnrichedAt = now
		existing.UpdatedAt = now
		l.core.Metrics().EnrichRequestInc("updated")
		return existing, nil
	}

	record := l.fabricateResource(info, now)
	if err := l.core.Store().ResourceStore().Create(l.ctx, *record); err != nil {
		return nil, errors.New("EnrichLogic.applyEnrichment.ResourceStore.Create", errors.ERROR_INTERNAL, err)
	}
	l.core.Metrics().EnrichRequestInc("created")
	return record, nil
}

func (l *EnrichLogic) fabricateResource(info *galaxy.ResourceInfo, now int64) *types.PersistedResource {
	record := &types.PersistedResource{
		ID:             info.ID,
		Name:           info.Name,
		ResourceStats:  info.Stats,
		Planets:        types.PlanetConcentration{},
		EnterAt:        info.AvailableAt,
		LastEnrichedAt: now,
		QualityScore:   qualityScore(info.Stats),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if record.EnterAt == 0 {
		record.EnterAt = now
	}

	if info.ClassNumericID > 0 {
		node, err := l.core.Store().ResourceClassStore().GetByNumericID(l.ctx, info.ClassNumericID)
		if err != nil && err != sql.ErrNoRows {
			slog.Warn("failed to classify enriched resource",
				slog.Int64("class_numeric_id", info.ClassNumericID),
				slog.String("error", err.Error()))
		}
		if node != nil {
			record.ClassID = node.ID
			record.TypeLabel = node.Name
			if path, err := ancestorPath(l.ctx, l.core.Store().ResourceClassStore(), node.ID); err == nil {
				record.ClassPath = path
			}
		}
	}
	record.BestUses = deriveBestUses(record.ResourceStats, record.TypeLabel, record.ClassPath)

	// The feed never reported this resource, so its spawn state is a
	// guess: anything older than the configured age threshold is assumed
	// gone.
	age := now - record.EnterAt
	if age < int64(l.core.Cfg().Sync.LikelyDespawnedAge()/time.Second) {
		record.IsSpawned = true
	} else {
		record.IsSpawned = false
		record.DespawnAt = now
	}

	return record
}
