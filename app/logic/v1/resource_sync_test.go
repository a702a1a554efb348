package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swgwatch/swgwatch/pkg/galaxy"
	"github.com/swgwatch/swgwatch/pkg/types"
)

func snapshotEntry(id int64, name string) galaxy.ResourceSnapshotEntry {
	entry := galaxy.ResourceSnapshotEntry{
		ID:      id,
		Name:    name,
		Planets: types.PlanetConcentration{"corellia": 55.5, "naboo": 0},
	}
	entry.Stats.Set("oq", 850)
	entry.Stats.Set("sr", 900)
	return entry
}

func TestReconcileInsertsNewResources(t *testing.T) {
	c, p := newTestCore()
	logic := NewSyncLogic(context.Background(), c)

	result, err := logic.Reconcile([]galaxy.ResourceSnapshotEntry{
		snapshotEntry(1, "Polysteel Copper"),
		snapshotEntry(2, "Ardanium Ore"),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 2, result.Inserted)
	assert.EqualValues(t, 0, result.Updated)
	assert.EqualValues(t, 0, result.Despawned)

	stored, err := p.resources.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, stored.IsSpawned)
	assert.NotZero(t, stored.EnterAt)
	assert.Zero(t, stored.DespawnAt)
	assert.InDelta(t, 875, stored.QualityScore, 0.001)
}

func TestReconcileIdempotent(t *testing.T) {
	c, _ := newTestCore()
	logic := NewSyncLogic(context.Background(), c)

	snapshot := []galaxy.ResourceSnapshotEntry{
		snapshotEntry(1, "Polysteel Copper"),
		snapshotEntry(2, "Ardanium Ore"),
	}

	_, err := logic.Reconcile(snapshot)
	require.NoError(t, err)

	second, err := logic.Reconcile(snapshot)
	require.NoError(t, err)

	assert.EqualValues(t, 0, second.Inserted)
	assert.EqualValues(t, 2, second.Updated)
	assert.EqualValues(t, 0, second.Despawned)
}

func TestReconcileDespawnTransition(t *testing.T) {
	c, p := newTestCore()
	logic := NewSyncLogic(context.Background(), c)

	_, err := logic.Reconcile([]galaxy.ResourceSnapshotEntry{
		snapshotEntry(42, "Vanishing Iron"),
		snapshotEntry(43, "Lasting Iron"),
	})
	require.NoError(t, err)

	result, err := logic.Reconcile([]galaxy.ResourceSnapshotEntry{
		snapshotEntry(43, "Lasting Iron"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Despawned)

	gone, err := p.resources.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, gone.IsSpawned)
	assert.NotZero(t, gone.DespawnAt)

	kept, err := p.resources.Get(context.Background(), 43)
	require.NoError(t, err)
	assert.True(t, kept.IsSpawned)
}

func TestReconcileRespawnReusesRow(t *testing.T) {
	c, p := newTestCore()
	logic := NewSyncLogic(context.Background(), c)

	_, err := logic.Reconcile([]galaxy.ResourceSnapshotEntry{snapshotEntry(7, "Flickering Gas")})
	require.NoError(t, err)

	original, err := p.resources.Get(context.Background(), 7)
	require.NoError(t, err)

	_, err = logic.Reconcile(nil)
	require.NoError(t, err)

	result, err := logic.Reconcile([]galaxy.ResourceSnapshotEntry{snapshotEntry(7, "Flickering Gas")})
	require.NoError(t, err)

	assert.EqualValues(t, 0, result.Inserted)
	assert.EqualValues(t, 1, result.Updated)

	respawned, err := p.resources.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, respawned.IsSpawned)
	assert.Zero(t, respawned.DespawnAt)
	assert.Equal(t, original.EnterAt, respawned.EnterAt)

	total, err := p.resources.Total(context.Background(), types.ListResourceOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestReconcileEmptySnapshotDespawnsAll(t *testing.T) {
	c, p := newTestCore()
	logic := NewSyncLogic(context.Background(), c)

	_, err := logic.Reconcile([]galaxy.ResourceSnapshotEntry{
		snapshotEntry(1, "A"),
		snapshotEntry(2, "B"),
	})
	require.NoError(t, err)

	result, err := logic.Reconcile(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Despawned)

	ids, err := p.resources.ListSpawnedIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReconcileSkipsUnusableEntries(t *testing.T) {
	c, _ := newTestCore()
	logic := NewSyncLogic(context.Background(), c)

	result, err := logic.Reconcile([]galaxy.ResourceSnapshotEntry{
		snapshotEntry(1, "Good"),
		snapshotEntry(0, "No ID"),
		snapshotEntry(3, "   "),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, result.Inserted)
	assert.EqualValues(t, 2, result.Skipped)
}

func TestQualityScoreIgnoresMissingStats(t *testing.T) {
	var stats types.ResourceStats
	assert.Zero(t, qualityScore(stats))

	stats.Set("oq", 1000)
	stats.Set("cd", 500)
	assert.InDelta(t, 750, qualityScore(stats), 0.001)
}

func TestAvgConcentrationSkipsZeroes(t *testing.T) {
	planets := types.PlanetConcentration{"corellia": 80, "naboo": 0, "lok": 40}
	assert.InDelta(t, 60, avgConcentration(planets), 0.001)
	assert.Zero(t, avgConcentration(nil))
}

func TestDeriveBestUses(t *testing.T) {
	var weapon types.ResourceStats
	weapon.Set("oq", 900)
	weapon.Set("cd", 850)
	assert.Contains(t, deriveBestUses(weapon, "Copper", nil), "weapon")

	var plain types.ResourceStats
	plain.Set("oq", 100)
	assert.Empty(t, deriveBestUses(plain, "Copper", nil))

	var ore types.ResourceStats
	assert.Contains(t, deriveBestUses(ore, "Ardanium Ore", nil), "structure")
}
