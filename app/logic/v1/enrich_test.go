package v1

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swgwatch/swgwatch/pkg/galaxy"
	"github.com/swgwatch/swgwatch/pkg/types"
)

func spawnedResource(id int64, name string) types.PersistedResource {
	return types.PersistedResource{
		ID:        id,
		Name:      name,
		IsSpawned: true,
		EnterAt:   time.Now().Unix(),
	}
}

func enrichResponse(id int64, name string) *galaxy.ResourceInfo {
	info := &galaxy.ResourceInfo{ID: id, Name: name}
	info.Stats.Set("oq", 920)
	info.Stats.Set("cd", 880)
	return info
}

func TestEnrichThrottleSingleRemoteCall(t *testing.T) {
	c, p := newTestCore()
	lookup := &countingLookup{info: enrichResponse(10, "Throttled Iron")}
	c.SetGalaxyRPC(lookup)

	require.NoError(t, p.resources.Create(context.Background(), spawnedResource(10, "Throttled Iron")))

	logic := NewEnrichLogic(context.Background(), c)

	first, err := logic.EnrichByID(10, false)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.NotZero(t, first.LastEnrichedAt)
	assert.InDelta(t, 900, first.QualityScore, 0.001)

	second, err := logic.EnrichByID(10, false)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, 1, lookup.callCount())
}

func TestEnrichForceBypassesThrottle(t *testing.T) {
	c, p := newTestCore()
	lookup := &countingLookup{info: enrichResponse(10, "Forced Iron")}
	c.SetGalaxyRPC(lookup)

	require.NoError(t, p.resources.Create(context.Background(), spawnedResource(10, "Forced Iron")))

	logic := NewEnrichLogic(context.Background(), c)

	_, err := logic.EnrichByID(10, false)
	require.NoError(t, err)
	_, err = logic.EnrichByID(10, true)
	require.NoError(t, err)

	assert.Equal(t, 2, lookup.callCount())
}

func TestEnrichSkipsDespawned(t *testing.T) {
	c, p := newTestCore()
	lookup := &countingLookup{info: enrichResponse(11, "Gone Gas")}
	c.SetGalaxyRPC(lookup)

	gone := spawnedResource(11, "Gone Gas")
	gone.IsSpawned = false
	gone.DespawnAt = time.Now().Unix()
	require.NoError(t, p.resources.Create(context.Background(), gone))

	logic := NewEnrichLogic(context.Background(), c)

	result, err := logic.EnrichByID(11, false)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsSpawned)
	assert.Equal(t, 0, lookup.callCount())
}

func TestEnrichAttemptCacheHoldsAfterFailure(t *testing.T) {
	c, _ := newTestCore()
	lookup := &countingLookup{err: galaxy.ErrRemoteCall}
	c.SetGalaxyRPC(lookup)

	logic := NewEnrichLogic(context.Background(), c)

	result, err := logic.EnrichByID(99, false)
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = logic.EnrichByID(99, false)
	require.NoError(t, err)

	assert.Equal(t, 1, lookup.callCount())
}

func TestEnrichDiscardsInvalidResponse(t *testing.T) {
	c, p := newTestCore()
	lookup := &countingLookup{info: &galaxy.ResourceInfo{ID: 0, Name: ""}}
	c.SetGalaxyRPC(lookup)

	require.NoError(t, p.resources.Create(context.Background(), spawnedResource(12, "Sturdy Ore")))

	logic := NewEnrichLogic(context.Background(), c)

	result, err := logic.EnrichByID(12, false)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Zero(t, result.LastEnrichedAt)
}

func TestEnrichFabricatesUnknownResource(t *testing.T) {
	c, p := newTestCore()

	require.NoError(t, p.classes.Create(context.Background(), types.ResourceClassNode{
		ID: "steel-id", NumericID: 158, Name: "Steel", ParentID: "",
	}))

	info := enrichResponse(500, "Fresh Find")
	info.ClassNumericID = 158
	info.AvailableAt = time.Now().Unix() - 3600
	lookup := &countingLookup{info: info}
	c.SetGalaxyRPC(lookup)

	logic := NewEnrichLogic(context.Background(), c)

	created, err := logic.EnrichByID(500, false)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "steel-id", created.ClassID)
	assert.Equal(t, "Steel", created.TypeLabel)
	assert.True(t, created.IsSpawned)

	stored, err := p.resources.Get(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Find", stored.Name)
}

func TestEnrichFabricatedOldResourceMarkedDespawned(t *testing.T) {
	c, p := newTestCore()

	info := enrichResponse(501, "Ancient Find")
	info.AvailableAt = time.Now().Add(-365 * 24 * time.Hour).Unix()
	lookup := &countingLookup{info: info}
	c.SetGalaxyRPC(lookup)

	logic := NewEnrichLogic(context.Background(), c)

	created, err := logic.EnrichByID(501, false)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.IsSpawned)
	assert.NotZero(t, created.DespawnAt)

	stored, err := p.resources.Get(context.Background(), 501)
	require.NoError(t, err)
	assert.False(t, stored.IsSpawned)
}
