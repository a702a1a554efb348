package v1

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swgwatch/swgwatch/pkg/types"
)

func TestIsTimestampFreshBoundary(t *testing.T) {
	now := time.Now().Unix()
	ttl := 24 * time.Hour

	almost := now - int64((23*time.Hour + 59*time.Minute).Seconds())
	assert.True(t, IsTimestampFresh(almost, now, ttl))

	past := now - int64((24*time.Hour + time.Minute).Seconds())
	assert.False(t, IsTimestampFresh(past, now, ttl))

	assert.False(t, IsTimestampFresh(0, now, ttl))
}

func TestIsFreshMissingEntryForcesSync(t *testing.T) {
	c, _ := newTestCore()
	logic := NewFreshnessLogic(context.Background(), c)

	fresh, ageHours, err := logic.IsFresh(types.DATASET_CURRENT_RESOURCES, 6*time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.True(t, math.IsInf(ageHours, 1))
}

func TestStatusListsEveryGatedDataset(t *testing.T) {
	c, _ := newTestCore()
	logic := NewFreshnessLogic(context.Background(), c)

	require.NoError(t, logic.Touch(types.DATASET_CURRENT_RESOURCES, time.Now().Unix()))

	status, err := logic.Status()
	require.NoError(t, err)
	require.Len(t, status, 3)

	byDataset := map[string]DatasetStatus{}
	for _, entry := range status {
		byDataset[entry.Dataset] = entry
	}

	resources := byDataset[types.DATASET_CURRENT_RESOURCES]
	assert.True(t, resources.Fresh)
	assert.GreaterOrEqual(t, resources.AgeHours, 0.0)
	assert.Equal(t, c.Cfg().Sync.SpawnTTL().Hours(), resources.TTLHours)

	schematics := byDataset[types.DATASET_SCHEMATICS]
	assert.False(t, schematics.Fresh)
	assert.Equal(t, -1.0, schematics.AgeHours)
	assert.Equal(t, c.Cfg().Sync.SchematicTTL().Hours(), schematics.TTLHours)
}

func TestTouchThenFresh(t *testing.T) {
	c, _ := newTestCore()
	logic := NewFreshnessLogic(context.Background(), c)

	require.NoError(t, logic.Touch(types.DATASET_RESOURCE_TREE, time.Now().Unix()))

	fresh, ageHours, err := logic.IsFresh(types.DATASET_RESOURCE_TREE, 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Less(t, ageHours, 1.0)
}
