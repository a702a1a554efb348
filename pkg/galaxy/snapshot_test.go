package galaxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCurrentResources(t *testing.T) {
	doc := `<resources timestamp="1700000000">
  <resource>
    <id>42</id>
    <name>Arveshian Steel</name>
    <type>Steel</type>
    <type_id>steel_arveshian</type_id>
    <stats><oq>950</oq><sr>812</sr><ut>640</ut></stats>
    <planets>
      <planet name="Corellia" c="41.5"/>
      <planet name="Naboo" c="0"/>
    </planets>
  </resource>
  <resource>
    <name>No usable id</name>
  </resource>
  <resource>
    <id>77</id>
  </resource>
</resources>`

	root, err := Decode([]byte(doc))
	require.NoError(t, err)

	snapshot := DecodeCurrentResources(root)
	assert.Equal(t, int64(1700000000), snapshot.Timestamp)

	// Entries lacking an id or name are skipped, not fatal.
	require.Len(t, snapshot.Entries, 1)

	entry := snapshot.Entries[0]
	assert.Equal(t, int64(42), entry.ID)
	assert.Equal(t, "Arveshian Steel", entry.Name)
	assert.Equal(t, "steel_arveshian", entry.ClassID)

	oq, ok := entry.Stats.Get("oq")
	require.True(t, ok)
	assert.Equal(t, 950, oq)

	// Missing stats stay absent, not zero-filled.
	_, ok = entry.Stats.Get("fl")
	assert.False(t, ok)

	assert.Equal(t, 41.5, entry.Planets["corellia"])
	assert.Equal(t, 0.0, entry.Planets["naboo"])
}

func TestDecodeResourceTree(t *testing.T) {
	doc := `<resource_tree timestamp="1690000000">
  <resource_type id="metal" name="Metal" swgcraft_id="1" recycled="no" harvested="yes">
    <cap stat="oq" min="1" max="1000"/>
    <resource_type id="steel" name="Steel" swgcraft_id="2">
      <cap stat="oq" min="200" max="1000"/>
      <resource_type id="steel_arveshian" name="Arveshian Steel" swgcraft_id="3" harvested="no"/>
    </resource_type>
  </resource_type>
</resource_tree>`

	root, err := Decode([]byte(doc))
	require.NoError(t, err)

	tree := DecodeResourceTree(root)
	assert.Equal(t, int64(1690000000), tree.Timestamp)
	require.Len(t, tree.Entries, 3)

	// Depth-first, parent before child.
	assert.Equal(t, "metal", tree.Entries[0].ID)
	assert.Equal(t, "", tree.Entries[0].ParentID)
	assert.Equal(t, 0, tree.Entries[0].Depth)

	assert.Equal(t, "steel", tree.Entries[1].ID)
	assert.Equal(t, "metal", tree.Entries[1].ParentID)
	assert.Equal(t, 1, tree.Entries[1].Depth)

	leaf := tree.Entries[2]
	assert.Equal(t, "steel_arveshian", leaf.ID)
	assert.Equal(t, "steel", leaf.ParentID)
	assert.Equal(t, 2, leaf.Depth)
	assert.Equal(t, int64(3), leaf.NumericID)
	assert.Equal(t, "no", leaf.Harvested)

	require.Contains(t, tree.Entries[1].Ranges, "oq")
	assert.Equal(t, 200, tree.Entries[1].Ranges["oq"].Min)
	assert.Equal(t, 1000, tree.Entries[1].Ranges["oq"].Max)
}
