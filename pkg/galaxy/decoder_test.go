package galaxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Basic(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<resources timestamp="1700000000">
  <resource id="42">
    <name>Arveshian Steel</name>
    <stats><oq>950</oq><sr>812</sr></stats>
  </resource>
</resources>`

	root, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, root)

	assert.Equal(t, "resources", root.Name)
	assert.Equal(t, "1700000000", root.Attr("timestamp"))

	res := root.Child("resource")
	require.NotNil(t, res)
	assert.Equal(t, "42", res.Attr("id"))
	assert.Equal(t, "Arveshian Steel", res.ChildText("name"))

	oq, ok := res.Child("stats").Child("oq").IntText()
	require.True(t, ok)
	assert.Equal(t, 950, oq)
}

func TestDecode_SingleVsList(t *testing.T) {
	single := `<resources><resource id="1"><name>A</name></resource></resources>`
	many := `<resources><resource id="1"><name>A</name></resource><resource id="2"><name>B</name></resource></resources>`

	rootSingle, err := Decode([]byte(single))
	require.NoError(t, err)
	rootMany, err := Decode([]byte(many))
	require.NoError(t, err)

	// Both shapes normalize to a list at the decode boundary.
	assert.Len(t, rootSingle.ChildList("resource"), 1)
	assert.Len(t, rootMany.ChildList("resource"), 2)
}

func TestDecode_MissingOptionalAttrs(t *testing.T) {
	doc := `<resource_type id="steel"><cap stat="oq" max="1000"/></resource_type>`
	root, err := Decode([]byte(doc))
	require.NoError(t, err)

	cap := root.Child("cap")
	require.NotNil(t, cap)

	// Absent min is absent, not an error.
	min, ok := cap.IntAttr("min")
	assert.False(t, ok)
	assert.Equal(t, 0, min)

	max, ok := cap.IntAttr("max")
	assert.True(t, ok)
	assert.Equal(t, 1000, max)
}

func TestDecode_UnknownFieldsIgnored(t *testing.T) {
	doc := `<resources><resource id="9" experimental="yes"><name>X</name><future_field>ignored</future_field></resource></resources>`
	root, err := Decode([]byte(doc))
	require.NoError(t, err)

	res := root.Child("resource")
	require.NotNil(t, res)
	assert.Equal(t, "X", res.ChildText("name"))
}

func TestDecode_MalformedFragmentSalvaged(t *testing.T) {
	// Truncated document: the close tags never arrive.
	doc := `<resources><resource id="1"><name>Kept</name>`
	root, err := Decode([]byte(doc))
	require.NoError(t, err)

	res := root.Child("resource")
	require.NotNil(t, res)
	assert.Equal(t, "Kept", res.ChildText("name"))
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode([]byte("   "))
	assert.Error(t, err)
}
