package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildforge/schemagen/pkg/schema"
)

func TestBuildStandard(t *testing.T) {
	r := newTestRegistry(t)

	doc, err := r.BuildStandard(holder{})
	require.NoError(t, err)

	assert.Equal(t, schema.DraftURI, doc.Schema)
	assert.Equal(t, schema.TypeObject, doc.Type)
	require.NotNil(t, doc.Properties)

	// Only accepted members appear, in declaration order.
	assert.Equal(t, []string{"items", "owner", "limit", "target"}, doc.Properties.Keys())

	t.Run("array member", func(t *testing.T) {
		items, ok := doc.Properties.Get("items")
		require.True(t, ok)
		assert.Equal(t, schema.TypeArray, items.Type)
		assert.Equal(t, "Addressable widget list", items.Metadata["description"])

		// Element node is bare: no metadata, but nested properties recurse.
		require.NotNil(t, items.Items)
		assert.Equal(t, schema.TypeObject, items.Items.Type)
		assert.Empty(t, items.Items.Metadata)
		require.NotNil(t, items.Items.Properties)
		assert.Equal(t, []string{"id"}, items.Items.Properties.Keys())
	})

	t.Run("object member recurses", func(t *testing.T) {
		owner, ok := doc.Properties.Get("owner")
		require.True(t, ok)
		assert.Equal(t, schema.TypeObject, owner.Type)
		require.NotNil(t, owner.Properties)
		assert.Equal(t, []string{"id"}, owner.Properties.Keys())
		assert.Nil(t, owner.Items)
	})

	t.Run("primitive leaf", func(t *testing.T) {
		limit, ok := doc.Properties.Get("limit")
		require.True(t, ok)
		assert.Equal(t, schema.TypeNumber, limit.Type)
		assert.Nil(t, limit.Properties)
		assert.Nil(t, limit.Items)
	})

	t.Run("overridable carried on node", func(t *testing.T) {
		target, ok := doc.Properties.Get("target")
		require.True(t, ok)
		assert.True(t, target.Overridable)
	})

	t.Run("schema URI only on root", func(t *testing.T) {
		owner, _ := doc.Properties.Get("owner")
		assert.Empty(t, owner.Schema)
	})
}

func TestBuildStandardNoAcceptedMembers(t *testing.T) {
	r := newTestRegistry(t)

	doc, err := r.BuildStandard(bare{})
	require.NoError(t, err)
	assert.Equal(t, schema.TypeObject, doc.Type)
	assert.Nil(t, doc.Properties)
	assert.Nil(t, doc.Items)
}

func TestBuildStandardUnregistered(t *testing.T) {
	r := schema.NewRegistry()
	_, err := r.BuildStandard(holder{})
	require.Error(t, err)
}

func TestSpliceItemProperties(t *testing.T) {
	r := newTestRegistry(t)

	primary, err := r.BuildStandard(holder{})
	require.NoError(t, err)
	secondary, err := r.BuildStandard(holder{})
	require.NoError(t, err)

	require.NoError(t, schema.SpliceItemProperties(primary, "items", secondary))

	items, _ := primary.Properties.Get("items")
	require.NotNil(t, items.Items.Properties)
	// Original element property plus the secondary root's top-level set.
	assert.Equal(t, []string{"id", "items", "owner", "limit", "target"}, items.Items.Properties.Keys())
}

func TestSpliceItemPropertiesErrors(t *testing.T) {
	r := newTestRegistry(t)
	primary, err := r.BuildStandard(holder{})
	require.NoError(t, err)

	t.Run("missing property", func(t *testing.T) {
		err := schema.SpliceItemProperties(primary, "nope", primary)
		assert.Error(t, err)
	})

	t.Run("non-array property", func(t *testing.T) {
		err := schema.SpliceItemProperties(primary, "owner", primary)
		assert.Error(t, err)
	})

	t.Run("empty source is a no-op", func(t *testing.T) {
		empty, err := r.BuildStandard(bare{})
		require.NoError(t, err)
		assert.NoError(t, schema.SpliceItemProperties(primary, "items", empty))
	})
}
