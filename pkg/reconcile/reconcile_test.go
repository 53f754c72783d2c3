package reconcile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildforge/schemagen/pkg/reconcile"
	"github.com/buildforge/schemagen/pkg/schema"
)

var ownedLabels = []string{"pipeline", "steps"}

func entry(name, typ, from string) schema.Extension {
	return schema.Extension{Name: name, Type: typ, From: from}
}

func TestLoadMissingFile(t *testing.T) {
	m, err := reconcile.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, m)
	assert.NotNil(t, m)
}

func TestLoadMalformedFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := reconcile.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse error")
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	m := schema.ExtensionMap{
		"steps.run": entry("steps.run", schema.TypeString, "steps"),
		"custom":    {Name: "custom", Type: schema.TypeString, From: "manual", Metadata: map[string]any{"description": "hand-written"}},
	}
	require.NoError(t, schema.WriteFile(path, m, schema.DefaultWriteOptions()))

	loaded, err := reconcile.Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "steps", loaded["steps.run"].From)
	assert.Equal(t, "hand-written", loaded["custom"].Metadata["description"])
}

func TestMergeOverlaysFreshEntries(t *testing.T) {
	prior := schema.ExtensionMap{
		"name": entry("name", schema.TypeNumber, "pipeline"), // type drifted in a prior run
	}
	fresh := []schema.Extension{entry("name", schema.TypeString, "pipeline")}

	final := reconcile.Merge(prior, fresh, ownedLabels)
	require.Len(t, final, 1)
	assert.Equal(t, schema.TypeString, final["name"].Type)
}

func TestMergeDeletesStaleOwnedEntries(t *testing.T) {
	prior := schema.ExtensionMap{
		"removed.field": entry("removed.field", schema.TypeString, "pipeline"),
		"steps.old":     entry("steps.old", schema.TypeString, "steps"),
		"name":          entry("name", schema.TypeString, "pipeline"),
	}
	fresh := []schema.Extension{entry("name", schema.TypeString, "pipeline")}

	final := reconcile.Merge(prior, fresh, ownedLabels)
	assert.Len(t, final, 1)
	_, ok := final["removed.field"]
	assert.False(t, ok)
	_, ok = final["steps.old"]
	assert.False(t, ok)
}

func TestMergePreservesForeignEntries(t *testing.T) {
	prior := schema.ExtensionMap{
		"ops.alert":  entry("ops.alert", schema.TypeString, "OPS"),
		"hand.field": {Name: "hand.field", Type: schema.TypeBoolean, From: "manual", Metadata: map[string]any{"note": "keep me"}},
	}
	fresh := []schema.Extension{entry("name", schema.TypeString, "pipeline")}

	final := reconcile.Merge(prior, fresh, ownedLabels)
	require.Len(t, final, 3)
	assert.Equal(t, "OPS", final["ops.alert"].From)
	assert.Equal(t, "keep me", final["hand.field"].Metadata["note"])
}

func TestMergeDeletionDistinguishesOwnership(t *testing.T) {
	// An OPS-owned entry is foreign here; with OPS recognized as owned it
	// becomes deletable when absent from the fresh batch.
	prior := schema.ExtensionMap{
		"ops.alert": entry("ops.alert", schema.TypeString, "OPS"),
	}

	kept := reconcile.Merge(prior, nil, ownedLabels)
	assert.Len(t, kept, 1)

	removed := reconcile.Merge(prior, nil, []string{"OPS"})
	assert.Empty(t, removed)
}

func TestMergeIdempotent(t *testing.T) {
	prior := schema.ExtensionMap{
		"stale":      entry("stale", schema.TypeString, "pipeline"),
		"hand.field": entry("hand.field", schema.TypeBoolean, "manual"),
	}
	fresh := []schema.Extension{
		entry("name", schema.TypeString, "pipeline"),
		entry("steps.run", schema.TypeString, "steps"),
	}

	first := reconcile.Merge(prior, fresh, ownedLabels)
	second := reconcile.Merge(first, fresh, ownedLabels)
	assert.Equal(t, first, second)

	// Byte-identical artifacts across the two runs.
	path1 := filepath.Join(t.TempDir(), "one.json")
	path2 := filepath.Join(t.TempDir(), "two.json")
	require.NoError(t, schema.WriteFile(path1, first, schema.DefaultWriteOptions()))
	require.NoError(t, schema.WriteFile(path2, second, schema.DefaultWriteOptions()))

	data1, err := os.ReadFile(path1)
	require.NoError(t, err)
	data2, err := os.ReadFile(path2)
	require.NoError(t, err)
	assert.Equal(t, data1, data2)
}

func TestMergeFreshBatchLastWriteWins(t *testing.T) {
	fresh := []schema.Extension{
		entry("dup", schema.TypeString, "pipeline"),
		entry("dup", schema.TypeNumber, "steps"),
	}

	final := reconcile.Merge(schema.ExtensionMap{}, fresh, ownedLabels)
	require.Len(t, final, 1)
	assert.Equal(t, schema.TypeNumber, final["dup"].Type)
	assert.Equal(t, "steps", final["dup"].From)
}

func TestKeysSorted(t *testing.T) {
	m := schema.ExtensionMap{
		"b": entry("b", schema.TypeString, "pipeline"),
		"a": entry("a", schema.TypeString, "pipeline"),
		"c": entry("c", schema.TypeString, "pipeline"),
	}
	assert.Equal(t, []string{"a", "b", "c"}, reconcile.Keys(m))
}
