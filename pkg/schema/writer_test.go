package schema_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildforge/schemagen/pkg/schema"
)

func TestEncodeExtensionMapSortedKeys(t *testing.T) {
	m := schema.ExtensionMap{
		"b.second": {Name: "b.second", Type: schema.TypeString, From: "gen"},
		"a.first":  {Name: "a.first", Type: schema.TypeNumber, From: "gen"},
		"a.third":  {Name: "a.third", Type: schema.TypeBoolean, From: "gen"},
	}

	data, err := schema.Encode(m, schema.DefaultWriteOptions())
	require.NoError(t, err)

	out := string(data)
	assert.Less(t, strings.Index(out, `"a.first"`), strings.Index(out, `"a.third"`))
	assert.Less(t, strings.Index(out, `"a.third"`), strings.Index(out, `"b.second"`))
}

func TestEncodeOmitsOverridable(t *testing.T) {
	r := newTestRegistry(t)
	doc, err := r.BuildStandard(holder{})
	require.NoError(t, err)

	// Nest a second overridable occurrence under the array element schema.
	secondary, err := r.BuildStandard(holder{})
	require.NoError(t, err)
	require.NoError(t, schema.SpliceItemProperties(doc, "items", secondary))

	t.Run("enabled", func(t *testing.T) {
		data, err := schema.Encode(doc, schema.DefaultWriteOptions())
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"target"`)
		assert.Contains(t, string(data), `"owner"`)
	})

	t.Run("disabled", func(t *testing.T) {
		opts := schema.DefaultWriteOptions()
		opts.OmitOverridable = false
		data, err := schema.Encode(doc, opts)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"target"`)
	})

	t.Run("source document untouched", func(t *testing.T) {
		_, ok := doc.Properties.Get("target")
		assert.True(t, ok)
	})
}

func TestEncodeYAML(t *testing.T) {
	r := newTestRegistry(t)
	doc, err := r.BuildStandard(holder{})
	require.NoError(t, err)

	opts := schema.DefaultWriteOptions()
	opts.Format = schema.FormatYAML
	data, err := schema.Encode(doc, opts)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "$schema:")
	assert.Contains(t, out, "properties:")
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	opts := schema.DefaultWriteOptions()
	opts.Format = "toml"
	_, err := schema.Encode(schema.ExtensionMap{}, opts)
	assert.Error(t, err)
}

func TestWriteFileReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	m := schema.ExtensionMap{"a": {Name: "a", Type: schema.TypeString, From: "gen"}}
	require.NoError(t, schema.WriteFile(path, m, schema.DefaultWriteOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")

	var parsed schema.ExtensionMap
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "a", parsed["a"].Name)
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "schema.json")

	m := schema.ExtensionMap{}
	require.NoError(t, schema.WriteFile(path, m, schema.DefaultWriteOptions()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
