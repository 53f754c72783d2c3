package pipeline_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildforge/schemagen/pkg/pipeline"
	"github.com/buildforge/schemagen/pkg/schema"
)

func TestOwnedSources(t *testing.T) {
	assert.Equal(t, []string{"pipeline", "steps"}, pipeline.OwnedSources())
}

func TestDefinitionsRegistersBothRoots(t *testing.T) {
	r, err := pipeline.Definitions()
	require.NoError(t, err)

	for _, root := range []any{pipeline.PipelineSettings{}, pipeline.JobSettings{}} {
		_, ok := r.Lookup(reflect.TypeOf(root))
		assert.True(t, ok, "root %T not registered", root)
	}

	// Nested contract types are registered transitively.
	for _, nested := range []any{
		pipeline.WorkspaceSettings{},
		pipeline.TriggerSettings{},
		pipeline.StepSettings{},
		pipeline.ArtifactSettings{},
		pipeline.EnvironmentVariable{},
		pipeline.TargetSettings{},
	} {
		_, ok := r.Lookup(reflect.TypeOf(nested))
		assert.True(t, ok, "nested type %T not registered", nested)
	}
}

func TestPipelineExtensionEntries(t *testing.T) {
	r, err := pipeline.Definitions()
	require.NoError(t, err)

	entries, err := r.BuildExtensions("", pipeline.PipelineSettings{}, pipeline.SourcePipeline)
	require.NoError(t, err)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	// Array member descendants precede the member itself; the untagged
	// artifacts list contributes descendants but no entry of its own.
	assert.Equal(t, []string{
		"name",
		"description",
		"enabled",
		"maxParallel",
		"timeoutMinutes",
		"workspace",
		"triggers.kind",
		"triggers.branches",
		"triggers.schedule",
		"triggers",
		"variables.name",
		"variables.value",
		"variables.secret",
		"variables",
		"steps.name",
		"steps.run",
		"steps.continueOnError",
		"steps",
		"artifacts.path",
		"artifacts.retentionDays",
	}, names)

	byName := make(map[string]schema.Extension, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	assert.Equal(t, schema.TypeArray, byName["steps"].Type)
	assert.Equal(t, schema.TypeObject, byName["workspace"].Type)
	assert.Equal(t, schema.TypeBoolean, byName["enabled"].Type)
	assert.True(t, byName["timeoutMinutes"].Nullable)
	assert.True(t, byName["triggers.schedule"].Nullable)
	assert.False(t, byName["name"].Nullable)

	for _, e := range entries {
		assert.Equal(t, pipeline.SourcePipeline, e.From, "entry %s", e.Name)
	}

	assert.Equal(t, int64(1), byName["maxParallel"].Metadata["minimum"])
}

func TestJobExtensionEntries(t *testing.T) {
	r, err := pipeline.Definitions()
	require.NoError(t, err)

	entries, err := r.BuildExtensions("steps", pipeline.JobSettings{}, pipeline.SourceSteps)
	require.NoError(t, err)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
		assert.Equal(t, pipeline.SourceSteps, e.From, "entry %s", e.Name)
	}

	assert.Equal(t, []string{
		"steps.displayName",
		"steps.condition",
		"steps.retryCount",
		"steps.env.name",
		"steps.env.value",
		"steps.env",
		"steps.target",
	}, names)
}

func TestStandardTreeSplice(t *testing.T) {
	r, err := pipeline.Definitions()
	require.NoError(t, err)

	primary, err := r.BuildStandard(pipeline.PipelineSettings{})
	require.NoError(t, err)
	job, err := r.BuildStandard(pipeline.JobSettings{})
	require.NoError(t, err)

	require.NoError(t, schema.SpliceItemProperties(primary, "steps", job))

	steps, ok := primary.Properties.Get("steps")
	require.True(t, ok)
	require.NotNil(t, steps.Items)

	// Element fields first, spliced job fields appended after.
	assert.Equal(t, []string{
		"name", "run", "continueOnError",
		"displayName", "condition", "retryCount", "env", "target",
	}, steps.Items.Properties.Keys())

	target, ok := steps.Items.Properties.Get("target")
	require.True(t, ok)
	assert.True(t, target.Overridable)
}
