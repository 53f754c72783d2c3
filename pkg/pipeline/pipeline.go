// Package pipeline holds the in-process data contracts the schema generator
// runs against: the primary pipeline configuration root and the nested build
// job root. The generator core never reads these types directly; it consumes
// the descriptor table produced by the declarative registration in
// Definitions.
package pipeline

import "github.com/buildforge/schemagen/pkg/schema"

// Owning-source labels recorded on generated extension entries. The merge
// engine may delete stale entries carrying one of these labels; entries with
// any other label are foreign and preserved.
const (
	// SourcePipeline owns entries derived from the primary configuration root.
	SourcePipeline = "pipeline"

	// SourceSteps owns entries derived from the nested build job root.
	SourceSteps = "steps"
)

// OwnedSources returns the generator-owned labels recognized by the merge
// engine.
func OwnedSources() []string {
	return []string{SourcePipeline, SourceSteps}
}

// PipelineSettings is the primary configuration root.
type PipelineSettings struct {
	Name        string `json:"name" schema:"description=Display name of the pipeline"`
	Description string `json:"description" schema:"description=Free-form summary shown in the run overview"`
	Enabled     bool   `json:"enabled" schema:"description=Whether triggered and scheduled runs are accepted"`
	MaxParallel int    `json:"maxParallel" schema:"description=Maximum number of concurrent runs,minimum=1"`

	// Timeout is optional; absent means the agent default applies.
	Timeout *int `json:"timeoutMinutes" schema:"description=Run timeout in minutes before cancellation"`

	Workspace WorkspaceSettings  `json:"workspace" schema:"description=Checkout and scratch directory layout"`
	Triggers  []TriggerSettings  `json:"triggers" schema:"description=Events that enqueue a run"`
	Variables []VariableSettings `json:"variables" schema:"description=Pipeline-level variables available to every step"`
	Steps     []StepSettings     `json:"steps" schema:"description=Ordered build steps executed per run"`

	// Artifacts carries no schema tag: the list itself is not addressable,
	// but its element fields still surface under the artifacts path.
	Artifacts []ArtifactSettings `json:"artifacts"`

	// revision is internal bookkeeping, never part of the contract.
	revision int //nolint:unused
}

// WorkspaceSettings describes the working directory handed to each run.
type WorkspaceSettings struct {
	Root  string `json:"root" schema:"description=Workspace root directory on the agent"`
	Clean bool   `json:"clean" schema:"description=Whether the workspace is wiped before checkout"`
}

// TriggerSettings describes one event that enqueues a run.
type TriggerSettings struct {
	Kind     string   `json:"kind" schema:"description=Trigger kind such as push or schedule"`
	Branches []string `json:"branches" schema:"description=Branch patterns the trigger applies to"`
	Schedule *string  `json:"schedule" schema:"description=Cron expression for schedule triggers"`
}

// VariableSettings is one pipeline-level variable.
type VariableSettings struct {
	Name   string `json:"name" schema:"description=Variable name"`
	Value  string `json:"value" schema:"description=Variable value"`
	Secret bool   `json:"secret" schema:"description=Whether the value is masked in logs"`
}

// StepSettings is the per-step configuration surface of the primary root.
// The nested build job root contributes further step fields through the
// standard-tree splice.
type StepSettings struct {
	Name            string `json:"name" schema:"description=Step display name"`
	Run             string `json:"run" schema:"description=Command line executed by the step"`
	ContinueOnError bool   `json:"continueOnError" schema:"description=Whether later steps run after this one fails"`
}

// ArtifactSettings describes one published artifact. The containing list is
// deliberately untagged on the root.
type ArtifactSettings struct {
	Path      string `json:"path" schema:"description=Glob selecting files to publish"`
	Retention *int   `json:"retentionDays" schema:"description=Days the artifact is kept before expiry"`
}

// Definitions performs the declarative registration of both contract roots
// and returns the descriptor registry the builders consume.
func Definitions() (*schema.Registry, error) {
	r := schema.NewRegistry()
	if _, err := r.Describe(PipelineSettings{}); err != nil {
		return nil, err
	}
	if _, err := r.Describe(JobSettings{}); err != nil {
		return nil, err
	}
	return r, nil
}
