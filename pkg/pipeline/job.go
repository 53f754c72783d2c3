package pipeline

// JobSettings is the nested build job root. In standard mode its top-level
// properties are spliced into the element schema of the primary root's steps
// property; in extension mode its entries are generated under the steps
// prefix with their own owning source.
type JobSettings struct {
	DisplayName string `json:"displayName" schema:"description=Job display name shown in the run log"`
	Condition   string `json:"condition" schema:"description=Expression deciding whether the job runs"`
	RetryCount  int    `json:"retryCount" schema:"description=Automatic retry attempts after a failure"`

	Env []EnvironmentVariable `json:"env" schema:"description=Environment variables injected into the job"`

	// Target is an extension-point placeholder: concrete agent pools replace
	// it wholly rather than merging field by field.
	Target TargetSettings `json:"target" schema:"description=Execution target placeholder,overridable"`
}

// EnvironmentVariable is one name/value pair injected into the job
// environment.
type EnvironmentVariable struct {
	Name  string `json:"name" schema:"description=Environment variable name"`
	Value string `json:"value" schema:"description=Environment variable value"`
}

// TargetSettings is the overridable execution-target placeholder.
type TargetSettings struct {
	Pool  string `json:"pool" schema:"description=Agent pool the job is queued to"`
	Agent string `json:"agent" schema:"description=Specific agent name within the pool"`
}
