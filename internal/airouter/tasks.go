package airouter

// TaskType identifies one kind of AI enhancement work.
type TaskType string

const (
	TaskNameEnhance         TaskType = "product_name_enhance"
	TaskDescriptionGenerate TaskType = "description_generate"
	TaskSEOKeywords         TaskType = "seo_keywords"
	TaskCategorySuggest     TaskType = "category_suggest"
	TaskImageCaption        TaskType = "image_caption"
	TaskQualityScore        TaskType = "quality_score"
)

// Complexity drives the local-vs-cloud preference: simple tasks run fine on
// small local models, complex ones want a stronger cloud model when budget
// allows.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityComplex Complexity = "complex"
)

// TaskProfile declares routing inputs for one task type. EstimatedTokens is
// a conservative per-call figure used to pre-check cloud cost against the
// remaining budget.
type TaskProfile struct {
	Type            TaskType
	Complexity      Complexity
	EstimatedTokens int
	RequiresVision  bool
}

// taskProfiles is the built-in task registry.
var taskProfiles = map[TaskType]TaskProfile{
	TaskNameEnhance:         {TaskNameEnhance, ComplexitySimple, 500, false},
	TaskDescriptionGenerate: {TaskDescriptionGenerate, ComplexityComplex, 2000, false},
	TaskSEOKeywords:         {TaskSEOKeywords, ComplexityComplex, 1500, false},
	TaskCategorySuggest:     {TaskCategorySuggest, ComplexitySimple, 300, false},
	TaskImageCaption:        {TaskImageCaption, ComplexitySimple, 800, true},
	TaskQualityScore:        {TaskQualityScore, ComplexitySimple, 400, false},
}

// ProfileFor returns the profile for a task type.
func ProfileFor(t TaskType) (TaskProfile, bool) {
	p, ok := taskProfiles[t]
	return p, ok
}

// TaskTypes returns all registered task types.
func TaskTypes() []TaskType {
	out := make([]TaskType, 0, len(taskProfiles))
	for t := range taskProfiles {
		out = append(out, t)
	}
	return out
}
