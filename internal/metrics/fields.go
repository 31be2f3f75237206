package metrics

// Metric attribute keys shared across instruments.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrProvider  = "provider"
	AttrRejection = "rejection"
	AttrGenerator = "generator"
	AttrOutcome   = "outcome"
)

// Squad generators.
const (
	GeneratorRandom = "random"
	GeneratorAI     = "ai"
	GeneratorReview = "analysis"
)
