package config

// OptimizerConfig tunes the genetic squad builder behind /api/ai-squad.
type OptimizerConfig struct {
	Population   int     `envconfig:"AI_POPULATION" default:"200"`
	Generations  int     `envconfig:"AI_GENERATIONS" default:"100"`
	MutationRate float64 `envconfig:"AI_MUTATION_RATE" default:"0.2"`
	Elitism      float64 `envconfig:"AI_ELITISM" default:"0.1"`
}

func (c OptimizerConfig) normalized() OptimizerConfig {
	if c.Population <= 1 {
		c.Population = defaultPopulation
	}
	if c.Generations <= 0 {
		c.Generations = defaultGenerations
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		c.MutationRate = defaultMutationRate
	}
	if c.Elitism < 0 || c.Elitism >= 1 {
		c.Elitism = defaultElitism
	}
	return c
}
