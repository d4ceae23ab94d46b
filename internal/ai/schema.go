package ai

import (
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/christopherklint97/wellsync/internal/plan"
)

// UnifiedPlan is the shape the model is asked to produce. Field names
// follow the plan service so extraction needs no special casing.
type UnifiedPlan struct {
	Summary        string         `json:"summary" jsonschema:"description=One sentence describing the day"`
	Fitness        plan.Fitness   `json:"fitness"`
	Nutrition      plan.Nutrition `json:"nutrition"`
	Sleep          plan.Sleep     `json:"sleep"`
	MentalWellness plan.Mental    `json:"mental_wellness"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

// PlanSchema returns the JSON Schema for UnifiedPlan with all definitions
// inlined.
func PlanSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		r := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}
		schema = r.Reflect(&UnifiedPlan{})
	})
	return schema
}
