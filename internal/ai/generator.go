// Package ai generates wellness plans with a language model, as an
// alternative to the plan service.
package ai

import (
	"context"

	"github.com/christopherklint97/wellsync/internal/plan"
	"github.com/christopherklint97/wellsync/internal/wellness"
)

// Generator produces a raw plan document for a user profile. Both the
// plan service client and the model-backed generators satisfy it.
type Generator interface {
	Generate(ctx context.Context, req wellness.GenerateRequest) (plan.Document, error)
}

var _ Generator = (*wellness.Client)(nil)
var _ Generator = (*OpenAI)(nil)
