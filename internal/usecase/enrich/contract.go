package enrich

import "context"

// Generator defines the text generation contract.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}
