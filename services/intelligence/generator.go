package ai

import "context"

// Persona is the fixed system instruction given to every remote model.
const Persona = "You are a helpful assistant for CourtConnect. Keep answers concise. Use provided context for facilities and bookings. If asked about rain, keep it short. Decline unethical requests."

const (
	generatorTemperature = 0.3
	generatorMaxTokens   = 200
)

// Generator produces a free-text answer from a remote language model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
