package llm

// ChatOptions contains options for generating chat completions
type ChatOptions struct {
	Model               string  // Model name/identifier
	Temperature         float32 // Controls randomness (0.0 to 1.0)
	MaxCompletionTokens int     // Maximum completion tokens
	Seed                int64   // Random seed for deterministic results
	User                string  // Identifier representing end-user
	JSONMode            bool    // Respuesta como objeto JSON
}

// Option is a function type to modify ChatOptions
type Option func(*ChatOptions)

// WithModel sets the model to use
func WithModel(model string) Option {
	return func(o *ChatOptions) {
		o.Model = model
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(temp float32) Option {
	return func(o *ChatOptions) {
		o.Temperature = temp
	}
}

// WithMaxCompletionTokens sets the maximum completion tokens
func WithMaxCompletionTokens(tokens int) Option {
	return func(o *ChatOptions) {
		o.MaxCompletionTokens = tokens
	}
}

// WithSeed sets the random seed
func WithSeed(seed int64) Option {
	return func(o *ChatOptions) {
		o.Seed = seed
	}
}

// WithUser sets the user identifier
func WithUser(user string) Option {
	return func(o *ChatOptions) {
		o.User = user
	}
}

// WithJSONMode enables JSON mode
func WithJSONMode() Option {
	return func(o *ChatOptions) {
		o.JSONMode = true
	}
}

// DefaultOptions returns the default options
func DefaultOptions() *ChatOptions {
	return &ChatOptions{
		Temperature: 0.7,
	}
}

// Apply construye las opciones finales
func Apply(opts ...Option) *ChatOptions {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
