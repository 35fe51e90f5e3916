// Package generate turns a natural-language network intent into one
// candidate filtering rule. The actual translation is delegated to an
// external text-generation service; this package owns the request shape,
// the prompt context, and all cleanup of what comes back.
package generate

import "context"

// Generator produces one candidate filtering rule for an intent.
// feedback, when non-empty, describes why the previous rule failed and must
// be folded into the request. Two calls with identical input may yield
// different rule text; the retry loop exists because of that.
type Generator interface {
	Generate(ctx context.Context, intent, feedback string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, intent, feedback string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, intent, feedback string) (string, error) {
	return f(ctx, intent, feedback)
}
