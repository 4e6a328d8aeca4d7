package llm

import "context"

type purposeCtxKey struct{}

// WithPurpose tags the context with what the completion is for
// ("study_notes", "quiz"). The logging decorator includes it in every
// record so generation traffic can be split by feature.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeCtxKey{}, purpose)
}

// PurposeFrom returns the purpose tag, or "" when the context has none.
func PurposeFrom(ctx context.Context) string {
	p, _ := ctx.Value(purposeCtxKey{}).(string)
	return p
}
