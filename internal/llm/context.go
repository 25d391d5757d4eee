package llm

import "context"

// Purposes label model calls in the request journal.
const (
	PurposeLessonAnswer    = "lesson-answer"
	PurposeFeedbackAnswer  = "feedback-answer"
	PurposeSpatialDescribe = "spatial-describe"
	PurposeSpatialQuestion = "spatial-question"
	PurposePriming         = "priming"
	PurposeTranslate       = "translate"

	// PurposeUnlabeled is recorded for calls made without a purpose.
	PurposeUnlabeled = "unlabeled"
)

type purposeKey struct{}

// WithPurpose labels the model calls made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnlabeled
}
