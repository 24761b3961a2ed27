package engine

import (
	"context"

	"github.com/quicksortapp/quicksort/internal/model"
)

// Classifier is the engine's view of the remote classification service.
type Classifier interface {
	Predict(ctx context.Context, imageURL string) (model.Classification, error)
}

// GuideResolver is the engine's view of the guide resolution pipeline.
type GuideResolver interface {
	Resolve(ctx context.Context, category, subDetail string) ([]string, error)
}
