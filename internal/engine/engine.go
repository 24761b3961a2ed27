// Package engine orchestrates the analysis pipeline: upload, classify,
// resolve, score, and record.
package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/model"
	"github.com/quicksortapp/quicksort/internal/scoring"
	"github.com/quicksortapp/quicksort/internal/service"
)

// AnalysisEngine runs one photo through the full advisory pipeline.
type AnalysisEngine struct {
	storage    service.Storage
	images     service.ImageStore
	classifier Classifier
	resolver   GuideResolver
}

// New creates an analysis engine with the given dependencies.
func New(storage service.Storage, images service.ImageStore, classifier Classifier, resolver GuideResolver) *AnalysisEngine {
	return &AnalysisEngine{
		storage:    storage,
		images:     images,
		classifier: classifier,
		resolver:   resolver,
	}
}

// Analyze uploads the image, classifies it, resolves the disposal guide and
// scores the reward, returning a result awaiting user confirmation.
//
// The upload happens first and failure aborts the attempt before any
// classification: an image is never classified without a durable reference.
// If any later stage fails, the uploaded image is removed again so a failed
// analysis never leaves an orphan behind.
func (e *AnalysisEngine) Analyze(ctx context.Context, userID string, image io.Reader, contentType string) (*model.PendingAnalysis, error) {
	imageURL, err := e.images.Upload(ctx, userID, image, contentType)
	if err != nil {
		return nil, common.NewUserError("could not store the photo",
			fmt.Errorf("%w: %v", common.ErrUploadFailed, err))
	}

	common.LogDebug("image uploaded", common.Fields{"user_id": userID, "image_url": imageURL})

	classification, err := e.classifier.Predict(ctx, imageURL)
	if err != nil {
		e.cleanup(ctx, imageURL)
		return nil, common.NewUserError("could not analyze the photo",
			fmt.Errorf("classification failed for %s: %w", imageURL, err))
	}

	common.LogInfo("image classified", common.Fields{
		"user_id":    userID,
		"category":   classification.Category,
		"sub_detail": classification.SubDetail,
	})

	instructions, err := e.resolver.Resolve(ctx, classification.Category, classification.SubDetail)
	if err != nil {
		e.cleanup(ctx, imageURL)
		return nil, common.NewUserError("no disposal guide for this item",
			fmt.Errorf("guide resolution failed: %w", err))
	}

	return &model.PendingAnalysis{
		ImageURL:      imageURL,
		Category:      classification.Category,
		SubDetail:     classification.SubDetail,
		Guide:         instructions,
		CarbonReduced: scoring.CarbonReduction(classification.Category),
	}, nil
}

// Confirm records a pending analysis in the user's history, crediting its
// reward to the user's aggregate. The reward is re-derived from the category
// table here, never taken from the submitted value: the pending result
// round-trips through the client.
func (e *AnalysisEngine) Confirm(ctx context.Context, userID string, pending *model.PendingAnalysis) (string, error) {
	if pending == nil {
		return "", fmt.Errorf("nothing to confirm")
	}

	record := &model.HistoryRecord{
		UserID:        userID,
		ImageURL:      pending.ImageURL,
		Category:      pending.Category,
		SubDetail:     pending.SubDetail,
		Guide:         pending.Guide,
		CarbonReduced: scoring.CarbonReduction(pending.Category),
	}

	recordID, err := e.storage.AppendHistory(ctx, record)
	if err != nil {
		return "", fmt.Errorf("failed to record analysis: %w", err)
	}
	return recordID, nil
}

// Discard removes the uploaded image of a pending analysis the user
// rejected.
func (e *AnalysisEngine) Discard(ctx context.Context, pending *model.PendingAnalysis) error {
	if pending == nil || pending.ImageURL == "" {
		return nil
	}
	return e.images.Delete(ctx, pending.ImageURL)
}

// cleanup deletes an uploaded image after a failed analysis. Deletion
// failure is logged, not propagated: the pipeline error is the one the
// caller needs.
func (e *AnalysisEngine) cleanup(ctx context.Context, imageURL string) {
	if err := e.images.Delete(ctx, imageURL); err != nil {
		common.LogError(err, "failed to delete image after failed analysis",
			common.Fields{"image_url": imageURL})
	}
}
