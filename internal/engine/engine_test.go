package engine

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/guide"
	"github.com/quicksortapp/quicksort/internal/model"
	"github.com/quicksortapp/quicksort/internal/storage"
)

func newTestEngine(t *testing.T, classifier *MockClassifier, images *MockImageStore) (*AnalysisEngine, *storage.SQLiteStorage) {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	require.NoError(t, store.CreateUser(ctx, &model.UserAccount{
		ID:           "user-1",
		Username:     "user1",
		Email:        "user1@example.com",
		PasswordHash: "x",
	}))

	require.NoError(t, store.UpsertGuideEntry(ctx, model.GuideEntry{
		Category:     "캔류",
		SubDetail:    "기타",
		Instructions: []string{"Rinse and flatten."},
	}))

	return New(store, images, classifier, guide.NewResolver(store)), store
}

func TestAnalyze_Success(t *testing.T) {
	classifier := &MockClassifier{Result: model.Classification{Category: "캔류", SubDetail: "불명"}}
	images := NewMockImageStore()
	eng, _ := newTestEngine(t, classifier, images)

	pending, err := eng.Analyze(context.Background(), "user-1", strings.NewReader("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "캔류", pending.Category)
	assert.Equal(t, "불명", pending.SubDetail)
	assert.Equal(t, []string{"Rinse and flatten."}, pending.Guide)
	assert.InDelta(t, 0.105, pending.CarbonReduced, 1e-9)
	assert.True(t, images.Stored(pending.ImageURL), "image should remain stored after success")
	assert.Equal(t, []string{pending.ImageURL}, classifier.Calls())
}

func TestAnalyze_UploadFailureAbortsBeforeClassification(t *testing.T) {
	classifier := &MockClassifier{Result: model.Classification{Category: "캔류"}}
	images := NewMockImageStore()
	images.UploadErr = errors.New("bucket unavailable")
	eng, _ := newTestEngine(t, classifier, images)

	_, err := eng.Analyze(context.Background(), "user-1", strings.NewReader("jpeg-bytes"), "image/jpeg")
	assert.ErrorIs(t, err, common.ErrUploadFailed)
	assert.Empty(t, classifier.Calls(), "classifier must not run without a stored image")
}

func TestAnalyze_ClassifyFailureDeletesUpload(t *testing.T) {
	classifier := &MockClassifier{Err: common.ErrClassificationFailed}
	images := NewMockImageStore()
	eng, _ := newTestEngine(t, classifier, images)

	_, err := eng.Analyze(context.Background(), "user-1", strings.NewReader("jpeg-bytes"), "image/jpeg")
	assert.ErrorIs(t, err, common.ErrClassificationFailed)

	deletes := images.Deletes()
	require.Len(t, deletes, 1)
	assert.False(t, images.Stored(deletes[0]), "failed analysis must not orphan the upload")
}

func TestAnalyze_NoGuideDeletesUpload(t *testing.T) {
	// 가구류 is unknown to the guide store set up by newTestEngine.
	classifier := &MockClassifier{Result: model.Classification{Category: "가구류", SubDetail: "소파"}}
	images := NewMockImageStore()
	eng, _ := newTestEngine(t, classifier, images)

	_, err := eng.Analyze(context.Background(), "user-1", strings.NewReader("jpeg-bytes"), "image/jpeg")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Len(t, images.Deletes(), 1)
}

func TestAnalyze_UnclassifiableUsesGeneralWasteGuide(t *testing.T) {
	classifier := &MockClassifier{Result: model.Classification{
		Category:  model.CategoryUnclassifiable,
		SubDetail: model.SubDetailUnclassifiable,
	}}
	images := NewMockImageStore()
	eng, _ := newTestEngine(t, classifier, images)

	pending, err := eng.Analyze(context.Background(), "user-1", strings.NewReader("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)

	// The guide comes from the seeded 일반쓰레기 fallback; no reward for
	// unclassifiable items.
	assert.NotEmpty(t, pending.Guide)
	assert.Zero(t, pending.CarbonReduced)
}

func TestConfirm_RecordsHistoryAndAggregate(t *testing.T) {
	classifier := &MockClassifier{Result: model.Classification{Category: "캔류", SubDetail: "불명"}}
	images := NewMockImageStore()
	eng, store := newTestEngine(t, classifier, images)
	ctx := context.Background()

	pending, err := eng.Analyze(ctx, "user-1", strings.NewReader("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)

	recordID, err := eng.Confirm(ctx, "user-1", pending)
	require.NoError(t, err)
	require.NotEmpty(t, recordID)

	records, err := store.ListHistory(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, pending.Guide, records[0].Guide)
	assert.InDelta(t, pending.CarbonReduced, records[0].CarbonReduced, 1e-9)

	user, err := store.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.105, user.TotalCarbonReduced, 1e-9)
}

func TestConfirm_RederivesRewardFromCategory(t *testing.T) {
	eng, store := newTestEngine(t, &MockClassifier{}, NewMockImageStore())
	ctx := context.Background()

	// A tampered client could submit any reward it likes; the ledger must
	// credit the table value for the category instead.
	pending := &model.PendingAnalysis{
		ImageURL:      "https://images.test/users/user-1/1.jpg",
		Category:      "캔류",
		SubDetail:     "음료캔",
		Guide:         []string{"Rinse and flatten."},
		CarbonReduced: 999,
	}

	_, err := eng.Confirm(ctx, "user-1", pending)
	require.NoError(t, err)

	records, err := store.ListHistory(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 0.105, records[0].CarbonReduced, 1e-9)

	user, err := store.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.105, user.TotalCarbonReduced, 1e-9)
}

func TestConfirm_Nil(t *testing.T) {
	eng, _ := newTestEngine(t, &MockClassifier{}, NewMockImageStore())

	_, err := eng.Confirm(context.Background(), "user-1", nil)
	assert.Error(t, err)
}

func TestDiscard_DeletesImage(t *testing.T) {
	classifier := &MockClassifier{Result: model.Classification{Category: "캔류", SubDetail: "불명"}}
	images := NewMockImageStore()
	eng, _ := newTestEngine(t, classifier, images)
	ctx := context.Background()

	pending, err := eng.Analyze(ctx, "user-1", strings.NewReader("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, eng.Discard(ctx, pending))
	assert.False(t, images.Stored(pending.ImageURL))

	// Discarding nothing is fine.
	assert.NoError(t, eng.Discard(ctx, nil))
}
