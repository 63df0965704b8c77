// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord() *types.BibliographyRecord {
	return &types.BibliographyRecord{
		ID:    "rec-1",
		Type:  "article-journal",
		Title: "The Origin of Trilobites",
		Author: []types.Author{
			{Family: "Walcott", Given: "Charles"},
		},
		Issued:         &types.DateParts{Year: 1967},
		ContainerTitle: "Journal of Palaeontology",
		Volume:         "10",
		Page:           "123-145",
		Status:         types.StatusConfirmed,
		Confidence:     0.92,
		SourceFile:     "trilobites.pdf",
		Evidence: []types.Evidence{
			{
				Field:      types.FieldYear,
				Value:      "1967",
				Kind:       types.EvidencePatternText,
				Page:       1,
				Confidence: 0.95,
				Metadata:   map[string]string{"pattern": "year_standard"},
			},
			{
				Field:      types.FieldTitle,
				Value:      "The Origin of Trilobites",
				Kind:       types.EvidenceLLM,
				Confidence: 0.7,
			},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecord()))

	got, err := s.Get(ctx, "rec-1")
	require.NoError(t, err)

	assert.Equal(t, "The Origin of Trilobites", got.Title)
	assert.Equal(t, "article-journal", got.Type)
	assert.Equal(t, 1967, got.Year())
	assert.Equal(t, types.StatusConfirmed, got.Status)
	assert.InDelta(t, 0.92, got.Confidence, 1e-9)

	require.Len(t, got.Author, 1)
	assert.Equal(t, "Walcott", got.Author[0].Family)

	require.Len(t, got.Evidence, 2)
	assert.Equal(t, types.FieldYear, got.Evidence[0].Field)
	assert.Equal(t, types.EvidencePatternText, got.Evidence[0].Kind)
	assert.Equal(t, "year_standard", got.Evidence[0].Metadata["pattern"])
	assert.Equal(t, types.EvidenceLLM, got.Evidence[1].Kind)
}

func TestSaveReplacesEvidence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, s.Save(ctx, rec))

	rec.Title = "The Origin of Trilobites, Revised"
	rec.Evidence = rec.Evidence[:1]
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "The Origin of Trilobites, Revised", got.Title)
	assert.Len(t, got.Evidence, 1)
}

func TestGetUnknownRecord(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSaveRejectsMissingID(t *testing.T) {
	s := newTestStore(t)

	err := s.Save(context.Background(), &types.BibliographyRecord{})
	require.Error(t, err)
}

func TestListFiltersByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	confirmed := sampleRecord()
	require.NoError(t, s.Save(ctx, confirmed))

	review := sampleRecord()
	review.ID = "rec-2"
	review.Status = types.StatusNeedsReview
	require.NoError(t, s.Save(ctx, review))

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// List omits the evidence trail.
	for _, rec := range all {
		assert.Empty(t, rec.Evidence)
	}

	needsReview, err := s.List(ctx, types.StatusNeedsReview)
	require.NoError(t, err)
	require.Len(t, needsReview, 1)
	assert.Equal(t, "rec-2", needsReview[0].ID)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecord()))
	require.NoError(t, s.Delete(ctx, "rec-1"))

	_, err := s.Get(ctx, "rec-1")
	require.Error(t, err)

	err = s.Delete(ctx, "rec-1")
	require.Error(t, err)
}

func TestRecordWithoutOptionalFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &types.BibliographyRecord{
		ID:     "bare",
		Type:   "unknown",
		Status: types.StatusFailed,
	}
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, "bare")
	require.NoError(t, err)
	assert.Nil(t, got.Issued)
	assert.Empty(t, got.Author)
	assert.Empty(t, got.Evidence)
}
