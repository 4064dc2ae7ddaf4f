package versionedcontent_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vc "github.com/draftkit/versioned-content/pkg/versionedcontent"
	archivememory "github.com/draftkit/versioned-content/pkg/versionedcontent/archive/memory"
	"github.com/draftkit/versioned-content/pkg/versionedcontent/repo/memory"
)

func newTestService(t *testing.T, opts ...vc.Option) vc.Service {
	t.Helper()

	options := append([]vc.Option{vc.WithRepository(memory.New())}, opts...)
	svc, err := vc.New(options...)
	require.NoError(t, err)
	return svc
}

func createTestContent(t *testing.T, svc vc.Service, ownerID uuid.UUID, body string) *vc.Content {
	t.Helper()

	content, err := svc.CreateContent(context.Background(), vc.CreateContentRequest{
		OwnerID: ownerID,
		Title:   "Test Post",
		Kind:    vc.ContentKindBlog,
		Body:    body,
		Metadata: vc.Metadata{
			Topic:    "testing",
			Keywords: []string{"go"},
			Tone:     "neutral",
		},
	})
	require.NoError(t, err)
	return content
}

func strPtr(s string) *string { return &s }

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []vc.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []vc.Option{},
			expectError: true,
		},
		{
			name:        "with repository should succeed",
			options:     []vc.Option{vc.WithRepository(memory.New())},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := vc.New(tt.options...)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestCreateContent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	content, err := svc.CreateContent(ctx, vc.CreateContentRequest{
		OwnerID: ownerID,
		Title:   "Hello",
		Kind:    vc.ContentKindBlog,
		Body:    "hello world",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, content.ID)
	assert.Equal(t, ownerID, content.OwnerID)
	assert.Equal(t, 1, content.Version)
	assert.Equal(t, vc.ContentStatusDraft, content.Status)
	assert.Equal(t, 2, content.WordCount)
	assert.Equal(t, content.CreatedAt, content.UpdatedAt)
}

func TestCreateContent_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	tests := []struct {
		name string
		req  vc.CreateContentRequest
	}{
		{
			name: "missing owner",
			req:  vc.CreateContentRequest{Title: "t", Kind: vc.ContentKindBlog, Body: "b"},
		},
		{
			name: "missing title",
			req:  vc.CreateContentRequest{OwnerID: ownerID, Kind: vc.ContentKindBlog, Body: "b"},
		},
		{
			name: "missing body",
			req:  vc.CreateContentRequest{OwnerID: ownerID, Title: "t", Kind: vc.ContentKindBlog},
		},
		{
			name: "missing kind",
			req:  vc.CreateContentRequest{OwnerID: ownerID, Title: "t", Body: "b"},
		},
		{
			name: "unknown kind",
			req:  vc.CreateContentRequest{OwnerID: ownerID, Title: "t", Kind: "podcast", Body: "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateContent(ctx, tt.req)
			assert.Error(t, err)
		})
	}
}

func TestUpdateContent_BodyBumpsVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	content := createTestContent(t, svc, ownerID, "first version body")

	updated, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID:      content.ID,
		OwnerID: ownerID,
		Body:    strPtr("second version of the body"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "second version of the body", updated.Body)
	assert.Equal(t, 5, updated.WordCount)

	// The superseded state must be captured as a snapshot
	versions, err := svc.ListVersions(ctx, ownerID, content.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].Version)
	assert.Equal(t, "first version body", versions[0].Body)
	assert.Equal(t, 3, versions[0].WordCount)
}

func TestUpdateContent_IdenticalBodyStillBumps(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	content := createTestContent(t, svc, ownerID, "same body")

	updated, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID:      content.ID,
		OwnerID: ownerID,
		Body:    strPtr("same body"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Version)

	versions, err := svc.ListVersions(ctx, ownerID, content.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestUpdateContent_MetadataOnlyKeepsVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	content := createTestContent(t, svc, ownerID, "the body")

	tone := "formal"
	updated, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID:       content.ID,
		OwnerID:  ownerID,
		Title:    strPtr("Renamed"),
		Metadata: &vc.MetadataPatch{Tone: &tone},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Version)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "formal", updated.Metadata.Tone)
	assert.Equal(t, "testing", updated.Metadata.Topic)

	versions, err := svc.ListVersions(ctx, ownerID, content.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestUpdateContent_StatusTransitions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	content := createTestContent(t, svc, ownerID, "the body")

	published := vc.ContentStatusPublished
	updated, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID:      content.ID,
		OwnerID: ownerID,
		Status:  &published,
	})
	require.NoError(t, err)
	assert.Equal(t, vc.ContentStatusPublished, updated.Status)
	assert.Equal(t, 1, updated.Version)

	bogus := vc.ContentStatus("retired")
	_, err = svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID:      content.ID,
		OwnerID: ownerID,
		Status:  &bogus,
	})
	assert.ErrorIs(t, err, vc.ErrInvalidContentStatus)
}

func TestUpdateContent_ExpectedVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	content := createTestContent(t, svc, ownerID, "the body")

	stale := 7
	_, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID:              content.ID,
		OwnerID:         ownerID,
		Body:            strPtr("changed"),
		ExpectedVersion: &stale,
	})
	assert.ErrorIs(t, err, vc.ErrVersionConflict)

	matching := 1
	updated, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID:              content.ID,
		OwnerID:         ownerID,
		Body:            strPtr("changed"),
		ExpectedVersion: &matching,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
}

func TestOwnerScoping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	stranger := uuid.New()
	content := createTestContent(t, svc, ownerID, "private body")

	t.Run("get", func(t *testing.T) {
		_, err := svc.GetContent(ctx, stranger, content.ID)
		assert.ErrorIs(t, err, vc.ErrContentNotFound)
	})

	t.Run("update", func(t *testing.T) {
		_, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
			ID:      content.ID,
			OwnerID: stranger,
			Body:    strPtr("hijacked"),
		})
		assert.ErrorIs(t, err, vc.ErrContentNotFound)
	})

	t.Run("delete reports nothing to delete", func(t *testing.T) {
		deleted, err := svc.DeleteContent(ctx, stranger, content.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("versions", func(t *testing.T) {
		_, err := svc.ListVersions(ctx, stranger, content.ID)
		assert.ErrorIs(t, err, vc.ErrContentNotFound)
	})

	t.Run("revert", func(t *testing.T) {
		_, err := svc.RevertToVersion(ctx, stranger, content.ID, 1)
		assert.ErrorIs(t, err, vc.ErrContentNotFound)
	})
}

func TestListContent_Pagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	for i := 0; i < 25; i++ {
		_, err := svc.CreateContent(ctx, vc.CreateContentRequest{
			OwnerID: ownerID,
			Title:   fmt.Sprintf("Post %d", i),
			Kind:    vc.ContentKindBlog,
			Body:    "body text",
		})
		require.NoError(t, err)
	}

	t.Run("second page of ten", func(t *testing.T) {
		list, err := svc.ListContent(ctx, vc.ListContentRequest{
			OwnerID:  ownerID,
			Page:     2,
			PageSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(25), list.Total)
		assert.Len(t, list.Contents, 10)
		assert.Equal(t, 2, list.Page)
	})

	t.Run("last page is partial", func(t *testing.T) {
		list, err := svc.ListContent(ctx, vc.ListContentRequest{
			OwnerID:  ownerID,
			Page:     3,
			PageSize: 10,
		})
		require.NoError(t, err)
		assert.Len(t, list.Contents, 5)
	})

	t.Run("malformed paging falls back to defaults", func(t *testing.T) {
		list, err := svc.ListContent(ctx, vc.ListContentRequest{
			OwnerID:  ownerID,
			Page:     -3,
			PageSize: 0,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, list.Page)
		assert.Equal(t, 10, list.PageSize)
		assert.Len(t, list.Contents, 10)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		list, err := svc.ListContent(ctx, vc.ListContentRequest{
			OwnerID:  ownerID,
			Page:     9,
			PageSize: 10,
		})
		require.NoError(t, err)
		assert.Empty(t, list.Contents)
		assert.Equal(t, int64(25), list.Total)
	})
}

func TestRevertToVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	content := createTestContent(t, svc, ownerID, "version one body")

	_, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID: content.ID, OwnerID: ownerID, Body: strPtr("version two body"),
	})
	require.NoError(t, err)

	published := vc.ContentStatusPublished
	_, err = svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID: content.ID, OwnerID: ownerID, Body: strPtr("version three body"), Status: &published,
	})
	require.NoError(t, err)

	reverted, err := svc.RevertToVersion(ctx, ownerID, content.ID, 1)
	require.NoError(t, err)

	// Forward move: counter keeps climbing, status stays put
	assert.Equal(t, 4, reverted.Version)
	assert.Equal(t, "version one body", reverted.Body)
	assert.Equal(t, vc.ContentStatusPublished, reverted.Status)

	// The pre-revert state lands in the history too
	versions, err := svc.ListVersions(ctx, ownerID, content.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].Version)
	assert.Equal(t, "version three body", versions[0].Body)

	t.Run("unknown target version", func(t *testing.T) {
		_, err := svc.RevertToVersion(ctx, ownerID, content.ID, 42)
		assert.ErrorIs(t, err, vc.ErrVersionNotFound)
	})
}

func TestDiffVersions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	content := createTestContent(t, svc, ownerID, "the quick fox")

	_, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID: content.ID, OwnerID: ownerID, Body: strPtr("the slow fox"),
	})
	require.NoError(t, err)

	segments, err := svc.DiffVersions(ctx, ownerID, content.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []vc.DiffSegment{
		{Type: vc.DiffUnchanged, Value: "the"},
		{Type: vc.DiffRemoved, Value: "quick"},
		{Type: vc.DiffAdded, Value: "slow"},
		{Type: vc.DiffUnchanged, Value: "fox"},
	}, segments)

	t.Run("unknown version", func(t *testing.T) {
		_, err := svc.DiffVersions(ctx, ownerID, content.ID, 1, 9)
		assert.ErrorIs(t, err, vc.ErrVersionNotFound)
	})
}

func TestDeleteContent_PurgesHistory(t *testing.T) {
	repo := memory.New()
	svc, err := vc.New(vc.WithRepository(repo), vc.WithHistoryPurge(true))
	require.NoError(t, err)
	ctx := context.Background()
	ownerID := uuid.New()

	content := createTestContent(t, svc, ownerID, "v1")
	_, err = svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID: content.ID, OwnerID: ownerID, Body: strPtr("v2"),
	})
	require.NoError(t, err)

	deleted, err := svc.DeleteContent(ctx, ownerID, content.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.GetContent(ctx, ownerID, content.ID)
	assert.ErrorIs(t, err, vc.ErrContentNotFound)

	versions, err := repo.ListVersions(ctx, content.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestGetContentWithHistory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	content := createTestContent(t, svc, ownerID, "v1")

	_, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID: content.ID, OwnerID: ownerID, Body: strPtr("v2"),
	})
	require.NoError(t, err)

	got, versions, err := svc.GetContentWithHistory(ctx, ownerID, content.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].Version)
}

func TestArchiveContent(t *testing.T) {
	archiver := archivememory.New()
	svc := newTestService(t, vc.WithArchiver(archiver))
	ctx := context.Background()
	ownerID := uuid.New()
	content := createTestContent(t, svc, ownerID, "v1 body")

	_, err := svc.UpdateContent(ctx, vc.UpdateContentRequest{
		ID: content.ID, OwnerID: ownerID, Body: strPtr("v2 body"),
	})
	require.NoError(t, err)

	key, err := svc.ArchiveContent(ctx, ownerID, content.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("exports/%s/%s.json", ownerID, content.ID), key)

	data, ok := archiver.Get(key)
	require.True(t, ok)

	var export vc.ContentExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "v2 body", export.Content.Body)
	require.Len(t, export.Versions, 1)
	assert.Equal(t, "v1 body", export.Versions[0].Body)

	t.Run("not configured", func(t *testing.T) {
		bare := newTestService(t)
		_, err := bare.ArchiveContent(ctx, ownerID, content.ID)
		assert.ErrorIs(t, err, vc.ErrArchiverNotConfigured)
	})
}
