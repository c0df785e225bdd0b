package content

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	database "academy-cms/internal/db"
	"academy-cms/internal/models"
	"academy-cms/internal/placement"
)

func newTestStore(t *testing.T) (*Store, *database.Client) {
	t.Helper()
	db, err := database.NewInMemory()
	require.NoError(t, err)
	return NewStore(db.DB, nil), db
}

func TestGetMissingSectionIsNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	rec, err := store.Get(context.Background(), "homepage_main_image")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFirstWriteThenRead(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "homepage_main_image")
	require.ErrorIs(t, err, ErrNotFound)

	want := placement.Descriptor{
		URL:         "https://x/img.png",
		Coords:      placement.Coords{X: 50, Y: 50},
		Zoom:        1,
		AspectRatio: "16 / 9",
		ObjectFit:   placement.Cover,
	}
	raw, err := placement.Encode(want)
	require.NoError(t, err)

	_, err = store.Upsert(ctx, "homepage_main_image", models.ContentImageDetails, raw)
	require.NoError(t, err)

	rec, err := store.Get(ctx, "homepage_main_image")
	require.NoError(t, err)
	assert.Equal(t, models.ContentImageDetails, rec.ContentType)
	assert.Equal(t, raw, rec.ContentValue)

	got, err := store.GetPlacement(ctx, "homepage_main_image")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUpsertIsIdempotent(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	first, err := store.Upsert(ctx, "welcome_text", models.ContentText, "Welcome to the academy")
	require.NoError(t, err)
	second, err := store.Upsert(ctx, "welcome_text", models.ContentText, "Welcome to the academy")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Welcome to the academy", second.ContentValue)

	var count int64
	require.NoError(t, db.DB.Model(&models.PageContent{}).Where("section_id = ?", "welcome_text").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertReturnsTheStoredRow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	a, err := store.Upsert(ctx, "carousel_1", models.ContentText, "a")
	require.NoError(t, err)
	b, err := store.Upsert(ctx, "carousel_2", models.ContentText, "b")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	// Updating an older row reports that row, not the latest insert.
	again, err := store.Upsert(ctx, "carousel_1", models.ContentText, "a2")
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID)
	assert.Equal(t, "carousel_1", again.SectionID)
	assert.Equal(t, "a2", again.ContentValue)
	assert.True(t, a.CreatedAt.Equal(again.CreatedAt), "created_at kept")
}

func TestConcurrentUpsertsKeepOneRowPerSection(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	sections := []string{"carousel_1", "carousel_2", "carousel_3", "carousel_4"}
	const writers = 32

	var g errgroup.Group
	for i := 0; i < writers; i++ {
		section := sections[i%len(sections)]
		value := fmt.Sprintf("value-%d", i)
		g.Go(func() error {
			_, err := store.Upsert(ctx, section, models.ContentText, value)
			return err
		})
	}
	require.NoError(t, g.Wait())

	var count int64
	require.NoError(t, db.DB.Model(&models.PageContent{}).Count(&count).Error)
	assert.EqualValues(t, len(sections), count)

	for i, section := range sections {
		written := map[string]bool{}
		for w := i; w < writers; w += len(sections) {
			written[fmt.Sprintf("value-%d", w)] = true
		}
		rec, err := store.Get(ctx, section)
		require.NoError(t, err)
		assert.True(t, written[rec.ContentValue], "%s holds %q", section, rec.ContentValue)
	}
}

func TestUpsertReplacesTypeAndValue(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "facility_media_1", models.ContentImageDetails, `{"url":"https://x/a.png","zoom":2}`)
	require.NoError(t, err)
	rec, err := store.Upsert(ctx, "facility_media_1", models.ContentVideoURL, "https://x/tour.mp4")
	require.NoError(t, err)

	assert.Equal(t, models.ContentVideoURL, rec.ContentType)
	assert.Equal(t, "https://x/tour.mp4", rec.ContentValue)
}

func TestMalformedValueIsReturnedOpaque(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "program_kids_hero", models.ContentImageDetails, `{"url": "https://x/broken.png"`)
	require.NoError(t, err)

	rec, err := store.Get(ctx, "program_kids_hero")
	require.NoError(t, err)
	assert.Equal(t, `{"url": "https://x/broken.png"`, rec.ContentValue)

	d, err := store.GetPlacement(ctx, "program_kids_hero")
	require.NoError(t, err)
	assert.Equal(t, rec.ContentValue, d.URL)
	assert.Equal(t, 1.0, d.Zoom)
}

func TestLegacyRawStringPlacement(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "homepage_main_image", models.ContentImageDetails, "https://x/img.png")
	require.NoError(t, err)

	d, err := store.GetPlacement(ctx, "homepage_main_image")
	require.NoError(t, err)
	assert.Equal(t, "https://x/img.png", d.URL)
	assert.Equal(t, 1.0, d.Zoom)
	assert.Equal(t, placement.Coords{X: 50, Y: 50}, d.Coords)
}

func TestSavePlacementRejectsBeforeWriting(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.SavePlacement(ctx, "instagram_post_1", placement.Descriptor{Zoom: 1})
	var encErr *placement.EncodeError
	require.True(t, errors.As(err, &encErr))

	_, err = store.Get(ctx, "instagram_post_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSavePlacementClampsCoords(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.SavePlacement(ctx, "instructor_1_image", placement.Descriptor{
		URL:    "https://x/p.png",
		Coords: placement.Coords{X: 130, Y: -5},
		Zoom:   1.2,
	})
	require.NoError(t, err)

	d, err := store.GetPlacement(ctx, "instructor_1_image")
	require.NoError(t, err)
	assert.Equal(t, placement.Coords{X: 100, Y: 0}, d.Coords)
	assert.Equal(t, placement.RatioPortrait, d.AspectRatio)
}

func TestListByPrefix(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"instagram_post_2", "instagram_post_1", "homepage_main_image", "instagramXpost"} {
		_, err := store.Upsert(ctx, id, models.ContentText, id)
		require.NoError(t, err)
	}

	recs, err := store.List(ctx, "instagram_")
	require.NoError(t, err)

	var ids []string
	for _, r := range recs {
		ids = append(ids, r.SectionID)
	}
	assert.Equal(t, []string{"instagram_post_1", "instagram_post_2"}, ids)
}

func TestStorageErrorOnClosedConnection(t *testing.T) {
	store, db := newTestStore(t)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = store.Upsert(context.Background(), "homepage_main_image", models.ContentText, "x")
	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "upsert", storageErr.Op)

	_, err = store.Get(context.Background(), "homepage_main_image")
	assert.True(t, errors.As(err, &storageErr))
	assert.NotErrorIs(t, err, ErrNotFound)
}
