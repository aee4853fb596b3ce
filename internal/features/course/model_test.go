package course

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hiredvalley/career-server-go/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Course{}))
	return db
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug from title", func(t *testing.T) {
		db := openTestDB(t)

		c, err := Create(ctx, db, CreateInput{
			MentorID: uuid.New(),
			Title:    "  Negotiating Your Offer  ",
			Tags:     []string{"salary", "career"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Negotiating Your Offer", c.Title)
		assert.Equal(t, "negotiating-your-offer", c.Slug)
		assert.False(t, c.Published)
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		db := openTestDB(t)

		_, err := Create(ctx, db, CreateInput{MentorID: uuid.New(), Title: "Mock Interviews"})
		require.NoError(t, err)

		_, err = Create(ctx, db, CreateInput{MentorID: uuid.New(), Title: "Mock Interviews"})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		db := openTestDB(t)

		_, err := Create(ctx, db, CreateInput{MentorID: uuid.New(), Title: "   "})
		assert.ErrorIs(t, err, ErrTitleRequired)
	})
}

func TestListPublishedOnly(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for i, published := range []bool{true, true, false} {
		_, err := Create(ctx, db, CreateInput{
			MentorID:  uuid.New(),
			Title:     fmt.Sprintf("Course %d", i),
			Published: published,
		})
		require.NoError(t, err)
	}

	courses, total, err := List(ctx, db, ListFilter{PublishedOnly: true}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, courses, 2)
	for _, c := range courses {
		assert.True(t, c.Published)
	}
}

func TestUpdatePublishToggle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	c, err := Create(ctx, db, CreateInput{MentorID: uuid.New(), Title: "Portfolio Review"})
	require.NoError(t, err)

	published := true
	updated, err := Update(ctx, db, c.ID, UpdateInput{Published: &published})
	require.NoError(t, err)
	assert.True(t, updated.Published)

	_, err = Update(ctx, db, uuid.New(), UpdateInput{Published: &published})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}
