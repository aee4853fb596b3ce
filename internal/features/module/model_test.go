package module

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
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Module{}))
	return db
}

func TestCreatePersistsRequiredFlag(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	courseID := uuid.New()

	required, err := Create(ctx, db, CreateInput{
		CourseID: courseID,
		Title:    "Core Concepts",
		Required: true,
	})
	require.NoError(t, err)

	optional, err := Create(ctx, db, CreateInput{
		CourseID: courseID,
		Title:    "Bonus Material",
		Required: false,
	})
	require.NoError(t, err)

	// Assert against the stored rows, not the in-memory structs: an
	// optional module must stay optional after the insert round-trip.
	stored, err := Get(ctx, db, optional.ID)
	require.NoError(t, err)
	assert.False(t, stored.Required)

	stored, err = Get(ctx, db, required.ID)
	require.NoError(t, err)
	assert.True(t, stored.Required)

	ids, err := RequiredIDs(ctx, db, courseID)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, required.ID, ids[0])
}

func TestListByCourseOrdering(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	courseID := uuid.New()

	for i, title := range []string{"Third", "First", "Second"} {
		order := []int{3, 1, 2}[i]
		_, err := Create(ctx, db, CreateInput{
			CourseID: courseID,
			Title:    title,
			Order:    order,
			Required: true,
		})
		require.NoError(t, err)
	}

	modules, err := ListByCourse(ctx, db, courseID)
	require.NoError(t, err)
	require.Len(t, modules, 3)
	assert.Equal(t, "First", modules[0].Title)
	assert.Equal(t, "Second", modules[1].Title)
	assert.Equal(t, "Third", modules[2].Title)
}
