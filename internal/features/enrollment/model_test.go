package enrollment

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

	"github.com/hiredvalley/career-server-go/internal/features/course"
	"github.com/hiredvalley/career-server-go/internal/features/module"
	"github.com/hiredvalley/career-server-go/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&course.Course{},
		&module.Module{},
		&Enrollment{},
	))
	return db
}

func createCourse(t *testing.T, db *gorm.DB, published bool) *course.Course {
	t.Helper()

	c, err := course.Create(context.Background(), db, course.CreateInput{
		MentorID:  uuid.New(),
		Title:     "Interview Preparation " + uuid.NewString()[:8],
		Published: published,
	})
	require.NoError(t, err)
	return c
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name       string
		current    Status
		percentage int
		want       Status
	}{
		{"fresh enrollment with no activity stays enrolled", StatusEnrolled, 0, StatusEnrolled},
		{"partial progress moves to in_progress", StatusEnrolled, 50, StatusInProgress},
		{"full completion moves to completed", StatusInProgress, 100, StatusCompleted},
		{"completed stays completed at 100", StatusCompleted, 100, StatusCompleted},
		{"completed reopens when percentage drops", StatusCompleted, 60, StatusInProgress},
		{"in_progress with zero percent stays in_progress", StatusInProgress, 0, StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Advance(tt.current, tt.percentage))
		})
	}
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()

	t.Run("creates enrollment in published course", func(t *testing.T) {
		db := openTestDB(t)
		c := createCourse(t, db, true)
		userID := uuid.New()

		e, enrolledCourse, err := Enroll(ctx, db, userID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusEnrolled, e.Status)
		assert.Equal(t, 0, e.ProgressPercentage)
		assert.Nil(t, e.CompletedAt)
		assert.Equal(t, c.ID, enrolledCourse.ID)
	})

	t.Run("second enrollment returns conflict and creates no row", func(t *testing.T) {
		db := openTestDB(t)
		c := createCourse(t, db, true)
		userID := uuid.New()

		_, _, err := Enroll(ctx, db, userID, c.ID)
		require.NoError(t, err)

		_, _, err = Enroll(ctx, db, userID, c.ID)
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)

		var count int64
		require.NoError(t, db.Model(&Enrollment{}).
			Where("user_id = ? AND course_id = ?", userID, c.ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unpublished course is rejected without a write", func(t *testing.T) {
		db := openTestDB(t)
		c := createCourse(t, db, false)
		userID := uuid.New()

		_, _, err := Enroll(ctx, db, userID, c.ID)
		assert.ErrorIs(t, err, course.ErrCourseNotAvailable)

		var count int64
		require.NoError(t, db.Model(&Enrollment{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("unknown course returns not found", func(t *testing.T) {
		db := openTestDB(t)

		_, _, err := Enroll(ctx, db, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, course.ErrCourseNotFound)
	})
}

func TestGetByUserCourse(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	c := createCourse(t, db, true)
	userID := uuid.New()

	_, err := GetByUserCourse(ctx, db, userID, c.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, _, err = Enroll(ctx, db, userID, c.ID)
	require.NoError(t, err)

	e, err := GetByUserCourse(ctx, db, userID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, e.UserID)
	assert.Equal(t, c.ID, e.CourseID)
}

func TestListByUser(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		c := createCourse(t, db, true)
		_, _, err := Enroll(ctx, db, userID, c.ID)
		require.NoError(t, err)
	}

	enrollments, total, err := ListByUser(ctx, db, userID, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, enrollments, 2)
}
