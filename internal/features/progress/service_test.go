package progress

import (
	"context"
	"fmt"
	"testing"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hiredvalley/career-server-go/internal/features/course"
	"github.com/hiredvalley/career-server-go/internal/features/enrollment"
	"github.com/hiredvalley/career-server-go/internal/features/module"
)

type fixture struct {
	db       *gorm.DB
	userID   uuid.UUID
	courseID uuid.UUID
	m1       uuid.UUID // required
	m2       uuid.UUID // required
	m3       uuid.UUID // optional
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database consistent when
	// tests issue writes from multiple goroutines.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&course.Course{},
		&module.Module{},
		&enrollment.Enrollment{},
		&ModuleProgress{},
	))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	db := openTestDB(t)

	c, err := course.Create(ctx, db, course.CreateInput{
		MentorID:  uuid.New(),
		Title:     "Resume Writing " + uuid.NewString()[:8],
		Published: true,
	})
	require.NoError(t, err)

	addModule := func(title string, required bool) uuid.UUID {
		m, err := module.Create(ctx, db, module.CreateInput{
			CourseID: c.ID,
			Title:    title,
			Required: required,
		})
		require.NoError(t, err)
		return m.ID
	}

	f := &fixture{
		db:       db,
		userID:   uuid.New(),
		courseID: c.ID,
		m1:       addModule("Structure", true),
		m2:       addModule("Tailoring", true),
		m3:       addModule("Extra Reading", false),
	}

	_, _, err = enrollment.Enroll(ctx, db, f.userID, f.courseID)
	require.NoError(t, err)
	return f
}

func (f *fixture) enrollment(t *testing.T) *enrollment.Enrollment {
	t.Helper()
	e, err := enrollment.GetByUserCourse(context.Background(), f.db, f.userID, f.courseID)
	require.NoError(t, err)
	return e
}

func newTestService(t *testing.T, db *gorm.DB, legacyTouch bool) *Service {
	t.Helper()
	return NewService(db, slog.New(slog.DiscardHandler), legacyTouch)
}

func (f *fixture) record(t *testing.T, svc *Service, moduleID uuid.UUID, status Status, minutes int, score *float64) *RecordResult {
	t.Helper()
	result, err := svc.Record(context.Background(), RecordInput{
		UserID:           f.userID,
		CourseID:         f.courseID,
		ModuleID:         moduleID,
		Status:           status,
		TimeSpentMinutes: minutes,
		Score:            score,
	})
	require.NoError(t, err)
	return result
}

func floatPtr(v float64) *float64 { return &v }

func TestRecordCourseCompletionFlow(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f.db, false)

	// First required module done: half the course.
	result := f.record(t, svc, f.m1, StatusCompleted, 30, floatPtr(90))
	assert.Equal(t, StatusCompleted, result.Progress.Status)
	assert.True(t, result.AggregateSynced)
	assert.True(t, result.AccessStamped)
	require.NotNil(t, result.Progress.CompletedAt)
	assert.Nil(t, result.Progress.StartedAt)

	e := f.enrollment(t)
	assert.Equal(t, 50, e.ProgressPercentage)
	assert.Equal(t, enrollment.StatusInProgress, e.Status)
	assert.Nil(t, e.CompletedAt)
	assert.NotNil(t, e.LastAccessedAt)

	// Second required module done: course complete.
	f.record(t, svc, f.m2, StatusCompleted, 20, floatPtr(85))

	e = f.enrollment(t)
	assert.Equal(t, 100, e.ProgressPercentage)
	assert.Equal(t, enrollment.StatusCompleted, e.Status)
	assert.NotNil(t, e.CompletedAt)

	// Optional module does not move the percentage.
	f.record(t, svc, f.m3, StatusCompleted, 5, nil)

	e = f.enrollment(t)
	assert.Equal(t, 100, e.ProgressPercentage)
	assert.Equal(t, enrollment.StatusCompleted, e.Status)
}

func TestRecordLegacyTouchDowngradesCompletion(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f.db, true)

	f.record(t, svc, f.m1, StatusCompleted, 30, floatPtr(90))
	f.record(t, svc, f.m2, StatusCompleted, 20, floatPtr(85))

	// The aggregator alone reports the course as completed.
	aggregated, err := svc.Recompute(context.Background(), f.userID, f.courseID)
	require.NoError(t, err)
	assert.Equal(t, 100, aggregated.ProgressPercentage)
	assert.Equal(t, enrollment.StatusCompleted, aggregated.Status)
	assert.NotNil(t, aggregated.CompletedAt)

	// In legacy mode the access touch that follows every record forces
	// the status back to in_progress, so a full Record call lands there
	// even though the percentage and completion timestamp say otherwise.
	f.record(t, svc, f.m3, StatusCompleted, 5, nil)

	e := f.enrollment(t)
	assert.Equal(t, 100, e.ProgressPercentage)
	assert.Equal(t, enrollment.StatusInProgress, e.Status)
	assert.NotNil(t, e.CompletedAt)
	assert.NotNil(t, e.LastAccessedAt)
}

func TestRecordWithoutEnrollmentWritesNothing(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f.db, false)
	stranger := uuid.New()

	_, err := svc.Record(context.Background(), RecordInput{
		UserID:   stranger,
		CourseID: f.courseID,
		ModuleID: f.m1,
		Status:   StatusCompleted,
	})
	assert.ErrorIs(t, err, enrollment.ErrNotEnrolled)

	var count int64
	require.NoError(t, f.db.Model(&ModuleProgress{}).
		Where("user_id = ?", stranger).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordUpsertOverwritesInPlace(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f.db, false)

	first := f.record(t, svc, f.m1, StatusInProgress, 10, nil)
	require.NotNil(t, first.Progress.StartedAt)
	assert.Nil(t, first.Progress.CompletedAt)

	second := f.record(t, svc, f.m1, StatusCompleted, 25, floatPtr(70))

	// Same row, latest submission only: time spent is overwritten rather
	// than accumulated, and started_at is recomputed from the new status.
	assert.Equal(t, first.Progress.ID, second.Progress.ID)
	assert.Equal(t, StatusCompleted, second.Progress.Status)
	assert.Equal(t, 25, second.Progress.TimeSpentMinutes)
	assert.Nil(t, second.Progress.StartedAt)
	require.NotNil(t, second.Progress.CompletedAt)

	var count int64
	require.NoError(t, f.db.Model(&ModuleProgress{}).
		Where("user_id = ? AND course_id = ? AND module_id = ?", f.userID, f.courseID, f.m1).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordCompletionCanBeReopened(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f.db, false)

	f.record(t, svc, f.m1, StatusCompleted, 30, nil)
	f.record(t, svc, f.m2, StatusCompleted, 20, nil)

	e := f.enrollment(t)
	require.Equal(t, enrollment.StatusCompleted, e.Status)

	// Re-submitting a required module as in_progress drops the
	// percentage and clears the completion timestamp.
	f.record(t, svc, f.m2, StatusInProgress, 5, nil)

	e = f.enrollment(t)
	assert.Equal(t, 50, e.ProgressPercentage)
	assert.Equal(t, enrollment.StatusInProgress, e.Status)
	assert.Nil(t, e.CompletedAt)
}

func TestRecordCourseWithNoRequiredModules(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	c, err := course.Create(ctx, db, course.CreateInput{
		MentorID:  uuid.New(),
		Title:     "Optional Only " + uuid.NewString()[:8],
		Published: true,
	})
	require.NoError(t, err)

	m, err := module.Create(ctx, db, module.CreateInput{
		CourseID: c.ID,
		Title:    "Bonus Material",
		Required: false,
	})
	require.NoError(t, err)

	userID := uuid.New()
	_, _, err = enrollment.Enroll(ctx, db, userID, c.ID)
	require.NoError(t, err)

	svc := newTestService(t, db, false)
	_, err = svc.Record(ctx, RecordInput{
		UserID:   userID,
		CourseID: c.ID,
		ModuleID: m.ID,
		Status:   StatusCompleted,
	})
	require.NoError(t, err)

	e, err := enrollment.GetByUserCourse(ctx, db, userID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, e.ProgressPercentage)
	assert.NotEqual(t, enrollment.StatusCompleted, e.Status)
}

func TestRecordRejectsForeignModule(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f.db, false)

	other, err := course.Create(context.Background(), f.db, course.CreateInput{
		MentorID:  uuid.New(),
		Title:     "Other Course " + uuid.NewString()[:8],
		Published: true,
	})
	require.NoError(t, err)

	foreign, err := module.Create(context.Background(), f.db, module.CreateInput{
		CourseID: other.ID,
		Title:    "Foreign Module",
		Required: true,
	})
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), RecordInput{
		UserID:   f.userID,
		CourseID: f.courseID,
		ModuleID: foreign.ID,
		Status:   StatusCompleted,
	})
	assert.ErrorIs(t, err, ErrModuleNotInCourse)
}

func TestRecordRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f.db, false)

	_, err := svc.Record(context.Background(), RecordInput{
		UserID:   f.userID,
		CourseID: f.courseID,
		ModuleID: f.m1,
		Status:   Status("done"),
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestRoundingWithThreeRequiredModules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Promote the optional module so the course has 3 required ones.
	required := true
	_, err := module.Update(ctx, f.db, f.m3, module.UpdateInput{Required: &required})
	require.NoError(t, err)

	svc := newTestService(t, f.db, false)
	f.record(t, svc, f.m1, StatusCompleted, 10, nil)

	// 1/3 rounds half up to 33.
	assert.Equal(t, 33, f.enrollment(t).ProgressPercentage)

	f.record(t, svc, f.m2, StatusCompleted, 10, nil)

	// 2/3 rounds half up to 67.
	assert.Equal(t, 67, f.enrollment(t).ProgressPercentage)
}
