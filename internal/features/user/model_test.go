package user

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hiredvalley/career-server-go/pkg/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func TestCreate(t *testing.T) {
	t.Run("hashes password and normalizes email", func(t *testing.T) {
		db := openTestDB(t)

		usr, err := Create(db, CreateInput{
			FullName: "Dana Developer",
			Email:    "  Dana@Example.COM ",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)

		assert.Equal(t, "dana@example.com", usr.Email)
		assert.Equal(t, types.UserTypeStudent, usr.UserType)
		assert.True(t, usr.Active)
		assert.NotEqual(t, "hunter2hunter2", usr.Password)
		assert.True(t, usr.ComparePassword("hunter2hunter2"))
		assert.False(t, usr.ComparePassword("wrong"))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		db := openTestDB(t)

		_, err := Create(db, CreateInput{FullName: "A", Email: "a@example.com", Password: "password123"})
		require.NoError(t, err)

		_, err = Create(db, CreateInput{FullName: "B", Email: "A@example.com", Password: "password123"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		db := openTestDB(t)

		_, err := Create(db, CreateInput{FullName: "A", Password: "password123"})
		assert.ErrorIs(t, err, ErrEmailRequired)
	})
}

func TestGetByEmail(t *testing.T) {
	db := openTestDB(t)

	created, err := Create(db, CreateInput{FullName: "Casey Coach", Email: "casey@example.com", Password: "password123"})
	require.NoError(t, err)

	found, err := GetByEmail(db, "CASEY@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = GetByEmail(db, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdate(t *testing.T) {
	db := openTestDB(t)

	usr, err := Create(db, CreateInput{FullName: "Old Name", Email: "u@example.com", Password: "password123"})
	require.NoError(t, err)

	name := "New Name"
	mentor := types.UserTypeMentor
	updated, err := Update(db, usr.ID, UpdateInput{FullName: &name, UserType: &mentor})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
	assert.Equal(t, types.UserTypeMentor, updated.UserType)

	blank := "  "
	_, err = Update(db, usr.ID, UpdateInput{FullName: &blank})
	assert.ErrorIs(t, err, ErrNameRequired)
}
