package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phoenixedu/phoenix_institute/database"
	"github.com/phoenixedu/phoenix_institute/models"
)

// newTestDB opens a fresh in-memory SQLite database with the production
// schema and seed data. TranslateError is on, like production, so constraint
// violations surface the same way the postgres driver reports them.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Subject{},
		&models.Grade{},
		&models.Student{},
		&models.Enrollment{},
		&models.Attendance{},
		&models.Payment{},
	))
	require.NoError(t, database.Seed(db))
	return db
}

func createStudent(t *testing.T, db *gorm.DB, firstName, lastName string) models.Student {
	t.Helper()
	student := models.Student{
		StudentUID: uuid.NewString(),
		FirstName:  firstName,
		LastName:   lastName,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func subjectID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var subject models.Subject
	require.NoError(t, db.Where("name = ?", name).First(&subject).Error)
	return subject.ID
}

func gradeID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var grade models.Grade
	require.NoError(t, db.Where("name = ?", name).First(&grade).Error)
	return grade.ID
}

func enroll(t *testing.T, db *gorm.DB, studentID uint, classes ...ClassSelection) {
	t.Helper()
	require.NoError(t, ReplaceEnrollments(db, studentID, classes))
}
