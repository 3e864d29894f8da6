package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phoenixedu/phoenix_institute/models"
)

func TestRecordScanThenDuplicateSameDay(t *testing.T) {
	db := newTestDB(t)
	student := createStudent(t, db, "Amaya", "Perera")
	science := subjectID(t, db, "Science")
	enroll(t, db, student.ID, ClassSelection{SubjectID: science, GradeID: gradeID(t, db, "Grade 8")})

	first, err := RecordScan(db, student.StudentUID, science, "2024-05-01", "08:00 AM")
	require.NoError(t, err)
	assert.True(t, first.Scanned)
	assert.False(t, first.AlreadyScanned)
	require.NotNil(t, first.Attendance)
	assert.Equal(t, "08:00 AM", first.Attendance.ScanTime)

	second, err := RecordScan(db, student.StudentUID, science, "2024-05-01", "08:05 AM")
	require.NoError(t, err)
	assert.True(t, second.AlreadyScanned)
	assert.False(t, second.Scanned)
	require.NotNil(t, second.Attendance)
	assert.Equal(t, "08:00 AM", second.Attendance.ScanTime, "original scan time must be reported")

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "duplicate scan must not write a second row")

	// A new day is a fresh scan.
	third, err := RecordScan(db, student.StudentUID, science, "2024-05-02", "07:55 AM")
	require.NoError(t, err)
	assert.True(t, third.Scanned)
}

func TestRecordScanNotEnrolled(t *testing.T) {
	db := newTestDB(t)
	student := createStudent(t, db, "Nuwan", "Silva")
	science := subjectID(t, db, "Science")
	maths := subjectID(t, db, "Maths")
	enroll(t, db, student.ID, ClassSelection{SubjectID: science, GradeID: gradeID(t, db, "Grade 8")})

	result, err := RecordScan(db, student.StudentUID, maths, "2024-05-01", "08:00 AM")
	require.NoError(t, err)
	assert.True(t, result.NotEnrolled)
	assert.Equal(t, "Maths", result.SubjectName)
	assert.Equal(t, student.ID, result.Student.ID)

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordScanUnknownStudent(t *testing.T) {
	db := newTestDB(t)

	_, err := RecordScan(db, "no-such-uid", subjectID(t, db, "Science"), "2024-05-01", "08:00 AM")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestRecordScanAfterDeactivationKeepsHistory(t *testing.T) {
	db := newTestDB(t)
	student := createStudent(t, db, "Ishan", "Fernando")
	science := subjectID(t, db, "Science")
	enroll(t, db, student.ID, ClassSelection{SubjectID: science, GradeID: gradeID(t, db, "Grade 9")})

	_, err := RecordScan(db, student.StudentUID, science, "2024-05-01", "08:00 AM")
	require.NoError(t, err)

	require.NoError(t, ReplaceEnrollments(db, student.ID, nil))

	result, err := RecordScan(db, student.StudentUID, science, "2024-05-02", "08:00 AM")
	require.NoError(t, err)
	assert.True(t, result.NotEnrolled)

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Where("student_id = ?", student.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "deactivation must not delete prior attendance")
}

func TestQueryAttendanceOrderAndFilters(t *testing.T) {
	db := newTestDB(t)
	science := subjectID(t, db, "Science")
	maths := subjectID(t, db, "Maths")
	grade8 := gradeID(t, db, "Grade 8")
	grade9 := gradeID(t, db, "Grade 9")

	amaya := createStudent(t, db, "Amaya", "Perera")
	enroll(t, db, amaya.ID, ClassSelection{SubjectID: science, GradeID: grade8})
	nuwan := createStudent(t, db, "Nuwan", "Silva")
	enroll(t, db, nuwan.ID,
		ClassSelection{SubjectID: science, GradeID: grade9},
		ClassSelection{SubjectID: maths, GradeID: grade9},
	)

	mustScan := func(uid string, subject uint, date, at string) {
		result, err := RecordScan(db, uid, subject, date, at)
		require.NoError(t, err)
		require.True(t, result.Scanned)
	}
	mustScan(amaya.StudentUID, science, "2024-05-01", "08:00 AM")
	mustScan(nuwan.StudentUID, science, "2024-05-01", "08:10 AM")
	mustScan(nuwan.StudentUID, maths, "2024-05-02", "09:00 AM")

	rows, err := QueryAttendance(db, AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-05-02", rows[0].ScanDate, "newest date first")
	assert.Equal(t, "08:10 AM", rows[1].ScanTime, "latest time first within a date")
	assert.Equal(t, "Science", rows[1].SubjectName)

	rows, err = QueryAttendance(db, AttendanceFilter{SubjectID: maths})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, nuwan.ID, rows[0].StudentID)

	rows, err = QueryAttendance(db, AttendanceFilter{Date: "2024-05-01"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = QueryAttendance(db, AttendanceFilter{StudentID: amaya.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// Grade filter joins through active enrollments; Nuwan sits in Grade 9
	// twice, but his scans must not be double-reported.
	rows, err = QueryAttendance(db, AttendanceFilter{GradeID: grade9})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = QueryAttendance(db, AttendanceFilter{GradeID: grade8})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, amaya.ID, rows[0].StudentID)
}

func TestTodayAttendance(t *testing.T) {
	db := newTestDB(t)
	science := subjectID(t, db, "Science")
	maths := subjectID(t, db, "Maths")
	student := createStudent(t, db, "Dilini", "Jayawardena")
	enroll(t, db, student.ID,
		ClassSelection{SubjectID: science, GradeID: gradeID(t, db, "Grade 6")},
		ClassSelection{SubjectID: maths, GradeID: gradeID(t, db, "Grade 6")},
	)

	for _, scan := range []struct{ subject uint; date, at string }{
		{science, "2024-05-01", "08:00 AM"},
		{maths, "2024-05-01", "10:30 AM"},
		{science, "2024-05-02", "08:05 AM"},
	} {
		result, err := RecordScan(db, student.StudentUID, scan.subject, scan.date, scan.at)
		require.NoError(t, err)
		require.True(t, result.Scanned)
	}

	rows, err := TodayAttendance(db, "2024-05-01", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "10:30 AM", rows[0].ScanTime, "latest first")

	rows, err = TodayAttendance(db, "2024-05-01", science)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Science", rows[0].SubjectName)
}
