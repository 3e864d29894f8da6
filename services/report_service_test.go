package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	science := subjectID(t, db, "Science")
	maths := subjectID(t, db, "Maths")
	grade8 := gradeID(t, db, "Grade 8")

	amaya := createStudent(t, db, "Amaya", "Perera")
	enroll(t, db, amaya.ID,
		ClassSelection{SubjectID: science, GradeID: grade8},
		ClassSelection{SubjectID: maths, GradeID: grade8},
	)
	nuwan := createStudent(t, db, "Nuwan", "Silva")
	enroll(t, db, nuwan.ID, ClassSelection{SubjectID: science, GradeID: grade8})

	// One of Amaya's two classes is paid for May; Nuwan's is not.
	_, err := UpsertPayment(db, amaya.ID, science, 5, 2024, 1000, nil)
	require.NoError(t, err)
	// A payment for another month must not count.
	_, err = UpsertPayment(db, nuwan.ID, science, 4, 2024, 1000, nil)
	require.NoError(t, err)

	result, err := RecordScan(db, amaya.StudentUID, science, "2024-05-15", "08:00 AM")
	require.NoError(t, err)
	require.True(t, result.Scanned)

	stats, err := GetDashboardStats(db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalStudents)
	assert.EqualValues(t, 1, stats.TodayAttendance)
	assert.EqualValues(t, 3, stats.TotalEnrollments)
	assert.EqualValues(t, 1, stats.PaidThisMonth)
	assert.EqualValues(t, 2, stats.UnpaidThisMonth)
	assert.Equal(t, stats.TotalEnrollments, stats.PaidThisMonth+stats.UnpaidThisMonth)
}

func TestPaymentReportLeftJoinsPeriod(t *testing.T) {
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

	_, err := UpsertPayment(db, amaya.ID, science, 5, 2024, 1000, strPtr("cash"))
	require.NoError(t, err)

	rows, err := GetPaymentReport(db, 5, 2024, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3, "one row per active enrollment unit")

	paid := 0
	for _, row := range rows {
		if row.PaymentID != nil {
			paid++
			assert.Equal(t, amaya.ID, row.StudentID)
			require.NotNil(t, row.Amount)
			assert.Equal(t, 1000.0, *row.Amount)
			assert.Equal(t, "Science", row.SubjectName)
			assert.Equal(t, "Grade 8", row.GradeName)
		}
	}
	assert.Equal(t, 1, paid)

	// Subject and grade filters narrow the enrollment set, not the payments.
	rows, err = GetPaymentReport(db, 5, 2024, maths, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].PaymentID)

	rows, err = GetPaymentReport(db, 5, 2024, 0, grade9)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Another period: nothing is paid.
	rows, err = GetPaymentReport(db, 6, 2024, 0, 0)
	require.NoError(t, err)
	for _, row := range rows {
		assert.Nil(t, row.PaymentID)
	}
}

func TestMonthlyIncomeAggregation(t *testing.T) {
	db := newTestDB(t)
	science := subjectID(t, db, "Science")
	maths := subjectID(t, db, "Maths")
	amaya := createStudent(t, db, "Amaya", "Perera")
	nuwan := createStudent(t, db, "Nuwan", "Silva")

	_, err := UpsertPayment(db, amaya.ID, science, 1, 2024, 1000, nil)
	require.NoError(t, err)
	_, err = UpsertPayment(db, nuwan.ID, maths, 3, 2024, 500, nil)
	require.NoError(t, err)
	// Another year stays out of the summary.
	_, err = UpsertPayment(db, amaya.ID, science, 1, 2023, 700, nil)
	require.NoError(t, err)

	summary, err := GetMonthlyIncome(db, 2024)
	require.NoError(t, err)

	require.Len(t, summary.MonthlyTotals, 2, "months without payments are absent")
	assert.Equal(t, 1, summary.MonthlyTotals[0].Month)
	assert.Equal(t, 1000.0, summary.MonthlyTotals[0].Total)
	assert.EqualValues(t, 1, summary.MonthlyTotals[0].PaymentCount)
	assert.Equal(t, 3, summary.MonthlyTotals[1].Month)
	assert.Equal(t, 500.0, summary.MonthlyTotals[1].Total)

	assert.Equal(t, 1500.0, summary.YearlyTotal)
	assert.EqualValues(t, 2, summary.TotalPayments)

	require.Len(t, summary.SubjectBreakdown, 2)
	assert.Equal(t, "Science", summary.SubjectBreakdown[0].SubjectName)
	assert.Equal(t, 1000.0, summary.SubjectBreakdown[0].Total)
	assert.Equal(t, "Maths", summary.SubjectBreakdown[1].SubjectName)

	empty, err := GetMonthlyIncome(db, 2020)
	require.NoError(t, err)
	assert.Empty(t, empty.MonthlyTotals)
	assert.Zero(t, empty.YearlyTotal)
	assert.Zero(t, empty.TotalPayments)
}
