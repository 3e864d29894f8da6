package jobs

import (
	"log"
	"time"

	"github.com/phoenixedu/phoenix_institute/database"
	"github.com/phoenixedu/phoenix_institute/services"
)

// LogUnpaidTuition runs every morning and reports how many active enrollment
// units still have no payment recorded for the current month, so staff see
// outstanding tuition without opening the report screen.
func LogUnpaidTuition() {
	log.Println("Running job: LogUnpaidTuition...")

	stats, err := services.GetDashboardStats(database.DB, time.Now())
	if err != nil {
		log.Printf("Error computing tuition summary: %v", err)
		return
	}

	if stats.UnpaidThisMonth == 0 {
		log.Println("All active enrollments are paid up for this month.")
		return
	}

	log.Printf("Tuition summary: %d of %d active enrollments unpaid this month.",
		stats.UnpaidThisMonth, stats.TotalEnrollments)
}
