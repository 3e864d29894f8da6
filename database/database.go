package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	config "github.com/phoenixedu/phoenix_institute/configs"
	"github.com/phoenixedu/phoenix_institute/models"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Unique/foreign-key violations must come back as gorm.ErrDuplicatedKey /
		// gorm.ErrForeignKeyViolated so the ledgers can fold them into domain outcomes.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.Subject{},
		&models.Grade{},
		&models.Student{},
		&models.Enrollment{},
		&models.Attendance{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

var seedSubjects = []string{"Science", "Maths"}

var seedGrades = []models.Grade{
	{Name: "Grade 6", Level: 6},
	{Name: "Grade 7", Level: 7},
	{Name: "Grade 8", Level: 8},
	{Name: "Grade 9", Level: 9},
	{Name: "Grade 10", Level: 10},
	{Name: "Grade 11", Level: 11},
}

// SeedReferenceData inserts the default subject and grade lists. Already-seeded
// names are left untouched, so this is safe to run on every startup.
func SeedReferenceData() {
	if err := Seed(DB); err != nil {
		log.Fatalf("🔥 Failed to seed reference data: %v", err)
	}
	log.Println("✅ Reference data seeded")
}

func Seed(db *gorm.DB) error {
	for _, name := range seedSubjects {
		if err := db.Where(models.Subject{Name: name}).FirstOrCreate(&models.Subject{}).Error; err != nil {
			return err
		}
	}
	for _, g := range seedGrades {
		if err := db.Where(models.Grade{Name: g.Name}).Attrs(models.Grade{Level: g.Level}).FirstOrCreate(&models.Grade{}).Error; err != nil {
			return err
		}
	}
	return nil
}
