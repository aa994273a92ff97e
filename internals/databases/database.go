package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	kv "edupay_backend/internals/kv"

	assignmentModel "edupay_backend/internals/features/assignments/model"
	financeModel "edupay_backend/internals/features/finance/model"
	libraryModel "edupay_backend/internals/features/libraries/model"
	taxonomyModel "edupay_backend/internals/features/taxonomy/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=edupay&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer-friendly (transaction pooling)
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate keeps the schema in sync at boot. Order matters: taxonomy first,
// then everything referencing it.
func Migrate() {
	err := DB.AutoMigrate(
		&taxonomyModel.Stage{},
		&taxonomyModel.Section{},
		&taxonomyModel.Subject{},
		&libraryModel.Library{},
		&libraryModel.LibraryMonthlyStat{},
		&assignmentModel.TeacherAssignment{},
		&financeModel.FinancialPeriod{},
		&financeModel.SectionRevenue{},
		&financeModel.TeacherPayment{},
		&kv.Entry{},
	)
	if err != nil {
		log.Fatalf("❌ automigrate failed: %v", err)
	}
	log.Println("✅ schema migrated.")
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
