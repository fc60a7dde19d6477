package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Repositories semua repository MySQL di atas satu *sql.DB
type Repositories struct {
	Cases      *CaseRepository
	Recipients *RecipientRepository
	Alerts     *AlertRepository
	Reports    *ReportRepository
	Failures   *FailureRepository
	Settings   *SettingsRepository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Cases:      &CaseRepository{db: db},
		Recipients: &RecipientRepository{db: db},
		Alerts:     &AlertRepository{db: db},
		Reports:    &ReportRepository{db: db},
		Failures:   &FailureRepository{db: db},
		Settings:   &SettingsRepository{db: db},
	}
}
