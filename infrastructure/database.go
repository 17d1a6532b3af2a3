package infrastructure

import (
	"context"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/oapi-codegen/nullable"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"job-tracker/config"
	"job-tracker/domain"
)

// NewDatabase opens the configured database and migrates the schema.
func NewDatabase(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := OpenDatabase(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.SeedDemo {
		if err := seedApplications(context.Background(), NewApplicationStore(db)); err != nil {
			return nil, fmt.Errorf("seed applications: %w", err)
		}
	}

	log.WithFields(logrus.Fields{"driver": cfg.DBDriver}).Info("✅ Connected to database and migrated schema")
	return db, nil
}

// OpenDatabase connects without migrating.
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch driver {
	case config.DriverMySQL:
		dsnCfg, err := mysqldriver.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		dsnCfg.ParseTime = true
		dsnCfg.Loc = time.UTC
		dialector = mysql.Open(dsnCfg.FormatDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrDriverUnknown, driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		// SQLite allows one writer; a single connection serializes transactions.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or alters the applications table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Application{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func seedApplications(ctx context.Context, store *ApplicationStore) error {
	existing, err := store.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	applied := domain.NewDate(2025, time.March, 3)
	seeds := []domain.ApplicationInput{
		{
			Company:     nullable.NewNullableWithValue("Acme"),
			Role:        nullable.NewNullableWithValue("Backend Engineer"),
			Location:    nullable.NewNullableWithValue("Remote"),
			AppliedDate: nullable.NewNullableWithValue(applied),
			Link:        nullable.NewNullableWithValue("https://acme.example/careers/backend"),
		},
		{
			Company: nullable.NewNullableWithValue("Globex"),
			Role:    nullable.NewNullableWithValue("Platform Engineer"),
			Status:  nullable.NewNullableWithValue(domain.StatusScreen),
			Notes:   nullable.NewNullableWithValue("Recruiter call booked."),
		},
	}

	for _, in := range seeds {
		if _, err := store.Insert(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
