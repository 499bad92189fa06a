package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/config"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

// Connect opens the PostgreSQL connection. gorm output goes through the
// application logger.
func Connect(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.LogrusLevel() >= logrus.DebugLevel {
		level = logger.Info
	}
	gormLogger := logger.New(
		log,
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

type constraint struct {
	model    interface{}
	relation string
}

// Tables reference each other (departments.head_id -> employees,
// employees.department_id -> departments), so tables are created first and
// foreign keys afterwards.
var constraints = []constraint{
	{&models.Department{}, "Branch"},
	{&models.Department{}, "Parent"},
	{&models.Department{}, "Head"},
	{&models.Designation{}, "Department"},
	{&models.Employee{}, "Department"},
	{&models.Employee{}, "Designation"},
	{&models.Employee{}, "Branch"},
	{&models.Employee{}, "ReportingTo"},
	{&models.User{}, "Role"},
	{&models.User{}, "Employee"},
	{&models.User{}, "Branch"},
	{&models.LeaveApplication{}, "Employee"},
	{&models.LeaveApplication{}, "LeaveType"},
	{&models.Movement{}, "Employee"},
	{&models.Transfer{}, "Employee"},
	{&models.Transfer{}, "FromBranch"},
	{&models.Transfer{}, "ToBranch"},
	{&models.Attendance{}, "Employee"},
}

// Migrate creates or updates every table and foreign key.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	migrator := db.Migrator()
	for _, c := range constraints {
		if migrator.HasConstraint(c.model, c.relation) {
			continue
		}
		if err := migrator.CreateConstraint(c.model, c.relation); err != nil {
			return fmt.Errorf("create constraint %T.%s: %w", c.model, c.relation, err)
		}
	}
	return nil
}
