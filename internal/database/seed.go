package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
)

const AdminRoleName = "Super Admin"

type SeedOptions struct {
	Catalog       permissions.Catalog
	AdminEmail    string
	AdminPassword string
}

var defaultLeaveTypes = []models.LeaveType{
	{Name: "Casual Leave", DaysPerYear: 10, IsPaid: true},
	{Name: "Sick Leave", DaysPerYear: 14, IsPaid: true},
	{Name: "Annual Leave", DaysPerYear: 20, IsPaid: true},
	{Name: "Unpaid Leave", DaysPerYear: 0, IsPaid: false},
}

// Seed makes sure the admin role holds every catalog permission, that the
// admin account exists and that the default leave types are present. It is
// safe to run repeatedly; an existing admin keeps its password.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" {
		return fmt.Errorf("admin email is required")
	}
	if len(opts.AdminPassword) < auth.MinPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters", auth.MinPasswordLength)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role := models.Role{Name: AdminRoleName}
		if err := tx.Where(models.Role{Name: AdminRoleName}).
			Assign(models.Role{Permissions: opts.Catalog.Keys()}).
			FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed admin role: %w", err)
		}

		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return fmt.Errorf("look up admin user: %w", err)
		}
		if existing == 0 {
			hash, err := auth.HashPassword(opts.AdminPassword)
			if err != nil {
				return err
			}
			admin := models.User{
				Name:     "Administrator",
				Email:    email,
				Password: hash,
				RoleID:   role.ID,
				IsActive: true,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("seed admin user: %w", err)
			}
		}

		for _, lt := range defaultLeaveTypes {
			leaveType := lt
			if err := tx.Where("name = ?", lt.Name).FirstOrCreate(&leaveType).Error; err != nil {
				return fmt.Errorf("seed leave type %q: %w", lt.Name, err)
			}
		}
		return nil
	})
}
