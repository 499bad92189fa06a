package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

type UserInput struct {
	Name       string `json:"name" binding:"required,max=150"`
	Email      string `json:"email" binding:"required,email,max=150"`
	Password   string `json:"password" binding:"omitempty,min=8"`
	RoleID     uint   `json:"role_id" binding:"required"`
	EmployeeID *uint  `json:"employee_id"`
	BranchID   *uint  `json:"branch_id"`
	IsActive   *bool  `json:"is_active"`
}

type UserService struct {
	db    *gorm.DB
	pages Pagination
}

// NewUserService returns the login account service.
func NewUserService(db *gorm.DB, pages Pagination) *UserService {
	return &UserService{db: db, pages: pages}
}

var userSorts = map[string]string{
	"name":          "users.name",
	"email":         "users.email",
	"last_login_at": "users.last_login",
	"created_at":    "users.created_at",
}

func (s *UserService) List(ctx context.Context, params ListParams) (Page[models.User], error) {
	query := s.db.Model(&models.User{})
	if term := searchTerm(params.Search); term != "" {
		query = query.Where("(users.name ILIKE ? OR users.email ILIKE ?)", term, term)
	}
	if params.BranchID != 0 {
		query = query.Where("users.branch_id = ?", params.BranchID)
	}
	return paginate[models.User](ctx, query, params, s.pages, userSorts, "users.name asc", "Role", "Branch", "Employee")
}

func (s *UserService) Get(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Role").Preload("Branch").Preload("Employee").First(&user, id).Error; err != nil {
		return models.User{}, loadError(err, "user")
	}
	return user, nil
}

// Create adds a user. A password is required on create.
func (s *UserService) Create(ctx context.Context, in UserInput) (models.User, error) {
	if strings.TrimSpace(in.Password) == "" {
		return models.User{}, apperror.Validation("password", "the password field is required")
	}
	user := models.User{IsActive: true}
	if err := s.apply(ctx, &user, in); err != nil {
		return models.User{}, err
	}
	if err := s.db.WithContext(ctx).Omit("Role", "Employee", "Branch").Create(&user).Error; err != nil {
		return models.User{}, database.MapError(err)
	}
	return user, nil
}

// Update changes a user; a blank password keeps the current one.
func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, loadError(err, "user")
	}
	if err := s.apply(ctx, &user, in); err != nil {
		return models.User{}, err
	}
	if err := s.db.WithContext(ctx).Omit("Role", "Employee", "Branch").Save(&user).Error; err != nil {
		return models.User{}, database.MapError(err)
	}
	return user, nil
}

// Delete removes a user other than the acting one.
func (s *UserService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return apperror.Conflict("you cannot delete your own account")
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return loadError(err, "user")
	}
	if err := s.db.WithContext(ctx).Delete(&user).Error; err != nil {
		return database.MapError(err)
	}
	return nil
}

func (s *UserService) apply(ctx context.Context, user *models.User, in UserInput) error {
	name, err := normalizeRequiredString(in.Name, "name", 150)
	if err != nil {
		return err
	}
	email, err := normalizeRequiredString(in.Email, "email", 150)
	if err != nil {
		return err
	}
	if err := ensureReference(ctx, s.db, &models.Role{}, in.RoleID, "role_id"); err != nil {
		return err
	}
	if in.EmployeeID != nil {
		if err := ensureReference(ctx, s.db, &models.Employee{}, *in.EmployeeID, "employee_id"); err != nil {
			return err
		}
	}
	if in.BranchID != nil {
		if err := ensureReference(ctx, s.db, &models.Branch{}, *in.BranchID, "branch_id"); err != nil {
			return err
		}
	}
	if in.Password != "" {
		hashed, err := auth.HashPassword(in.Password)
		if err != nil {
			return apperror.Validation("password", err.Error())
		}
		user.Password = hashed
	}

	user.Name = name
	user.Email = strings.ToLower(email)
	user.RoleID = in.RoleID
	user.EmployeeID = in.EmployeeID
	user.BranchID = in.BranchID
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	return nil
}
