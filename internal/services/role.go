package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
)

type RoleInput struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions" binding:"dive,permission"`
}

// RoleService manages roles. Permission keys are checked against the
// catalog before anything is written.
type RoleService struct {
	db      *gorm.DB
	catalog permissions.Catalog
	pages   Pagination
}

// NewRoleService returns the role service. Permission keys are checked against catalog.
func NewRoleService(db *gorm.DB, catalog permissions.Catalog, pages Pagination) *RoleService {
	return &RoleService{db: db, catalog: catalog, pages: pages}
}

var roleSorts = map[string]string{
	"name":       "roles.name",
	"created_at": "roles.created_at",
}

// Catalog returns the permissions roles can be granted.
func (s *RoleService) Catalog() permissions.Catalog {
	return s.catalog
}

func (s *RoleService) List(ctx context.Context, params ListParams) (Page[models.Role], error) {
	query := s.db.Model(&models.Role{})
	if term := searchTerm(params.Search); term != "" {
		query = query.Where("roles.name ILIKE ?", term)
	}
	page, err := paginate[models.Role](ctx, query, params, s.pages, roleSorts, "roles.name asc")
	if err != nil {
		return Page[models.Role]{}, err
	}
	if err := s.attachUserCounts(ctx, page.Data); err != nil {
		return Page[models.Role]{}, err
	}
	return page, nil
}

// Options lists every role for select inputs.
func (s *RoleService) Options(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.WithContext(ctx).Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	return roles, nil
}

func (s *RoleService) Get(ctx context.Context, id uint) (models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return models.Role{}, loadError(err, "role")
	}
	return role, nil
}

func (s *RoleService) Create(ctx context.Context, in RoleInput) (models.Role, error) {
	var role models.Role
	if err := s.apply(&role, in); err != nil {
		return models.Role{}, err
	}
	if err := s.db.WithContext(ctx).Create(&role).Error; err != nil {
		return models.Role{}, database.MapError(err)
	}
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id uint, in RoleInput) (models.Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return models.Role{}, err
	}
	if err := s.apply(&role, in); err != nil {
		return models.Role{}, err
	}
	if err := s.db.WithContext(ctx).Save(&role).Error; err != nil {
		return models.Role{}, database.MapError(err)
	}
	return role, nil
}

// Delete removes a role no user holds.
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	users, err := countWhere(ctx, s.db, &models.User{}, "role_id = ?", id)
	if err != nil {
		return fmt.Errorf("count role users: %w", err)
	}
	if users > 0 {
		return apperror.Conflict("cannot delete a role that is assigned to users")
	}
	if err := s.db.WithContext(ctx).Delete(&models.Role{}, id).Error; err != nil {
		return database.MapError(err)
	}
	return nil
}

func (s *RoleService) apply(role *models.Role, in RoleInput) error {
	name, err := normalizeRequiredString(in.Name, "name", 100)
	if err != nil {
		return err
	}
	keys := models.NormalizePermissions(in.Permissions)
	if unknown := s.catalog.Unknown(keys); len(unknown) > 0 {
		return apperror.Validation("permissions", "unknown permissions: "+strings.Join(unknown, ", "))
	}
	role.Name = name
	role.Description = normalizeOptionalString(in.Description)
	role.Permissions = keys
	return nil
}

func (s *RoleService) attachUserCounts(ctx context.Context, roles []models.Role) error {
	if len(roles) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []struct {
		RoleID uint
		Total  int64
	}
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role_id, COUNT(*) AS total").
		Where("role_id IN ?", ids).
		Group("role_id").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("count role users: %w", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.RoleID] = row.Total
	}
	for i := range roles {
		roles[i].UsersCount = counts[roles[i].ID]
	}
	return nil
}
