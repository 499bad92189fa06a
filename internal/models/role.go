package models

import (
	"sort"
	"strings"
	"time"
)

// Role is a named bundle of permission keys. Permissions is persisted as a
// JSON list; order carries no meaning.
type Role struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description *string   `json:"description"`
	Permissions []string  `json:"permissions" gorm:"type:jsonb;serializer:json;not null"`
	UsersCount  int64     `json:"users_count,omitempty" gorm:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Role) TableName() string { return "roles" }

// Can reports whether the role grants the permission key.
func (r Role) Can(key string) bool {
	for _, p := range r.Permissions {
		if p == key {
			return true
		}
	}
	return false
}

// NormalizePermissions trims, drops blanks, deduplicates and sorts keys.
func NormalizePermissions(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
