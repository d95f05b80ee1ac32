package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotel-frontdesk/models"
)

type RoleMember struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
}

// RoleView presents a role's grants as a module -> action -> granted matrix, the shape the
// roles screen renders as checkboxes.
type RoleView struct {
	ID          uint                       `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Permissions map[string]map[string]bool `json:"permissions"`
	Members     []RoleMember               `json:"members"`
}

func splitPermission(p string) (module, action string, ok bool) {
	parts := strings.Split(p, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func emptyPermissionMatrix() map[string]map[string]bool {
	matrix := map[string]map[string]bool{}
	for _, p := range models.AllPermissions {
		module, action, _ := splitPermission(p)
		if matrix[module] == nil {
			matrix[module] = map[string]bool{}
		}
		matrix[module][action] = false
	}
	return matrix
}

func isKnownPermission(p string) bool {
	for _, known := range models.AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

type RoleService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewRoleService(db *gorm.DB, logger *logrus.Logger) *RoleService {
	return &RoleService{DB: db, Logger: logger}
}

func (s *RoleService) List(ctx context.Context) ([]RoleView, error) {
	var roles []models.Role
	if err := s.DB.WithContext(ctx).Preload("Permissions").Order("id").Find(&roles).Error; err != nil {
		return nil, &PersistenceError{Op: "list roles", Err: err}
	}
	var accounts []models.StaffAccount
	if err := s.DB.WithContext(ctx).Where("role_id IS NOT NULL").Order("id").Find(&accounts).Error; err != nil {
		return nil, &PersistenceError{Op: "list staff accounts", Err: err}
	}
	members := map[uint][]RoleMember{}
	for _, a := range accounts {
		members[*a.RoleID] = append(members[*a.RoleID], RoleMember{ID: a.ID, FullName: a.FullName, Username: a.Username})
	}

	out := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		matrix := emptyPermissionMatrix()
		for _, p := range role.Permissions {
			module, action, ok := splitPermission(p.Permission)
			if !ok {
				continue
			}
			if matrix[module] == nil {
				matrix[module] = map[string]bool{}
			}
			matrix[module][action] = true
		}
		m := members[role.ID]
		if m == nil {
			m = []RoleMember{}
		}
		out = append(out, RoleView{ID: role.ID, Name: role.Name, Description: role.Description, Permissions: matrix, Members: m})
	}
	return out, nil
}

func (s *RoleService) findRole(ctx context.Context, idOrName string) (*models.Role, error) {
	idOrName = strings.TrimSpace(idOrName)
	var role models.Role
	q := s.DB.WithContext(ctx)
	var err error
	if id, perr := strconv.ParseUint(idOrName, 10, 64); perr == nil && id > 0 {
		err = q.First(&role, id).Error
	} else {
		err = q.Where("LOWER(name) = ?", strings.ToLower(idOrName)).First(&role).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "find role", Err: err}
	}
	return &role, nil
}

// SetPermissions replaces the role's grants. Unknown names are rejected; the owner role is fixed.
// Sessions already issued keep their old permissions until they expire.
func (s *RoleService) SetPermissions(ctx context.Context, idOrName string, permissions []string) ([]string, error) {
	wanted := map[string]bool{}
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !isKnownPermission(p) {
			return nil, invalid("permissions", "Unknown permission '"+p+"'")
		}
		wanted[p] = true
	}
	granted := make([]string, 0, len(wanted))
	for p := range wanted {
		granted = append(granted, p)
	}
	sort.Strings(granted)

	role, err := s.findRole(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(role.Name, ownerRoleName) {
		return nil, invalid("role", "The owner role always has every permission")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		if len(granted) == 0 {
			return nil
		}
		rows := make([]models.RolePermission, 0, len(granted))
		for _, p := range granted {
			rows = append(rows, models.RolePermission{RoleID: role.ID, Permission: p})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, &PersistenceError{Op: "update role permissions", Err: err}
	}

	s.Logger.WithFields(logrus.Fields{"role": role.Name, "permissions": len(granted)}).Info("🔐 Role permissions updated")
	return granted, nil
}
