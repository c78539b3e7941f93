package policy

import (
	"context"
	"errors"

	"github.com/diewo77/go-vertrieb/gate"
	"github.com/diewo77/go-vertrieb/internal/models"
	"gorm.io/gorm"
)

// DBRoleResolver loads a user's role and its permissions. Inactive users
// resolve to no role.
type DBRoleResolver struct {
	DB *gorm.DB
}

func NewDBRoleResolver(db *gorm.DB) *DBRoleResolver {
	return &DBRoleResolver{DB: db}
}

func (r *DBRoleResolver) Resolve(ctx context.Context, userID uint) (gate.Role, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Role.Permissions").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || user.Role == nil {
		return nil, nil
	}
	perms := make([]gate.Permission, len(user.Role.Permissions))
	for i, p := range user.Role.Permissions {
		perms[i] = gate.Permission(p.Code())
	}
	return gate.NewStaticRole(user.Role.Name, perms...), nil
}
