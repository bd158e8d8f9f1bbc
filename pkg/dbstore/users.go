package dbstore

import (
	"context"

	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/records"
	"gorm.io/gorm"
)

// UserStore remembers identities of API callers in the users table
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{
		db: db,
	}
}

// Remember upserts the user by email and reports whether the stored user is an administrator.
// The admin flag is never changed here.
func (s *UserStore) Remember(ctx context.Context, identity access.Identity) (bool, error) {
	var user records.User
	tx := s.db.WithContext(ctx).
		Where(records.User{Email: identity.Email}).
		Assign(records.User{
			GivenName:  identity.GivenName,
			FamilyName: identity.FamilyName,
			FullName:   identity.FullName,
		}).
		FirstOrCreate(&user)

	return user.Admin, tx.Error
}
