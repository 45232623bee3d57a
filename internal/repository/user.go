package repository

import (
	"github.com/popcatalog/popcatalog-go/internal/crypto"
	"github.com/popcatalog/popcatalog-go/internal/model"
)

// UserRepository holds the static, read-only user set. User management is
// not a feature of the server; accounts exist for the process lifetime only.
type UserRepository struct {
	users []model.User
}

// NewUserRepository builds the preloaded user set, hashing the known
// passwords at construction.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: []model.User{
			{ID: 1, Username: "pepe", PasswordHash: mustHash("pepe1234"), Role: model.RoleAdmin},
			{ID: 2, Username: "ana", PasswordHash: mustHash("ana1234"), Role: model.RoleUser},
		},
	}
}

// FindByUsername looks a user up by name.
func (r *UserRepository) FindByUsername(username string) (model.User, bool) {
	for _, u := range r.users {
		if u.Username == username {
			return u, true
		}
	}
	return model.User{}, false
}

// FindByID looks a user up by id.
func (r *UserRepository) FindByID(id int64) (model.User, bool) {
	for _, u := range r.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func mustHash(password string) string {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return hash
}
