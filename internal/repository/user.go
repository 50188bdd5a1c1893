package repository

import (
	"context"
	"time"

	"foodsaver/internal/models"
	"foodsaver/internal/observability"
	"foodsaver/internal/storage"
)

// UserRepository defines the interface for user record operations,
// keyed by user id. Lookups signal absence with a nil record.
type UserRepository interface {
	ListAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Upsert(ctx context.Context, rec models.User) (*models.User, error)
	Update(ctx context.Context, rec models.User) (*models.User, error)
	Delete(ctx context.Context, userID string) (bool, error)
}

type userRepository struct {
	store  storage.Store
	logger *observability.RepoLogger
	now    func() time.Time
}

// NewUserRepository creates a user repository over the given store.
func NewUserRepository(store storage.Store) UserRepository {
	return &userRepository{
		store:  store,
		logger: observability.NewRepoLogger(storage.SlotUsers),
		now:    time.Now,
	}
}

func (r *userRepository) load(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := loadSlot(ctx, r.store, storage.SlotUsers, r.logger, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) save(ctx context.Context, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	return saveSlot(ctx, r.store, storage.SlotUsers, users)
}

func (r *userRepository) ListAll(ctx context.Context) ([]models.User, error) {
	return r.load(ctx)
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// merge overwrites dst's fields with any non-zero fields of src.
// CreatedAt is only overwritten when the caller explicitly supplied one.
func merge(dst, src models.User) models.User {
	if src.FullName != "" {
		dst.FullName = src.FullName
	}
	if src.OrganizationName != "" {
		dst.OrganizationName = src.OrganizationName
	}
	if src.Role != "" {
		dst.Role = src.Role
	}
	if !src.CreatedAt.IsZero() {
		dst.CreatedAt = src.CreatedAt
	}
	return dst
}

// Upsert inserts a new record or merges fields into an existing one,
// last write wins. Inserts default the role to donor and stamp CreatedAt.
func (r *userRepository) Upsert(ctx context.Context, rec models.User) (*models.User, error) {
	if rec.UserID == "" {
		return nil, models.NewMissingFieldsError("user_id")
	}

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == rec.UserID {
			users[i] = merge(users[i], rec)
			if err := r.save(ctx, users); err != nil {
				return nil, err
			}
			u := users[i]
			r.logger.LogUpdate(ctx, map[string]interface{}{"user_id": u.UserID})
			return &u, nil
		}
	}

	if rec.Role == "" {
		rec.Role = models.RoleDonor
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	users = append(users, rec)
	if err := r.save(ctx, users); err != nil {
		return nil, err
	}
	r.logger.LogCreate(ctx, map[string]interface{}{"user_id": rec.UserID, "role": rec.Role})
	return &rec, nil
}

// Update merges fields into an existing record. Returns a nil record
// when the user id is unknown.
func (r *userRepository) Update(ctx context.Context, rec models.User) (*models.User, error) {
	if rec.UserID == "" {
		return nil, models.NewMissingFieldsError("user_id")
	}

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == rec.UserID {
			users[i] = merge(users[i], rec)
			if err := r.save(ctx, users); err != nil {
				return nil, err
			}
			u := users[i]
			r.logger.LogUpdate(ctx, map[string]interface{}{"user_id": u.UserID})
			return &u, nil
		}
	}
	return nil, nil
}

// Delete removes the record by id, reporting whether one was found.
func (r *userRepository) Delete(ctx context.Context, userID string) (bool, error) {
	users, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].UserID == userID {
			users = append(users[:i], users[i+1:]...)
			if err := r.save(ctx, users); err != nil {
				return false, err
			}
			r.logger.LogDelete(ctx, map[string]interface{}{"user_id": userID})
			return true, nil
		}
	}
	return false, nil
}
