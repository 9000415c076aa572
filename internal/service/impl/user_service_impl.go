package impl

import (
	"context"
	"errors"
	"time"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/dto"
	"github.com/ssarthaks/gym-webapp/internal/store"
	"github.com/ssarthaks/gym-webapp/internal/validate"
)

type UserServiceImpl struct {
	users userStore
	now   func() time.Time
}

func NewUserServiceImpl(st *store.Store) *UserServiceImpl {
	return &UserServiceImpl{users: st.Users(), now: time.Now}
}

func (u *UserServiceImpl) List(ctx context.Context, q dto.ListUsersQuery) (*dto.ListUsersResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}

	users, total, err := u.users.List(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, dto.NewPublicUser(&users[i]))
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &dto.ListUsersResponse{
		Users: out,
		Pagination: dto.Pagination{
			Total:      total,
			Page:       q.Page,
			Limit:      q.Limit,
			TotalPages: totalPages,
		},
	}, nil
}

func (u *UserServiceImpl) GetByID(ctx context.Context, id uint) (*dto.PublicUser, error) {
	user, err := u.users.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	pub := dto.NewPublicUser(user)
	return &pub, nil
}

func (u *UserServiceImpl) Update(ctx context.Context, ident domain.Identity, id uint, r dto.AdminUpdateUserRequest) (*dto.PublicUser, error) {
	if ident.ID != id && !ident.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	user, err := u.users.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if r.Email != nil && *r.Email != "" && *r.Email != user.Email {
		email, verrs := validate.EmailOnly(*r.Email)
		if verrs != nil {
			return nil, verrs
		}
		existing, err := u.users.GetByEmail(ctx, email)
		if err == nil && existing.ID != user.ID {
			return nil, domain.ErrEmailTaken
		}
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = email
		user.EmailVerified = false
	}
	if r.Name != nil && *r.Name != "" {
		if fe := validate.Name(*r.Name); fe != nil {
			return nil, validate.Errors{*fe}
		}
		user.Name = validate.SanitizeText(*r.Name)
	}
	if r.Phone != nil && *r.Phone != "" {
		if fe := validate.Phone(*r.Phone); fe != nil {
			return nil, validate.Errors{*fe}
		}
		user.Phone = validate.SanitizePhone(*r.Phone)
	}
	if r.Address != nil {
		user.Address = validate.SanitizeText(*r.Address)
	}
	// Privilege changes stay admin-only.
	if r.AccountType != nil && ident.IsAdmin() {
		if !domain.AccountType(*r.AccountType).Valid() {
			return nil, validate.Errors{{Field: "accountType", Message: "Invalid account type"}}
		}
		user.AccountType = domain.AccountType(*r.AccountType)
	}

	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	pub := dto.NewPublicUser(user)
	return &pub, nil
}

func (u *UserServiceImpl) Delete(ctx context.Context, ident domain.Identity, id uint) error {
	if ident.ID != id && !ident.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := u.users.GetActiveByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	ok, err := u.users.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAlreadyDeleted
	}
	return nil
}

func (u *UserServiceImpl) Stats(ctx context.Context) (*dto.UserStatsResponse, error) {
	stats, err := u.users.Stats(ctx, u.now())
	if err != nil {
		return nil, err
	}
	return &dto.UserStatsResponse{Stats: stats}, nil
}
