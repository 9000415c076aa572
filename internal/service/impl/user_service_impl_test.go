package impl

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/dto"
)

func newUserFixture(t *testing.T) (*UserServiceImpl, *memUserStore, *fakeClock) {
	t.Helper()
	users := newMemUserStore()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := &UserServiceImpl{users: users, now: clock.Now}
	return svc, users, clock
}

func seedUser(t *testing.T, users *memUserStore, email string, typ domain.AccountType, createdAt time.Time) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:        "Seed User",
		Email:       email,
		Phone:       "+9779800000000",
		AccountType: typ,
		Password:    "h:Seed!pass1",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return u
}

func TestListUsersPaginatesAndFilters(t *testing.T) {
	svc, users, clock := newUserFixture(t)
	base := clock.Now()

	for i := 0; i < 12; i++ {
		typ := domain.AccountIndividual
		if i%3 == 0 {
			typ = domain.AccountBusiness
		}
		seedUser(t, users, fmt.Sprintf("member%02d@example.com", i), typ, base.Add(time.Duration(i)*time.Minute))
	}
	deleted := seedUser(t, users, "gone@example.com", domain.AccountIndividual, base)
	if _, err := users.SoftDelete(context.Background(), deleted.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	res, err := svc.List(context.Background(), dto.ListUsersQuery{Page: 1, Limit: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Pagination.Total != 12 {
		t.Fatalf("deleted accounts must be excluded, total %d", res.Pagination.Total)
	}
	if res.Pagination.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", res.Pagination.TotalPages)
	}
	if len(res.Users) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(res.Users))
	}
	// Newest first.
	if res.Users[0].Email != "member11@example.com" {
		t.Fatalf("expected newest row first, got %q", res.Users[0].Email)
	}

	res, err = svc.List(context.Background(), dto.ListUsersQuery{AccountType: "business"})
	if err != nil {
		t.Fatalf("list business: %v", err)
	}
	if res.Pagination.Total != 4 {
		t.Fatalf("expected 4 business accounts, got %d", res.Pagination.Total)
	}

	res, err = svc.List(context.Background(), dto.ListUsersQuery{Search: "member07"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Pagination.Total != 1 || res.Users[0].Email != "member07@example.com" {
		t.Fatalf("search miss: %+v", res.Users)
	}
}

func TestListUsersDefaultsOutOfRangePaging(t *testing.T) {
	svc, users, clock := newUserFixture(t)
	seedUser(t, users, "solo@example.com", domain.AccountIndividual, clock.Now())

	res, err := svc.List(context.Background(), dto.ListUsersQuery{Page: -4, Limit: 100000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Pagination.Page != 1 || res.Pagination.Limit != 10 {
		t.Fatalf("expected clamped paging, got %+v", res.Pagination)
	}
}

func TestUpdateUserAuthorization(t *testing.T) {
	svc, users, clock := newUserFixture(t)
	member := seedUser(t, users, "member@example.com", domain.AccountIndividual, clock.Now())
	other := seedUser(t, users, "other@example.com", domain.AccountIndividual, clock.Now())
	admin := seedUser(t, users, "admin@example.com", domain.AccountBusiness, clock.Now())

	name := "Renamed Member"
	_, err := svc.Update(context.Background(), domain.Identity{ID: other.ID, AccountType: domain.AccountIndividual}, member.ID, dto.AdminUpdateUserRequest{Name: &name})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger update: expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Update(context.Background(), domain.Identity{ID: member.ID, AccountType: domain.AccountIndividual}, member.ID, dto.AdminUpdateUserRequest{Name: &name})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("name not applied: %q", updated.Name)
	}

	// Privilege escalation is admin-only; a self update silently keeps the type.
	business := "business"
	updated, err = svc.Update(context.Background(), domain.Identity{ID: member.ID, AccountType: domain.AccountIndividual}, member.ID, dto.AdminUpdateUserRequest{AccountType: &business})
	if err != nil {
		t.Fatalf("self type update: %v", err)
	}
	if updated.AccountType != string(domain.AccountIndividual) {
		t.Fatalf("non-admin must not change account type, got %q", updated.AccountType)
	}

	updated, err = svc.Update(context.Background(), domain.Identity{ID: admin.ID, AccountType: domain.AccountBusiness}, member.ID, dto.AdminUpdateUserRequest{AccountType: &business})
	if err != nil {
		t.Fatalf("admin type update: %v", err)
	}
	if updated.AccountType != string(domain.AccountBusiness) {
		t.Fatalf("admin must change account type, got %q", updated.AccountType)
	}
}

func TestUpdateUserEmailCollision(t *testing.T) {
	svc, users, clock := newUserFixture(t)
	member := seedUser(t, users, "member@example.com", domain.AccountIndividual, clock.Now())
	seedUser(t, users, "taken@example.com", domain.AccountIndividual, clock.Now())

	taken := "taken@example.com"
	_, err := svc.Update(context.Background(), domain.Identity{ID: member.ID}, member.ID, dto.AdminUpdateUserRequest{Email: &taken})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestDeleteUserAuthorizationAndSoftDelete(t *testing.T) {
	svc, users, clock := newUserFixture(t)
	member := seedUser(t, users, "member@example.com", domain.AccountIndividual, clock.Now())
	admin := seedUser(t, users, "admin@example.com", domain.AccountBusiness, clock.Now())

	if err := svc.Delete(context.Background(), domain.Identity{ID: member.ID}, admin.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("member deleting admin: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), domain.Identity{ID: admin.ID, AccountType: domain.AccountBusiness}, member.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if err := svc.Delete(context.Background(), domain.Identity{ID: admin.ID, AccountType: domain.AccountBusiness}, member.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("repeat delete: expected ErrUserNotFound, got %v", err)
	}

	if _, err := svc.GetByID(context.Background(), member.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleted user must not resolve, got %v", err)
	}
}

func TestStatsCountsActiveAccounts(t *testing.T) {
	svc, users, clock := newUserFixture(t)
	now := clock.Now()

	old := seedUser(t, users, "old@example.com", domain.AccountIndividual, now.AddDate(0, 0, -45))
	users.byID[old.ID].EmailVerified = true
	seedUser(t, users, "new@example.com", domain.AccountBusiness, now.AddDate(0, 0, -3))
	gone := seedUser(t, users, "gone@example.com", domain.AccountIndividual, now)
	if _, err := users.SoftDelete(context.Background(), gone.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	res, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	s := res.Stats
	if s.TotalUsers != 2 || s.IndividualUsers != 1 || s.BusinessUsers != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.VerifiedUsers != 1 {
		t.Fatalf("expected 1 verified, got %d", s.VerifiedUsers)
	}
	if s.NewUsersLast30Days != 1 {
		t.Fatalf("expected 1 new account in window, got %d", s.NewUsersLast30Days)
	}
}
