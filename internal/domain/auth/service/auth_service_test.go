package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brlucas/fluxo/internal/domain/auth/repository"
	"github.com/brlucas/fluxo/internal/domain/common"
)

type fakeAuthRepo struct {
	byEmail map[string]*repository.User
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{byEmail: make(map[string]*repository.User)}
}

func (r *fakeAuthRepo) CreateUser(_ context.Context, email, passwordHash, displayName string) (*repository.User, error) {
	if _, exists := r.byEmail[email]; exists {
		return nil, common.ErrConflict
	}
	u := &repository.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.byEmail[email] = u
	return u, nil
}

func (r *fakeAuthRepo) GetUserByEmail(_ context.Context, email string) (*repository.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (r *fakeAuthRepo) GetUserByID(_ context.Context, id uuid.UUID) (*repository.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func testAuthService() (*AuthService, *fakeAuthRepo, *TokenManager) {
	repo := newFakeAuthRepo()
	tokens := NewTokenManager("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return NewAuthService(repo, tokens, logger), repo, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, tokens := testAuthService()

	reg, err := svc.Register(context.Background(), "User@Example.com", "correct-horse", "Lucas")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Email != "user@example.com" {
		t.Errorf("email not normalized: %q", reg.Email)
	}

	claims, err := tokens.Verify(reg.AccessToken)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != reg.UserID {
		t.Errorf("claims.UserID = %q, want %q", claims.UserID, reg.UserID)
	}

	login, err := svc.Login(context.Background(), "user@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.UserID != reg.UserID {
		t.Errorf("login returned different user")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := testAuthService()

	if _, err := svc.Register(context.Background(), "dup@example.com", "password1", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(context.Background(), "dup@example.com", "password2", "")
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestRegister_WeakInput(t *testing.T) {
	svc, _, _ := testAuthService()

	if _, err := svc.Register(context.Background(), "not-an-email", "password1", ""); !errors.Is(err, common.ErrBadRequest) {
		t.Errorf("invalid email: err = %v, want ErrBadRequest", err)
	}
	if _, err := svc.Register(context.Background(), "ok@example.com", "short", ""); !errors.Is(err, common.ErrBadRequest) {
		t.Errorf("short password: err = %v, want ErrBadRequest", err)
	}
}

// Unknown email and wrong password must be indistinguishable.
func TestLogin_Failures(t *testing.T) {
	svc, repo, _ := testAuthService()

	hash, _ := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	repo.byEmail["known@example.com"] = &repository.User{
		ID:           uuid.New(),
		Email:        "known@example.com",
		PasswordHash: string(hash),
	}

	_, errUnknown := svc.Login(context.Background(), "unknown@example.com", "whatever")
	_, errWrong := svc.Login(context.Background(), "known@example.com", "wrong-password")

	if !errors.Is(errUnknown, common.ErrUnauthenticated) || !errors.Is(errWrong, common.ErrUnauthenticated) {
		t.Fatalf("errs = %v / %v, both must be ErrUnauthenticated", errUnknown, errWrong)
	}
}

func TestTokenManager_RejectsTampered(t *testing.T) {
	tokens := NewTokenManager("secret-a", time.Hour)
	other := NewTokenManager("secret-b", time.Hour)

	token, err := tokens.Generate(uuid.New(), "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, common.ErrUnauthenticated) {
		t.Errorf("foreign secret accepted: %v", err)
	}
	if _, err := tokens.Verify(token + "x"); !errors.Is(err, common.ErrUnauthenticated) {
		t.Errorf("tampered token accepted: %v", err)
	}
}

func TestTokenManager_Expiry(t *testing.T) {
	tokens := NewTokenManager("secret", -time.Minute)

	token, err := tokens.Generate(uuid.New(), "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := tokens.Verify(token); !errors.Is(err, common.ErrUnauthenticated) {
		t.Errorf("expired token accepted: %v", err)
	}
}
