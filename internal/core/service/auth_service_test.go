package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devconnector/connector-api/internal/core/domain"
	"github.com/devconnector/connector-api/internal/core/ports"
	"github.com/devconnector/connector-api/internal/pkg/token"
)

func newAuthSvc(repo *stubUserRepo, revoked *stubRevocations) (*AuthService, *token.Manager) {
	tokens := token.NewManager("secret", 10*time.Hour)
	return NewAuthService(repo, tokens, revoked, bcrypt.MinCost, zerolog.Nop()), tokens
}

func alice() ports.RegisterInput {
	return ports.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret1"}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newAuthSvc(repo, newStubRevocations())

	tok, err := svc.Register(context.Background(), alice())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	stored, err := repo.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if stored.Avatar != domain.GravatarURL("a@x.com") {
		t.Fatalf("unexpected avatar: %s", stored.Avatar)
	}

	claims, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.User.ID != stored.ID {
		t.Fatalf("expected token for %s, got %s", stored.ID, claims.User.ID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo(), newStubRevocations())

	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "", Email: "bad", Password: "123"})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 3 {
		t.Fatalf("expected 3 field errors, got %+v", ve.Fields)
	}
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthSvc(repo, newStubRevocations())

	in := alice()
	in.Password = strings.Repeat("p", 80)
	tok, err := svc.Register(context.Background(), in)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Param != "password" {
		t.Fatalf("expected a single password error, got %+v", ve.Fields)
	}
	if tok != "" {
		t.Fatalf("expected no token")
	}
	if _, err := repo.FindByEmail(context.Background(), in.Email); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected no user stored, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo(), newStubRevocations())

	if _, err := svc.Register(context.Background(), alice()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	tok, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Other", Email: "a@x.com", Password: "another"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if tok != "" {
		t.Fatalf("expected no token on duplicate registration")
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc, _ := newAuthSvc(repo, newStubRevocations())

	if _, err := svc.Register(context.Background(), alice()); err == nil || errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newAuthSvc(repo, newStubRevocations())

	if _, err := svc.Register(context.Background(), alice()); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	stored, _ := repo.FindByEmail(context.Background(), "a@x.com")

	tok, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.User.ID != stored.ID {
		t.Fatalf("expected user id %s, got %s", stored.ID, claims.User.ID)
	}
}

func TestAuthService_Login_SameErrorForUnknownEmailAndBadPassword(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo(), newStubRevocations())
	_, _ = svc.Register(context.Background(), alice())

	_, wrongPass := svc.Login(context.Background(), ports.LoginInput{Email: "a@x.com", Password: "badpass"})
	_, unknown := svc.Login(context.Background(), ports.LoginInput{Email: "ghost@x.com", Password: "secret1"})

	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if unknown != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo(), newStubRevocations())

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "not-an-email"})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	revoked := newStubRevocations()
	svc, tokens := newAuthSvc(newStubUserRepo(), revoked)

	if _, err := svc.Authenticate(context.Background(), ""); err != domain.ErrNoToken {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "garbage"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	expired, _ := token.NewManager("secret", -time.Minute).Issue("user-1")
	if _, err := svc.Authenticate(context.Background(), expired); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	tok, _ := tokens.Issue("user-1")
	id, err := svc.Authenticate(context.Background(), tok)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if id.UserID != "user-1" || id.TokenID == "" || id.ExpiresAt.IsZero() {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	revoked := newStubRevocations()
	svc, tokens := newAuthSvc(newStubUserRepo(), revoked)

	tok, _ := tokens.Issue("user-1")
	id, err := svc.Authenticate(context.Background(), tok)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	if err := svc.Logout(context.Background(), id); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if ttl := revoked.revoked[id.TokenID]; ttl <= 0 || ttl > 10*time.Hour {
		t.Fatalf("unexpected revocation ttl %v", ttl)
	}

	if _, err := svc.Authenticate(context.Background(), tok); err != domain.ErrInvalidToken {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}

func TestAuthService_Authenticate_RevocationStoreDown(t *testing.T) {
	revoked := newStubRevocations()
	revoked.checkErr = errors.New("redis down")
	svc, tokens := newAuthSvc(newStubUserRepo(), revoked)

	tok, _ := tokens.Issue("user-1")
	_, err := svc.Authenticate(context.Background(), tok)
	if err == nil || errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	repo := newStubUserRepo()
	u := repo.seed("Alice", "a@x.com")
	svc, _ := newAuthSvc(repo, newStubRevocations())

	got, err := svc.CurrentUser(context.Background(), domain.Identity{UserID: u.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := svc.CurrentUser(context.Background(), domain.Identity{UserID: "missing"}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
