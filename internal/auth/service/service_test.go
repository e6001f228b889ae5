package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	authdomain "github.com/khasm-app/khasm/internal/auth/domain"
	authrepo "github.com/khasm-app/khasm/internal/auth/repository"
	userdomain "github.com/khasm-app/khasm/internal/user/domain"
	userrepo "github.com/khasm-app/khasm/internal/user/repository"
	userservice "github.com/khasm-app/khasm/internal/user/service"
	"github.com/khasm-app/khasm/pkg/db"
)

func newTestService(t *testing.T) (authdomain.Service, userdomain.Service) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&userdomain.User{}, &authdomain.Session{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	users := userservice.New(userservice.Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  userrepo.Provide(),
	})
	sessions := authrepo.New(dbConn)

	return New(zap.NewNop(), users, sessions, node), users
}

func TestLoginWithDefaultCustomerPassword(t *testing.T) {
	svc, users := newTestService(t)

	_, err := users.CreateCustomer(context.Background(), userdomain.CreateCustomerRequest{
		Name:         "Alice",
		MobileNumber: "0501234567",
		IDNumber:     "98765432",
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Identifier: "0501234567",
		Password:   "98765432",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	if result.RawToken == "" {
		t.Fatal("expected raw token")
	}
	if result.Identity.Role != userdomain.RoleCustomer {
		t.Fatalf("expected customer role, got %s", result.Identity.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users := newTestService(t)

	_, err := users.CreateCustomer(context.Background(), userdomain.CreateCustomerRequest{
		Name:         "Bob",
		MobileNumber: "0507654321",
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{
		Identifier: "0507654321",
		Password:   "wrong-password",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	svc, users := newTestService(t)

	created, err := users.CreateCustomer(context.Background(), userdomain.CreateCustomerRequest{
		Name:         "Carol",
		MobileNumber: "0500000001",
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Identifier: "0500000001",
		Password:   "0500000001",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}

	identity, err := svc.Authenticate(context.Background(), result.RawToken)
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if identity.UserID != created.ID {
		t.Fatalf("expected user %s, got %s", created.ID, identity.UserID)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, users := newTestService(t)

	_, err := users.CreateCustomer(context.Background(), userdomain.CreateCustomerRequest{
		Name:         "Dave",
		MobileNumber: "0500000002",
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Identifier: "0500000002",
		Password:   "0500000002",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}

	if err := svc.Logout(context.Background(), result.RawToken); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}

	_, err = svc.Authenticate(context.Background(), result.RawToken)
	if err != authdomain.ErrSessionRevoked {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestChangePasswordRevokesOtherSessions(t *testing.T) {
	svc, users := newTestService(t)

	created, err := users.CreateCustomer(context.Background(), userdomain.CreateCustomerRequest{
		Name:         "Frank",
		MobileNumber: "0500000004",
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	login := func() *authdomain.LoginResult {
		result, err := svc.Login(context.Background(), authdomain.LoginRequest{
			Identifier: "0500000004",
			Password:   "0500000004",
		})
		if err != nil {
			t.Fatalf("failed to login: %v", err)
		}
		return result
	}

	phone := login()
	laptop := login()

	err = svc.ChangePassword(context.Background(),
		created.ID.String(), phone.Identity.SessionID.String(),
		"0500000004", "fresh-password")
	if err != nil {
		t.Fatalf("failed to change password: %v", err)
	}

	// The session making the change stays valid, every other session dies.
	if _, err := svc.Authenticate(context.Background(), phone.RawToken); err != nil {
		t.Fatalf("changing session must survive, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), laptop.RawToken); err != authdomain.ErrSessionRevoked {
		t.Fatalf("expected ErrSessionRevoked for the other session, got %v", err)
	}

	if _, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Identifier: "0500000004",
		Password:   "0500000004",
	}); err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected old password to be rejected, got %v", err)
	}
	if _, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Identifier: "0500000004",
		Password:   "fresh-password",
	}); err != nil {
		t.Fatalf("failed to login with new password: %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, users := newTestService(t)

	created, err := users.CreateCustomer(context.Background(), userdomain.CreateCustomerRequest{
		Name:         "Grace",
		MobileNumber: "0500000005",
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Identifier: "0500000005",
		Password:   "0500000005",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}

	err = svc.ChangePassword(context.Background(),
		created.ID.String(), result.Identity.SessionID.String(),
		"not-the-password", "fresh-password")
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	svc, users := newTestService(t)

	created, err := users.CreateCustomer(context.Background(), userdomain.CreateCustomerRequest{
		Name:         "Eve",
		MobileNumber: "0500000003",
	})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Identifier: "0500000003",
		Password:   "0500000003",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}

	inactive := false
	if _, err := users.UpdateCustomer(context.Background(), userdomain.UpdateCustomerRequest{
		ID:       created.ID.String(),
		IsActive: &inactive,
	}); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	_, err = svc.Authenticate(context.Background(), result.RawToken)
	if err != authdomain.ErrAccountDisabled {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}
