package service

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
)

const testSigningKey = "unit-test-signing-key"

func TestAuthService_SignUp_HashesPassword(t *testing.T) {
	mock := &mockAuthRepo{
		CreateFn: func(username, hash string) (int, error) {
			return 42, nil
		},
	}
	svc := NewAuthService(mock, testSigningKey)

	id, err := svc.SignUp("alice", "s3cr3t")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}

	if len(mock.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(mock.createCalls))
	}
	stored := mock.createCalls[0].hash
	if stored == "s3cr3t" {
		t.Fatalf("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("s3cr3t")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestAuthService_SignUp_EmptyPassword(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, testSigningKey)

	if _, err := svc.SignUp("alice", "   "); err == nil {
		t.Fatalf("expected error for blank password")
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cr3t"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock := &mockAuthRepo{
		GetByUsernameFn: func(username string) (*coolingcloud.User, error) {
			return &coolingcloud.User{ID: 7, Username: username, PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(mock, testSigningKey)

	token, err := svc.GenerateToken("alice", "s3cr3t")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	id, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id != 7 {
		t.Fatalf("user id = %d, want 7", id)
	}
}

func TestAuthService_GenerateToken_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	mock := &mockAuthRepo{
		GetByUsernameFn: func(username string) (*coolingcloud.User, error) {
			return &coolingcloud.User{ID: 7, PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(mock, testSigningKey)

	if _, err := svc.GenerateToken("alice", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("err = %v, want ErrInvalidPassword", err)
	}
}

func TestAuthService_GenerateToken_UserMissing(t *testing.T) {
	mock := &mockAuthRepo{
		GetByUsernameFn: func(username string) (*coolingcloud.User, error) {
			return nil, nil
		},
	}
	svc := NewAuthService(mock, testSigningKey)

	if _, err := svc.GenerateToken("ghost", "pw"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestAuthService_ParseToken_WrongKey(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	mock := &mockAuthRepo{
		GetByUsernameFn: func(username string) (*coolingcloud.User, error) {
			return &coolingcloud.User{ID: 1, PasswordHash: string(hash)}, nil
		},
	}

	token, err := NewAuthService(mock, "key-one").GenerateToken("alice", "pw")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := NewAuthService(mock, "key-two").ParseToken(token); err == nil {
		t.Fatalf("token signed with a different key must not parse")
	}
}

func TestAuthService_ParseToken_Garbage(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, testSigningKey)

	if _, err := svc.ParseToken("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
