package errors

import (
	"errors"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	err := NewInvalidArgument("bad")
	if !IsInvalidArgument(err) {
		t.Fatal("expected invalid argument")
	}

	wrapped := WrapInternal(err, "ctx")
	if !IsInternal(wrapped) {
		t.Fatal("expected internal")
	}
	// the cause is formatted, not wrapped: internal errors never look like bad input
	if IsInvalidArgument(wrapped) {
		t.Fatal("internal error must not unwrap to invalid argument")
	}
}

func TestTokenErrorKinds(t *testing.T) {
	if !IsInvalidToken(ErrTokenExpired) {
		t.Fatal("expired token must be an invalid token")
	}
	if !IsInvalidToken(ErrRefreshTokenMismatch) {
		t.Fatal("mismatch must be an invalid token")
	}
	if IsTokenExpired(ErrInvalidToken) {
		t.Fatal("plain invalid token is not expired")
	}
	if !errors.Is(NewNotFound("account"), ErrNotFound) {
		t.Fatal("expected not found")
	}
	if !IsAlreadyExists(NewAlreadyExists("email taken")) {
		t.Fatal("expected already exists")
	}
}
