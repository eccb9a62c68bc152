package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestPredicates(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
	}{
		{ErrInvalidArgument, IsInvalidArgument},
		{ErrInternal, IsInternal},
		{ErrNotFound, IsNotFound},
		{ErrInvalidCredentials, IsInvalidCredentials},
		{ErrAlreadyExists, IsAlreadyExists},
		{ErrInvalidToken, IsInvalidToken},
	}
	for _, c := range cases {
		if !c.pred(c.err) {
			t.Fatalf("predicate failed for %v", c.err)
		}
		if !c.pred(fmt.Errorf("wrapped: %w", c.err)) {
			t.Fatalf("predicate failed for wrapped %v", c.err)
		}
	}
}

func TestNewInvalidArgument(t *testing.T) {
	err := NewInvalidArgument("email malformed")
	if !IsInvalidArgument(err) {
		t.Fatal("expected invalid argument")
	}
	if err.Error() != "invalid argument: email malformed" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestWrapInternal(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := WrapInternal(cause, "CreateUser")
	if !IsInternal(err) {
		t.Fatal("expected internal")
	}
	if IsNotFound(err) {
		t.Fatal("wrapped internal must not match other sentinels")
	}
}
