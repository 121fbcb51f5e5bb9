// ABOUTME: Unit tests for principal context helpers
// ABOUTME: Tests WithPrincipal and FromContext

package auth

import (
	"context"
	"testing"
)

func TestFromContext_Empty(t *testing.T) {
	if p := FromContext(context.Background()); p != nil {
		t.Errorf("FromContext() = %v, want nil", p)
	}
}

func TestWithPrincipal_RoundTrip(t *testing.T) {
	want := &Principal{UserID: 1, Login: "root@root.com", Authorities: []string{}}
	ctx := WithPrincipal(context.Background(), want)

	if got := FromContext(ctx); got != want {
		t.Errorf("FromContext() = %v, want %v", got, want)
	}
}

func TestFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), principalKey{}, "not a principal")
	if p := FromContext(ctx); p != nil {
		t.Errorf("FromContext() = %v, want nil", p)
	}
}
