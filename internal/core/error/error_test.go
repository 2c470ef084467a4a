package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestAppErrorWrapping(t *testing.T) {
	base := fmt.Errorf("boom")
	err := New(base, http.StatusBadGateway, "upstream failed")

	if err.Error() != "upstream failed: boom" {
		t.Fatalf("unexpected error string: %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Fatal("errors.Is must see the wrapped error")
	}

	var ae *AppError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As must extract AppError")
	}
	if ae.Status != http.StatusBadGateway || ae.Kind != KindInternal {
		t.Fatalf("unexpected fields: %+v", ae)
	}
}

func TestIsKind(t *testing.T) {
	err := NewKind(fmt.Errorf("bad args"), KindToolValidation, "validation failed")
	if !IsKind(err, KindToolValidation) {
		t.Fatal("expected validation kind")
	}
	if IsKind(err, KindParse) {
		t.Fatal("kind must not match a different kind")
	}
	if IsKind(fmt.Errorf("plain"), KindParse) {
		t.Fatal("plain errors carry no kind")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsKind(wrapped, KindToolValidation) {
		t.Fatal("kind must survive wrapping")
	}
}

func TestWrapRedis(t *testing.T) {
	if WrapRedis(nil) != nil {
		t.Fatal("nil stays nil")
	}

	var ae *AppError
	if !errors.As(WrapRedis(redis.Nil), &ae) || ae.Status != http.StatusNotFound {
		t.Fatalf("redis.Nil must map to 404, got %+v", ae)
	}
	if !errors.As(WrapRedis(fmt.Errorf("conn refused")), &ae) || ae.Status != http.StatusBadGateway {
		t.Fatalf("other redis errors must map to 502, got %+v", ae)
	}
}
