package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(newContext(t, "/"))

	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", p.Offset)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p := FromContext(newContext(t, "/?limit=50&offset=10"))

	if p.Limit != 50 {
		t.Errorf("expected limit 50, got %d", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestFromContext_MaxLimit(t *testing.T) {
	p := FromContext(newContext(t, "/?limit=500"))

	if p.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_NegativeOffset(t *testing.T) {
	p := FromContext(newContext(t, "/?offset=-5"))

	if p.Offset != 0 {
		t.Errorf("expected negative offset clamped to 0, got %d", p.Offset)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	resp := NewResponse([]string{"a", "b"}, 25, 20, 0)
	if !resp.HasMore {
		t.Error("expected HasMore true when offset+limit < total")
	}

	resp = NewResponse([]string{"a"}, 25, 20, 20)
	if resp.HasMore {
		t.Error("expected HasMore false on last page")
	}
}
