package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("lead not found"), http.StatusNotFound},
		{Validation("leadId is required"), http.StatusBadRequest},
		{BadRequest("invalid request"), http.StatusBadRequest},
		{Conflict("lead is locked"), http.StatusConflict},
		{Internal("boom"), http.StatusInternalServerError},
		{Persistence("GetLead", errors.New("connection reset")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Fatalf("expected %d for kind %s, got %d", tc.want, tc.err.Kind, got)
		}
	}
}

func TestGetKindFollowsWrappedChain(t *testing.T) {
	base := NotFound("lead not found")
	wrapped := fmt.Errorf("record interaction: %w", base)

	if !Is(wrapped, KindNotFound) {
		t.Fatalf("expected wrapped error to report KindNotFound, got %s", GetKind(wrapped))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected plain error to report KindUnknown")
	}
}

func TestPersistenceKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence("ListLeads", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected persistence error to unwrap to its cause")
	}
	if err.Error() != "ListLeads: storage operation failed" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
