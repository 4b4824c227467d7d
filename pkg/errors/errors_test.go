package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"scanorder/domain/shared"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		wantField string
	}{
		{"validation", shared.NewValidationError("line_item", "id", "line item id is required"), CodeValidation, "id"},
		{"not found", shared.NewNotFoundError("order"), CodeNotFound, ""},
		{"conflict", shared.NewConflictError("order", "id", "order id already placed"), CodeConflict, "id"},
		{"persistence", shared.NewPersistenceError("cart", stdErrors.New("quota exceeded")), CodePersistenceFailed, ""},
		{"wrapped persistence", fmt.Errorf("place order: %w", shared.NewPersistenceError("orders", stdErrors.New("disk full"))), CodePersistenceFailed, ""},
		{"unknown", stdErrors.New("boom"), CodeInternal, ""},
		{"already app error", TooManyRequests("slow down"), CodeTooManyRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDomainError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", got.Code, tt.wantCode)
			}
			if got.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", got.Field, tt.wantField)
			}
		})
	}

	if FromDomainError(nil) != nil {
		t.Error("FromDomainError(nil) should be nil")
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("handler: %w", SessionNotFound())
	if !Is(err, CodeSessionNotFound) {
		t.Error("Is() should see through wrapping")
	}
	if Is(stdErrors.New("plain"), CodeSessionNotFound) {
		t.Error("Is() matched a plain error")
	}
}

func TestStoreUnavailableKeepsCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := StoreUnavailable(cause)
	if err.Code != CodeStoreUnavailable || !stdErrors.Is(err, cause) {
		t.Errorf("StoreUnavailable() = %+v", err)
	}
	if got := FromDomainError(fmt.Errorf("open: %w", err)); got != err {
		t.Errorf("FromDomainError() rewrapped an app error: %+v", got)
	}
}
