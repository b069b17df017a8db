package auth

import (
	"testing"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func requireAudit(t *testing.T, e auditEntry, action, result string) {
	t.Helper()
	if e.action != action {
		t.Fatalf("expected audit action %q, got %q", action, e.action)
	}
	if e.fields["result"] != result {
		t.Fatalf("expected audit result %q, got %q (all=%v)", result, e.fields["result"], e.fields)
	}
}
