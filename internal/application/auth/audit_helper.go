package auth

import (
	"context"
	"errors"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// failureReason is the code an audit line records for err.
func failureReason(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}

type noopAuditor struct{}

func (noopAuditor) RegisterSucceeded(context.Context, int64, string)  {}
func (noopAuditor) RegisterFailed(context.Context, string, string)    {}
func (noopAuditor) LoginSucceeded(context.Context, int64, string)     {}
func (noopAuditor) LoginFailed(context.Context, string, string)       {}
func (noopAuditor) LoggedOut(context.Context, int64, time.Time)       {}
func (noopAuditor) LogoutFailed(context.Context, string)              {}
func (noopAuditor) AccountUpdated(context.Context, int64, bool, bool) {}
func (noopAuditor) UpdateFailed(context.Context, int64, string)       {}
