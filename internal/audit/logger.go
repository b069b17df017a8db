// Package audit writes the security audit trail of account operations.
package audit

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	appCtx "github.com/baechuer/real-time-ressys/services/account-service/internal/pkg/context"
)

// Logger implements auth.Auditor on top of zerolog. Every line carries
// audit=true, the action and the request id. Emails are masked.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Bool("audit", true).Logger()}
}

func (l *Logger) event(ctx context.Context, e *zerolog.Event, action string) *zerolog.Event {
	e = e.Str("action", action)
	if id := appCtx.GetRequestID(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	return e
}

func (l *Logger) RegisterSucceeded(ctx context.Context, userID int64, email string) {
	l.event(ctx, l.log.Info(), "register_success").
		Int64("user_id", userID).
		Str("email", maskEmail(email)).
		Msg("account registered")
}

func (l *Logger) RegisterFailed(ctx context.Context, email, reason string) {
	l.event(ctx, l.log.Warn(), "register_failed").
		Str("email", maskEmail(email)).
		Str("reason", reason).
		Msg("registration failed")
}

func (l *Logger) LoginSucceeded(ctx context.Context, userID int64, email string) {
	l.event(ctx, l.log.Info(), "login_success").
		Int64("user_id", userID).
		Str("email", maskEmail(email)).
		Msg("user logged in")
}

// LoginFailed does not say whether the email exists; reason is always the
// public error code.
func (l *Logger) LoginFailed(ctx context.Context, email, reason string) {
	l.event(ctx, l.log.Warn(), "login_failed").
		Str("email", maskEmail(email)).
		Str("reason", reason).
		Msg("login attempt failed")
}

func (l *Logger) LoggedOut(ctx context.Context, userID int64, expiresAt time.Time) {
	l.event(ctx, l.log.Info(), "logout").
		Int64("user_id", userID).
		Time("token_expires_at", expiresAt).
		Msg("token revoked")
}

func (l *Logger) LogoutFailed(ctx context.Context, reason string) {
	l.event(ctx, l.log.Warn(), "logout_failed").
		Str("reason", reason).
		Msg("logout rejected")
}

func (l *Logger) AccountUpdated(ctx context.Context, userID int64, nameChanged, passwordChanged bool) {
	l.event(ctx, l.log.Info(), "account_updated").
		Int64("user_id", userID).
		Bool("name_changed", nameChanged).
		Bool("password_changed", passwordChanged).
		Msg("account updated")
}

func (l *Logger) UpdateFailed(ctx context.Context, callerID int64, reason string) {
	l.event(ctx, l.log.Warn(), "update_failed").
		Int64("caller_id", callerID).
		Str("reason", reason).
		Msg("account update rejected")
}

// maskEmail keeps the first two characters of the local part and the domain:
// "alice@x.com" -> "al***@x.com". Anything without a usable "@" is fully masked.
func maskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || len(email) < 5 {
		return "***"
	}
	keep := 2
	if at <= keep {
		keep = 1
	}
	return email[:keep] + "***" + email[at:]
}
