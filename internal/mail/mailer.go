// AngelaMos | 2026
// mailer.go

package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prasanth1122/coherencebackend/internal/config"
)

// Mailer dispatches account emails. The auth service depends on this
// interface rather than a concrete provider.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// New builds the configured mailer. "log" writes reset links to the
// logger instead of sending anything, which is what development and
// tests want.
func New(
	ctx context.Context,
	cfg config.MailConfig,
	logger *slog.Logger,
) (Mailer, error) {
	switch cfg.Provider {
	case "log", "":
		return NewLogMailer(cfg, logger), nil
	case "ses":
		return NewSESMailer(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

func resetLink(resetURL, token string) string {
	return fmt.Sprintf("%s?token=%s", resetURL, token)
}

type LogMailer struct {
	cfg    config.MailConfig
	logger *slog.Logger
}

func NewLogMailer(cfg config.MailConfig, logger *slog.Logger) *LogMailer {
	return &LogMailer{cfg: cfg, logger: logger}
}

func (m *LogMailer) SendPasswordReset(
	ctx context.Context,
	email, token string,
) error {
	m.logger.InfoContext(ctx, "password reset email (log provider)",
		slog.String("to", email),
		slog.String("reset_link", resetLink(m.cfg.ResetURL, token)),
	)
	return nil
}
