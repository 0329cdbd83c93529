// Package sender отправляет письма с подтверждением покупки из очереди уведомлений.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	"github.com/magabrotheeeer/content-gate/internal/lib/smtp"
	"github.com/magabrotheeeer/content-gate/internal/models"
)

// Service собирает и отправляет письма.
type Service struct {
	transport smtp.Dialer
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.Dialer, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

var planTitles = map[models.Plan]string{
	models.PlanBasic:   "Basic",
	models.PlanPremium: "Premium",
}

// SendPurchaseConfirmation обработчик очереди notifications.purchase.
func (s *Service) SendPurchaseConfirmation(ctx context.Context, body []byte) error {
	const op = "sender.SendPurchaseConfirmation"

	var n models.PurchaseNotification
	if err := json.Unmarshal(body, &n); err != nil {
		// битое сообщение не станет лучше при повторе
		s.log.Error("failed to unmarshal purchase notification", slog.String("op", op), sl.Err(err))
		return nil
	}
	if n.Email == "" {
		s.log.Warn("purchase notification without recipient, skipped", slog.String("id", n.ID))
		return nil
	}

	title, ok := planTitles[n.Plan]
	if !ok {
		title = string(n.Plan)
	}
	subject := "Подписка " + title + " активирована"
	text := fmt.Sprintf("Здравствуйте!\n\nСпасибо за покупку. Подписка %s уже действует, "+
		"весь контент этого уровня открыт в приложении и на сайте.\n\nНомер уведомления: %s", title, n.ID)

	if err := s.sendEmail(ctx, n.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("purchase confirmation sent", slog.String("id", n.ID), slog.String("user_id", n.UserID))
	return nil
}

func (s *Service) sendEmail(ctx context.Context, to, subject, bodyText string) error {
	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debug("smtp client close", sl.Err(err))
		}
	}()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return client.Quit()
}
