package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/LeonEnneken/Leitstellen-Backend/config"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/dto"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

const EventDailyResetSummary = "daily_reset_summary"

type ReportNotifierImpl struct {
	publisher EventPublisher
	smtp      config.SMTPConfig
	dialer    *gomail.Dialer
	sendEmail func(message *gomail.Message) error
}

func CreateReportNotifier(publisher EventPublisher, smtp config.SMTPConfig) ReportNotifier {
	n := &ReportNotifierImpl{
		publisher: publisher,
		smtp:      smtp,
		dialer:    gomail.NewDialer(smtp.Host, smtp.Port, smtp.Sender, smtp.Password),
	}
	n.sendEmail = func(message *gomail.Message) error {
		return n.dialer.DialAndSend(message)
	}
	return n
}

func (n *ReportNotifierImpl) NotifyDailyReset(ctx context.Context, summary dto.DailyResetSummary) {
	if n.publisher != nil {
		if err := n.publisher.Publish(ctx, EventDailyResetSummary, summary); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("component", "NotifyDailyReset").Msg("summary not published")
		}
	}

	if n.smtp.Host == "" || n.smtp.Recipient == "" {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.smtp.Sender)
	m.SetHeader("To", n.smtp.Recipient)
	m.SetHeader("Subject", fmt.Sprintf("Daily reset %s", summary.ExecutedAt.Format("02.01.2006")))
	m.SetBody("text/plain", renderDailyResetSummary(summary))

	if err := n.sendEmail(m); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "NotifyDailyReset").Msg("summary e-mail not sent")
	}
}

func renderDailyResetSummary(summary dto.DailyResetSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily reset executed at %s\n", summary.ExecutedAt.Format("02.01.2006 15:04:05"))

	sections := []struct {
		title string
		names []string
	}{
		{"On duty", summary.OnDuty},
		{"Off duty", summary.OffDuty},
		{"Away from keyboard", summary.AwayFromKeyboard},
	}
	for _, section := range sections {
		fmt.Fprintf(&b, "\n%s (%d)\n", section.title, len(section.names))
		for _, name := range section.names {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	return b.String()
}
