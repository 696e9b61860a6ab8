package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"clubrenting-backend/internal/domain"
	"clubrenting-backend/internal/utils"
)

// emailService sends rental activity summaries to the club back office
// through SendGrid. The member-facing UI has its own feedback; these
// mails exist so the equipment keepers know what left the storage room.
type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	toEmail   string
}

func NewEmailService(apiKey, fromEmail, fromName, backOfficeEmail string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		toEmail:   backOfficeEmail,
	}
}

func (s *emailService) send(subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", s.toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendRentalReceipt(ctx context.Context, rentals []domain.RentingData) error {
	var b strings.Builder
	fmt.Fprintf(&b, "New rental checkout (%d items):\n\n", len(rentals))
	var rates []domain.Price
	for _, rental := range rentals {
		fmt.Fprintf(&b, "- %s x%d, member %s", rental.Item.DisplayName, rental.Amount, rental.UserUID)
		if cost, ok, err := utils.RentalCost(&rental); err == nil && ok {
			fmt.Fprintf(&b, ", cost %.2f", cost)
		}
		if rental.Item.Price != nil {
			rates = append(rates, *rental.Item.Price)
		}
		b.WriteString("\n")
	}
	if total, period := utils.SumPrices(rates); period != domain.PeriodNone {
		fmt.Fprintf(&b, "\nCombined rate: %.2f %s\n", total, period)
	}
	return s.send("New rental checkout", b.String())
}

func (s *emailService) SendReturnConfirmation(ctx context.Context, rental *domain.RentingData) error {
	body := fmt.Sprintf(
		"Rental %s returned:\n\n- %s x%d, member %s, returned by %s\n",
		rental.ID, rental.Item.DisplayName, rental.Amount, rental.UserUID, rental.Returned.ReturnedByUID,
	)
	return s.send("Rental returned", body)
}
