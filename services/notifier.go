// services/notifier.go
package services

import (
	"fmt"
	"log/slog"
	"os"

	"startech-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier sends SMS updates to customers when their order moves. Sending is
// fire-and-forget: a failure can never fail the business request.
type Notifier struct {
	client *twilio.RestClient
	from   string
}

func NewNotifierFromEnv() *Notifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || from == "" {
		return &Notifier{}
	}
	return &Notifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

// OrderStatusChanged notifies the customer about shipped/delivered orders.
func (n *Notifier) OrderStatusChanged(orderID, status, phone string) {
	if n.client == nil || phone == "" {
		return
	}
	if status != "shipped" && status != "delivered" {
		return
	}

	go func() {
		body := fmt.Sprintf("Porosia juaj %s: %s", orderID, models.TranslateStatus(status))
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(phone)
		params.SetFrom(n.from)
		params.SetBody(body)

		if _, err := n.client.Api.CreateMessage(params); err != nil {
			slog.Warn("order SMS failed", "order", orderID, "error", err)
		}
	}()
}
