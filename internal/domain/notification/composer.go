// Package notification composes the customer-facing Kinyarwanda
// messages. Composition is pure: delivery (SMS/WhatsApp hand-off)
// happens on the client.
package notification

import (
	"fmt"
	"strings"

	"github.com/jfjewelry/backend/internal/domain/shared/valueobject"
)

// DefaultThankYou is appended acknowledgment when the caller supplies
// no custom thank-you text.
const DefaultThankYou = "Thank you very much!! Mugire ibihe byiza."

// CashAcknowledgment is sent after a cash sale.
const CashAcknowledgment = "Muraho neza! Wampaye kuri cash nshuti. Merci!!"

// DebtConfirmation composes the message sent when a debt is recorded.
func DebtConfirmation(items string, amount valueobject.Money) string {
	return fmt.Sprintf("Muraho mufashe %s amafaranga muzishyura ni %s. MERCI BEAUCOUP CHER CLIENT",
		items, amount.Display())
}

// DebtReminder composes the follow-up message for an outstanding debt.
func DebtReminder(items string, amount valueobject.Money) string {
	return fmt.Sprintf("Muraho, mwampaye kuri %s amafaranga muzishyura ni %s",
		items, amount.Display())
}

// SettlementThanks composes the acknowledgment after a payment. A full
// settlement returns the thank-you text alone; a partial one appends
// the remaining balance so the customer knows what is still owed.
func SettlementThanks(thankYou string, remaining valueobject.Money, fullySettled bool) string {
	text := strings.TrimSpace(thankYou)
	if text == "" {
		text = DefaultThankYou
	}
	if fullySettled {
		return text
	}
	return fmt.Sprintf("%s Asigaye ni %s.", text, remaining.Display())
}
