package enquiry

import (
	"net/url"
	"strings"
	"time"
)

// DefaultWhatsAppMessage is pre-filled in the chat opened from the
// confirmation screen.
const DefaultWhatsAppMessage = "Hi, I just submitted an enquiry on your landing page. I would like to know more."

// DefaultRedirectDelay is how long the confirmation screen stays up.
const DefaultRedirectDelay = 10 * time.Second

// WhatsAppLink builds a wa.me deep link. Non-digit characters are stripped
// from number.
func WhatsAppLink(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	link := "https://wa.me/" + digits
	if message != "" {
		// wa.me expects %20 for spaces rather than '+'.
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link
}
