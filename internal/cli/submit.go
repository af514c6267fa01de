package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

// submitJSON is the JSON output structure for the submit command.
type submitJSON struct {
	Lead            *enquiry.Lead `json:"lead"`
	WhatsAppURL     string        `json:"whatsapp_url"`
	RedirectSeconds int           `json:"redirect_seconds"`
}

// Execute implements the go-flags Commander interface for SubmitCommand.
func (c *SubmitCommand) Execute(args []string) error {
	e, cleanup, err := newEnv(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.run(context.Background(), e)
}

func (c *SubmitCommand) run(ctx context.Context, e *env) error {
	sub := enquiry.Submission{
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Project:        c.Project,
		SpecialEnquiry: c.SpecialEnquiry,
	}

	lead, err := e.api.Submit(ctx, sub)
	if err != nil {
		return err
	}

	number, message, delay := contactSettings(e)
	link := enquiry.WhatsAppLink(number, message)

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(submitJSON{Lead: lead, WhatsAppURL: link, RedirectSeconds: int(delay / time.Second)})
	}

	fmt.Println("Thank You!")
	fmt.Println()
	fmt.Println("Your interest is appreciated. Our executive will reach out to you shortly.")
	fmt.Printf("Reference: %s\n", lead.ID)
	fmt.Println()
	fmt.Printf("Chat on WhatsApp: %s\n", link)
	fmt.Printf("Redirecting in %d seconds\n", int(delay/time.Second))
	return nil
}

// contactSettings returns the configured WhatsApp details, falling back to
// the package defaults for anything left empty.
func contactSettings(e *env) (number, message string, delay time.Duration) {
	number = "+919560002261"
	message = enquiry.DefaultWhatsAppMessage
	delay = enquiry.DefaultRedirectDelay
	if e.cfg == nil {
		return number, message, delay
	}
	if e.cfg.Contact.WhatsAppNumber != "" {
		number = e.cfg.Contact.WhatsAppNumber
	}
	if e.cfg.Contact.WhatsAppMessage != "" {
		message = e.cfg.Contact.WhatsAppMessage
	}
	if e.cfg.Contact.RedirectSeconds > 0 {
		delay = time.Duration(e.cfg.Contact.RedirectSeconds) * time.Second
	}
	return number, message, delay
}
