package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// WebURL is the WhatsApp Web entry point.
const WebURL = "https://web.whatsapp.com"

// NormalizeNumber strips surrounding whitespace, spaces and '+' from a phone number.
func NormalizeNumber(number string) string {
	n := strings.TrimSpace(number)
	n = strings.ReplaceAll(n, "+", "")
	n = strings.ReplaceAll(n, " ", "")
	return n
}

// DeepLink returns the send URL that opens a chat with number.
func DeepLink(number string) string {
	return fmt.Sprintf("%s/send?phone=%s&text=&type=phone_number&app_absent=0",
		WebURL, url.QueryEscape(NormalizeNumber(number)))
}
