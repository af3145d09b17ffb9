package whatsapp

// Verdict is the outcome of probing one number.
type Verdict int

const (
	Invalid Verdict = iota
	Valid
)

// String returns "valid" or "invalid".
func (v Verdict) String() string {
	if v == Valid {
		return "valid"
	}
	return "invalid"
}

// Result is the classification of one number. Reason is diagnostic text only.
type Result struct {
	Number  string
	Verdict Verdict
	Reason  string
}

// IsValid reports whether the number was classified as registered.
func (r Result) IsValid() bool {
	return r.Verdict == Valid
}

// Reasons attached to results.
const (
	ReasonInvalidPopup       = "Invalid popup detected: phone number shared via url is invalid."
	ReasonConversationHeader = "Conversation header detected: treating as valid."
	ReasonRetryBanner        = "Timeout with retry banner present: treating as invalid."
	ReasonNoInvalidPopup     = "No invalid popup detected within timeout: treating as valid."
)
