// Package whatsapp drives an authenticated WhatsApp Web session: it waits for
// the login to complete and classifies phone numbers by loading the send deep
// link and reading which UI state the page settles into.
//
// Classification is heuristic. The page is polled for three signals:
//
//   - the "phone number shared via url is invalid" modal: Invalid, immediately
//   - the conversation header of an opened chat: Valid, immediately
//   - a retry/"trying to reach phone" banner: remembered, polling continues
//
// When the timeout passes without either decisive signal the number is Invalid
// if a retry banner was seen, and Valid otherwise. Absence of the invalid modal
// is treated as registration.
package whatsapp
