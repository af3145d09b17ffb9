package whatsapp

// Playwright selectors for the WhatsApp Web UI states we look for.
const (
	selectorQRCanvas    = "canvas[aria-label='Scan me!']"
	selectorQRContainer = "div[data-testid='qrcode']"

	selectorAppRoot  = "div[data-testid='app']"
	selectorChatList = "div[aria-label='Chats'], div[aria-label='Chat list']"

	selectorConversationHeader = "xpath=//header[@data-testid='conversation-header']"

	selectorInvalidModal = "xpath=//div[@data-animate-modal-popup='true' and " +
		"contains(@aria-label, 'Phone number shared via url is invalid')]" +
		" | " +
		"//div[@data-animate-modal-body='true']" +
		"[.//div[contains(normalize-space(.), 'Phone number shared via url is invalid.')]]"

	selectorRetryBanner = "xpath=//span[contains(., 'Click to retry') or " +
		"contains(., 'Retry') or " +
		"contains(., 'Trying to reach phone')]"
)

// loginLandmarks appear only once the main UI has loaded.
var loginLandmarks = []string{
	selectorAppRoot,
	selectorChatList,
	selectorConversationHeader,
}

var qrMarkers = []string{
	selectorQRCanvas,
	selectorQRContainer,
}
