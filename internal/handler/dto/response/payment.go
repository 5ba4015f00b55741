package response

type CheckoutSessionResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

type WebhookResponse struct {
	Received bool   `json:"received"`
	Result   string `json:"result"`
}
