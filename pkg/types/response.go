package types

// SuccessEnvelope wraps every 2xx payload of the booking API. Clients can
// rely on the data key being present even for empty lists.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Code is one of the stable machine
// codes from pkg/errors; Message is safe to show to the person booking.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
