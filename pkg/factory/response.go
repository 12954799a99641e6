package factory

// Response is what a handler hands back to the transport. Exactly one
// shape is populated per outcome; unused fields are omitted on the wire.
type Response struct {
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Status  int          `json:"status,omitempty"`
	Order   *OrderState  `json:"order,omitempty"`
	Data    *Payload     `json:"data,omitempty"`
	Entry   *NfcLogEntry `json:"entry,omitempty"`
	Stock   StockMap     `json:"stock,omitempty"`
}

const (
	MsgOrderUpdated    = "Order updated"
	MsgStatusReceived  = "Factory status received"
	MsgNfcLogged       = "NFC event logged"
	MsgStockUpdated    = "Stock updated"
	MsgUnknownTopic    = "Unknown topic"
	ErrInvalidColor    = "Invalid color"
	ErrInvalidLocation = "Invalid location"

	StatusUnknownTopic = 400
)

// Outcome classifies a response for logs and metrics.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeInvalid      Outcome = "invalid"
	OutcomeUnknownTopic Outcome = "unknown_topic"
)

func (r Response) Outcome() Outcome {
	switch {
	case r.Error != "":
		return OutcomeInvalid
	case r.Status != 0:
		return OutcomeUnknownTopic
	default:
		return OutcomeOK
	}
}

func errorResponse(msg string) Response { return Response{Error: msg} }
