package mailer

// MessageKind тип исходящего письма
type MessageKind string

const (
	KindProviderNewBooking     MessageKind = "provider_new_booking"
	KindClientBookingConfirmed MessageKind = "client_booking_confirmed"
	KindClientBookingRejected  MessageKind = "client_booking_rejected"
	KindClientBookingCompleted MessageKind = "client_booking_completed"
)

// Payload данные для подстановки в шаблон письма
type Payload struct {
	ClientName      string `json:"clientName"`
	ProviderName    string `json:"providerName"`
	ServiceCategory string `json:"serviceCategory"`
	Date            string `json:"date"` // "Saturday, November 15, 2025"
	Time            string `json:"time"` // "10:00 AM"
	Address         string `json:"address,omitempty"`
	Reason          string `json:"reason,omitempty"` // Только для client_booking_rejected
}

// SendRequest запрос на отправку письма
type SendRequest struct {
	Kind    MessageKind `json:"kind"`
	To      string      `json:"to"`
	Payload Payload     `json:"payload"`
}

// SendResponse ответ сервиса рассылки
type SendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
