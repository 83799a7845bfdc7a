package clientservice

// Client модель клиента из ClientService
type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"` // Адрес оказания услуги
}

// ErrorResponse модель ошибки от ClientService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
