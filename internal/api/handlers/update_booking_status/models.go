package update_booking_status

// TransitionRejectedResponse отказ в смене статуса с текущим и запрошенным статусом
type TransitionRejectedResponse struct {
	Code            int    `json:"code"`
	Message         string `json:"message"`
	CurrentStatus   string `json:"currentStatus"`
	RequestedStatus string `json:"requestedStatus"`
}
