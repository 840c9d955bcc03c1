package check_out_booking

// VerificationRequest HTTP request model
type VerificationRequest struct {
	Notes string `json:"notes,omitempty"`
}
