package payload

type ManualEntryRequest struct {
	StudentName string `json:"student_name" validate:"required"`
	RollNumber  string `json:"roll_number"  validate:"required"`
	ClassName   string `json:"class_name"   validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	ExpiryDate  string `json:"expiry_date"  validate:"required"`
}

type ManualEntryResponse struct {
	Status      string `json:"status"`
	ChallanNo   string `json:"challan_no"`
	N8NResponse string `json:"n8n_response"`
}

type SendCSVResponse struct {
	Status      string `json:"status"`
	N8NResponse string `json:"n8n_response"`
}
