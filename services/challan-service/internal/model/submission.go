package model

// StudentSubmission is a manually entered student record forwarded to the webhook.
type StudentSubmission struct {
	StudentName string `json:"student_name"`
	RollNumber  string `json:"roll_number"`
	ClassName   string `json:"class_name"`
	Email       string `json:"email"`
	ExpiryDate  string `json:"expiry_date"`
}

// ChallanRecord is a submission stamped with its server-generated tracking code.
type ChallanRecord struct {
	ChallanNo string `json:"challan_no"`
	StudentSubmission
}
