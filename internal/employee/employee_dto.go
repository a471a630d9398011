package employee

type UpdateProfileRequest struct {
	EmergencyContactName         *string `json:"emergency_contact_name" binding:"omitempty,max=100"`
	EmergencyContactPhone        *string `json:"emergency_contact_phone" binding:"omitempty,max=20"`
	EmergencyContactRelationship *string `json:"emergency_contact_relationship" binding:"omitempty,max=50"`
	BankName                     *string `json:"bank_name" binding:"omitempty,max=100"`
	BankAccountNumber            *string `json:"bank_account_number" binding:"omitempty,max=50"`
	BankBranch                   *string `json:"bank_branch" binding:"omitempty,max=100"`
}

type RecordReviewRequest struct {
	PerformanceRating string `json:"performance_rating" binding:"required"`
	NextReviewDate    string `json:"next_review_date" binding:"omitempty,datetime=2006-01-02"`
}

type ProfileResponse struct {
	ID                           string  `json:"id"`
	UserID                       string  `json:"user_id"`
	EmergencyContactName         *string `json:"emergency_contact_name"`
	EmergencyContactPhone        *string `json:"emergency_contact_phone"`
	EmergencyContactRelationship *string `json:"emergency_contact_relationship"`
	BankName                     *string `json:"bank_name"`
	BankAccountNumber            *string `json:"bank_account_number"`
	BankBranch                   *string `json:"bank_branch"`
	AnnualLeaveBalance           int     `json:"annual_leave_balance"`
	SickLeaveBalance             int     `json:"sick_leave_balance"`
	PerformanceRating            *string `json:"performance_rating"`
	LastReviewDate               *string `json:"last_review_date"`
	NextReviewDate               *string `json:"next_review_date"`
}
