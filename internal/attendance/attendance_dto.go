package attendance

type ClockRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

type AttendanceResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Date        string  `json:"date"`
	CheckIn     *string `json:"check_in"`
	CheckOut    *string `json:"check_out"`
	BreakStart  *string `json:"break_start"`
	BreakEnd    *string `json:"break_end"`
	Status      string  `json:"status"`
	HoursWorked float64 `json:"hours_worked"`
	Notes       string  `json:"notes,omitempty"`
}
