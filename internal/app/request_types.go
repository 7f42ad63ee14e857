package app

// AddMemberRequest is the add-member form.
type AddMemberRequest struct {
	OwnerID  int
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	PlanID   *int   `json:"plan_id,omitempty"`
	BranchID *int   `json:"branch_id,omitempty"`
}

// RecordPaymentRequest is the add-payment form. Amount is a decimal string such as "1499.00".
type RecordPaymentRequest struct {
	OwnerID  int
	MemberID int    `json:"member_id"`
	PlanID   *int   `json:"plan_id,omitempty"`
	Amount   string `json:"amount"`
	Method   string `json:"method"`
}
