package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when an owner-scoped lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput wraps every form validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

// AuthUser is the signed-in identity the gym data is scoped to.
type AuthUser struct {
	ID    int
	Email string
}

// Profile holds the owner's display details shown in the app header.
type Profile struct {
	UserID          int
	OwnerName       string
	GymName         string
	CurrentBranchID *int
}

// Branch is one physical gym location.
type Branch struct {
	ID        int
	OwnerID   int
	Name      string
	Address   *string
	Phone     *string
	CreatedAt time.Time
}

// Plan is a membership plan offered by the gym.
type Plan struct {
	ID           int
	OwnerID      int
	Name         string
	DurationDays int
	Price        decimal.Decimal
	IsActive     bool
}

// Member is a gym member.
type Member struct {
	ID        int
	OwnerID   int
	BranchID  *int
	PlanID    *int
	PlanName  *string
	Name      string
	Email     string
	Phone     string
	JoinedAt  time.Time
	ExpiresAt *time.Time
	Status    string
}

// MemberInput holds the fields required to add a member.
type MemberInput struct {
	Name     string
	Email    string
	Phone    string
	BranchID *int
	PlanID   *int
}

// Payment is a recorded membership payment. MemberName is nil when the member was deleted.
type Payment struct {
	ID         int
	OwnerID    int
	MemberID   *int
	MemberName *string
	PlanID     *int
	Amount     decimal.Decimal
	Method     string
	PaidAt     time.Time
}

// PaymentInput holds the fields required to record a payment.
type PaymentInput struct {
	MemberID int
	PlanID   *int
	Amount   decimal.Decimal
	Method   string
}

// Reminder is a follow-up note attached to a member, typically a renewal due date.
type Reminder struct {
	ID         int
	OwnerID    int
	MemberID   *int
	MemberName *string
	Message    string
	DueAt      time.Time
}

// StaffMember is an employee assigned to a branch.
type StaffMember struct {
	ID       int
	OwnerID  int
	BranchID *int
	Name     string
	Role     string
	Phone    string
}

// GymState is the read model handed to the shell and its pages.
type GymState struct {
	AuthUser      *AuthUser
	Profile       *Profile
	Members       []Member
	Plans         []Plan
	Payments      []Payment
	Reminders     []Reminder
	Branches      []Branch
	Staff         []StaffMember
	CurrentBranch *Branch
}

// DisplayName returns the owner name for the header, or "User" when no profile exists.
func (s *GymState) DisplayName() string {
	if s == nil || s.Profile == nil || s.Profile.OwnerName == "" {
		return "User"
	}
	return s.Profile.OwnerName
}

// GymName returns the gym name for the header, or "My Gym" when no profile exists.
func (s *GymState) GymName() string {
	if s == nil || s.Profile == nil || s.Profile.GymName == "" {
		return "My Gym"
	}
	return s.Profile.GymName
}

// CurrentBranchName returns the selected branch name, or "Main Branch".
func (s *GymState) CurrentBranchName() string {
	if s == nil || s.CurrentBranch == nil {
		return "Main Branch"
	}
	return s.CurrentBranch.Name
}

// TotalRevenue sums every recorded payment.
func (s *GymState) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	if s == nil {
		return total
	}
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// ActiveMembers counts members whose status is "active".
func (s *GymState) ActiveMembers() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, m := range s.Members {
		if m.Status == "active" {
			n++
		}
	}
	return n
}
