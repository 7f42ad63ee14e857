package core_test

import (
	"testing"

	"gym-dashboard/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGymState_HeaderDefaults(t *testing.T) {
	var nilState *core.GymState
	assert.Equal(t, "User", nilState.DisplayName())
	assert.Equal(t, "My Gym", nilState.GymName())
	assert.Equal(t, "Main Branch", nilState.CurrentBranchName())

	s := &core.GymState{
		Profile:       &core.Profile{OwnerName: "Asha", GymName: "Iron Temple"},
		CurrentBranch: &core.Branch{Name: "Indiranagar"},
	}
	assert.Equal(t, "Asha", s.DisplayName())
	assert.Equal(t, "Iron Temple", s.GymName())
	assert.Equal(t, "Indiranagar", s.CurrentBranchName())
}

func TestGymState_Aggregates(t *testing.T) {
	s := &core.GymState{
		Members: []core.Member{
			{Name: "A", Status: "active"},
			{Name: "B", Status: "expired"},
			{Name: "C", Status: "active"},
		},
		Payments: []core.Payment{
			{Amount: decimal.RequireFromString("1500.50")},
			{Amount: decimal.RequireFromString("999.50")},
		},
	}
	assert.Equal(t, 2, s.ActiveMembers())
	assert.True(t, s.TotalRevenue().Equal(decimal.RequireFromString("2500")))
}

func TestMemberInput_Validate(t *testing.T) {
	tests := []struct {
		name      string
		input     core.MemberInput
		expectErr bool
	}{
		{name: "name only", input: core.MemberInput{Name: "  John  "}},
		{name: "with email", input: core.MemberInput{Name: "John", Email: "john@x.com"}},
		{name: "blank name", input: core.MemberInput{Name: "   "}, expectErr: true},
		{name: "bad email", input: core.MemberInput{Name: "John", Email: "john.x.com"}, expectErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.expectErr {
				require.ErrorIs(t, err, core.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}

	in := core.MemberInput{Name: "  John  ", Phone: " 98765 "}
	require.NoError(t, in.Validate())
	assert.Equal(t, "John", in.Name)
	assert.Equal(t, "98765", in.Phone)
}

func TestPaymentInput_Validate(t *testing.T) {
	tests := []struct {
		name      string
		input     core.PaymentInput
		expectErr bool
	}{
		{name: "defaults to cash", input: core.PaymentInput{MemberID: 1, Amount: decimal.NewFromInt(1200)}},
		{name: "upi", input: core.PaymentInput{MemberID: 1, Amount: decimal.NewFromInt(1200), Method: "upi"}},
		{name: "no member", input: core.PaymentInput{Amount: decimal.NewFromInt(1200)}, expectErr: true},
		{name: "zero amount", input: core.PaymentInput{MemberID: 1}, expectErr: true},
		{name: "negative amount", input: core.PaymentInput{MemberID: 1, Amount: decimal.NewFromInt(-5)}, expectErr: true},
		{name: "unknown method", input: core.PaymentInput{MemberID: 1, Amount: decimal.NewFromInt(5), Method: "cheque"}, expectErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.expectErr {
				require.ErrorIs(t, err, core.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tt.input.Method)
		})
	}
}
