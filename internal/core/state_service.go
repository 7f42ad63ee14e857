package core

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// StateService assembles the GymState read model for a signed-in owner.
type StateService struct {
	profiles  ProfileService
	branches  BranchService
	plans     PlanService
	members   MemberService
	payments  PaymentService
	reminders ReminderService
}

// NewStateService wires the per-entity services into one loader.
func NewStateService(
	profiles ProfileService,
	branches BranchService,
	plans PlanService,
	members MemberService,
	payments PaymentService,
	reminders ReminderService,
) *StateService {
	return &StateService{
		profiles:  profiles,
		branches:  branches,
		plans:     plans,
		members:   members,
		payments:  payments,
		reminders: reminders,
	}
}

// Load reads every collection for user. A missing profile is not an error; the
// header falls back to its defaults.
func (s *StateService) Load(ctx context.Context, user AuthUser) (*GymState, error) {
	state := &GymState{AuthUser: &user}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.GetProfile(gctx, user.ID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		state.Profile = p
		return err
	})
	g.Go(func() (err error) {
		state.Branches, err = s.branches.ListBranches(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		state.Plans, err = s.plans.ListPlans(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		state.Members, err = s.members.ListMembers(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		state.Payments, err = s.payments.ListPayments(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		state.Reminders, err = s.reminders.ListReminders(gctx, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load gym state for user id=%d: %w", user.ID, err)
	}

	state.CurrentBranch = pickCurrentBranch(state.Profile, state.Branches)

	var branchID *int
	if state.CurrentBranch != nil {
		branchID = &state.CurrentBranch.ID
	}
	staff, err := s.branches.ListStaff(ctx, user.ID, branchID)
	if err != nil {
		return nil, fmt.Errorf("load gym state for user id=%d: %w", user.ID, err)
	}
	state.Staff = staff
	return state, nil
}

// pickCurrentBranch returns the profile's chosen branch, falling back to the first one.
func pickCurrentBranch(p *Profile, branches []Branch) *Branch {
	if len(branches) == 0 {
		return nil
	}
	if p != nil && p.CurrentBranchID != nil {
		for i := range branches {
			if branches[i].ID == *p.CurrentBranchID {
				return &branches[i]
			}
		}
	}
	return &branches[0]
}
