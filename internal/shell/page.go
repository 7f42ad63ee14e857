package shell

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPage is returned by ParsePage for names outside the sidebar.
	ErrUnknownPage = errors.New("unknown page")
	// ErrUnknownCommand is returned by ParseCommand and Dispatch.
	ErrUnknownCommand = errors.New("unknown command")
)

// Page identifies one sidebar destination.
type Page string

const (
	PageDashboard Page = "dashboard"
	PageMembers   Page = "members"
	PagePlans     Page = "plans"
	PagePayments  Page = "payments"
	PageReminders Page = "reminders"
	PageBranches  Page = "branches"
	PageStaff     Page = "staff"
	PageSettings  Page = "settings"
)

// Pages lists every page in sidebar order.
var Pages = []Page{
	PageDashboard, PageMembers, PagePlans, PagePayments,
	PageReminders, PageBranches, PageStaff, PageSettings,
}

var pageTitles = map[Page]string{
	PageDashboard: "Dashboard",
	PageMembers:   "Members",
	PagePlans:     "Plans",
	PagePayments:  "Payments",
	PageReminders: "Reminders",
	PageBranches:  "Branches",
	PageStaff:     "Staff",
	PageSettings:  "Settings",
}

// ParsePage validates a page name.
func ParsePage(s string) (Page, error) {
	p := Page(s)
	if _, ok := pageTitles[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
	}
	return p, nil
}

// Title is the human-readable page name.
func (p Page) Title() string {
	if t, ok := pageTitles[p]; ok {
		return t
	}
	return pageTitles[PageDashboard]
}

// AcceptsSearch reports whether the page filters itself by the global search query.
func (p Page) AcceptsSearch() bool {
	return p == PageMembers || p == PagePayments
}

// Command is a request from any part of the UI for the shell to change page.
type Command string

const (
	CommandOpenAddMember       Command = "openAddMember"
	CommandOpenAddPayment      Command = "openAddPayment"
	CommandNavigateToReminders Command = "navigateToReminders"
	CommandNavigateToPlans     Command = "navigateToPlans"
)

// ParseCommand validates a command name.
func ParseCommand(s string) (Command, error) {
	switch c := Command(s); c {
	case CommandOpenAddMember, CommandOpenAddPayment, CommandNavigateToReminders, CommandNavigateToPlans:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Trigger is a follow-up the shell hands to a page once that page reports ready.
type Trigger string

const (
	TriggerAddMember  Trigger = "triggerAddMember"
	TriggerAddPayment Trigger = "triggerAddPayment"
)
