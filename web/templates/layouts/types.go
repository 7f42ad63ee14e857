package layouts

// NavItem is one sidebar entry.
type NavItem struct {
	Page  string
	Label string
}

// AppLayoutData is passed to AppLayout to configure the page shell.
type AppLayoutData struct {
	Title             string
	GymName           string
	OwnerName         string
	Nav               []NavItem
	ActiveNav         string // e.g. "dashboard", "members", "payments"
	MobileMenuOpen    bool
	SearchQuery       string
	NotificationCount int
	FlashMsg          string
	FlashKind         string // "success", "error", "warning", "info"
}
