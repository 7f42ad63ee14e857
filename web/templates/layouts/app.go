package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Document wraps body in the shared <html> skeleton.
func Document(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(w)
		h.Rawf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>%s · Gym Dashboard</title>`+
			`<link rel="stylesheet" href="/static/app.css"></head><body>`, title)
		if err := h.Err(); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.Raw(`</body></html>`)
		return h.Err()
	})
}

// AppLayout renders the signed-in shell: sidebar, header, and the selected page.
func AppLayout(d AppLayoutData, page templ.Component) templ.Component {
	shell := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(w)
		h.Raw(`<div class="app">`)
		if d.MobileMenuOpen {
			h.Raw(`<form method="post" action="/menu/close" class="overlay"><button aria-label="Close menu"></button></form>`)
		}

		sidebarClass := "sidebar"
		if d.MobileMenuOpen {
			sidebarClass += " open"
		}
		h.Rawf(`<nav class="%s"><div class="brand">%s</div><ul>`, sidebarClass, d.GymName)
		for _, item := range d.Nav {
			cls := ""
			if item.Page == d.ActiveNav {
				cls = "active"
			}
			h.Rawf(`<li class="%s"><form method="post" action="/navigate">`+
				`<button name="page" value="%s">%s</button></form></li>`, cls, item.Page, item.Label)
		}
		h.Raw(`</ul><form method="post" action="/logout"><button class="logout">Log out</button></form></nav>`)

		h.Raw(`<div class="content"><header>`)
		h.Raw(`<form method="post" action="/menu/toggle" class="menu-toggle"><button aria-label="Menu">☰</button></form>`)
		h.Rawf(`<form method="post" action="/search" class="search">`+
			`<input type="search" name="q" value="%s" placeholder="Search members, payments, plans"></form>`, d.SearchQuery)
		h.Raw(`<form method="post" action="/commands/navigateToReminders" class="bell"><button aria-label="Reminders">🔔`)
		if d.NotificationCount > 0 {
			h.Rawf(`<span class="badge">%d</span>`, d.NotificationCount)
		}
		h.Raw(`</button></form>`)
		h.Rawf(`<div class="user"><strong>%s</strong><span>%s</span></div></header>`, d.OwnerName, d.GymName)

		if d.FlashMsg != "" {
			h.Rawf(`<div class="flash flash-%s">%s</div>`, d.FlashKind, d.FlashMsg)
		}
		h.Raw(`<main>`)
		if err := h.Err(); err != nil {
			return err
		}
		if err := page.Render(ctx, w); err != nil {
			return err
		}
		h.Raw(`</main></div></div><script src="/static/app.js" defer></script>`)
		return h.Err()
	})
	return Document(d.Title, shell)
}
