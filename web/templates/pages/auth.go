package pages

import (
	"context"
	"io"

	"gym-dashboard/web/templates/layouts"

	"github.com/a-h/templ"
)

// Login renders the sign-in form. errMsg is shown above the form when non-empty.
func Login(errMsg, email string) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := layouts.NewHTML(w)
		h.Raw(`<div class="loading"><form method="post" action="/login" class="card login">`)
		h.Raw(`<h1>Sign in</h1>`)
		if errMsg != "" {
			h.Rawf(`<p class="form-error">%s</p>`, errMsg)
		}
		h.Rawf(`<label>Email<input type="email" name="email" value="%s" required autofocus></label>`, email)
		h.Raw(`<label>Password<input type="password" name="password" required></label>`)
		h.Raw(`<button type="submit">Sign in</button></form></div>`)
		return h.Err()
	})
	return layouts.Document("Sign in", body)
}

// Loading is the placeholder shown while the session check is still running.
// It reloads itself so the browser lands on the resolved view.
func Loading() templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := layouts.NewHTML(w)
		h.Raw(`<meta http-equiv="refresh" content="1">`)
		h.Raw(`<div class="loading"><div class="spinner"></div><p>Loading...</p></div>`)
		return h.Err()
	})
	return layouts.Document("Loading", body)
}
