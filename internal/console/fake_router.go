package console

import (
	"routerctl/internal/browser"
)

// FakeRouter scripts a [browser.FakeSession] to behave like the router
// console, for tests that run whole workflows without Chrome.
//
// The zero value of each Break* field gives a console that confirms every
// operation.
type FakeRouter struct {
	// Channel is the row id of the profile under test.
	Channel int

	// ProfileName is what the editor dialog shows after "Edit", e.g. "Jio_7".
	ProfileName string

	// Enabled is the current channel state; toggles update it.
	Enabled bool

	// EnabledClass is the class list of an enabled row's first cell.
	EnabledClass string

	// BreakLogin keeps the page off the dashboard after submit.
	BreakLogin bool

	// BreakSave never shows the success message after saving.
	BreakSave bool

	// BreakToggle never shows the success message after enable/disable.
	BreakToggle bool

	// BreakLogout never shows the login form after confirming logout.
	BreakLogout bool

	// Passphrase and Confirm hold what was typed into the editor.
	Passphrase string
	Confirm    string

	// Session is the scripted page.
	Session *browser.FakeSession
}

// NewFakeRouter returns a logged-out console whose profile table holds the
// given channel, with the defaults of a stock device.
func NewFakeRouter(channel int, profileName string, enabled bool) *FakeRouter {
	r := &FakeRouter{
		Channel:      channel,
		ProfileName:  profileName,
		Enabled:      enabled,
		EnabledClass: "enableIcon sorting_1",
		Session:      browser.NewFakeSession(),
	}
	r.Session.OnNavigate = func(s *browser.FakeSession, url string) { r.showLogin() }
	return r
}

func (r *FakeRouter) showLogin() {
	s := r.Session
	s.Put(pageBody, &browser.FakeElement{Text: "Login"})
	s.Put(userNameField, &browser.FakeElement{})
	s.Put(passwordField, &browser.FakeElement{})
	s.Put(loginButton, &browser.FakeElement{Text: "Login", OnClick: func(*browser.FakeSession) {
		if !r.BreakLogin {
			r.showDashboard()
		}
	}})
	s.Put(loginButtonLabel, &browser.FakeElement{Text: "Login"})
}

func (r *FakeRouter) showDashboard() {
	s := r.Session
	s.Remove(loginButtonLabel)
	s.Put(pageBody, &browser.FakeElement{Text: "Dashboard"})
	s.Put(dashboardMenu, &browser.FakeElement{})
	s.Put(wirelessEntry, &browser.FakeElement{Hidden: true, OnClick: func(*browser.FakeSession) { r.showWireless() }})
	s.Put(networkMenu, &browser.FakeElement{OnClick: func(fs *browser.FakeSession) {
		fs.Remove(statusMessage)
		fs.Get(wirelessEntry).Hidden = false
	}})
	s.Put(loggedInUserLabel, &browser.FakeElement{Text: "admin"})
	s.Put(logoutAnchor, &browser.FakeElement{OnClick: func(fs *browser.FakeSession) {
		fs.Put(logoutConfirm, &browser.FakeElement{OnClick: func(fs *browser.FakeSession) {
			if !r.BreakLogout {
				r.showLogin()
			}
		}})
	}})
}

func (r *FakeRouter) showWireless() {
	s := r.Session
	s.Put(profilesLink, &browser.FakeElement{OnClick: func(*browser.FakeSession) { r.showProfiles() }})
	r.putStatusCell()
}

func (r *FakeRouter) putStatusCell() {
	class := "odd"
	if r.Enabled {
		class = r.EnabledClass
	}
	cell := &browser.FakeElement{Attrs: map[string]string{"class": class}}
	cell.OnContextClick = func(fs *browser.FakeSession) {
		fs.Put(enableMenu, &browser.FakeElement{OnClick: func(fs *browser.FakeSession) { r.toggle(true) }})
		fs.Put(disableMenu, &browser.FakeElement{OnClick: func(fs *browser.FakeSession) { r.toggle(false) }})
	}
	r.Session.Put(channelStatusCell(r.Channel), cell)
}

func (r *FakeRouter) toggle(enable bool) {
	if r.BreakToggle {
		return
	}
	r.Enabled = enable
	r.putStatusCell()
	r.Session.Put(statusMessage, &browser.FakeElement{Text: operationSucceeded})
}

func (r *FakeRouter) showProfiles() {
	s := r.Session
	s.Put(profileRow(r.Channel), &browser.FakeElement{OnContextClick: func(fs *browser.FakeSession) {
		fs.Put(editMenu, &browser.FakeElement{OnClick: func(*browser.FakeSession) { r.showEditor() }})
	}})
}

func (r *FakeRouter) showEditor() {
	s := r.Session
	s.Put(dialogTitle, &browser.FakeElement{Text: profileDialogHeading})
	s.Put(profileNameText, &browser.FakeElement{Text: r.ProfileName})
	s.Put(passphraseField, &browser.FakeElement{})
	s.Put(passphraseConfirm, &browser.FakeElement{})
	s.Put(dialogSaveButton, &browser.FakeElement{OnClick: func(fs *browser.FakeSession) {
		r.Passphrase = fs.Get(passphraseField).Value
		r.Confirm = fs.Get(passphraseConfirm).Value
		if !r.BreakSave {
			fs.Put(statusMessage, &browser.FakeElement{Text: operationSucceeded})
		}
	}})
}
