package console

import (
	"fmt"

	"routerctl/internal/browser"
)

// Login page.
var (
	userNameField = browser.ID("tf1_userName")
	passwordField = browser.ID("tf1_password")
	loginButton   = browser.XPath(`//button[@type='submit'][@class='loginBtn'][@title='Login'][@name='button.login.users.dashboard']`)
	pageBody      = browser.XPath(`//body`)
)

// Main menu and wireless pages.
var (
	dashboardMenu = browser.ID("mainMenu1")
	networkMenu   = browser.ID("mainMenu3")
	wirelessEntry = browser.ID("tf1_network_accessPoints")
	profilesLink  = browser.XPath(`//a[@onclick="gotoLinks('profiles.html')"]`)
	editMenu      = browser.ID("editMenu")
	enableMenu    = browser.ID("enableMenu")
	disableMenu   = browser.ID("disableMenu")
)

// Profile editor dialog.
var (
	dialogTitle       = browser.XPath(`//*[@id="tf1_dialog"]/div[1]/h1`)
	profileNameText   = browser.XPath(`//*[@id="tf1_txtProfName_div"]/p`)
	passphraseField   = browser.ID("tf1_txtWPAPasswd")
	passphraseConfirm = browser.ID("tf1_txtWPACnfPasswd")
	dialogSaveButton  = browser.XPath(`//*[@id="tf1_dialog"]/div[3]/input[2]`)
	statusMessage     = browser.CSS(`#main > div.msgInfo`)
)

// Texts the console shows on success.
const (
	profileDialogHeading = "Wireless Profiles Configuration"
	operationSucceeded   = "Operation succeeded"
)

// Logout.
var (
	loggedInUserLabel = browser.ID("lblLoggedinUser")
	logoutAnchor      = browser.ID("tf1_logoutAnchor")
	logoutConfirm     = browser.XPath(`//*[@id="tf1_logOutContent"]/div/a[2]`)
	loginButtonLabel  = browser.XPath(`/html/body/div[1]/div/div/div[2]/form/div/div[5]/button`)
)

// profileRow is the first cell of the channel's row in the profiles table,
// the target of the context menu.
func profileRow(channel int) browser.Locator {
	return browser.XPath(fmt.Sprintf(`//tbody/tr[@id="%d"]/td[1]`, channel))
}

// channelStatusCell is the cell whose class list shows whether the channel
// is enabled.
func channelStatusCell(channel int) browser.Locator {
	return browser.XPath(fmt.Sprintf(`//*[@id="%d"]/td[1]`, channel))
}
