package domain

// Session is the visitor's authentication state. An empty token means
// guest browsing, regardless of username: the guest login flow sets a
// synthetic username with no token, and that must never pass for real
// authentication.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func (s Session) Authenticated() bool { return s.Token != "" }
