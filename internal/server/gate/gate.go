// Package gate classifies request paths and decides whether a request may
// proceed, must be sent to the login page, or must be sent home.
package gate

import (
	"path"
	"strings"
)

type Action int

const (
	Allow Action = iota
	RedirectLogin
	RedirectHome
)

func (a Action) String() string {
	switch a {
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "allow"
	}
}

type Decision struct {
	Action   Action
	Location string
}

type Rules struct {
	IgnoredPrefixes   []string
	PublicPrefixes    []string
	ProtectedPrefixes []string
	LoginPath         string
	HomePath          string
}

func DefaultRules() Rules {
	return Rules{
		IgnoredPrefixes:   []string{"/_next", "/static", "/favicon.ico", "/api", "/metrics"},
		PublicPrefixes:    []string{"/auth"},
		ProtectedPrefixes: []string{"/"},
		LoginPath:         "/auth",
		HomePath:          "/",
	}
}

// Decide evaluates the rules in a fixed order: ignored paths and files,
// login page with a session, public paths, unprotected paths, then the
// session requirement.
func (r Rules) Decide(p string, authenticated bool) Decision {
	if hasAnyPrefix(p, r.IgnoredPrefixes) || HasFileExtension(p) {
		return Decision{Action: Allow}
	}

	if authenticated && p == r.LoginPath {
		return Decision{Action: RedirectHome, Location: r.HomePath}
	}

	if hasAnyPrefix(p, r.PublicPrefixes) {
		return Decision{Action: Allow}
	}

	if !hasAnyPrefix(p, r.ProtectedPrefixes) {
		return Decision{Action: Allow}
	}

	if !authenticated {
		return Decision{Action: RedirectLogin, Location: r.LoginPath}
	}

	return Decision{Action: Allow}
}

// HasFileExtension reports whether the last path segment has a dot followed
// by at least one character.
func HasFileExtension(p string) bool {
	base := path.Base(p)
	i := strings.LastIndexByte(base, '.')
	return i >= 0 && i < len(base)-1
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
