package connectors

import (
	"net/url"
	"regexp"
	"strings"
)

// Input validation shared by the adapter families. Every Search validates
// before any network traffic happens, so garbage input never burns an
// upstream quota.

var (
	domainRE   = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)
	emailRE    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRE    = regexp.MustCompile(`^\+?[0-9]{1,3}[-.\s]?[0-9]{1,14}$`)
	usernameRE = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)
)

func validDomain(s string) bool {
	return s != "" && len(s) <= 253 && domainRE.MatchString(s)
}

func validEmail(s string) bool {
	return s != "" && emailRE.MatchString(s)
}

func validPhone(s string) bool {
	return s != "" && phoneRE.MatchString(strings.TrimSpace(s))
}

func validUsername(s string) bool {
	return s != "" && len(s) <= 30 && usernameRE.MatchString(s)
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// fillTemplate substitutes {name} placeholders in an endpoint template.
func fillTemplate(template string, vars map[string]string) string {
	out := template
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{"+k+"}", url.PathEscape(v))
	}
	return out
}
