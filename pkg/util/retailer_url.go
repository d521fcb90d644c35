package util

import (
	"net"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnknownRetailerName name returned when a product URL cannot be parsed
const UnknownRetailerName = "Unknown Retailer"

// hostLabelsToSkip generic labels skipped when picking the retailer name
var hostLabelsToSkip = map[string]bool{
	"www": true,
	"com": true,
	"co":  true,
	"net": true,
}

// RetailerIdentity retailer name and website derived from a product URL
type RetailerIdentity struct {
	Name    string
	Website string
	// OK is false when the URL was not absolute and the sentinel identity was returned
	OK bool
}

// ClassifyRetailerURL derives a retailer identity from a product page URL.
//
// The name is the first host label that is not www/com/co/net, capitalized;
// the website is the URL origin. Multi-part TLDs (amazon.co.uk picks "Amazon",
// but shop.example.org picks "Shop") and IDNs are not special-cased.
// Empty labels from doubled dots are skipped along with www/com/co/net.
func ClassifyRetailerURL(raw string) RetailerIdentity {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return RetailerIdentity{Name: UnknownRetailerName, Website: raw}
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return RetailerIdentity{Name: UnknownRetailerName, Website: raw}
	}

	labels := strings.Split(host, ".")
	main := labels[0]
	for _, label := range labels {
		if label != "" && !hostLabelsToSkip[label] {
			main = label
			break
		}
	}

	return RetailerIdentity{
		Name:    capitalize(main),
		Website: origin(u, host),
		OK:      true,
	}
}

// IsAbsoluteURL reports whether raw parses with both a scheme and a host
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.Scheme != "" && u.Host != ""
}

func origin(u *url.URL, host string) string {
	scheme := strings.ToLower(u.Scheme)
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if strings.Contains(host, ":") {
		// IPv6 literal
		host = "[" + host + "]"
	}
	if port != "" {
		return scheme + "://" + net.JoinHostPort(strings.Trim(host, "[]"), port)
	}
	return scheme + "://" + host
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
