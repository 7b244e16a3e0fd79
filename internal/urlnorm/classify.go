package urlnorm

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Classifier decides the domain relationship of discovered links relative
// to a single seed URL. It is built once per crawl session and is safe for
// concurrent use: all fields are written at construction time only.
type Classifier struct {
	seedHost          string
	registrableDomain string
	includeSubdomains bool
}

// NewClassifier derives the seed's registrable domain via the public
// suffix list. Hosts without a registrable domain (IP addresses,
// localhost) fall back to exact host comparison.
func NewClassifier(seed url.URL, includeSubdomains bool) Classifier {
	host := cleanHost(seed.Hostname())

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		registrable = host
	}

	return Classifier{
		seedHost:          host,
		registrableDomain: registrable,
		includeSubdomains: includeSubdomains,
	}
}

// Classify returns the domain relationship for the given resolved URL.
// A host equal to the seed host (www-equivalent) is internal. A strict
// subdomain of the seed's registrable domain is a subdomain, and counts
// as internal too when the classifier was built with includeSubdomains.
func (c *Classifier) Classify(u url.URL) DomainClass {
	host := cleanHost(u.Hostname())
	if host == "" {
		// relative URL that failed resolution upstream; treat as internal
		// since it can only point at the seed host
		return DomainClass{IsInternal: true}
	}

	isInternal := host == c.seedHost
	isSubdomain := !isInternal &&
		host != c.registrableDomain &&
		strings.HasSuffix(host, "."+c.registrableDomain)

	if c.includeSubdomains && isSubdomain {
		isInternal = true
	}

	return DomainClass{
		IsInternal:  isInternal,
		IsSubdomain: isSubdomain,
	}
}

// Followable reports whether a link with the given class may enter the
// crawl frontier under the session's follow rule.
func (c *Classifier) Followable(class DomainClass) bool {
	if class.IsInternal {
		return true
	}
	return c.includeSubdomains && class.IsSubdomain
}

// cleanHost lowercases the host and strips the "www." prefix so that
// www.example.com and example.com compare equal.
func cleanHost(host string) string {
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}
