package main

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// supportedLocales is the copy the funnel ships in. Visitors are
// matched to the closest one for reporting.
var supportedLocales = []language.Tag{
	language.BritishEnglish, // en-GB, primary market
	language.AmericanEnglish,
	language.English,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// requestAttribution combines client-reported campaign fields with
// what the request itself reveals.
func requestAttribution(r *http.Request, req openRequest) model.Attribution {
	ua := r.UserAgent()
	return model.Attribution{
		Referrer:    req.Referrer,
		LandingPage: req.LandingPage,
		UTMSource:   req.UTMSource,
		UTMMedium:   req.UTMMedium,
		UTMCampaign: req.UTMCampaign,
		Device:      deviceFromUA(ua),
		Browser:     browserFromUA(ua),
		Locale:      matchLocale(r.Header.Get("Accept-Language")),
	}
}

// matchLocale resolves an Accept-Language header to the closest
// supported locale. Empty when the header is absent or unparseable.
func matchLocale(header string) string {
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	// Match synthesizes a tag with extension subtags; index back into
	// the supported list for the canonical form.
	_, i, _ := localeMatcher.Match(tags...)
	return supportedLocales[i].String()
}

func deviceFromUA(ua string) string {
	switch {
	case ua == "":
		return ""
	case strings.Contains(ua, "iPad") || strings.Contains(ua, "Tablet"):
		return "tablet"
	case strings.Contains(ua, "Mobile") || strings.Contains(ua, "Android") || strings.Contains(ua, "iPhone"):
		return "mobile"
	default:
		return "desktop"
	}
}

func browserFromUA(ua string) string {
	switch {
	case ua == "":
		return ""
	case strings.Contains(ua, "Edg/"):
		return "edge"
	case strings.Contains(ua, "OPR/"):
		return "opera"
	case strings.Contains(ua, "Chrome/"):
		return "chrome"
	case strings.Contains(ua, "Safari/"):
		return "safari"
	case strings.Contains(ua, "Firefox/"):
		return "firefox"
	default:
		return "other"
	}
}
