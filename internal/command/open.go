package command

import (
	"net/url"
	"regexp"
	"strings"
)

// serviceURLs maps well-known service names to their canonical URLs.
var serviceURLs = map[string]string{
	"youtube":   "https://www.youtube.com",
	"instagram": "https://www.instagram.com",
	"facebook":  "https://www.facebook.com",
	"twitter":   "https://x.com",
	"x":         "https://x.com",
	"reddit":    "https://www.reddit.com",
	"gmail":     "https://mail.google.com",
	"mail":      "https://mail.google.com",
	"linkedin":  "https://www.linkedin.com",
	"github":    "https://github.com",
	"gitlab":    "https://gitlab.com",
	"notion":    "https://www.notion.so",
	"spotify":   "https://open.spotify.com",
	"netflix":   "https://www.netflix.com",
	"whatsapp":  "https://web.whatsapp.com",
	"drive":     "https://drive.google.com",
	"calendar":  "https://calendar.google.com",
	"docs":      "https://docs.google.com",
	"sheets":    "https://sheets.google.com",
	"maps":      "https://maps.google.com",
	"amazon":    "https://www.amazon.com",
	"flipkart":  "https://www.flipkart.com",
	"wikipedia": "https://www.wikipedia.org",
}

// appRoutes are in-app views. They are checked before any URL resolution so
// "open settings" navigates instead of guessing at settings.com.
var appRoutes = []struct {
	re    *regexp.Regexp
	route string
	label string
}{
	{regexp.MustCompile(`(?i)^chat$`), "/chat", "Chat"},
	{regexp.MustCompile(`(?i)^(ai\s*)?tools$`), "/ai-tools", "AI Tools"},
	{regexp.MustCompile(`(?i)^voice$`), "/voice", "Voice"},
	{regexp.MustCompile(`(?i)^(home|dashboard)$`), "/home", "Home"},
	{regexp.MustCompile(`(?i)^notifications?$`), "/notifications", "Notifications"},
	{regexp.MustCompile(`(?i)^settings$`), "/settings", "Settings"},
	{regexp.MustCompile(`(?i)^profile$`), "/profile", "Profile"},
}

var (
	openRe     = regexp.MustCompile(`(?i)^(?:please\s+)?(?:open|launch|visit|go\s*to|navigate\s*to)\s+(.+)$`)
	leadingThe = regexp.MustCompile(`(?i)^the\s+`)
	schemeRe   = regexp.MustCompile(`(?i)^https?://`)
	hostnameRe = regexp.MustCompile(`(?i)^[\w-]+\.[\w.-]+(/.*)?$`)
	bareSlugRe = regexp.MustCompile(`^[a-z0-9-]+$`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)
)

func (it *Interpreter) tryOpen(t string) *Result {
	m := openRe.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	target := leadingThe.ReplaceAllString(strings.TrimSpace(m[1]), "")

	for _, r := range appRoutes {
		if r.re.MatchString(target) {
			it.deps.Navigate(r.route)
			return reply("Opening " + r.label + "…")
		}
	}

	dest := resolveURL(target)
	if err := it.deps.OpenURL(dest); err != nil {
		return replyf("I couldn't open %s: %v", dest, err)
	}
	return replyf("Opening %s in your browser.", dest)
}

// resolveURL turns a spoken target into something openable: explicit URLs and
// hostnames pass through, known services map to their canonical URL, a single
// word gets the .com guess, and everything else becomes a web search.
func resolveURL(target string) string {
	if schemeRe.MatchString(target) {
		return target
	}
	if hostnameRe.MatchString(target) {
		return "https://" + target
	}

	key := nonAlnumRe.ReplaceAllString(strings.ToLower(target), "")
	if u, ok := serviceURLs[key]; ok {
		return u
	}
	if key != "" && bareSlugRe.MatchString(key) {
		return "https://" + key + ".com"
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(target)
}
