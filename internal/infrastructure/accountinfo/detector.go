// Package accountinfo reads the signed-in identity from account-chooser markup.
package accountinfo

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/entity"
	domainurl "github.com/bnema/webdock/internal/domain/url"
)

var (
	emailRE = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// "Google Account: Jane Doe  (jane@example.com)"
	googleLabelRE = regexp.MustCompile(`^Google Account:\s*(.*?)\s*\(([^)]+)\)\s*$`)
)

// extractor reads account info from one site's markup.
type extractor struct {
	hosts []string // registrable domains; empty matches every site
	fn    func(doc *goquery.Document) entity.AccountInfo
}

var extractors = []extractor{
	{hosts: []string{"google.com"}, fn: googleAccount},
	{hosts: []string{"github.com"}, fn: githubAccount},
	{fn: genericAccount},
}

// Detector implements port.AccountDetector.
type Detector struct{}

// NewDetector creates an account detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the account shown on the page, or false when none is found.
func (d *Detector) Detect(pageURL, html string) (*entity.AccountInfo, bool) {
	if strings.TrimSpace(html) == "" {
		return nil, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, false
	}

	site := domainurl.RegistrableDomain(pageURL)
	for _, ex := range extractors {
		if len(ex.hosts) > 0 && !containsHost(ex.hosts, site) {
			continue
		}
		info := ex.fn(doc)
		info.Name = strings.TrimSpace(info.Name)
		info.Email = strings.TrimSpace(info.Email)
		if info.Name != "" || info.Email != "" {
			return &info, true
		}
	}
	return nil, false
}

func containsHost(hosts []string, site string) bool {
	for _, h := range hosts {
		if h == site {
			return true
		}
	}
	return false
}

func googleAccount(doc *goquery.Document) entity.AccountInfo {
	var info entity.AccountInfo
	doc.Find(`a[aria-label^="Google Account:"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label, _ := s.Attr("aria-label")
		m := googleLabelRE.FindStringSubmatch(strings.Join(strings.Fields(label), " "))
		if m == nil {
			return true
		}
		info.Name = m[1]
		info.Email = m[2]
		return false
	})
	return info
}

func githubAccount(doc *goquery.Document) entity.AccountInfo {
	login, _ := doc.Find(`meta[name="user-login"]`).First().Attr("content")
	return entity.AccountInfo{Name: login}
}

// genericAccount looks for common data attributes used by account menus.
func genericAccount(doc *goquery.Document) entity.AccountInfo {
	var info entity.AccountInfo
	sel := doc.Find("[data-account-email], [data-user-email], [data-email]").First()
	for _, attr := range []string{"data-account-email", "data-user-email", "data-email"} {
		if v, ok := sel.Attr(attr); ok && emailRE.MatchString(v) {
			info.Email = emailRE.FindString(v)
			break
		}
	}
	nameSel := doc.Find("[data-account-name], [data-user-name]").First()
	for _, attr := range []string{"data-account-name", "data-user-name"} {
		if v, ok := nameSel.Attr(attr); ok && v != "" {
			info.Name = v
			break
		}
	}
	return info
}

var _ port.AccountDetector = (*Detector)(nil)
