package services

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"marinehub.app/configs/configslog"
	"marinehub.app/pkg/pinger"
	"marinehub.app/repositories"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// staticPages are listed in every sitemap.
var staticPages = []struct {
	Path       string
	ChangeFreq string
	Priority   string
}{
	{"/", "daily", "1.0"},
	{"/jobs", "hourly", "0.9"},
	{"/superintendents", "daily", "0.8"},
	{"/blog", "daily", "0.8"},
	{"/ports", "monthly", "0.5"},
	{"/about", "monthly", "0.3"},
	{"/contact", "monthly", "0.3"},
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SitemapPinger is satisfied by *pinger.Pinger.
type SitemapPinger interface {
	Ping(ctx context.Context, sitemapURL string) []pinger.Result
}

// ISitemapService renders sitemap.xml and robots.txt.
type ISitemapService interface {
	RobotsTxt() string
	SitemapXML(ctx context.Context) ([]byte, error)
	Ping(ctx context.Context) []pinger.Result
}

// SitemapService implements ISitemapService.
type SitemapService struct {
	blog    repositories.IBlogRepository
	jobs    repositories.IJobRepository
	pinger  SitemapPinger
	baseURL string
}

// NewSitemapService creates a SitemapService for the site at baseURL.
func NewSitemapService(blog repositories.IBlogRepository, jobs repositories.IJobRepository, p SitemapPinger, baseURL string) ISitemapService {
	return &SitemapService{blog: blog, jobs: jobs, pinger: p, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *SitemapService) sitemapURL() string { return s.baseURL + "/sitemap.xml" }

// RobotsTxt keeps crawlers out of the API and admin panel.
func (s *SitemapService) RobotsTxt() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /admin\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + s.sitemapURL() + "\n")
	return b.String()
}

func lastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// SitemapXML lists static pages, published posts and open jobs.
func (s *SitemapService) SitemapXML(ctx context.Context) ([]byte, error) {
	set := sitemapURLSet{XMLNS: sitemapNamespace}
	for _, page := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: s.baseURL + page.Path, ChangeFreq: page.ChangeFreq, Priority: page.Priority})
	}

	posts, err := s.blog.ListPublishedForSitemap(ctx)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.baseURL + "/blog/" + post.Slug,
			LastMod:    lastMod(post.UpdatedAt),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	jobs, err := s.jobs.ListOpenForSitemap(ctx)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/jobs/%d", s.baseURL, job.ID),
			LastMod:    lastMod(job.UpdatedAt),
			ChangeFreq: "daily",
			Priority:   "0.6",
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Ping announces the sitemap URL to the configured search engines.
func (s *SitemapService) Ping(ctx context.Context) []pinger.Result {
	results := s.pinger.Ping(ctx, s.sitemapURL())
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	configslog.SLog.Infof("Sitemap pinged: %d endpoints, %d failed", len(results), failed)
	return results
}

var _ ISitemapService = (*SitemapService)(nil)
