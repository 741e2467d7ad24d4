package service

import (
	"encoding/xml"
	"log/slog"
	"strings"
	"time"

	"github.com/mochitomo/mochitomo/internal/model"
	"github.com/mochitomo/mochitomo/internal/navigation"
)

// publicRoutes are the pages worth indexing. The result page is per visit
// and left out.
var publicRoutes = []struct {
	Name       string
	Priority   string
	ChangeFreq string
}{
	{navigation.Home, "1.0", "monthly"},
	{navigation.GoalSetting, "0.8", "monthly"},
	{navigation.Help, "0.5", "monthly"},
}

type SitemapService struct {
	helpService *HelpService
	baseURL     string
	now         func() time.Time
}

func NewSitemapService(helpService *HelpService, baseURL string) *SitemapService {
	return &SitemapService{
		helpService: helpService,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		now:         time.Now,
	}
}

// GenerateSitemap renders the sitemap.xml document.
func (s *SitemapService) GenerateSitemap() ([]byte, error) {
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]model.SitemapURL, 0, len(publicRoutes)),
	}

	today := s.now().Format(model.DateLayout)
	for _, route := range publicRoutes {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + navigation.Path(route.Name),
			LastMod:    s.lastMod(route.Name, today),
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return []byte(xml.Header + string(output)), nil
}

// Robots renders robots.txt pointing at the sitemap.
func (s *SitemapService) Robots() []byte {
	return []byte("User-agent: *\nAllow: /\nDisallow: " + navigation.Path(navigation.GoalResult) + "\nSitemap: " + s.baseURL + "/sitemap.xml\n")
}

func (s *SitemapService) lastMod(name, fallback string) string {
	if name != navigation.Help {
		return fallback
	}
	page, err := s.helpService.Page()
	if err != nil {
		slog.Warn("failed to load help page for sitemap", "error", err)
		return fallback
	}
	return page.UpdatedAt.Format(model.DateLayout)
}
