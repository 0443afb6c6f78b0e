package signals

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/commercecopilot/atomic-analyzer/internal/config"
)

const contentCacheKey = "site_content"

// Marker vocabularies used to sniff signals out of page content. These
// mirror the checks the analysis rubric expects: presence counts, not
// semantic understanding.
var (
	valueMarkers = []string{
		"we help", "helps you", "so you can", "save time", "save money",
		"solve", "solution", "benefit", "transform", "results",
	}
	economicValueMarkers = []string{
		"efficiency", "speed", "fast", "reliable", "easy to use",
		"flexible", "status", "premium", "beautiful", "peace of mind",
		"affordable", "cost",
	}
	prototypeMarkers = []string{
		"free trial", "demo", "sample", "beta", "try it", "preview",
	}
	emailCaptureMarkers = []string{
		"type=\"email\"", "type='email'", "newsletter", "subscribe",
		"join our list", "opt-in", "get updates",
	}
	socialProofMarkers = []string{
		"testimonial", "review", "trusted by", "customers", "rating",
		"stars", "as seen in", "case study",
	}
	ctaMarkers = []string{
		"buy now", "sign up", "get started", "subscribe", "contact us",
		"book now", "add to cart", "start free", "learn more", "join now",
	}
	riskReversalMarkers = []string{
		"guarantee", "money-back", "money back", "refund", "risk-free",
		"no questions asked",
	}
	barrierMarkers = []string{
		"account required", "login to purchase", "request access",
		"captcha", "call for pricing", "contact for quote",
	}
	systemsMarkers = []string{
		"faq", "documentation", "help center", "knowledge base",
		"support portal", "how it works",
	}
	expectationMarkers = []string{
		"what to expect", "how it works", "timeline", "delivery time",
		"shipping information", "next steps", "onboarding",
	}
	scalabilityMarkers = []string{
		"instant access", "download", "automated", "self-service",
		"api", "unlimited",
	}
	valueStreamMarkers = []string{
		"step 1", "step 2", "our process", "how we work", "workflow",
		"from order to delivery", "onboarding",
	}
	valueCaptureMarkers = []string{
		"checkout", "pricing", "buy", "subscribe", "order now", "invoice",
	}
	revenueStreamMarkers = []string{
		"products", "services", "subscription", "membership", "courses",
		"consulting", "affiliate", "advertising", "sponsorship",
	}
	digitalDeliveryMarkers = []string{
		"download", "instant access", "online course", "software",
		"digital",
	}
	physicalDeliveryMarkers = []string{
		"shipping", "delivery address", "warehouse", "in stock",
	}
	leverageMarkers = []string{
		"automated", "scale", "recurring", "passive", "template",
		"productized",
	}
)

var datePattern = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)

// SiteSource derives signals by fetching and sniffing site content.
// Fetched content is cached so a full analysis does a single request.
type SiteSource struct {
	cfg    config.SiteConfig
	client *resty.Client
	cache  *gocache.Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewSiteSource creates a site-backed signal source
func NewSiteSource(cfg config.SiteConfig, logger *slog.Logger) *SiteSource {
	client := resty.New().
		SetTimeout(cfg.FetchTimeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &SiteSource{
		cfg:    cfg,
		client: client,
		cache:  gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger: logger,
		now:    time.Now,
	}
}

type siteContent struct {
	body         string
	lastModified time.Time
	tls          bool
}

func (s *SiteSource) fetch(ctx context.Context) (*siteContent, error) {
	if cached, ok := s.cache.Get(contentCacheKey); ok {
		return cached.(*siteContent), nil
	}

	resp, err := s.client.R().SetContext(ctx).Get(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch site content: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("site returned status %d", resp.StatusCode())
	}

	content := &siteContent{
		body: strings.ToLower(string(resp.Body())),
		tls:  strings.HasPrefix(strings.ToLower(s.cfg.URL), "https://"),
	}
	if lm := resp.Header().Get("Last-Modified"); lm != "" {
		if t, err := time.Parse(time.RFC1123, lm); err == nil {
			content.lastModified = t
		}
	}

	s.cache.Set(contentCacheKey, content, gocache.DefaultExpiration)
	s.logger.Debug("Fetched site content", "url", s.cfg.URL, "bytes", len(content.body))
	return content, nil
}

// Collect fetches the site and derives the full signal set
func (s *SiteSource) Collect(ctx context.Context) (*Signals, error) {
	content, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	body := content.body

	sig := &Signals{
		ValueCreationClear:  countMarkers(body, valueMarkers) >= 2,
		EconomicValueCount:  countMarkers(body, economicValueMarkers),
		DaysSinceLastUpdate: s.daysSinceUpdate(content),
		HasPrototype:        hasAny(body, prototypeMarkers),

		SEOScore:         seoScore(body),
		ContentFrequency: contentFrequency(body, s.now()),
		HasEmailCapture:  hasAny(body, emailCaptureMarkers),
		SocialProofScore: clampScore(countMarkers(body, socialProofMarkers) * 20),

		TrustScore:         trustScore(body, content.tls),
		PricingTransparent: pricingTransparent(body),
		CallToActionScore:  clampScore(countMarkers(body, ctaMarkers) * 20),
		HasRiskReversal:    hasAny(body, riskReversalMarkers),
		BarriersScore:      clampScore(100 - countMarkers(body, barrierMarkers)*20),

		HasDocumentedSystems: hasAny(body, systemsMarkers),
		ExpectationScore:     clampScore(countMarkers(body, expectationMarkers) * 25),
		ScalabilityScore:     clampScore(countMarkers(body, scalabilityMarkers) * 25),
		ValueStreamScore:     clampScore(countMarkers(body, valueStreamMarkers) * 25),

		ValueCaptureScore:  clampScore(countMarkers(body, valueCaptureMarkers) * 25),
		RevenueStreamCount: countMarkers(body, revenueStreamMarkers),
		ProfitMarginScore:  profitMarginScore(body),
		LeverageScore:      clampScore(countMarkers(body, leverageMarkers) * 25),
	}

	return sig, nil
}

// DetectBusinessType classifies the site from its content. The
// configured type, when set, always wins over detection.
func (s *SiteSource) DetectBusinessType(ctx context.Context) (string, error) {
	if s.cfg.BusinessType != "" && IsKnownBusinessType(s.cfg.BusinessType) {
		return s.cfg.BusinessType, nil
	}

	content, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	best := BusinessTypeOther
	bestHits := 0
	for _, d := range typeDetectors {
		hits := countMarkers(content.body, d.markers)
		if hits >= 2 && hits > bestHits {
			best = d.businessType
			bestHits = hits
		}
	}
	return best, nil
}

// daysSinceUpdate prefers in-content dates over the Last-Modified
// header; an unreadable site counts as stale.
func (s *SiteSource) daysSinceUpdate(content *siteContent) int {
	latest := content.lastModified
	for _, m := range datePattern.FindAllString(content.body, -1) {
		if t, err := time.Parse("2006-01-02", m); err == nil && t.After(latest) && !t.After(s.now()) {
			latest = t
		}
	}
	if latest.IsZero() {
		return 31
	}
	days := int(s.now().Sub(latest).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days
}

func seoScore(body string) int {
	score := 0
	if strings.Contains(body, "<title>") {
		score += 20
	}
	if strings.Contains(body, "name=\"description\"") || strings.Contains(body, "name='description'") {
		score += 20
	}
	if strings.Contains(body, "<h1") {
		score += 15
	}
	if strings.Contains(body, "alt=") {
		score += 15
	}
	if strings.Contains(body, "rel=\"canonical\"") || strings.Contains(body, "rel='canonical'") {
		score += 15
	}
	if strings.Contains(body, "og:title") || strings.Contains(body, "og:description") {
		score += 15
	}
	return clampScore(score)
}

func trustScore(body string, tls bool) int {
	score := 0
	if tls {
		score += 25
	}
	for marker, points := range map[string]int{
		"contact":        15,
		"about":          15,
		"privacy policy": 15,
		"testimonial":    15,
		"guarantee":      15,
	} {
		if strings.Contains(body, marker) {
			score += points
		}
	}
	return clampScore(score)
}

var pricePattern = regexp.MustCompile(`[$€£]\s?\d`)

func pricingTransparent(body string) bool {
	return pricePattern.MatchString(body) || strings.Contains(body, "pricing")
}

func profitMarginScore(body string) int {
	switch {
	case hasAny(body, digitalDeliveryMarkers):
		return 80
	case hasAny(body, physicalDeliveryMarkers):
		return 50
	default:
		return 60
	}
}

// contentFrequency counts dated entries from the last 30 days as a
// posts-per-month proxy.
func contentFrequency(body string, now time.Time) int {
	cutoff := now.AddDate(0, 0, -30)
	count := 0
	for _, m := range datePattern.FindAllString(body, -1) {
		if t, err := time.Parse("2006-01-02", m); err == nil && t.After(cutoff) && !t.After(now) {
			count++
		}
	}
	return count
}

func countMarkers(body string, markers []string) int {
	count := 0
	for _, m := range markers {
		if strings.Contains(body, m) {
			count++
		}
	}
	return count
}

func hasAny(body string, markers []string) bool {
	return countMarkers(body, markers) > 0
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
