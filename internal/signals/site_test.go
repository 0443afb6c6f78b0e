package signals

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercecopilot/atomic-analyzer/internal/config"
)

func newTestSource(t *testing.T, handler http.HandlerFunc, businessType string) *SiteSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	src := NewSiteSource(config.SiteConfig{
		URL:          server.URL,
		Name:         "Test Site",
		BusinessType: businessType,
		FetchTimeout: 5 * time.Second,
		CacheTTL:     time.Minute,
		UserAgent:    "test-agent",
	}, slog.Default())
	return src
}

func servePage(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestCollectDerivesSignals(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	page := `<html><head>
	<title>Acme</title>
	<meta name="description" content="We help small shops">
	<link rel="canonical" href="/">
	<meta property="og:title" content="Acme">
	</head><body>
	<h1>We help you save time</h1>
	<img alt="hero">
	<p>Transform your results with our easy to use, reliable, affordable solution.</p>
	<p>Start your free trial today. Try it now.</p>
	<p>Pricing starts at $29. 30-day money-back guarantee.</p>
	<p>Trusted by 500 customers. Read a testimonial or a case study.</p>
	<a href="/contact">Contact</a> <a href="/about">About</a> <a href="/privacy">Privacy policy</a>
	<form><input type="email"> Subscribe to our newsletter</form>
	<p>Posted 2024-06-10. Previously 2024-04-30 and 2023-01-05.</p>
	<p>Step 1: order. Step 2: instant access download. See our FAQ and how it works.</p>
	</body></html>`

	src := newTestSource(t, servePage(page), "")
	src.now = func() time.Time { return now }

	sig, err := src.Collect(context.Background())
	require.NoError(t, err)

	assert.True(t, sig.ValueCreationClear)
	assert.GreaterOrEqual(t, sig.EconomicValueCount, 3)
	assert.True(t, sig.HasPrototype)
	assert.Equal(t, 5, sig.DaysSinceLastUpdate)

	assert.Equal(t, 100, sig.SEOScore)
	assert.Equal(t, 1, sig.ContentFrequency)
	assert.True(t, sig.HasEmailCapture)
	assert.True(t, sig.PricingTransparent)
	assert.True(t, sig.HasRiskReversal)
	assert.True(t, sig.HasDocumentedSystems)

	// http test server, so no TLS point; all five text markers still land
	assert.Equal(t, 75, sig.TrustScore)
	assert.Equal(t, 80, sig.ProfitMarginScore)
}

func TestCollectStaleSiteWithoutDates(t *testing.T) {
	src := newTestSource(t, servePage("<html><body>hello</body></html>"), "")

	sig, err := src.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 31, sig.DaysSinceLastUpdate)
	assert.Equal(t, 0, sig.ContentFrequency)
	assert.False(t, sig.ValueCreationClear)
	assert.Equal(t, 100, sig.BarriersScore)
}

func TestCollectUsesLastModifiedHeader(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Sat, 01 Jun 2024 00:00:00 UTC")
		w.Write([]byte("<html>no dates here</html>"))
	}, "")
	src.now = func() time.Time { return now }

	sig, err := src.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 14, sig.DaysSinceLastUpdate)
}

func TestFetchIsCachedAcrossCalls(t *testing.T) {
	var requests atomic.Int32
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte("<html>add to cart checkout shop now</html>"))
	}, "")

	_, err := src.Collect(context.Background())
	require.NoError(t, err)
	_, err = src.DetectBusinessType(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), requests.Load())
}

func TestCollectErrorStatus(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, "")

	_, err := src.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestDetectBusinessType(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		body       string
		want       string
	}{
		{
			name: "ecommerce markers",
			body: "add to cart, checkout available, free shipping on all orders",
			want: BusinessTypeEcommerce,
		},
		{
			name: "saas beats generic content",
			body: "start your free trial, $10 per month, api access, subscribe to our blog",
			want: BusinessTypeSaaS,
		},
		{
			name: "education",
			body: "enroll in the course, full curriculum, 2000 students",
			want: BusinessTypeEducation,
		},
		{
			name: "one marker is not enough",
			body: "we have a blog",
			want: BusinessTypeOther,
		},
		{
			name:       "configured type wins over content",
			configured: BusinessTypeNonprofit,
			body:       "add to cart, checkout, free shipping",
			want:       BusinessTypeNonprofit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(t, servePage(tt.body), tt.configured)
			got, err := src.DetectBusinessType(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSEOScoreComponents(t *testing.T) {
	assert.Equal(t, 0, seoScore("plain text"))
	assert.Equal(t, 20, seoScore("<title>x</title>"))
	assert.Equal(t, 35, seoScore("<title>x</title><h1>y</h1>"))
	full := `<title>x</title><meta name="description"><h1>y</h1><img alt="z"><link rel="canonical"><meta property="og:title">`
	assert.Equal(t, 100, seoScore(full))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-5))
	assert.Equal(t, 40, clampScore(40))
	assert.Equal(t, 100, clampScore(240))
}

func TestIsKnownBusinessType(t *testing.T) {
	for _, known := range BusinessTypes {
		assert.True(t, IsKnownBusinessType(known), known)
	}
	assert.False(t, IsKnownBusinessType("dropshipping"))
}

func TestStaticSourceDefaults(t *testing.T) {
	src := &StaticSource{}
	businessType, err := src.DetectBusinessType(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BusinessTypeOther, businessType)
}
