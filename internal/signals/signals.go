package signals

import "context"

// Signals holds the raw facts about a business that the scoring rules
// consume. Every field is an opaque measurement; interpretation happens
// in the scoring package.
type Signals struct {
	// Development
	ValueCreationClear  bool `json:"value_creation_clear"`
	EconomicValueCount  int  `json:"economic_value_count"`
	DaysSinceLastUpdate int  `json:"days_since_last_update"`
	HasPrototype        bool `json:"has_prototype"`

	// Marketing
	SEOScore         int  `json:"seo_score"`
	ContentFrequency int  `json:"content_frequency"`
	HasEmailCapture  bool `json:"has_email_capture"`
	SocialProofScore int  `json:"social_proof_score"`

	// Sales
	TrustScore         int  `json:"trust_score"`
	PricingTransparent bool `json:"pricing_transparent"`
	CallToActionScore  int  `json:"call_to_action_score"`
	HasRiskReversal    bool `json:"has_risk_reversal"`
	BarriersScore      int  `json:"barriers_score"`

	// Delivery
	HasDocumentedSystems bool `json:"has_documented_systems"`
	ExpectationScore     int  `json:"expectation_score"`
	ScalabilityScore     int  `json:"scalability_score"`
	ValueStreamScore     int  `json:"value_stream_score"`

	// Accounting
	ValueCaptureScore  int `json:"value_capture_score"`
	RevenueStreamCount int `json:"revenue_stream_count"`
	ProfitMarginScore  int `json:"profit_margin_score"`
	LeverageScore      int `json:"leverage_score"`
}

// Source produces signals for a business. Implementations may crawl a
// live site, read fixtures, or replay a stored snapshot.
type Source interface {
	Collect(ctx context.Context) (*Signals, error)
	DetectBusinessType(ctx context.Context) (string, error)
}

// StaticSource returns a fixed set of signals. Used for offline runs
// and tests.
type StaticSource struct {
	Signals      Signals
	BusinessType string
}

// Collect returns the configured signals
func (s *StaticSource) Collect(_ context.Context) (*Signals, error) {
	out := s.Signals
	return &out, nil
}

// DetectBusinessType returns the configured business type
func (s *StaticSource) DetectBusinessType(_ context.Context) (string, error) {
	if s.BusinessType == "" {
		return BusinessTypeOther, nil
	}
	return s.BusinessType, nil
}
