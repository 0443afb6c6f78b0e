package signals

// Known business type identifiers
const (
	BusinessTypeEcommerce   = "ecommerce"
	BusinessTypeService     = "service"
	BusinessTypeSaaS        = "saas"
	BusinessTypeContent     = "content"
	BusinessTypeAgency      = "agency"
	BusinessTypeMembership  = "membership"
	BusinessTypeMarketplace = "marketplace"
	BusinessTypeLocal       = "local"
	BusinessTypeAffiliate   = "affiliate"
	BusinessTypeEducation   = "education"
	BusinessTypeNonprofit   = "nonprofit"
	BusinessTypeOther       = "other"
)

// BusinessTypes lists every recognized business type identifier
var BusinessTypes = []string{
	BusinessTypeEcommerce,
	BusinessTypeService,
	BusinessTypeSaaS,
	BusinessTypeContent,
	BusinessTypeAgency,
	BusinessTypeMembership,
	BusinessTypeMarketplace,
	BusinessTypeLocal,
	BusinessTypeAffiliate,
	BusinessTypeEducation,
	BusinessTypeNonprofit,
	BusinessTypeOther,
}

// IsKnownBusinessType reports whether t is a recognized identifier
func IsKnownBusinessType(t string) bool {
	for _, known := range BusinessTypes {
		if known == t {
			return true
		}
	}
	return false
}

// typeDetector pairs a business type with the content markers that
// suggest it. Detectors are checked in order; first match wins.
type typeDetector struct {
	businessType string
	markers      []string
}

// Ordering matters: more specific vocabularies come before generic ones
// so "online course" classifies as education rather than content.
var typeDetectors = []typeDetector{
	{BusinessTypeSaaS, []string{"free trial", "start your trial", "per month", "software", "dashboard", "api access", "integrations"}},
	{BusinessTypeMarketplace, []string{"sellers", "buyers", "list your", "marketplace", "commission"}},
	{BusinessTypeEcommerce, []string{"add to cart", "checkout", "shop now", "free shipping", "in stock", "product"}},
	{BusinessTypeEducation, []string{"course", "curriculum", "lesson", "enroll", "certification", "students"}},
	{BusinessTypeMembership, []string{"membership", "members only", "join now", "community access"}},
	{BusinessTypeAgency, []string{"our clients", "case studies", "portfolio", "agency", "campaign"}},
	{BusinessTypeNonprofit, []string{"donate", "donation", "charity", "nonprofit", "volunteer"}},
	{BusinessTypeAffiliate, []string{"affiliate", "review", "best picks", "comparison", "we may earn"}},
	{BusinessTypeLocal, []string{"visit us", "opening hours", "directions", "near you", "book an appointment"}},
	{BusinessTypeContent, []string{"blog", "newsletter", "subscribe", "latest posts", "podcast"}},
	{BusinessTypeService, []string{"consultation", "get a quote", "our services", "hire us"}},
}
