package scoring

// baseOpportunities are suggested regardless of business type
var baseOpportunities = map[Department][]Opportunity{
	DepartmentDevelopment: {
		{
			Title:       "Interview five recent customers",
			Description: "Ask what job they hired the product for and what nearly stopped them buying.",
			Impact:      "high",
		},
		{
			Title:       "Run a smoke test for the next offer",
			Description: "Put up a landing page for the planned offer and measure signups before building it.",
			Impact:      "medium",
		},
	},
	DepartmentMarketing: {
		{
			Title:       "Create a lead magnet",
			Description: "Trade a genuinely useful resource for email addresses to grow the permission asset.",
			Impact:      "high",
		},
		{
			Title:       "Repurpose top content",
			Description: "Turn the best-performing piece into three more formats to multiply attention.",
			Impact:      "medium",
		},
	},
	DepartmentSales: {
		{
			Title:       "Add urgency honestly",
			Description: "Use real deadlines or limited capacity to give fence-sitters a reason to decide now.",
			Impact:      "medium",
		},
		{
			Title:       "Answer objections on the page",
			Description: "List the top five reasons people do not buy and answer each next to the call to action.",
			Impact:      "high",
		},
	},
	DepartmentDelivery: {
		{
			Title:       "Script the onboarding sequence",
			Description: "Send a fixed sequence of messages after purchase so every customer starts the same way.",
			Impact:      "medium",
		},
		{
			Title:       "Measure time to first value",
			Description: "Track how long a new customer takes to get their first win and work to shorten it.",
			Impact:      "high",
		},
	},
	DepartmentAccounting: {
		{
			Title:       "Review pricing quarterly",
			Description: "Test price increases on new customers every quarter; most businesses undercharge.",
			Impact:      "high",
		},
		{
			Title:       "Cut the bottom cost line",
			Description: "Audit recurring expenses and cancel the least valuable subscription or vendor.",
			Impact:      "low",
		},
	},
}

// typeOpportunities add business-type specific suggestions
var typeOpportunities = map[string]map[Department][]Opportunity{
	"saas": {
		DepartmentSales: {
			{
				Title:       "Offer a free trial",
				Description: "Let prospects experience the product before paying; trials convert better than demos for software.",
				Impact:      "high",
			},
		},
	},
	"service": {
		DepartmentSales: {
			{
				Title:       "Offer a paid pilot engagement",
				Description: "A small fixed-scope first project lowers the risk of hiring you for the big one.",
				Impact:      "high",
			},
		},
	},
	"ecommerce": {
		DepartmentMarketing: {
			{
				Title:       "Recover abandoned carts",
				Description: "Email shoppers who left items in the cart; recovered carts are the cheapest revenue available.",
				Impact:      "high",
			},
		},
	},
}

// OpportunitiesFor returns the opportunity list for a department,
// including any extras for the given business type.
func OpportunitiesFor(dept Department, businessType string) []Opportunity {
	out := append([]Opportunity(nil), baseOpportunities[dept]...)
	if extras, ok := typeOpportunities[businessType]; ok {
		out = append(out, extras[dept]...)
	}
	return out
}
