package plan

type PlanType string
type Feature string

const (
	FreePlan     PlanType = "FREE"
	ProPlan      PlanType = "PRO"
	TeamPlan     PlanType = "TEAM"
	BusinessPlan PlanType = "BUSINESS"
)

const (
	PaidCourses     Feature = "paid_courses"
	Downloads       Feature = "downloads"
	Certificates    Feature = "certificates"
	TeamReports     Feature = "team_reports"
	PrioritySupport Feature = "priority_support"
)

type PlanLimits struct {
	MaxSeats        int
	AllowedFeatures map[Feature]bool
}

var PlanFeatures = map[PlanType]PlanLimits{
	FreePlan: {
		MaxSeats: 1,
		AllowedFeatures: map[Feature]bool{
			PaidCourses:     false,
			Downloads:       false,
			Certificates:    false,
			TeamReports:     false,
			PrioritySupport: false,
		},
	},
	ProPlan: {
		MaxSeats: 1,
		AllowedFeatures: map[Feature]bool{
			PaidCourses:     true,
			Downloads:       true,
			Certificates:    true,
			TeamReports:     false,
			PrioritySupport: false,
		},
	},
	TeamPlan: {
		MaxSeats: 25,
		AllowedFeatures: map[Feature]bool{
			PaidCourses:     true,
			Downloads:       true,
			Certificates:    true,
			TeamReports:     true,
			PrioritySupport: false,
		},
	},
	BusinessPlan: {
		MaxSeats: 500,
		AllowedFeatures: map[Feature]bool{
			PaidCourses:     true,
			Downloads:       true,
			Certificates:    true,
			TeamReports:     true,
			PrioritySupport: true,
		},
	},
}

// Helper functions
func CanUseFeature(plan PlanType, feature Feature) bool {
	limits, exists := PlanFeatures[plan]
	if !exists {
		return false
	}
	return limits.AllowedFeatures[feature]
}

func GetPlanLimits(plan PlanType) PlanLimits {
	return PlanFeatures[plan]
}

// DeterminePlanType maps a Stripe price to the plan it sells.
func DeterminePlanType(stripePriceID string) PlanType {
	switch stripePriceID {
	case "price_courseloft_pro_monthly":
		return ProPlan
	case "price_courseloft_team_monthly":
		return TeamPlan
	case "price_courseloft_business_monthly":
		return BusinessPlan
	default:
		return FreePlan
	}
}
