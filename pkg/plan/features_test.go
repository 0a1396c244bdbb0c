package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanUseFeature(t *testing.T) {
	t.Parallel()

	assert.False(t, CanUseFeature(FreePlan, PaidCourses))
	assert.True(t, CanUseFeature(ProPlan, Certificates))
	assert.False(t, CanUseFeature(ProPlan, TeamReports))
	assert.True(t, CanUseFeature(TeamPlan, TeamReports))
	assert.True(t, CanUseFeature(BusinessPlan, PrioritySupport))
	assert.False(t, CanUseFeature(PlanType("UNKNOWN"), PaidCourses))
}

func TestDeterminePlanType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ProPlan, DeterminePlanType("price_courseloft_pro_monthly"))
	assert.Equal(t, TeamPlan, DeterminePlanType("price_courseloft_team_monthly"))
	assert.Equal(t, FreePlan, DeterminePlanType("price_unknown"))
}
