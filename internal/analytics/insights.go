package analytics

import (
	"fmt"
	"sort"

	"github.com/mcortez/admetrics/internal/models"
)

// GenerateInsights applies a fixed rule set to an analytics result.
// The rules are independent; none suppresses another. Output is
// deterministic for the same input, and empty analytics yields an
// empty slice.
func GenerateInsights(a models.AnalyticsResult) []models.Insight {
	insights := []models.Insight{}

	// Best-performing platform by ROAS. Keys are scanned in sorted
	// order so ties resolve the same way every run.
	if len(a.ByPlatform) > 0 {
		platforms := make([]string, 0, len(a.ByPlatform))
		for p := range a.ByPlatform {
			platforms = append(platforms, p)
		}
		sort.Strings(platforms)
		best := platforms[0]
		for _, p := range platforms[1:] {
			if a.ByPlatform[p].ROAS > a.ByPlatform[best].ROAS {
				best = p
			}
		}
		insights = append(insights, models.Insight{
			Type:           models.InsightPerformance,
			Title:          "Best Performing Platform",
			Message:        fmt.Sprintf("%s has the highest ROAS of %.2fx", best, a.ByPlatform[best].ROAS),
			Recommendation: fmt.Sprintf("Consider increasing budget allocation to %s for better returns", best),
		})
	}

	// Overall ROI bands: >100 success, <50 warning, neither in between.
	// Skipped entirely when there is no campaign data.
	if len(a.ByPlatform) > 0 {
		switch roi := a.Summary.ROI; {
		case roi > 100:
			insights = append(insights, models.Insight{
				Type:           models.InsightSuccess,
				Title:          "Strong ROI Performance",
				Message:        fmt.Sprintf("Overall ROI is %.1f%%, indicating profitable marketing spend", roi),
				Recommendation: "Continue current strategy while monitoring for optimization opportunities",
			})
		case roi < 50:
			insights = append(insights, models.Insight{
				Type:           models.InsightWarning,
				Title:          "Low ROI Alert",
				Message:        fmt.Sprintf("Overall ROI is %.1f%%, below optimal levels", roi),
				Recommendation: "Review underperforming campaigns and consider reallocating budget",
			})
		}

		if ctr := a.Summary.CTR; ctr < 1 {
			insights = append(insights, models.Insight{
				Type:           models.InsightWarning,
				Title:          "Low Click-Through Rate",
				Message:        fmt.Sprintf("Average CTR is %.2f%%, which is below industry standards", ctr),
				Recommendation: "Review ad creative and targeting to improve engagement",
			})
		}
	}

	// CAC relative to what a customer brings in. With no acquisition
	// spend (cac = 0) the comparison never fires.
	cac := a.Summary.CAC
	rpc := a.BusinessMetrics.RevenuePerCustomer
	if cac > rpc*0.3 {
		insights = append(insights, models.Insight{
			Type:           models.InsightWarning,
			Title:          "High Customer Acquisition Cost",
			Message:        fmt.Sprintf("CAC of $%.2f is high relative to revenue per customer", cac),
			Recommendation: "Focus on improving conversion rates and reducing acquisition costs",
		})
	}

	return insights
}
