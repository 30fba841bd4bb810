package pipeline

import (
	"math"

	"github.com/laccsec/growthbi/internal/config"
	"github.com/laccsec/growthbi/internal/model"
)

// goalMultiplier sets the default target relative to the current total.
const goalMultiplier = 1.5

// Summarize computes the headline metrics from the channel and total series.
func Summarize(channels []model.MonthlySeries, total model.MonthlySeries, goal *int64, funnel config.FunnelConfig) model.SummaryStats {
	var stats model.SummaryStats
	if total.Len() == 0 {
		return stats
	}

	stats.TotalNow = int64(total.Last().Value)
	stats.TotalStart = int64(total.First().Value)
	stats.AbsoluteGain = stats.TotalNow - stats.TotalStart
	stats.Months = total.Len() - 1
	stats.CAGRPercent = CAGR(stats.TotalStart, stats.TotalNow, stats.Months)

	best := -1.0
	for _, s := range channels {
		v := s.Last().Value
		if v > best {
			best = v
			stats.LeaderChannel = s.Name
		}
	}

	stats.Shares = make([]model.ChannelShare, 0, len(channels))
	for _, s := range channels {
		f := int64(s.Last().Value)
		share := model.ChannelShare{Channel: s.Name, Followers: f}
		if stats.TotalNow > 0 {
			share.SharePercent = float64(f) / float64(stats.TotalNow) * 100
		}
		stats.Shares = append(stats.Shares, share)
	}

	if goal != nil {
		stats.Goal = *goal
	} else {
		stats.Goal = int64(float64(stats.TotalNow) * goalMultiplier)
	}
	if stats.Goal > 0 {
		stats.GoalProgress = math.Min(1, math.Max(0, float64(stats.TotalNow)/float64(stats.Goal)))
	}

	stats.Funnel = Funnel(stats.TotalNow, funnel)
	return stats
}

// CAGR annualizes growth from start to now over months steps, in percent.
// It is zero when there is no starting value or no elapsed month.
func CAGR(start, now int64, months int) float64 {
	if start <= 0 || months <= 0 {
		return 0
	}
	return (math.Pow(float64(now)/float64(start), 12/float64(months)) - 1) * 100
}

// Funnel applies each conversion rate to the previous stage, truncating counts.
func Funnel(followers int64, rates config.FunnelConfig) []model.FunnelStage {
	newsletter := int64(float64(followers) * rates.NewsletterRate)
	participants := int64(float64(newsletter) * rates.ParticipantRate)
	leads := int64(float64(participants) * rates.LeadRate)
	return []model.FunnelStage{
		{Stage: "Followers", Count: followers},
		{Stage: "Newsletter", Count: newsletter},
		{Stage: "CTF participants", Count: participants},
		{Stage: "Leads", Count: leads},
	}
}
