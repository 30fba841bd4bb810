package model

import "time"

// SummaryStats holds the headline metrics of the dashboard.
type SummaryStats struct {
	TotalNow      int64
	TotalStart    int64
	AbsoluteGain  int64
	Months        int // number of month steps between first and last point
	CAGRPercent   float64
	LeaderChannel string

	Goal         int64
	GoalProgress float64 // 0-1

	Shares []ChannelShare
	Funnel []FunnelStage
}

// ChannelShare is one channel's share of the total at the last month.
type ChannelShare struct {
	Channel      string
	Followers    int64
	SharePercent float64
}

// FunnelStage is one step of the awareness -> leads conversion funnel.
type FunnelStage struct {
	Stage string
	Count int64
}

// ForecastStats holds the forecast section of the dashboard.
// When Available is false, Reason explains why and the other fields are empty.
type ForecastStats struct {
	Available bool
	Reason    string
	Horizon   int

	Points []ForecastPoint
	Fitted []Point // fitted trend over history and horizon

	Headline      float64
	HeadlineMonth time.Time

	MAE  float64
	RMSE float64
	MAPE float64
}
