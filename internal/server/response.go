package server

import (
	"time"

	"github.com/laccsec/growthbi/internal/config"
	"github.com/laccsec/growthbi/internal/model"
	"github.com/laccsec/growthbi/internal/pipeline"
)

// monthLayout is how months appear on the wire.
const monthLayout = "2006-01"

type pointJSON struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

type seriesJSON struct {
	Name   string      `json:"name"`
	Points []pointJSON `json:"points"`
}

type deltaJSON struct {
	Name   string   `json:"name"`
	Months []string `json:"months"`
	Deltas []int64  `json:"deltas"`
}

type seriesResponse struct {
	Title    string       `json:"title"`
	Start    string       `json:"start"`
	End      string       `json:"end"`
	Channels []seriesJSON `json:"channels"`
	Total    seriesJSON   `json:"total"`
	Deltas   []deltaJSON  `json:"deltas"`
}

type forecastPointJSON struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type forecastJSON struct {
	Available     bool                `json:"available"`
	Reason        string              `json:"reason,omitempty"`
	Horizon       int                 `json:"horizon"`
	Points        []forecastPointJSON `json:"points,omitempty"`
	Headline      float64             `json:"headline,omitempty"`
	HeadlineMonth string              `json:"headline_month,omitempty"`
	MAE           float64             `json:"mae,omitempty"`
	RMSE          float64             `json:"rmse,omitempty"`
	MAPE          float64             `json:"mape,omitempty"`
}

type shareJSON struct {
	Channel      string  `json:"channel"`
	Followers    int64   `json:"followers"`
	SharePercent float64 `json:"share_percent"`
}

type stageJSON struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

type summaryJSON struct {
	TotalNow      int64       `json:"total_now"`
	TotalStart    int64       `json:"total_start"`
	AbsoluteGain  int64       `json:"absolute_gain"`
	CAGRPercent   float64     `json:"cagr_percent"`
	LeaderChannel string      `json:"leader_channel"`
	Goal          int64       `json:"goal"`
	GoalProgress  float64     `json:"goal_progress"`
	Shares        []shareJSON `json:"shares"`
	Funnel        []stageJSON `json:"funnel"`
}

type milestoneJSON struct {
	When string `json:"when"`
	What string `json:"what"`
}

type dashboardResponse struct {
	seriesResponse
	Summary    summaryJSON     `json:"summary"`
	Forecast   forecastJSON    `json:"forecast"`
	Milestones []milestoneJSON `json:"milestones,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func month(t time.Time) string {
	return t.Format(monthLayout)
}

func seriesFrom(s model.MonthlySeries) seriesJSON {
	out := seriesJSON{Name: s.Name, Points: make([]pointJSON, len(s.Points))}
	for i, p := range s.Points {
		out.Points[i] = pointJSON{Month: month(p.Date), Value: p.Value}
	}
	return out
}

func seriesResponseFrom(d *pipeline.Dashboard) seriesResponse {
	resp := seriesResponse{
		Title:    d.Title,
		Start:    month(d.Start),
		End:      month(d.End),
		Channels: make([]seriesJSON, len(d.Channels)),
		Total:    seriesFrom(d.Total),
		Deltas:   make([]deltaJSON, len(d.Deltas)),
	}
	for i, ch := range d.Channels {
		resp.Channels[i] = seriesFrom(ch)
	}
	for i, ds := range d.Deltas {
		months := make([]string, len(ds.Dates))
		for j, t := range ds.Dates {
			months[j] = month(t)
		}
		resp.Deltas[i] = deltaJSON{Name: ds.Name, Months: months, Deltas: ds.Deltas}
	}
	return resp
}

func forecastFrom(fs model.ForecastStats) forecastJSON {
	out := forecastJSON{
		Available: fs.Available,
		Reason:    fs.Reason,
		Horizon:   fs.Horizon,
	}
	if !fs.Available {
		return out
	}
	out.Points = make([]forecastPointJSON, len(fs.Points))
	for i, p := range fs.Points {
		out.Points[i] = forecastPointJSON{Month: month(p.Date), Value: p.Value, Lower: p.Lower, Upper: p.Upper}
	}
	out.Headline = fs.Headline
	out.HeadlineMonth = month(fs.HeadlineMonth)
	out.MAE, out.RMSE, out.MAPE = fs.MAE, fs.RMSE, fs.MAPE
	return out
}

func summaryFrom(st model.SummaryStats) summaryJSON {
	out := summaryJSON{
		TotalNow:      st.TotalNow,
		TotalStart:    st.TotalStart,
		AbsoluteGain:  st.AbsoluteGain,
		CAGRPercent:   st.CAGRPercent,
		LeaderChannel: st.LeaderChannel,
		Goal:          st.Goal,
		GoalProgress:  st.GoalProgress,
		Shares:        make([]shareJSON, len(st.Shares)),
		Funnel:        make([]stageJSON, len(st.Funnel)),
	}
	for i, sh := range st.Shares {
		out.Shares[i] = shareJSON(sh)
	}
	for i, fs := range st.Funnel {
		out.Funnel[i] = stageJSON(fs)
	}
	return out
}

func milestonesFrom(ms []config.Milestone) []milestoneJSON {
	out := make([]milestoneJSON, len(ms))
	for i, m := range ms {
		out[i] = milestoneJSON(m)
	}
	return out
}
