package view

import (
	"covid-trends/internal/model"
	"fmt"
	"sort"
)

// Comparison ranks countries on a metric at the latest date in range.
type Comparison struct {
	NoData     bool       `json:"no_data"`
	Metric     string     `json:"metric,omitempty"`
	LatestDate string     `json:"latest_date,omitempty"`
	Chart      ChartSpec  `json:"chart,omitempty"`
	PerCapita  *ChartSpec `json:"per_capita,omitempty"`
}

// BuildComparison computes the comparison view for already-filtered rows.
func BuildComparison(rows []model.SeriesRow, metric string) Comparison {
	if len(rows) == 0 {
		return Comparison{NoData: true}
	}

	_, latest := SeriesBounds(rows)
	var latestRows []model.SeriesRow
	for _, r := range rows {
		if r.Date.Equal(latest) {
			latestRows = append(latestRows, r)
		}
	}

	c := Comparison{Metric: metric, LatestDate: latest.Format("2006-01-02")}
	c.Chart = rankedBar(latestRows, metric,
		fmt.Sprintf("Top Countries by %s", titleize(metric)))

	if pm := model.PerMillionMetric(metric); pm != "" {
		spec := rankedBar(latestRows, pm,
			fmt.Sprintf("Top Countries by %s", titleize(pm)))
		c.PerCapita = &spec
	}
	return c
}

// rankedBar builds a top-20 descending bar chart for one metric.
func rankedBar(rows []model.SeriesRow, metric, title string) ChartSpec {
	ranked := make([]model.SeriesRow, len(rows))
	copy(ranked, rows)
	sort.Slice(ranked, func(i, j int) bool {
		vi, vj := model.MetricValue(ranked[i], metric), model.MetricValue(ranked[j], metric)
		if vi != vj {
			return vi > vj
		}
		return ranked[i].Country < ranked[j].Country
	})
	if len(ranked) > 20 {
		ranked = ranked[:20]
	}

	s := Series{Name: metric}
	for _, r := range ranked {
		s.Labels = append(s.Labels, r.Country)
		s.Values = append(s.Values, model.MetricValue(r, metric))
	}
	return ChartSpec{
		Type:   "bar",
		Title:  title,
		XLabel: "Country",
		YLabel: titleize(metric),
		Series: []Series{s},
	}
}
