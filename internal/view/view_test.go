package view

import (
	"covid-trends/internal/model"
	"math"
	"reflect"
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

func seriesRow(t *testing.T, country, date string, newCases, totalCases, totalDeaths float64) model.SeriesRow {
	t.Helper()
	return model.SeriesRow{
		CountryDay: model.CountryDay{
			ISOCode:     country[:3],
			Country:     country,
			Date:        day(t, date),
			NewCases:    newCases,
			TotalCases:  totalCases,
			TotalDeaths: totalDeaths,
			Population:  1000000,
		},
	}
}

func TestFilterSeries(t *testing.T) {
	rows := []model.SeriesRow{
		seriesRow(t, "Alpha", "2021-01-01", 10, 100, 5),
		seriesRow(t, "Alpha", "2021-01-02", 20, 120, 6),
		seriesRow(t, "Beta", "2021-01-01", 5, 50, 1),
		seriesRow(t, "Beta", "2021-02-01", 8, 80, 2),
	}

	f := model.Filter{
		Countries: []string{"Alpha"},
		From:      day(t, "2021-01-01"),
		To:        day(t, "2021-01-31"),
	}
	got := FilterSeries(rows, f)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	for _, r := range got {
		if r.Country != "Alpha" {
			t.Errorf("unexpected country %q", r.Country)
		}
	}

	if got := FilterSeries(rows, model.Filter{From: day(t, "2021-01-01"), To: day(t, "2021-12-31")}); got != nil {
		t.Errorf("empty country selection returned %d rows, want none", len(got))
	}
}

func TestSeriesBounds(t *testing.T) {
	rows := []model.SeriesRow{
		seriesRow(t, "Alpha", "2021-01-05", 0, 0, 0),
		seriesRow(t, "Alpha", "2021-01-01", 0, 0, 0),
		seriesRow(t, "Beta", "2021-01-09", 0, 0, 0),
	}
	min, max := SeriesBounds(rows)
	if !min.Equal(day(t, "2021-01-01")) || !max.Equal(day(t, "2021-01-09")) {
		t.Errorf("bounds = [%s, %s]", min.Format("2006-01-02"), max.Format("2006-01-02"))
	}
}

func TestBuildOverview(t *testing.T) {
	rows := []model.SeriesRow{
		seriesRow(t, "Alpha", "2021-01-01", 10, 100, 5),
		seriesRow(t, "Alpha", "2021-01-02", 20, 200, 10),
		seriesRow(t, "Beta", "2021-01-02", 5, 100, 2),
	}

	o := BuildOverview(rows)
	if o.NoData {
		t.Fatal("unexpected no-data state")
	}
	if o.LatestDate != "2021-01-02" {
		t.Errorf("LatestDate = %q", o.LatestDate)
	}
	if o.TotalCases != 300 || o.TotalDeaths != 12 {
		t.Errorf("totals = %v / %v, want 300 / 12", o.TotalCases, o.TotalDeaths)
	}
	if got := o.MortalityRate; math.Abs(got-4) > 1e-9 {
		t.Errorf("MortalityRate = %v, want 4", got)
	}
	if o.Map == nil || o.Map.Type != "choropleth" {
		t.Fatalf("map chart missing or wrong type: %+v", o.Map)
	}
	if len(o.TopCountries) != 2 || o.TopCountries[0].Country != "Alpha" {
		t.Errorf("top countries = %+v", o.TopCountries)
	}
}

func TestBuildOverviewEmpty(t *testing.T) {
	o := BuildOverview(nil)
	if !o.NoData {
		t.Error("empty input should report no data")
	}
	if o.Map != nil || o.TopCountries != nil {
		t.Error("empty overview should carry no charts")
	}
}

func TestBuildTimeSeries(t *testing.T) {
	rows := []model.SeriesRow{
		seriesRow(t, "Alpha", "2021-01-02", 20, 0, 0),
		seriesRow(t, "Alpha", "2021-01-01", 10, 0, 0),
		seriesRow(t, "Beta", "2021-01-01", 5, 0, 0),
	}

	ts := BuildTimeSeries(rows, "new_cases", 7)
	if ts.NoData {
		t.Fatal("unexpected no-data state")
	}
	if len(ts.Chart.Series) != 2 {
		t.Fatalf("got %d series, want 2", len(ts.Chart.Series))
	}

	alpha := ts.Chart.Series[0]
	if alpha.Name != "Alpha" {
		t.Fatalf("first series = %q, want Alpha (sorted)", alpha.Name)
	}
	if !reflect.DeepEqual(alpha.Labels, []string{"2021-01-01", "2021-01-02"}) {
		t.Errorf("labels not date-sorted: %v", alpha.Labels)
	}
	if !reflect.DeepEqual(alpha.Values, []float64{10, 20}) {
		t.Errorf("values = %v", alpha.Values)
	}

	if len(ts.MovingAverage.Series) != 2 {
		t.Fatalf("got %d MA series, want 2", len(ts.MovingAverage.Series))
	}
	if !reflect.DeepEqual(ts.MovingAverage.Series[0].Values, []float64{10, 15}) {
		t.Errorf("MA values = %v, want [10 15]", ts.MovingAverage.Series[0].Values)
	}
}

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
		want   []float64
	}{
		{"shrinks at start", []float64{10, 20, 30, 40}, 3, []float64{10, 15, 20, 30}},
		{"window one is identity", []float64{3, 1, 4}, 1, []float64{3, 1, 4}},
		{"window larger than series", []float64{2, 4}, 7, []float64{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := movingAverage(tt.values, tt.window); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("movingAverage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildComparison(t *testing.T) {
	rows := []model.SeriesRow{
		seriesRow(t, "Alpha", "2021-01-02", 0, 300, 0),
		seriesRow(t, "Beta", "2021-01-02", 0, 500, 0),
		seriesRow(t, "Gamma", "2021-01-01", 0, 900, 0),
	}

	c := BuildComparison(rows, "total_cases")
	if c.NoData {
		t.Fatal("unexpected no-data state")
	}
	if c.LatestDate != "2021-01-02" {
		t.Errorf("LatestDate = %q", c.LatestDate)
	}

	s := c.Chart.Series[0]
	// Gamma's row is stale and must not appear.
	if !reflect.DeepEqual(s.Labels, []string{"Beta", "Alpha"}) {
		t.Errorf("ranking = %v, want [Beta Alpha]", s.Labels)
	}
	if !reflect.DeepEqual(s.Values, []float64{500, 300}) {
		t.Errorf("values = %v", s.Values)
	}

	if c.PerCapita == nil {
		t.Error("total_cases should carry a per-capita companion chart")
	}
	if got := BuildComparison(rows, "new_vaccinations"); got.PerCapita != nil {
		t.Error("new_vaccinations has no per-capita variant")
	}
}

func TestBuildVaccination(t *testing.T) {
	rows := []model.VaccinationRow{
		{Country: "Alpha", Date: day(t, "2021-01-01"), PeopleFullyVaccinated: 100, PeopleFullyVaccinatedPerHundred: 10, Population: 1000},
		{Country: "Alpha", Date: day(t, "2021-01-02"), PeopleFullyVaccinated: 300, PeopleFullyVaccinatedPerHundred: 30, Population: 1000},
		{Country: "Beta", Date: day(t, "2021-01-02"), PeopleFullyVaccinated: 100, PeopleFullyVaccinatedPerHundred: 50, Population: 200},
	}

	v := BuildVaccination(rows)
	if v.NoData {
		t.Fatal("unexpected no-data state")
	}
	if v.LatestDate != "2021-01-02" {
		t.Errorf("LatestDate = %q", v.LatestDate)
	}
	if v.TotalFullyVaccinated != 400 {
		t.Errorf("TotalFullyVaccinated = %v, want 400", v.TotalFullyVaccinated)
	}
	// 400 of 1200 people across the selection.
	if math.Abs(v.Rate-100.0/3) > 1e-9 {
		t.Errorf("Rate = %v, want %v", v.Rate, 100.0/3)
	}

	rate := v.RateChart.Series[0]
	if !reflect.DeepEqual(rate.Labels, []string{"Beta", "Alpha"}) {
		t.Errorf("rate ranking = %v, want [Beta Alpha]", rate.Labels)
	}

	if len(v.TrendChart.Series) != 2 || v.TrendChart.Series[0].Name != "Alpha" {
		t.Fatalf("trend series = %+v", v.TrendChart.Series)
	}
	if !reflect.DeepEqual(v.TrendChart.Series[0].Values, []float64{10, 30}) {
		t.Errorf("trend values = %v", v.TrendChart.Series[0].Values)
	}
}

func TestBuildVaccinationEmpty(t *testing.T) {
	if v := BuildVaccination(nil); !v.NoData {
		t.Error("empty input should report no data")
	}
}

func TestTitleize(t *testing.T) {
	if got := titleize("new_cases_per_million"); got != "New Cases Per Million" {
		t.Errorf("titleize() = %q", got)
	}
}
