package refresh

import (
	"covid-trends/internal/model"
	"reflect"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func day(t *testing.T, country, date string, cases, deaths float64) model.CountryDay {
	t.Helper()
	return model.CountryDay{
		ISOCode:    "X-" + country,
		Country:    country,
		Date:       mustDate(t, date),
		NewCases:   cases,
		NewDeaths:  deaths,
		Population: 1_000_000,
	}
}

func TestAggregateCumulativeTotal(t *testing.T) {
	rows := []model.CountryDay{
		day(t, "A", "2021-01-01", 10, 0),
		day(t, "A", "2021-01-02", 20, 0),
		day(t, "A", "2021-01-03", 15, 0),
	}

	tables := Aggregate(rows, 3)

	if len(tables.Series) != 3 {
		t.Fatalf("expected 3 series rows, got %d", len(tables.Series))
	}
	latest := tables.Series[2]
	if latest.CumulativeCases != 45 {
		t.Errorf("latest cumulative total = %v, want 45", latest.CumulativeCases)
	}
	// 3-day rolling mean at the latest day covers all three values.
	if want := (10.0 + 20 + 15) / 3; latest.NewCasesSmoothed != want {
		t.Errorf("rolling mean = %v, want %v", latest.NewCasesSmoothed, want)
	}
}

func TestAggregateNoFabricatedKeys(t *testing.T) {
	rows := []model.CountryDay{
		day(t, "A", "2021-01-01", 1, 0),
		day(t, "A", "2021-01-02", 2, 0),
		day(t, "B", "2021-01-01", 3, 1),
	}
	inputKeys := make(map[string]bool)
	for _, r := range rows {
		inputKeys[r.Country+"|"+r.Date.Format("2006-01-02")] = true
	}

	tables := Aggregate(rows, 7)

	for _, r := range tables.Series {
		if !inputKeys[r.Country+"|"+r.Date.Format("2006-01-02")] {
			t.Errorf("series row fabricated key %s %s", r.Country, r.Date)
		}
	}
	for _, r := range tables.Comparison {
		if !inputKeys[r.Country+"|"+r.Date.Format("2006-01-02")] {
			t.Errorf("comparison row fabricated key %s %s", r.Country, r.Date)
		}
	}
	for _, r := range tables.Vaccination {
		if !inputKeys[r.Country+"|"+r.Date.Format("2006-01-02")] {
			t.Errorf("vaccination row fabricated key %s %s", r.Country, r.Date)
		}
	}
	if len(tables.Comparison) != 2 {
		t.Errorf("expected one snapshot per country, got %d", len(tables.Comparison))
	}
}

func TestAggregateForwardFillsTotals(t *testing.T) {
	rows := []model.CountryDay{
		day(t, "A", "2021-01-01", 0, 0),
		day(t, "A", "2021-01-02", 0, 0),
		day(t, "A", "2021-01-03", 0, 0),
	}
	rows[0].TotalCases = 10
	// day 2 has no report upstream
	rows[2].TotalCases = 30

	tables := Aggregate(rows, 7)

	got := []float64{
		tables.Series[0].TotalCases,
		tables.Series[1].TotalCases,
		tables.Series[2].TotalCases,
	}
	want := []float64{10, 10, 30}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("forward-filled totals = %v, want %v", got, want)
	}
}

func TestAggregateDeterministicAcrossInputOrder(t *testing.T) {
	a := []model.CountryDay{
		day(t, "B", "2021-01-02", 4, 0),
		day(t, "A", "2021-01-01", 1, 0),
		day(t, "B", "2021-01-01", 3, 0),
		day(t, "A", "2021-01-02", 2, 0),
	}
	b := []model.CountryDay{a[3], a[2], a[1], a[0]}

	t1 := Aggregate(a, 7)
	t2 := Aggregate(b, 7)

	if !reflect.DeepEqual(t1, t2) {
		t.Error("aggregation depends on input order")
	}
}

func TestAggregatePerMillionRates(t *testing.T) {
	row := day(t, "A", "2021-01-01", 50, 0)
	row.Population = 2_000_000

	tables := Aggregate([]model.CountryDay{row}, 7)

	if got := tables.Series[0].NewCasesPerMillion; got != 25 {
		t.Errorf("new cases per million = %v, want 25", got)
	}

	// No population means no per-capita rate, not a division by zero.
	row.Population = 0
	tables = Aggregate([]model.CountryDay{row}, 7)
	if got := tables.Series[0].NewCasesPerMillion; got != 0 {
		t.Errorf("per-million without population = %v, want 0", got)
	}
}

func TestAggregateVaccinationRate(t *testing.T) {
	row := day(t, "A", "2021-01-01", 0, 0)
	row.Population = 1000
	row.PeopleFullyVaccinated = 250

	tables := Aggregate([]model.CountryDay{row}, 7)

	if got := tables.Comparison[0].VaccinationRate; got != 25 {
		t.Errorf("vaccination rate = %v, want 25", got)
	}
	if got := tables.Vaccination[0].PeopleFullyVaccinatedPerHundred; got != 25 {
		t.Errorf("per-hundred = %v, want 25", got)
	}
}

func TestMovingWindowShrinksAtSeriesStart(t *testing.T) {
	rows := []model.CountryDay{
		day(t, "A", "2021-01-01", 10, 0),
		day(t, "A", "2021-01-02", 20, 0),
	}

	tables := Aggregate(rows, 7)

	if got := tables.Series[0].NewCasesSmoothed; got != 10 {
		t.Errorf("first smoothed value = %v, want 10", got)
	}
	if got := tables.Series[1].NewCasesSmoothed; got != 15 {
		t.Errorf("second smoothed value = %v, want 15", got)
	}
}
