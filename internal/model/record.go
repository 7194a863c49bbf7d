package model

import "time"

// RawRecord is a schema-agnostic map for one CSV row keyed by header name
type RawRecord map[string]interface{}

// CountryDay is one cleaned upstream observation: a single country on a
// single date with the metric columns we keep.
type CountryDay struct {
	ISOCode               string    `json:"iso_code"`
	Continent             string    `json:"continent"`
	Country               string    `json:"country"`
	Date                  time.Time `json:"date"`
	NewCases              float64   `json:"new_cases"`
	TotalCases            float64   `json:"total_cases"`
	NewDeaths             float64   `json:"new_deaths"`
	TotalDeaths           float64   `json:"total_deaths"`
	NewTests              float64   `json:"new_tests"`
	TotalTests            float64   `json:"total_tests"`
	NewVaccinations       float64   `json:"new_vaccinations"`
	TotalVaccinations     float64   `json:"total_vaccinations"`
	PeopleVaccinated      float64   `json:"people_vaccinated"`
	PeopleFullyVaccinated float64   `json:"people_fully_vaccinated"`
	Population            float64   `json:"population"`
}

// SeriesRow is one time-series aggregate row: the cleaned metrics plus the
// derived rolling averages, per-capita rates and recomputed cumulatives.
type SeriesRow struct {
	CountryDay
	NewCasesSmoothed      float64 `json:"new_cases_smoothed"`
	NewDeathsSmoothed     float64 `json:"new_deaths_smoothed"`
	NewCasesPerMillion    float64 `json:"new_cases_per_million"`
	TotalCasesPerMillion  float64 `json:"total_cases_per_million"`
	NewDeathsPerMillion   float64 `json:"new_deaths_per_million"`
	TotalDeathsPerMillion float64 `json:"total_deaths_per_million"`
	CumulativeCases       float64 `json:"cumulative_cases"`
	CumulativeDeaths      float64 `json:"cumulative_deaths"`
}

// CountrySnapshot is the latest observation per country, used by the
// comparison and vaccination views.
type CountrySnapshot struct {
	ISOCode               string    `json:"iso_code"`
	Continent             string    `json:"continent"`
	Country               string    `json:"country"`
	Date                  time.Time `json:"date"`
	TotalCases            float64   `json:"total_cases"`
	TotalDeaths           float64   `json:"total_deaths"`
	TotalCasesPerMillion  float64   `json:"total_cases_per_million"`
	TotalDeathsPerMillion float64   `json:"total_deaths_per_million"`
	TotalVaccinations     float64   `json:"total_vaccinations"`
	PeopleVaccinated      float64   `json:"people_vaccinated"`
	PeopleFullyVaccinated float64   `json:"people_fully_vaccinated"`
	Population            float64   `json:"population"`
	VaccinationRate       float64   `json:"vaccination_rate"` // % of population fully vaccinated
}

// VaccinationRow is one row of the vaccination-progress aggregate.
type VaccinationRow struct {
	ISOCode                         string    `json:"iso_code"`
	Country                         string    `json:"country"`
	Date                            time.Time `json:"date"`
	NewVaccinations                 float64   `json:"new_vaccinations"`
	TotalVaccinations               float64   `json:"total_vaccinations"`
	PeopleVaccinated                float64   `json:"people_vaccinated"`
	PeopleFullyVaccinated           float64   `json:"people_fully_vaccinated"`
	PeopleFullyVaccinatedPerHundred float64   `json:"people_fully_vaccinated_per_hundred"`
	Population                      float64   `json:"population"`
}

// Metrics lists the metric names a viewer can select, in display order.
var Metrics = []string{
	"new_cases",
	"new_deaths",
	"total_cases",
	"total_deaths",
	"new_vaccinations",
	"people_fully_vaccinated",
}

// ValidMetric reports whether name is a selectable metric.
func ValidMetric(name string) bool {
	for _, m := range Metrics {
		if m == name {
			return true
		}
	}
	return false
}

// MetricValue extracts the named metric from a series row. Unknown names
// return 0; callers validate with ValidMetric first.
func MetricValue(r SeriesRow, name string) float64 {
	switch name {
	case "new_cases":
		return r.NewCases
	case "new_deaths":
		return r.NewDeaths
	case "total_cases":
		return r.TotalCases
	case "total_deaths":
		return r.TotalDeaths
	case "new_tests":
		return r.NewTests
	case "total_tests":
		return r.TotalTests
	case "new_vaccinations":
		return r.NewVaccinations
	case "total_vaccinations":
		return r.TotalVaccinations
	case "people_vaccinated":
		return r.PeopleVaccinated
	case "people_fully_vaccinated":
		return r.PeopleFullyVaccinated
	case "new_cases_per_million":
		return r.NewCasesPerMillion
	case "total_cases_per_million":
		return r.TotalCasesPerMillion
	case "new_deaths_per_million":
		return r.NewDeathsPerMillion
	case "total_deaths_per_million":
		return r.TotalDeathsPerMillion
	default:
		return 0
	}
}

// PerMillionMetric returns the per-capita variant of a metric name, or ""
// when the metric has none.
func PerMillionMetric(name string) string {
	switch name {
	case "new_cases", "new_deaths", "total_cases", "total_deaths":
		return name + "_per_million"
	default:
		return ""
	}
}

// SnapshotMetricValue extracts the named metric from a snapshot row.
func SnapshotMetricValue(s CountrySnapshot, name string) float64 {
	switch name {
	case "total_cases":
		return s.TotalCases
	case "total_deaths":
		return s.TotalDeaths
	case "total_cases_per_million":
		return s.TotalCasesPerMillion
	case "total_deaths_per_million":
		return s.TotalDeathsPerMillion
	case "total_vaccinations":
		return s.TotalVaccinations
	case "people_vaccinated":
		return s.PeopleVaccinated
	case "people_fully_vaccinated":
		return s.PeopleFullyVaccinated
	case "vaccination_rate":
		return s.VaccinationRate
	default:
		return 0
	}
}
