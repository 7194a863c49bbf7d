package dataset

import (
	"covid-trends/internal/model"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LoadSeries reads the time-series table. A missing or empty file is
// reported as ErrNoData so the caller can degrade to an empty state.
func (s *FileStore) LoadSeries() ([]model.SeriesRow, error) {
	records, err := s.readTable(TimeseriesFile)
	if err != nil {
		return nil, err
	}

	rows := make([]model.SeriesRow, 0, len(records))
	for _, rec := range records {
		date, err := time.Parse("2006-01-02", rec["date"])
		if err != nil {
			return nil, fmt.Errorf("bad date in %s: %w", TimeseriesFile, err)
		}
		rows = append(rows, model.SeriesRow{
			CountryDay: model.CountryDay{
				ISOCode:               rec["iso_code"],
				Continent:             rec["continent"],
				Country:               rec["country"],
				Date:                  date,
				NewCases:              parseFloat(rec["new_cases"]),
				TotalCases:            parseFloat(rec["total_cases"]),
				NewDeaths:             parseFloat(rec["new_deaths"]),
				TotalDeaths:           parseFloat(rec["total_deaths"]),
				NewTests:              parseFloat(rec["new_tests"]),
				TotalTests:            parseFloat(rec["total_tests"]),
				NewVaccinations:       parseFloat(rec["new_vaccinations"]),
				TotalVaccinations:     parseFloat(rec["total_vaccinations"]),
				PeopleVaccinated:      parseFloat(rec["people_vaccinated"]),
				PeopleFullyVaccinated: parseFloat(rec["people_fully_vaccinated"]),
				Population:            parseFloat(rec["population"]),
			},
			NewCasesSmoothed:      parseFloat(rec["new_cases_smoothed"]),
			NewDeathsSmoothed:     parseFloat(rec["new_deaths_smoothed"]),
			NewCasesPerMillion:    parseFloat(rec["new_cases_per_million"]),
			TotalCasesPerMillion:  parseFloat(rec["total_cases_per_million"]),
			NewDeathsPerMillion:   parseFloat(rec["new_deaths_per_million"]),
			TotalDeathsPerMillion: parseFloat(rec["total_deaths_per_million"]),
			CumulativeCases:       parseFloat(rec["cumulative_cases"]),
			CumulativeDeaths:      parseFloat(rec["cumulative_deaths"]),
		})
	}
	return rows, nil
}

// LoadComparison reads the latest-snapshot comparison table.
func (s *FileStore) LoadComparison() ([]model.CountrySnapshot, error) {
	records, err := s.readTable(ComparisonFile)
	if err != nil {
		return nil, err
	}

	rows := make([]model.CountrySnapshot, 0, len(records))
	for _, rec := range records {
		date, err := time.Parse("2006-01-02", rec["date"])
		if err != nil {
			return nil, fmt.Errorf("bad date in %s: %w", ComparisonFile, err)
		}
		rows = append(rows, model.CountrySnapshot{
			ISOCode:               rec["iso_code"],
			Continent:             rec["continent"],
			Country:               rec["country"],
			Date:                  date,
			TotalCases:            parseFloat(rec["total_cases"]),
			TotalDeaths:           parseFloat(rec["total_deaths"]),
			TotalCasesPerMillion:  parseFloat(rec["total_cases_per_million"]),
			TotalDeathsPerMillion: parseFloat(rec["total_deaths_per_million"]),
			TotalVaccinations:     parseFloat(rec["total_vaccinations"]),
			PeopleVaccinated:      parseFloat(rec["people_vaccinated"]),
			PeopleFullyVaccinated: parseFloat(rec["people_fully_vaccinated"]),
			Population:            parseFloat(rec["population"]),
			VaccinationRate:       parseFloat(rec["vaccination_rate"]),
		})
	}
	return rows, nil
}

// LoadVaccination reads the vaccination-progress table.
func (s *FileStore) LoadVaccination() ([]model.VaccinationRow, error) {
	records, err := s.readTable(VaccinationFile)
	if err != nil {
		return nil, err
	}

	rows := make([]model.VaccinationRow, 0, len(records))
	for _, rec := range records {
		date, err := time.Parse("2006-01-02", rec["date"])
		if err != nil {
			return nil, fmt.Errorf("bad date in %s: %w", VaccinationFile, err)
		}
		rows = append(rows, model.VaccinationRow{
			ISOCode:                         rec["iso_code"],
			Country:                         rec["country"],
			Date:                            date,
			NewVaccinations:                 parseFloat(rec["new_vaccinations"]),
			TotalVaccinations:               parseFloat(rec["total_vaccinations"]),
			PeopleVaccinated:                parseFloat(rec["people_vaccinated"]),
			PeopleFullyVaccinated:           parseFloat(rec["people_fully_vaccinated"]),
			PeopleFullyVaccinatedPerHundred: parseFloat(rec["people_fully_vaccinated_per_hundred"]),
			Population:                      parseFloat(rec["population"]),
		})
	}
	return rows, nil
}

// readTable loads a CSV table as header-keyed maps.
func (s *FileStore) readTable(name string) ([]map[string]string, error) {
	file, err := os.Open(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	all, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(all) <= 1 {
		return nil, ErrNoData
	}

	headers := all[0]
	records := make([]map[string]string, 0, len(all)-1)
	for _, row := range all[1:] {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
