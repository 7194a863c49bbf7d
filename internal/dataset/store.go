package dataset

import (
	"covid-trends/internal/model"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ErrNoData is returned when the processed-data store is missing or empty.
var ErrNoData = errors.New("no processed data available")

// Logical table file names inside the data directory.
const (
	CleanFile       = "clean.csv"
	TimeseriesFile  = "timeseries.csv"
	ComparisonFile  = "comparison.csv"
	VaccinationFile = "vaccination.csv"
	LastUpdatedFile = "last_updated.txt"
)

// Tables holds every processed aggregate one refresh produces.
type Tables struct {
	Clean       []model.CountryDay
	Series      []model.SeriesRow
	Comparison  []model.CountrySnapshot
	Vaccination []model.VaccinationRow
}

// Store is the processed-data store: the refresh job writes it wholesale,
// dashboard sessions read it.
type Store interface {
	WriteTables(t Tables) error
	WriteLastUpdated(ts time.Time) error
	LoadSeries() ([]model.SeriesRow, error)
	LoadComparison() ([]model.CountrySnapshot, error)
	LoadVaccination() ([]model.VaccinationRow, error)
	LastUpdated() (string, error)
}

// FileStore keeps one CSV per logical table under a single data directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// WriteTables replaces the whole store atomically: every table is written to
// a temp file first and the renames happen only after all writes succeeded,
// so a reader never sees a partially written table.
func (s *FileStore) WriteTables(t Tables) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	files := []struct {
		name  string
		write func(w *csv.Writer) error
	}{
		{CleanFile, func(w *csv.Writer) error { return writeClean(w, t.Clean) }},
		{TimeseriesFile, func(w *csv.Writer) error { return writeSeries(w, t.Series) }},
		{ComparisonFile, func(w *csv.Writer) error { return writeComparison(w, t.Comparison) }},
		{VaccinationFile, func(w *csv.Writer) error { return writeVaccination(w, t.Vaccination) }},
	}

	var tmps []string
	cleanup := func() {
		for _, tmp := range tmps {
			os.Remove(tmp)
		}
	}

	for _, f := range files {
		tmp := filepath.Join(s.dir, f.name+".tmp")
		if err := writeTmp(tmp, f.write); err != nil {
			cleanup()
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		tmps = append(tmps, tmp)
	}

	for i, f := range files {
		if err := os.Rename(tmps[i], filepath.Join(s.dir, f.name)); err != nil {
			cleanup()
			return fmt.Errorf("failed to replace %s: %w", f.name, err)
		}
	}
	return nil
}

func writeTmp(path string, write func(w *csv.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := write(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteLastUpdated records the refresh timestamp next to the tables.
func (s *FileStore) WriteLastUpdated(ts time.Time) error {
	stamp := ts.UTC().Format("2006-01-02 15:04:05")
	return os.WriteFile(filepath.Join(s.dir, LastUpdatedFile), []byte(stamp), 0644)
}

// LastUpdated returns the recorded refresh timestamp, or "" when none exists.
func (s *FileStore) LastUpdated() (string, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, LastUpdatedFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ------------------- Table encoders -------------------
// Column order is fixed and rows arrive pre-sorted, so identical input
// produces byte-identical files.

func writeClean(w *csv.Writer, rows []model.CountryDay) error {
	header := []string{
		"iso_code", "continent", "country", "date",
		"new_cases", "total_cases", "new_deaths", "total_deaths",
		"new_tests", "total_tests", "new_vaccinations", "total_vaccinations",
		"people_vaccinated", "people_fully_vaccinated", "population",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.ISOCode, r.Continent, r.Country, fmtDate(r.Date),
			fmtFloat(r.NewCases), fmtFloat(r.TotalCases),
			fmtFloat(r.NewDeaths), fmtFloat(r.TotalDeaths),
			fmtFloat(r.NewTests), fmtFloat(r.TotalTests),
			fmtFloat(r.NewVaccinations), fmtFloat(r.TotalVaccinations),
			fmtFloat(r.PeopleVaccinated), fmtFloat(r.PeopleFullyVaccinated),
			fmtFloat(r.Population),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeSeries(w *csv.Writer, rows []model.SeriesRow) error {
	header := []string{
		"iso_code", "continent", "country", "date",
		"new_cases", "total_cases", "new_deaths", "total_deaths",
		"new_tests", "total_tests", "new_vaccinations", "total_vaccinations",
		"people_vaccinated", "people_fully_vaccinated", "population",
		"new_cases_smoothed", "new_deaths_smoothed",
		"new_cases_per_million", "total_cases_per_million",
		"new_deaths_per_million", "total_deaths_per_million",
		"cumulative_cases", "cumulative_deaths",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.ISOCode, r.Continent, r.Country, fmtDate(r.Date),
			fmtFloat(r.NewCases), fmtFloat(r.TotalCases),
			fmtFloat(r.NewDeaths), fmtFloat(r.TotalDeaths),
			fmtFloat(r.NewTests), fmtFloat(r.TotalTests),
			fmtFloat(r.NewVaccinations), fmtFloat(r.TotalVaccinations),
			fmtFloat(r.PeopleVaccinated), fmtFloat(r.PeopleFullyVaccinated),
			fmtFloat(r.Population),
			fmtFloat(r.NewCasesSmoothed), fmtFloat(r.NewDeathsSmoothed),
			fmtFloat(r.NewCasesPerMillion), fmtFloat(r.TotalCasesPerMillion),
			fmtFloat(r.NewDeathsPerMillion), fmtFloat(r.TotalDeathsPerMillion),
			fmtFloat(r.CumulativeCases), fmtFloat(r.CumulativeDeaths),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeComparison(w *csv.Writer, rows []model.CountrySnapshot) error {
	header := []string{
		"iso_code", "continent", "country", "date",
		"total_cases", "total_deaths",
		"total_cases_per_million", "total_deaths_per_million",
		"total_vaccinations", "people_vaccinated", "people_fully_vaccinated",
		"population", "vaccination_rate",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.ISOCode, r.Continent, r.Country, fmtDate(r.Date),
			fmtFloat(r.TotalCases), fmtFloat(r.TotalDeaths),
			fmtFloat(r.TotalCasesPerMillion), fmtFloat(r.TotalDeathsPerMillion),
			fmtFloat(r.TotalVaccinations), fmtFloat(r.PeopleVaccinated),
			fmtFloat(r.PeopleFullyVaccinated), fmtFloat(r.Population),
			fmtFloat(r.VaccinationRate),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeVaccination(w *csv.Writer, rows []model.VaccinationRow) error {
	header := []string{
		"iso_code", "country", "date",
		"new_vaccinations", "total_vaccinations",
		"people_vaccinated", "people_fully_vaccinated",
		"people_fully_vaccinated_per_hundred", "population",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.ISOCode, r.Country, fmtDate(r.Date),
			fmtFloat(r.NewVaccinations), fmtFloat(r.TotalVaccinations),
			fmtFloat(r.PeopleVaccinated), fmtFloat(r.PeopleFullyVaccinated),
			fmtFloat(r.PeopleFullyVaccinatedPerHundred), fmtFloat(r.Population),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func fmtDate(d time.Time) string {
	return d.Format("2006-01-02")
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
