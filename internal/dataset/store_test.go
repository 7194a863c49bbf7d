package dataset

import (
	"covid-trends/internal/model"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleTables(t *testing.T) Tables {
	t.Helper()
	date, err := time.Parse("2006-01-02", "2021-06-01")
	if err != nil {
		t.Fatal(err)
	}
	day := model.CountryDay{
		ISOCode: "AAA", Continent: "Europe", Country: "Alpha", Date: date,
		NewCases: 12, TotalCases: 100, NewDeaths: 1, TotalDeaths: 5,
		PeopleFullyVaccinated: 300, Population: 1000,
	}
	return Tables{
		Clean: []model.CountryDay{day},
		Series: []model.SeriesRow{{
			CountryDay:       day,
			NewCasesSmoothed: 12, CumulativeCases: 12, CumulativeDeaths: 1,
			NewCasesPerMillion: 12000,
		}},
		Comparison: []model.CountrySnapshot{{
			ISOCode: "AAA", Continent: "Europe", Country: "Alpha", Date: date,
			TotalCases: 100, TotalDeaths: 5,
			PeopleFullyVaccinated: 300, Population: 1000, VaccinationRate: 30,
		}},
		Vaccination: []model.VaccinationRow{{
			ISOCode: "AAA", Country: "Alpha", Date: date,
			PeopleFullyVaccinated: 300, PeopleFullyVaccinatedPerHundred: 30,
			Population: 1000,
		}},
	}
}

func TestWriteThenLoad(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if err := s.WriteTables(sampleTables(t)); err != nil {
		t.Fatalf("WriteTables: %v", err)
	}

	series, err := s.LoadSeries()
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(series) != 1 || series[0].Country != "Alpha" || series[0].CumulativeCases != 12 {
		t.Errorf("unexpected series rows: %+v", series)
	}

	comp, err := s.LoadComparison()
	if err != nil {
		t.Fatalf("LoadComparison: %v", err)
	}
	if len(comp) != 1 || comp[0].VaccinationRate != 30 {
		t.Errorf("unexpected comparison rows: %+v", comp)
	}

	vax, err := s.LoadVaccination()
	if err != nil {
		t.Fatalf("LoadVaccination: %v", err)
	}
	if len(vax) != 1 || vax[0].PeopleFullyVaccinatedPerHundred != 30 {
		t.Errorf("unexpected vaccination rows: %+v", vax)
	}
}

func TestMissingStoreIsErrNoData(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope"))
	if _, err := s.LoadSeries(); err != ErrNoData {
		t.Errorf("LoadSeries err = %v, want ErrNoData", err)
	}
}

func TestHeaderOnlyTableIsErrNoData(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if err := s.WriteTables(Tables{}); err != nil {
		t.Fatalf("WriteTables: %v", err)
	}
	if _, err := s.LoadSeries(); err != ErrNoData {
		t.Errorf("LoadSeries err = %v, want ErrNoData", err)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	if err := s.WriteTables(sampleTables(t)); err != nil {
		t.Fatalf("WriteTables: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	tables := sampleTables(t)

	if err := s.WriteTables(tables); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(dir, TimeseriesFile))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.WriteTables(tables); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(dir, TimeseriesFile))
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("identical tables produced different bytes")
	}
}

func TestLastUpdatedRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	stamp, err := s.LastUpdated()
	if err != nil {
		t.Fatalf("LastUpdated on empty store: %v", err)
	}
	if stamp != "" {
		t.Errorf("stamp = %q, want empty before first refresh", stamp)
	}

	ts, _ := time.Parse("2006-01-02 15:04:05", "2021-06-01 12:00:00")
	if err := s.WriteLastUpdated(ts); err != nil {
		t.Fatalf("WriteLastUpdated: %v", err)
	}
	stamp, err = s.LastUpdated()
	if err != nil {
		t.Fatal(err)
	}
	if stamp != "2021-06-01 12:00:00" {
		t.Errorf("stamp = %q", stamp)
	}
}
