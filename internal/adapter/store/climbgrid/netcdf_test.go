package climbgrid

import (
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/perf-worksheet/internal/domain"
)

func testChart() domain.ClimbPerformance {
	return domain.ClimbPerformance{
		PressureAltitudes: []float64{0, 4000, 8000},
		Temperatures:      []float64{0, 20, 40},
		Data: [][]float64{
			{785, 710, 645},
			{620, 555, 495},
			{405, 345, 285},
		},
		ClimbSpeeds: []float64{74, 72, 70},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName("C172S"))
	want := testChart()

	if err := WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("ReadFile() = %+v, want %+v", *got, want)
	}
}

func TestWriteFileRejectsRaggedChart(t *testing.T) {
	cp := testChart()
	cp.Data[1] = []float64{620, 555}
	if err := WriteFile(filepath.Join(t.TempDir(), "bad.nc"), cp); err == nil {
		t.Errorf("expected error for a ragged chart")
	}
}

func TestReadFileWithoutClimbSpeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c182t_climb.nc")
	cp := testChart()
	cp.ClimbSpeeds = nil
	if err := WriteFile(path, cp); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.ClimbSpeeds != nil {
		t.Errorf("expected no climb speeds, got %v", got.ClimbSpeeds)
	}
}

func TestReadFileDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x_climb.nc")

	f, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		t.Fatalf("create nc: %v", err)
	}
	altDim, _ := f.AddDim(PressureAltitudeVar, 2)
	tempDim, _ := f.AddDim(TemperatureVar, 3)
	vAlt, _ := f.AddVar(PressureAltitudeVar, netcdf.DOUBLE, []netcdf.Dim{altDim})
	vTemp, _ := f.AddVar(TemperatureVar, netcdf.DOUBLE, []netcdf.Dim{tempDim})
	// Stored [temperature, pressure_altitude]: the wrong way round.
	vRoc, _ := f.AddVar(RateOfClimbVar, netcdf.DOUBLE, []netcdf.Dim{tempDim, altDim})
	if err := f.EndDef(); err != nil {
		t.Fatalf("enddef: %v", err)
	}
	if err := vAlt.WriteFloat64s([]float64{0, 2000}); err != nil {
		t.Fatalf("write alt: %v", err)
	}
	if err := vTemp.WriteFloat64s([]float64{0, 20, 40}); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	if err := vRoc.WriteFloat64s([]float64{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatalf("write roc: %v", err)
	}
	_ = f.Close()

	if _, err := ReadFile(path); err == nil {
		t.Errorf("expected dimension mismatch error")
	}
}

func TestStoreLoadClimb(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFile(filepath.Join(dir, FileName("C172S")), testChart()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := NewStore(dir)
	cp, err := s.LoadClimb("c172s")
	if err != nil {
		t.Fatalf("LoadClimb: %v", err)
	}
	if cp.Data[2][1] != 345 {
		t.Errorf("Data[2][1] = %g, want 345", cp.Data[2][1])
	}

	again, err := s.LoadClimb("C172S")
	if err != nil {
		t.Fatalf("LoadClimb: %v", err)
	}
	if again != cp {
		t.Errorf("second load did not come from the cache")
	}

	_, err = s.LoadClimb("PA28")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadClimb(PA28) error = %v, want fs.ErrNotExist", err)
	}
}
