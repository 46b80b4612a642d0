package sync

import "testing"

func TestStats_PerEntityCounters(t *testing.T) {
	s := NewStats()

	s.RecordDeveloper(true)
	s.RecordDeveloper(false)
	s.RecordCity(true)
	s.RecordDistrict(true)
	s.RecordDistrict(false)

	s.RecordDeveloperError("developer %d: boom", 1)
	s.RecordCityError("city %d: boom", 2)
	s.RecordDistrictError("district %d: boom", 3)
	s.RecordPropertyError("property %d: boom", 4)
	s.RecordError("reference data: boom")

	snap := s.Snapshot()
	if snap.DevelopersCreated != 1 || snap.DevelopersUpdated != 1 {
		t.Fatalf("developer counters: %+v", snap)
	}
	if snap.DistrictsCreated != 1 || snap.DistrictsUpdated != 1 {
		t.Fatalf("district counters: %+v", snap)
	}
	if snap.DevelopersErrors != 1 || snap.CitiesErrors != 1 || snap.DistrictsErrors != 1 || snap.PropertiesErrors != 1 {
		t.Fatalf("error counters: %+v", snap)
	}
	if snap.ErrorsCount != 5 {
		t.Fatalf("expected 5 errors in the flat list, got %d", snap.ErrorsCount)
	}
}
