package sync

import (
	"context"
	stdsync "sync"

	"github.com/google/uuid"
	"estaty_sync/estaty"
	"estaty_sync/models"
)

// fakeStore is an in-memory Store for reconciler and orchestrator tests.
type fakeStore struct {
	mu stdsync.Mutex

	developers map[int64]*models.Developer
	cities     map[int64]*models.City
	districts  map[int64]*models.District
	properties map[int64]*models.Property

	units  map[uuid.UUID][]models.Unit
	images map[uuid.UUID][]models.PropertyImage
	plans  map[uuid.UUID][]models.FloorPlan

	runs []*models.SyncRun
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		developers: make(map[int64]*models.Developer),
		cities:     make(map[int64]*models.City),
		districts:  make(map[int64]*models.District),
		properties: make(map[int64]*models.Property),
		units:      make(map[uuid.UUID][]models.Unit),
		images:     make(map[uuid.UUID][]models.PropertyImage),
		plans:      make(map[uuid.UUID][]models.FloorPlan),
	}
}

func (f *fakeStore) UpsertDeveloper(ctx context.Context, d *models.Developer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	f.developers[d.ExternalID] = &cp
	return nil
}

func (f *fakeStore) GetDeveloperByExternalID(ctx context.Context, id int64) (*models.Developer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.developers[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) GetDeveloperBySlug(ctx context.Context, slug string) (*models.Developer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.developers {
		if d.Slug == slug {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpsertCity(ctx context.Context, c *models.City) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.cities[c.ExternalID] = &cp
	return nil
}

func (f *fakeStore) GetCityByExternalID(ctx context.Context, id int64) (*models.City, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.cities[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) GetCityBySlug(ctx context.Context, slug string) (*models.City, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cities {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpsertDistrict(ctx context.Context, d *models.District) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	f.districts[d.ExternalID] = &cp
	return nil
}

func (f *fakeStore) GetDistrictByExternalID(ctx context.Context, id int64) (*models.District, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.districts[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) GetDistrictBySlug(ctx context.Context, slug string) (*models.District, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.districts {
		if d.Slug == slug {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpsertProperty(ctx context.Context, p *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.properties[p.ExternalID]; ok {
		p.ID = existing.ID
	}
	cp := *p
	f.properties[p.ExternalID] = &cp
	return nil
}

func (f *fakeStore) GetPropertyByExternalID(ctx context.Context, id int64) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.properties[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) GetPropertyBySlug(ctx context.Context, slug string) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.properties {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ReplaceUnits(ctx context.Context, propertyID uuid.UUID, units []models.Unit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.units[propertyID] = units
	return nil
}

func (f *fakeStore) ReplaceImages(ctx context.Context, propertyID uuid.UUID, images []models.PropertyImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[propertyID] = images
	return nil
}

func (f *fakeStore) ReplaceFloorPlans(ctx context.Context, propertyID uuid.UUID, plans []models.FloorPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans[propertyID] = plans
	return nil
}

func (f *fakeStore) CreateSyncRun(ctx context.Context, run *models.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run.ID = int64(len(f.runs) + 1)
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeStore) UpdateSyncRun(ctx context.Context, run *models.SyncRun) error {
	return nil
}

// fakeClient serves canned payloads and records detail-fetch calls.
type fakeClient struct {
	mu stdsync.Mutex

	filters    *estaty.Filters
	filtersErr error
	list       []estaty.Property
	details    map[int64]*estaty.Property
	created    []estaty.Property
	updated    []estaty.Property
	detailHits map[int64]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		filters:    &estaty.Filters{},
		details:    make(map[int64]*estaty.Property),
		detailHits: make(map[int64]int),
	}
}

func (f *fakeClient) GetFilters(ctx context.Context) (*estaty.Filters, error) {
	if f.filtersErr != nil {
		return nil, f.filtersErr
	}
	return f.filters, nil
}

func (f *fakeClient) FilterProperties(ctx context.Context, criteria estaty.FilterCriteria) ([]estaty.Property, error) {
	return f.list, nil
}

func (f *fakeClient) GetProperty(ctx context.Context, id int64) (*estaty.Property, error) {
	f.mu.Lock()
	f.detailHits[id]++
	f.mu.Unlock()
	return f.details[id], nil
}

func (f *fakeClient) LatestCreated(ctx context.Context) ([]estaty.Property, error) {
	return f.created, nil
}

func (f *fakeClient) LatestUpdated(ctx context.Context) ([]estaty.Property, error) {
	return f.updated, nil
}

func (f *fakeClient) hits(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailHits[id]
}
