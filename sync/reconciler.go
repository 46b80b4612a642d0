// Package sync reconciles Estaty API payloads into the portal database.
// Records are keyed by their upstream external id; internal uuid primary
// keys and slugs never leave the database once assigned.
package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"estaty_sync/content"
	"estaty_sync/estaty"
	"estaty_sync/models"
)

// Outcome classifies what a reconciliation did with one record.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkipped:
		return "skipped"
	}
	return "unknown"
}

// Store is the persistence surface the reconciler needs. Satisfied by
// storage.PostgresStore.
type Store interface {
	UpsertDeveloper(ctx context.Context, d *models.Developer) error
	GetDeveloperByExternalID(ctx context.Context, externalID int64) (*models.Developer, error)
	GetDeveloperBySlug(ctx context.Context, slug string) (*models.Developer, error)

	UpsertCity(ctx context.Context, c *models.City) error
	GetCityByExternalID(ctx context.Context, externalID int64) (*models.City, error)
	GetCityBySlug(ctx context.Context, slug string) (*models.City, error)

	UpsertDistrict(ctx context.Context, d *models.District) error
	GetDistrictByExternalID(ctx context.Context, externalID int64) (*models.District, error)
	GetDistrictBySlug(ctx context.Context, slug string) (*models.District, error)

	UpsertProperty(ctx context.Context, p *models.Property) error
	GetPropertyByExternalID(ctx context.Context, externalID int64) (*models.Property, error)
	GetPropertyBySlug(ctx context.Context, slug string) (*models.Property, error)

	ReplaceUnits(ctx context.Context, propertyID uuid.UUID, units []models.Unit) error
	ReplaceImages(ctx context.Context, propertyID uuid.UUID, images []models.PropertyImage) error
	ReplaceFloorPlans(ctx context.Context, propertyID uuid.UUID, plans []models.FloorPlan) error

	CreateSyncRun(ctx context.Context, run *models.SyncRun) error
	UpdateSyncRun(ctx context.Context, run *models.SyncRun) error
}

const (
	unknownDeveloperName = "Unknown Developer"
	unknownCityName      = "Unknown City"
)

// Reconciler maps one canonical Estaty record onto the database.
type Reconciler struct {
	store   Store
	options Options
}

func NewReconciler(store Store, options Options) *Reconciler {
	return &Reconciler{store: store, options: options}
}

// UpsertDeveloperRef reconciles one developer reference from getFilters.
func (r *Reconciler) UpsertDeveloperRef(ctx context.Context, ref estaty.Ref, stats *Stats) error {
	existing, err := r.store.GetDeveloperByExternalID(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("get developer %d: %w", ref.ID, err)
	}

	name := ref.Name
	if name == "" {
		name = unknownDeveloperName
	}

	d := &models.Developer{
		ID:         uuid.New(),
		ExternalID: ref.ID,
		Name:       name,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if existing != nil {
		d.ID = existing.ID
		d.Slug = existing.Slug
	} else {
		slug, err := r.uniqueDeveloperSlug(ctx, name, ref.ID)
		if err != nil {
			return err
		}
		d.Slug = slug
	}

	if err := r.store.UpsertDeveloper(ctx, d); err != nil {
		return fmt.Errorf("upsert developer %d: %w", ref.ID, err)
	}
	if stats != nil {
		stats.RecordDeveloper(existing == nil)
	}
	return nil
}

// UpsertCityRef reconciles one city reference from getFilters.
func (r *Reconciler) UpsertCityRef(ctx context.Context, ref estaty.Ref, stats *Stats) error {
	existing, err := r.store.GetCityByExternalID(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("get city %d: %w", ref.ID, err)
	}

	name := ref.Name
	if name == "" {
		name = unknownCityName
	}

	c := &models.City{
		ID:         uuid.New(),
		ExternalID: ref.ID,
		Name:       name,
		Lat:        ref.Lat,
		Lng:        ref.Lng,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if existing != nil {
		c.ID = existing.ID
		c.Slug = existing.Slug
	} else {
		slug, err := r.uniqueCitySlug(ctx, name, ref.ID)
		if err != nil {
			return err
		}
		c.Slug = slug
	}

	if err := r.store.UpsertCity(ctx, c); err != nil {
		return fmt.Errorf("upsert city %d: %w", ref.ID, err)
	}
	if stats != nil {
		stats.RecordCity(existing == nil)
	}
	return nil
}

// UpsertDistrictRef reconciles one district reference from getFilters.
// Districts require a resolvable parent city; refs without one are
// skipped rather than stubbed.
func (r *Reconciler) UpsertDistrictRef(ctx context.Context, ref estaty.Ref, stats *Stats) error {
	if ref.CityID == nil {
		log.Printf("Warning: district %d has no city_id, skipping", ref.ID)
		return nil
	}
	city, err := r.store.GetCityByExternalID(ctx, *ref.CityID)
	if err != nil {
		return fmt.Errorf("get city %d for district %d: %w", *ref.CityID, ref.ID, err)
	}
	if city == nil {
		log.Printf("Warning: district %d references unknown city %d, skipping", ref.ID, *ref.CityID)
		return nil
	}

	existing, err := r.store.GetDistrictByExternalID(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("get district %d: %w", ref.ID, err)
	}

	d := &models.District{
		ID:         uuid.New(),
		ExternalID: ref.ID,
		CityID:     city.ID,
		Name:       ref.Name,
		Lat:        ref.Lat,
		Lng:        ref.Lng,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if existing != nil {
		d.ID = existing.ID
		d.Slug = existing.Slug
	} else {
		slug, err := r.uniqueDistrictSlug(ctx, ref.Name, ref.ID)
		if err != nil {
			return err
		}
		d.Slug = slug
	}

	if err := r.store.UpsertDistrict(ctx, d); err != nil {
		return fmt.Errorf("upsert district %d: %w", ref.ID, err)
	}
	if stats != nil {
		stats.RecordDistrict(existing == nil)
	}
	return nil
}

// UpsertProperty reconciles one canonical property. Parent developer and
// city are resolved by external id, with placeholder rows created when
// the payload references an id the reference data never delivered. A
// failed placeholder means the property cannot satisfy its required
// foreign keys, so it is skipped with an error.
func (r *Reconciler) UpsertProperty(ctx context.Context, src *estaty.Property) (Outcome, error) {
	if src.ID == 0 {
		return OutcomeSkipped, fmt.Errorf("property has no id")
	}
	if src.Title == "" {
		return OutcomeSkipped, fmt.Errorf("property %d has no title", src.ID)
	}

	developerID, err := r.resolveDeveloper(ctx, src)
	if err != nil {
		return OutcomeSkipped, err
	}
	cityID, err := r.resolveCity(ctx, src)
	if err != nil {
		return OutcomeSkipped, err
	}
	districtID := r.resolveDistrict(ctx, src)

	existing, err := r.store.GetPropertyByExternalID(ctx, src.ID)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("get property %d: %w", src.ID, err)
	}

	p := r.buildProperty(src, developerID, cityID, districtID)
	if existing != nil {
		p.ID = existing.ID
		p.Slug = existing.Slug
		p.CreatedAt = existing.CreatedAt
	} else {
		slug, err := r.uniquePropertySlug(ctx, src.Title, src.ID)
		if err != nil {
			return OutcomeSkipped, err
		}
		p.Slug = slug
	}

	if err := r.store.UpsertProperty(ctx, p); err != nil {
		return OutcomeSkipped, fmt.Errorf("upsert property %d: %w", src.ID, err)
	}

	if err := r.replaceChildren(ctx, p.ID, src); err != nil {
		return OutcomeSkipped, err
	}

	if existing == nil {
		return OutcomeCreated, nil
	}
	return OutcomeUpdated, nil
}

func (r *Reconciler) resolveDeveloper(ctx context.Context, src *estaty.Property) (uuid.UUID, error) {
	if src.DeveloperID != nil {
		d, err := r.store.GetDeveloperByExternalID(ctx, *src.DeveloperID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("get developer %d: %w", *src.DeveloperID, err)
		}
		if d != nil {
			return d.ID, nil
		}
	}

	// Placeholder developer. Keyed by the upstream id when one exists,
	// or by the negated property id so each orphan gets its own row.
	externalID := -src.ID
	if src.DeveloperID != nil {
		externalID = *src.DeveloperID
	}
	name := src.DeveloperName
	if name == "" {
		name = unknownDeveloperName
	}

	slug, err := r.uniqueDeveloperSlug(ctx, fmt.Sprintf("%s-%d", name, externalID), externalID)
	if err != nil {
		return uuid.Nil, err
	}
	d := &models.Developer{
		ID:         uuid.New(),
		ExternalID: externalID,
		Name:       name,
		Slug:       slug,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := r.store.UpsertDeveloper(ctx, d); err != nil {
		return uuid.Nil, fmt.Errorf("create placeholder developer for property %d: %w", src.ID, err)
	}
	return d.ID, nil
}

func (r *Reconciler) resolveCity(ctx context.Context, src *estaty.Property) (uuid.UUID, error) {
	if src.CityID != nil {
		c, err := r.store.GetCityByExternalID(ctx, *src.CityID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("get city %d: %w", *src.CityID, err)
		}
		if c != nil {
			return c.ID, nil
		}
	}

	externalID := -src.ID
	if src.CityID != nil {
		externalID = *src.CityID
	}
	name := src.CityName
	if name == "" {
		name = unknownCityName
	}

	slug, err := r.uniqueCitySlug(ctx, fmt.Sprintf("%s-%d", name, externalID), externalID)
	if err != nil {
		return uuid.Nil, err
	}
	c := &models.City{
		ID:         uuid.New(),
		ExternalID: externalID,
		Name:       name,
		Slug:       slug,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := r.store.UpsertCity(ctx, c); err != nil {
		return uuid.Nil, fmt.Errorf("create placeholder city for property %d: %w", src.ID, err)
	}
	return c.ID, nil
}

// resolveDistrict is lookup only. A district id that cannot be resolved
// leaves the property without one; districts are never stubbed because a
// placeholder would need a parent city we cannot guess.
func (r *Reconciler) resolveDistrict(ctx context.Context, src *estaty.Property) *uuid.UUID {
	if src.DistrictID == nil {
		return nil
	}
	d, err := r.store.GetDistrictByExternalID(ctx, *src.DistrictID)
	if err != nil {
		log.Printf("Warning: lookup district %d for property %d: %v", *src.DistrictID, src.ID, err)
		return nil
	}
	if d == nil {
		return nil
	}
	return &d.ID
}

func (r *Reconciler) buildProperty(src *estaty.Property, developerID, cityID uuid.UUID, districtID *uuid.UUID) *models.Property {
	currency := src.Currency
	if currency == "" {
		currency = estaty.DefaultCurrency
	}
	areaUnit := src.AreaUnit
	if areaUnit == "" {
		areaUnit = estaty.DefaultAreaUnit
	}

	description := content.CleanPropertyDescription(src.Description)

	lat := content.ParseCoordinateFromAddress(src.Address, "lat")
	lng := content.ParseCoordinateFromAddress(src.Address, "lng")

	return &models.Property{
		ID:              uuid.New(),
		ExternalID:      src.ID,
		Title:           src.Title,
		Description:     description,
		Status:          models.NormalizePropertyStatus(src.Status),
		SalesStatus:     models.NormalizeSalesStatus(src.SalesStatus),
		PropertyType:    models.NormalizePropertyType(src.PropertyType),
		MinPrice:        src.MinPrice,
		MaxPrice:        src.MaxPrice,
		Currency:        currency,
		MinArea:         src.MinArea,
		MaxArea:         src.MaxArea,
		AreaUnit:        areaUnit,
		Lat:             lat,
		Lng:             lng,
		DeliveryDate:    parseDeliveryDate(src.DeliveryDate),
		HandoverYear:    src.HandoverYear,
		HandoverQuarter: src.HandoverQuarter,
		HeroImageURL:    src.HeroImageURL,
		BrochureURL:     src.BrochureURL,
		VideoURL:        src.VideoURL,
		Amenities:       emptyIfNil(src.Amenities),
		Facilities:      emptyIfNil(src.Facilities),
		PaymentPlans:    emptyIfNil(src.PaymentPlans),
		KeyFeatures:     emptyIfNil(content.ExtractKeyFeatures(src.Description)),
		Highlights:      emptyIfNil(content.ExtractLocationHighlights(src.Description)),
		DeveloperID:     developerID,
		CityID:          cityID,
		DistrictID:      districtID,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

// replaceChildren swaps each child collection only when the payload
// carried that field. A nil slice means the endpoint did not include the
// data and the stored snapshot must survive; an empty non-nil slice is an
// explicit "no children" and clears it.
func (r *Reconciler) replaceChildren(ctx context.Context, propertyID uuid.UUID, src *estaty.Property) error {
	if src.Units != nil {
		units := make([]models.Unit, 0, len(src.Units))
		for _, u := range src.Units {
			units = append(units, models.Unit{
				ID:            uuid.New(),
				PropertyID:    propertyID,
				ExternalID:    u.ID,
				UnitType:      u.UnitType,
				Bedrooms:      u.Bedrooms,
				Bathrooms:     u.Bathrooms,
				Size:          u.Size,
				Price:         u.Price,
				Floor:         u.Floor,
				View:          u.View,
				Status:        models.NormalizeUnitStatus(u.Status),
				Availability:  u.Availability,
				ServiceCharge: u.ServiceCharge,
				PaymentPlan:   u.PaymentPlan,
			})
		}
		if err := r.store.ReplaceUnits(ctx, propertyID, units); err != nil {
			return fmt.Errorf("replace units for property %s: %w", propertyID, err)
		}
	}

	if src.Images != nil && !r.options.SkipImages {
		images := make([]models.PropertyImage, 0, len(src.Images))
		for _, img := range src.Images {
			images = append(images, models.PropertyImage{
				ID:         uuid.New(),
				PropertyID: propertyID,
				URL:        img.URL,
				Alt:        img.Alt,
				Caption:    img.Caption,
				Tag:        models.NormalizeImageTag(img.Tag),
				SortOrder:  img.SortOrder,
				Width:      img.Width,
				Height:     img.Height,
				FileSize:   img.FileSize,
			})
		}
		if err := r.store.ReplaceImages(ctx, propertyID, images); err != nil {
			return fmt.Errorf("replace images for property %s: %w", propertyID, err)
		}
	}

	if src.FloorPlans != nil && !r.options.SkipFloorPlans {
		plans := make([]models.FloorPlan, 0, len(src.FloorPlans))
		for _, fp := range src.FloorPlans {
			plans = append(plans, models.FloorPlan{
				ID:         uuid.New(),
				PropertyID: propertyID,
				Title:      fp.Title,
				PlanType:   fp.PlanType,
				Bedrooms:   fp.Bedrooms,
				Bathrooms:  fp.Bathrooms,
				Size:       fp.Size,
				ImageURL:   fp.ImageURL,
				PDFURL:     fp.PDFURL,
			})
		}
		if err := r.store.ReplaceFloorPlans(ctx, propertyID, plans); err != nil {
			return fmt.Errorf("replace floor plans for property %s: %w", propertyID, err)
		}
	}

	return nil
}

// =============================================================================
// Slug allocation
// =============================================================================

// uniqueSlug walks base, base-1, base-2, ... until a slug is free or
// already owned by the record being reconciled (re-syncs must not drift
// their own slug).
func uniqueSlug(ctx context.Context, base string, externalID int64,
	lookup func(context.Context, string) (int64, bool, error)) (string, error) {

	if base == "" {
		base = fmt.Sprintf("item-%d", externalID)
	}
	slug := base
	for i := 1; ; i++ {
		owner, found, err := lookup(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", slug, err)
		}
		if !found || owner == externalID {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (r *Reconciler) uniqueDeveloperSlug(ctx context.Context, name string, externalID int64) (string, error) {
	return uniqueSlug(ctx, models.Slugify(name), externalID,
		func(ctx context.Context, slug string) (int64, bool, error) {
			d, err := r.store.GetDeveloperBySlug(ctx, slug)
			if err != nil || d == nil {
				return 0, false, err
			}
			return d.ExternalID, true, nil
		})
}

func (r *Reconciler) uniqueCitySlug(ctx context.Context, name string, externalID int64) (string, error) {
	return uniqueSlug(ctx, models.Slugify(name), externalID,
		func(ctx context.Context, slug string) (int64, bool, error) {
			c, err := r.store.GetCityBySlug(ctx, slug)
			if err != nil || c == nil {
				return 0, false, err
			}
			return c.ExternalID, true, nil
		})
}

func (r *Reconciler) uniqueDistrictSlug(ctx context.Context, name string, externalID int64) (string, error) {
	return uniqueSlug(ctx, models.Slugify(name), externalID,
		func(ctx context.Context, slug string) (int64, bool, error) {
			d, err := r.store.GetDistrictBySlug(ctx, slug)
			if err != nil || d == nil {
				return 0, false, err
			}
			return d.ExternalID, true, nil
		})
}

func (r *Reconciler) uniquePropertySlug(ctx context.Context, title string, externalID int64) (string, error) {
	return uniqueSlug(ctx, models.Slugify(title), externalID,
		func(ctx context.Context, slug string) (int64, bool, error) {
			p, err := r.store.GetPropertyBySlug(ctx, slug)
			if err != nil || p == nil {
				return 0, false, err
			}
			return p.ExternalID, true, nil
		})
}

// =============================================================================
// Helpers
// =============================================================================

var deliveryDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"01/2006",
	"2006",
}

func parseDeliveryDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range deliveryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
