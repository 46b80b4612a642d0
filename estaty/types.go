package estaty

import (
	"encoding/json"
	"strings"
)

// Canonical shapes handed to the sync pipeline. The Estaty API has
// migrated its response schema at least once, so the raw decode structs
// below carry both the current and the legacy field names and normalize
// collapses them into these records. Nil child slices mean the field was
// absent from the payload; an empty non-nil slice means upstream sent an
// explicit empty array. The two are not interchangeable (child-collection
// replacement only runs when the field is present).

type Property struct {
	ID              int64
	Title           string
	Description     string
	Address         string
	Status          string
	SalesStatus     string
	PropertyType    string
	DeveloperID     *int64
	DeveloperName   string
	CityID          *int64
	CityName        string
	DistrictID      *int64
	MinPrice        *float64
	MaxPrice        *float64
	Currency        string
	MinArea         *float64
	MaxArea         *float64
	AreaUnit        string
	DeliveryDate    string
	HandoverYear    *int
	HandoverQuarter *int
	HeroImageURL    string
	BrochureURL     string
	VideoURL        string
	Amenities       []string
	Facilities      []string
	PaymentPlans    []string
	IsDraft         bool

	Images     []Image
	FloorPlans []FloorPlan
	Units      []Unit
}

// HasMediaFields reports whether the summary already carries embedded
// media data, letting the orchestrator skip the per-id detail call.
func (p *Property) HasMediaFields() bool {
	return p.Images != nil || p.FloorPlans != nil
}

type Image struct {
	URL       string
	Alt       string
	Caption   string
	Tag       string
	SortOrder int
	Width     *int
	Height    *int
	FileSize  *int64
}

type FloorPlan struct {
	Title     string
	PlanType  string
	Bedrooms  *int
	Bathrooms *int
	Size      *float64
	ImageURL  string
	PDFURL    string
}

type Unit struct {
	ID            *int64
	UnitType      string
	Bedrooms      *int
	Bathrooms     *int
	Size          *float64
	Price         *float64
	Floor         string
	View          string
	Status        string
	Availability  string
	ServiceCharge *float64
	PaymentPlan   string
}

// Ref is a reference-data entry from getFilters (city, developer,
// district, property type, amenity, ...).
type Ref struct {
	ID     int64
	Name   string
	CityID *int64
	Lat    *float64
	Lng    *float64
}

type Filters struct {
	Cities        []Ref
	Developers    []Ref
	Districts     []Ref
	PropertyTypes []Ref
	Amenities     []Ref
	Facilities    []Ref
	PaymentPlans  []Ref
}

// nameField tolerates upstream sending either a bare string or an object
// with a name/title key for the same field.
type nameField string

func (n *nameField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = nameField(s)
		return nil
	}
	var obj struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Name != "" {
			*n = nameField(obj.Name)
		} else {
			*n = nameField(obj.Title)
		}
		return nil
	}
	*n = ""
	return nil
}

// tagList tolerates either ["Pool","Gym"] or [{"name":"Pool"},...].
type tagList []nameField

func (t tagList) strings() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t))
	for _, v := range t {
		if s := strings.TrimSpace(string(v)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type rawRef struct {
	ID     int64     `json:"id"`
	Name   nameField `json:"name"`
	Title  nameField `json:"title"`
	CityID *int64    `json:"city_id"`
	Lat    *float64  `json:"lat"`
	Lng    *float64  `json:"lng"`
}

func (r *rawRef) normalize() Ref {
	name := string(r.Name)
	if name == "" {
		name = string(r.Title)
	}
	return Ref{ID: r.ID, Name: name, CityID: r.CityID, Lat: r.Lat, Lng: r.Lng}
}

type rawImage struct {
	URL       string    `json:"url"`
	Image     string    `json:"image"` // legacy key
	Alt       string    `json:"alt"`
	Caption   string    `json:"caption"`
	Tag       nameField `json:"tag"`
	Type      nameField `json:"type"` // legacy key
	SortOrder int       `json:"sort_order"`
	Position  int       `json:"position"` // legacy key
	Width     *int      `json:"width"`
	Height    *int      `json:"height"`
	FileSize  *int64    `json:"file_size"`
}

func (r *rawImage) normalize(order int) Image {
	url := r.URL
	if url == "" {
		url = r.Image
	}
	tag := string(r.Tag)
	if tag == "" {
		tag = string(r.Type)
	}
	sort := r.SortOrder
	if sort == 0 && r.Position != 0 {
		sort = r.Position
	}
	if sort == 0 {
		sort = order
	}
	return Image{
		URL: url, Alt: r.Alt, Caption: r.Caption, Tag: tag,
		SortOrder: sort, Width: r.Width, Height: r.Height, FileSize: r.FileSize,
	}
}

type rawFloorPlan struct {
	Title     string    `json:"title"`
	Name      string    `json:"name"` // legacy key
	PlanType  nameField `json:"plan_type"`
	Type      nameField `json:"type"` // legacy key
	Bedrooms  *int      `json:"bedrooms"`
	Rooms     *int      `json:"rooms"` // legacy key
	Bathrooms *int      `json:"bathrooms"`
	Size      *float64  `json:"size"`
	Area      *float64  `json:"area"` // legacy key
	Image     string    `json:"image"`
	PDF       string    `json:"pdf"`
	File      string    `json:"file"` // legacy key
}

func (r *rawFloorPlan) normalize() FloorPlan {
	title := r.Title
	if title == "" {
		title = r.Name
	}
	planType := string(r.PlanType)
	if planType == "" {
		planType = string(r.Type)
	}
	bedrooms := r.Bedrooms
	if bedrooms == nil {
		bedrooms = r.Rooms
	}
	size := r.Size
	if size == nil {
		size = r.Area
	}
	pdf := r.PDF
	if pdf == "" {
		pdf = r.File
	}
	return FloorPlan{
		Title: title, PlanType: planType,
		Bedrooms: bedrooms, Bathrooms: r.Bathrooms, Size: size,
		ImageURL: r.Image, PDFURL: pdf,
	}
}

type rawUnit struct {
	ID            *int64    `json:"id"`
	UnitType      nameField `json:"unit_type"`
	Type          nameField `json:"type"` // legacy key
	Bedrooms      *int      `json:"bedrooms"`
	Bathrooms     *int      `json:"bathrooms"`
	Size          *float64  `json:"size"`
	Area          *float64  `json:"area"` // legacy key
	Price         *float64  `json:"price"`
	Floor         string    `json:"floor"`
	View          string    `json:"view"`
	Status        string    `json:"status"`
	Availability  string    `json:"availability"`
	ServiceCharge *float64  `json:"service_charge"`
	PaymentPlan   string    `json:"payment_plan"`
}

func (r *rawUnit) normalize() Unit {
	unitType := string(r.UnitType)
	if unitType == "" {
		unitType = string(r.Type)
	}
	size := r.Size
	if size == nil {
		size = r.Area
	}
	return Unit{
		ID: r.ID, UnitType: unitType,
		Bedrooms: r.Bedrooms, Bathrooms: r.Bathrooms,
		Size: size, Price: r.Price,
		Floor: r.Floor, View: r.View,
		Status: r.Status, Availability: r.Availability,
		ServiceCharge: r.ServiceCharge, PaymentPlan: r.PaymentPlan,
	}
}

type rawProperty struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Name            string    `json:"name"` // legacy key
	Description     string    `json:"description"`
	Address         string    `json:"address"`
	Status          nameField `json:"status"`
	SalesStatus     nameField `json:"sales_status"`
	PropertyType    nameField `json:"property_type"`
	DeveloperID     *int64    `json:"developer_company_id"`
	Developer       *rawRef   `json:"developer_company"`
	CityID          *int64    `json:"city_id"`
	City            *rawRef   `json:"city"`
	DistrictID      *int64    `json:"district_id"`
	MinPrice        *float64  `json:"min_price"`
	LowPrice        *float64  `json:"low_price"` // legacy key
	MaxPrice        *float64  `json:"max_price"`
	Currency        string    `json:"currency"`
	MinArea         *float64  `json:"min_area"`
	MaxArea         *float64  `json:"max_area"`
	AreaUnit        string    `json:"area_unit"`
	DeliveryDate    string    `json:"delivery_date"`
	HandoverYear    *int      `json:"handover_year"`
	HandoverQuarter *int      `json:"handover_quarter"`
	HeroImage       string    `json:"hero_image"`
	CoverImage      string    `json:"cover"` // legacy key
	Brochure        string    `json:"brochure"`
	Video           string    `json:"video"`
	Amenities       tagList   `json:"amenities"`
	Facilities      tagList   `json:"facilities"`
	PaymentPlans    tagList   `json:"payment_plans"`
	IsDraft         bool      `json:"is_draft"`

	// Current child-collection shape.
	PropertyImages    []rawImage     `json:"property_images"`
	GroupedApartments []rawFloorPlan `json:"grouped_apartments"`
	ResidentialUnits  []rawUnit      `json:"residential_units"`
	CommercialUnits   []rawUnit      `json:"commercial_units"`

	// Legacy child-collection shape, used only when the current field is
	// entirely absent. Never merged with the current shape.
	LegacyImages     []rawImage     `json:"images"`
	LegacyFloorPlans []rawFloorPlan `json:"floor_plans"`
	LegacyUnits      []rawUnit      `json:"units"`
}

func (r *rawProperty) normalize() *Property {
	title := r.Title
	if title == "" {
		title = r.Name
	}

	developerID := r.DeveloperID
	developerName := ""
	if r.Developer != nil {
		if developerID == nil && r.Developer.ID != 0 {
			id := r.Developer.ID
			developerID = &id
		}
		developerName = r.Developer.normalize().Name
	}

	cityID := r.CityID
	cityName := ""
	if r.City != nil {
		if cityID == nil && r.City.ID != 0 {
			id := r.City.ID
			cityID = &id
		}
		cityName = r.City.normalize().Name
	}

	minPrice := r.MinPrice
	if minPrice == nil {
		minPrice = r.LowPrice
	}

	hero := r.HeroImage
	if hero == "" {
		hero = r.CoverImage
	}

	p := &Property{
		ID:              r.ID,
		Title:           title,
		Description:     r.Description,
		Address:         r.Address,
		Status:          string(r.Status),
		SalesStatus:     string(r.SalesStatus),
		PropertyType:    string(r.PropertyType),
		DeveloperID:     developerID,
		DeveloperName:   developerName,
		CityID:          cityID,
		CityName:        cityName,
		DistrictID:      r.DistrictID,
		MinPrice:        minPrice,
		MaxPrice:        r.MaxPrice,
		Currency:        r.Currency,
		MinArea:         r.MinArea,
		MaxArea:         r.MaxArea,
		AreaUnit:        r.AreaUnit,
		DeliveryDate:    r.DeliveryDate,
		HandoverYear:    r.HandoverYear,
		HandoverQuarter: r.HandoverQuarter,
		HeroImageURL:    hero,
		BrochureURL:     r.Brochure,
		VideoURL:        r.Video,
		Amenities:       r.Amenities.strings(),
		Facilities:      r.Facilities.strings(),
		PaymentPlans:    r.PaymentPlans.strings(),
		IsDraft:         r.IsDraft,
	}

	if r.PropertyImages != nil {
		p.Images = normalizeImages(r.PropertyImages)
	} else if r.LegacyImages != nil {
		p.Images = normalizeImages(r.LegacyImages)
	}

	if r.GroupedApartments != nil {
		p.FloorPlans = normalizeFloorPlans(r.GroupedApartments)
	} else if r.LegacyFloorPlans != nil {
		p.FloorPlans = normalizeFloorPlans(r.LegacyFloorPlans)
	}

	if r.ResidentialUnits != nil || r.CommercialUnits != nil {
		units := make([]Unit, 0, len(r.ResidentialUnits)+len(r.CommercialUnits))
		for i := range r.ResidentialUnits {
			units = append(units, r.ResidentialUnits[i].normalize())
		}
		for i := range r.CommercialUnits {
			units = append(units, r.CommercialUnits[i].normalize())
		}
		p.Units = units
	} else if r.LegacyUnits != nil {
		units := make([]Unit, 0, len(r.LegacyUnits))
		for i := range r.LegacyUnits {
			units = append(units, r.LegacyUnits[i].normalize())
		}
		p.Units = units
	}

	return p
}

func normalizeImages(raw []rawImage) []Image {
	images := make([]Image, 0, len(raw))
	for i := range raw {
		img := raw[i].normalize(i)
		if img.URL == "" {
			continue
		}
		images = append(images, img)
	}
	return images
}

func normalizeFloorPlans(raw []rawFloorPlan) []FloorPlan {
	plans := make([]FloorPlan, 0, len(raw))
	for i := range raw {
		plans = append(plans, raw[i].normalize())
	}
	return plans
}

// rawFilters carries every key name the getFilters endpoint has used
// across schema revisions ("cites" is a long-lived upstream typo).
type rawFilters struct {
	Cities             []rawRef `json:"cities"`
	Cites              []rawRef `json:"cites"`
	Developers         []rawRef `json:"developers"`
	DeveloperCompanies []rawRef `json:"developer_companies"`
	Districts          []rawRef `json:"districts"`
	Areas              []rawRef `json:"areas"`
	PropertyTypes      []rawRef `json:"property_types"`
	Types              []rawRef `json:"types"`
	Amenities          []rawRef `json:"amenities"`
	Facilities         []rawRef `json:"facilities"`
	PaymentPlans       []rawRef `json:"payment_plans"`
}

func (r *rawFilters) normalize() *Filters {
	return &Filters{
		Cities:        normalizeRefs(firstPresent(r.Cities, r.Cites)),
		Developers:    normalizeRefs(firstPresent(r.Developers, r.DeveloperCompanies)),
		Districts:     normalizeRefs(firstPresent(r.Districts, r.Areas)),
		PropertyTypes: normalizeRefs(firstPresent(r.PropertyTypes, r.Types)),
		Amenities:     normalizeRefs(r.Amenities),
		Facilities:    normalizeRefs(r.Facilities),
		PaymentPlans:  normalizeRefs(r.PaymentPlans),
	}
}

func firstPresent(current, legacy []rawRef) []rawRef {
	if current != nil {
		return current
	}
	return legacy
}

func normalizeRefs(raw []rawRef) []Ref {
	refs := make([]Ref, 0, len(raw))
	for i := range raw {
		refs = append(refs, raw[i].normalize())
	}
	return refs
}
