package models

import (
	"regexp"
	"strings"
)

type PropertyStatus string

const (
	PropertyStatusUpcoming          PropertyStatus = "UPCOMING"
	PropertyStatusUnderConstruction PropertyStatus = "UNDER_CONSTRUCTION"
	PropertyStatusCompleted         PropertyStatus = "COMPLETED"
)

type SalesStatus string

const (
	SalesStatusPresale   SalesStatus = "PRESALE"
	SalesStatusAvailable SalesStatus = "AVAILABLE"
	SalesStatusSoldOut   SalesStatus = "SOLD_OUT"
	SalesStatusStopped   SalesStatus = "STOPPED"
)

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "APARTMENT"
	PropertyTypeVilla      PropertyType = "VILLA"
	PropertyTypeTownhouse  PropertyType = "TOWNHOUSE"
	PropertyTypePenthouse  PropertyType = "PENTHOUSE"
	PropertyTypeDuplex     PropertyType = "DUPLEX"
	PropertyTypeOffice     PropertyType = "OFFICE"
	PropertyTypeCommercial PropertyType = "COMMERCIAL"
	PropertyTypeLand       PropertyType = "LAND"
)

type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "AVAILABLE"
	UnitStatusReserved  UnitStatus = "RESERVED"
	UnitStatusSold      UnitStatus = "SOLD"
)

type ImageTag string

const (
	ImageTagHero       ImageTag = "HERO"
	ImageTagGallery    ImageTag = "GALLERY"
	ImageTagAmenity    ImageTag = "AMENITY"
	ImageTagLocation   ImageTag = "LOCATION"
	ImageTagFloorPlan  ImageTag = "FLOOR_PLAN"
	ImageTagExterior   ImageTag = "EXTERIOR"
	ImageTagInterior   ImageTag = "INTERIOR"
	ImageTagLifestyle  ImageTag = "LIFESTYLE"
	ImageTagMasterPlan ImageTag = "MASTER_PLAN"
)

var nonAlnumRunRegex = regexp.MustCompile(`[^a-z0-9]+`)

// enumKey normalizes an upstream free-text value for mapping table lookup:
// lowercased, runs of non-alphanumerics collapsed to a single underscore.
func enumKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnumRunRegex.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

var propertyStatusMap = map[string]PropertyStatus{
	"upcoming":           PropertyStatusUpcoming,
	"announced":          PropertyStatusUpcoming,
	"pre_launch":         PropertyStatusUpcoming,
	"presale":            PropertyStatusUpcoming,
	"under_construction": PropertyStatusUnderConstruction,
	"off_plan":           PropertyStatusUnderConstruction,
	"in_progress":        PropertyStatusUnderConstruction,
	"construction":       PropertyStatusUnderConstruction,
	"completed":          PropertyStatusCompleted,
	"ready":              PropertyStatusCompleted,
	"ready_to_move":      PropertyStatusCompleted,
	"delivered":          PropertyStatusCompleted,
}

var salesStatusMap = map[string]SalesStatus{
	"presale":        SalesStatusPresale,
	"pre_sale":       SalesStatusPresale,
	"pre_sales":      SalesStatusPresale,
	"available":      SalesStatusAvailable,
	"on_sale":        SalesStatusAvailable,
	"start_of_sales": SalesStatusAvailable,
	"sales_started":  SalesStatusAvailable,
	"announced":      SalesStatusAvailable,
	"sold_out":       SalesStatusSoldOut,
	"sold":           SalesStatusSoldOut,
	"stop_sales":     SalesStatusStopped,
	"stopped":        SalesStatusStopped,
	"on_hold":        SalesStatusStopped,
}

var propertyTypeMap = map[string]PropertyType{
	"apartment":  PropertyTypeApartment,
	"apartments": PropertyTypeApartment,
	"flat":       PropertyTypeApartment,
	"residence":  PropertyTypeApartment,
	"villa":      PropertyTypeVilla,
	"villas":     PropertyTypeVilla,
	"mansion":    PropertyTypeVilla,
	"townhouse":  PropertyTypeTownhouse,
	"town_house": PropertyTypeTownhouse,
	"penthouse":  PropertyTypePenthouse,
	"duplex":     PropertyTypeDuplex,
	"office":     PropertyTypeOffice,
	"offices":    PropertyTypeOffice,
	"retail":     PropertyTypeCommercial,
	"shop":       PropertyTypeCommercial,
	"commercial": PropertyTypeCommercial,
	"plot":       PropertyTypeLand,
	"land":       PropertyTypeLand,
}

var unitStatusMap = map[string]UnitStatus{
	"available": UnitStatusAvailable,
	"reserved":  UnitStatusReserved,
	"on_hold":   UnitStatusReserved,
	"sold":      UnitStatusSold,
	"sold_out":  UnitStatusSold,
}

var imageTagMap = map[string]ImageTag{
	"hero":        ImageTagHero,
	"main":        ImageTagHero,
	"cover":       ImageTagHero,
	"gallery":     ImageTagGallery,
	"amenity":     ImageTagAmenity,
	"amenities":   ImageTagAmenity,
	"location":    ImageTagLocation,
	"map":         ImageTagLocation,
	"floor_plan":  ImageTagFloorPlan,
	"floorplan":   ImageTagFloorPlan,
	"exterior":    ImageTagExterior,
	"interior":    ImageTagInterior,
	"lifestyle":   ImageTagLifestyle,
	"master_plan": ImageTagMasterPlan,
	"masterplan":  ImageTagMasterPlan,
}

// NormalizePropertyStatus maps an upstream status string to the local enum.
// Unknown values fall back to UPCOMING rather than failing the sync.
func NormalizePropertyStatus(s string) PropertyStatus {
	if v, ok := propertyStatusMap[enumKey(s)]; ok {
		return v
	}
	return PropertyStatusUpcoming
}

// NormalizeSalesStatus falls back to AVAILABLE for unmapped values.
func NormalizeSalesStatus(s string) SalesStatus {
	if v, ok := salesStatusMap[enumKey(s)]; ok {
		return v
	}
	return SalesStatusAvailable
}

// NormalizePropertyType falls back to APARTMENT for unmapped values.
func NormalizePropertyType(s string) PropertyType {
	if v, ok := propertyTypeMap[enumKey(s)]; ok {
		return v
	}
	return PropertyTypeApartment
}

// NormalizeUnitStatus falls back to AVAILABLE for unmapped values.
func NormalizeUnitStatus(s string) UnitStatus {
	if v, ok := unitStatusMap[enumKey(s)]; ok {
		return v
	}
	return UnitStatusAvailable
}

// NormalizeImageTag falls back to GALLERY for unmapped values.
func NormalizeImageTag(s string) ImageTag {
	if v, ok := imageTagMap[enumKey(s)]; ok {
		return v
	}
	return ImageTagGallery
}
