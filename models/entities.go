package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Developer is an off-plan project developer. externalId is the Estaty id
// and the only cross-sync identity; the uuid primary key stays internal.
type Developer struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ExternalID  int64     `json:"external_id" db:"external_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	LogoURL     string    `json:"logo_url" db:"logo_url"`
	Website     string    `json:"website" db:"website"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type City struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ExternalID int64     `json:"external_id" db:"external_id"`
	Name       string    `json:"name" db:"name"`
	Slug       string    `json:"slug" db:"slug"`
	Lat        *float64  `json:"lat" db:"lat"`
	Lng        *float64  `json:"lng" db:"lng"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// District always belongs to a city; it is never created without one.
type District struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ExternalID int64     `json:"external_id" db:"external_id"`
	CityID     uuid.UUID `json:"city_id" db:"city_id"`
	Name       string    `json:"name" db:"name"`
	Slug       string    `json:"slug" db:"slug"`
	Lat        *float64  `json:"lat" db:"lat"`
	Lng        *float64  `json:"lng" db:"lng"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Property is an off-plan project. The slug is assigned once at creation
// and kept stable across re-syncs. Child collections (units, images,
// floor plans) are snapshots of the latest upstream payload.
type Property struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	ExternalID      int64          `json:"external_id" db:"external_id"`
	Slug            string         `json:"slug" db:"slug"`
	Title           string         `json:"title" db:"title"`
	Description     string         `json:"description" db:"description"`
	Status          PropertyStatus `json:"status" db:"status"`
	SalesStatus     SalesStatus    `json:"sales_status" db:"sales_status"`
	PropertyType    PropertyType   `json:"property_type" db:"property_type"`
	MinPrice        *float64       `json:"min_price" db:"min_price"`
	MaxPrice        *float64       `json:"max_price" db:"max_price"`
	Currency        string         `json:"currency" db:"currency"`
	MinArea         *float64       `json:"min_area" db:"min_area"`
	MaxArea         *float64       `json:"max_area" db:"max_area"`
	AreaUnit        string         `json:"area_unit" db:"area_unit"`
	Lat             *float64       `json:"lat" db:"lat"`
	Lng             *float64       `json:"lng" db:"lng"`
	DeliveryDate    *time.Time     `json:"delivery_date" db:"delivery_date"`
	HandoverYear    *int           `json:"handover_year" db:"handover_year"`
	HandoverQuarter *int           `json:"handover_quarter" db:"handover_quarter"`
	HeroImageURL    string         `json:"hero_image_url" db:"hero_image_url"`
	BrochureURL     string         `json:"brochure_url" db:"brochure_url"`
	VideoURL        string         `json:"video_url" db:"video_url"`
	Amenities       []string       `json:"amenities" db:"amenities"`
	Facilities      []string       `json:"facilities" db:"facilities"`
	PaymentPlans    []string       `json:"payment_plans" db:"payment_plans"`
	KeyFeatures     []string       `json:"key_features" db:"key_features"`
	Highlights      []string       `json:"highlights" db:"highlights"`
	DeveloperID     uuid.UUID      `json:"developer_id" db:"developer_id"`
	CityID          uuid.UUID      `json:"city_id" db:"city_id"`
	DistrictID      *uuid.UUID     `json:"district_id" db:"district_id"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// Unit is replaced wholesale per property on every sync that supplies
// unit data; its primary key is not stable across syncs.
type Unit struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	PropertyID    uuid.UUID  `json:"property_id" db:"property_id"`
	ExternalID    *int64     `json:"external_id" db:"external_id"`
	UnitType      string     `json:"unit_type" db:"unit_type"`
	Bedrooms      *int       `json:"bedrooms" db:"bedrooms"`
	Bathrooms     *int       `json:"bathrooms" db:"bathrooms"`
	Size          *float64   `json:"size" db:"size"`
	Price         *float64   `json:"price" db:"price"`
	Floor         string     `json:"floor" db:"floor"`
	View          string     `json:"view" db:"view"`
	Status        UnitStatus `json:"status" db:"status"`
	Availability  string     `json:"availability" db:"availability"`
	ServiceCharge *float64   `json:"service_charge" db:"service_charge"`
	PaymentPlan   string     `json:"payment_plan" db:"payment_plan"`
}

type PropertyImage struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PropertyID uuid.UUID `json:"property_id" db:"property_id"`
	URL        string    `json:"url" db:"url"`
	Alt        string    `json:"alt" db:"alt"`
	Caption    string    `json:"caption" db:"caption"`
	Tag        ImageTag  `json:"tag" db:"tag"`
	SortOrder  int       `json:"sort_order" db:"sort_order"`
	Width      *int      `json:"width" db:"width"`
	Height     *int      `json:"height" db:"height"`
	FileSize   *int64    `json:"file_size" db:"file_size"`
}

type FloorPlan struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PropertyID uuid.UUID `json:"property_id" db:"property_id"`
	Title      string    `json:"title" db:"title"`
	PlanType   string    `json:"plan_type" db:"plan_type"`
	Bedrooms   *int      `json:"bedrooms" db:"bedrooms"`
	Bathrooms  *int      `json:"bathrooms" db:"bathrooms"`
	Size       *float64  `json:"size" db:"size"`
	ImageURL   string    `json:"image_url" db:"image_url"`
	PDFURL     string    `json:"pdf_url" db:"pdf_url"`
}

// SyncRun is the operational history row for one sync execution.
type SyncRun struct {
	ID                int64           `json:"id" db:"id"`
	TriggeredBy       string          `json:"triggered_by" db:"triggered_by"` // cli, http, cron
	Mode              string          `json:"mode" db:"mode"`                 // full, incremental
	StartedAt         time.Time       `json:"started_at" db:"started_at"`
	FinishedAt        *time.Time      `json:"finished_at" db:"finished_at"`
	Status            string          `json:"status" db:"status"` // running, completed, failed
	PropertiesCreated int             `json:"properties_created" db:"properties_created"`
	PropertiesUpdated int             `json:"properties_updated" db:"properties_updated"`
	ErrorsCount       int             `json:"errors_count" db:"errors_count"`
	Metadata          json.RawMessage `json:"metadata" db:"metadata"`
}

// Run status
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run triggers
const (
	RunTriggerCLI  = "cli"
	RunTriggerHTTP = "http"
	RunTriggerCron = "cron"
)
