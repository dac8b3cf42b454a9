package database

import (
	"time"
)

// ModelYear represents a catalog model year
type ModelYear struct {
	ID   int64 `json:"id"`
	Year int   `json:"year"`
}

// Make represents a vehicle manufacturer
type Make struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url"`
}

// Model represents a vehicle model line within a make
type Model struct {
	ID     int64  `json:"id"`
	MakeID int64  `json:"make_id"`
	Name   string `json:"name"`
}

// Trim represents a trim level
type Trim struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BodyType represents a body style (Sedan, SUV, Truck, ...)
type BodyType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DriveType represents a drivetrain (FWD, AWD, RWD, 4WD)
type DriveType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Vehicle is one orderable catalog entry, fully resolved by its
// foreign keys into the governance tables
type Vehicle struct {
	ID          int64     `json:"id"`
	ModelYearID int64     `json:"model_year_id"`
	MakeID      int64     `json:"make_id"`
	ModelID     int64     `json:"model_id"`
	TrimID      int64     `json:"trim_id"`
	BodyTypeID  int64     `json:"body_type_id"`
	DriveTypeID int64     `json:"drive_type_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VehicleIdentification maps a vehicle to an identifier such as a VIN
// or spec number; at most one row per vehicle is primary
type VehicleIdentification struct {
	ID        int64     `json:"id"`
	VehicleID int64     `json:"vehicle_id"`
	Type      string    `json:"type"`  // 'vin', 'spec_number', 'stock_number', ...
	Value     string    `json:"value"` // The identifier value
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// VehiclePricing holds the base price points for a vehicle, in whole
// currency units
type VehiclePricing struct {
	ID                   int64 `json:"id"`
	VehicleID            int64 `json:"vehicle_id"`
	IntroMSRP            int64 `json:"intro_msrp"`
	FactoryDealerInvoice int64 `json:"factory_dealer_invoice"`
	DealerNet            int64 `json:"dealer_net"`
}

// IncentiveProgram is a named fleet incentive program at tier 3 or 4
type IncentiveProgram struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"` // 3 or 4
	IsActive bool   `json:"is_active"`
}

// VehicleIncentive attaches a program amount to a vehicle for an
// effective window
type VehicleIncentive struct {
	ID                 int64      `json:"id"`
	VehicleID          int64      `json:"vehicle_id"`
	IncentiveProgramID int64      `json:"incentive_program_id"`
	IncentiveAmount    int64      `json:"incentive_amount"`
	EffectiveDate      time.Time  `json:"effective_date"`
	ExpirationDate     *time.Time `json:"expiration_date"`
}

// Purchase order lifecycle statuses
const (
	OrderStatusDraft     = "draft"
	OrderStatusSubmitted = "submitted"
	OrderStatusApproved  = "approved"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCancelled = "cancelled"
)

// PurchaseOrder is a submitted fleet order
type PurchaseOrder struct {
	ID                     string     `json:"id"`
	CompanyName            string     `json:"company_name"`
	ContactEmail           string     `json:"contact_email"`
	ContactPhone           *string    `json:"contact_phone"`
	Status                 string     `json:"status"` // 'draft', 'submitted', 'approved', 'fulfilled', 'cancelled'
	TotalValue             int64      `json:"total_value"`
	TotalSavings           int64      `json:"total_savings"`
	TotalEffectiveValue    int64      `json:"total_effective_value"`
	RequestedDeliveryDate  *time.Time `json:"requested_delivery_date"`
	SpecialInstructions    *string    `json:"special_instructions"`
	PaymentTerms           *string    `json:"payment_terms"`
	SubmittedAt            time.Time  `json:"submitted_at"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// PurchaseOrderItem is one vehicle line on a purchase order, carrying
// the pricing snapshot the line was quoted at
type PurchaseOrderItem struct {
	ID         int64  `json:"id"`
	OrderID    string `json:"order_id"`
	VehicleID  int64  `json:"vehicle_id"`
	Quantity   int    `json:"quantity"`
	PriceLevel int    `json:"price_level"` // 3 or 4
	UnitPrice  int64  `json:"unit_price"`
	TotalPrice int64  `json:"total_price"`
	Savings    int64  `json:"savings"`
	MSRP       int64  `json:"msrp"`
	DealerNet  int64  `json:"dealer_net"`
}

// IngestionRun records one pricing-sheet ingestion
type IngestionRun struct {
	ID             int64      `json:"id"`
	Source         string     `json:"source"` // 'cli', 'api'
	Status         string     `json:"status"` // 'pending', 'running', 'completed', 'failed', 'interrupted'
	StartedAt      *time.Time `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	TotalFiles     *int       `json:"total_files"`
	ProcessedFiles *int       `json:"processed_files"`
	TotalRows      *int       `json:"total_rows"`
	ProcessedRows  *int       `json:"processed_rows"`
	ErrorCount     *int       `json:"error_count"`
	Metadata       *string    `json:"metadata"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IngestionError records one row-level failure during ingestion
type IngestionError struct {
	ID           int64     `json:"id"`
	RunID        int64     `json:"run_id"`
	Filename     string    `json:"filename"`
	RowNumber    *int      `json:"row_number"`
	ErrorType    string    `json:"error_type"` // 'parse', 'validation', 'persist'
	ErrorMessage string    `json:"error_message"`
	Severity     string    `json:"severity"` // 'warning', 'error'
	CreatedAt    time.Time `json:"created_at"`
}
