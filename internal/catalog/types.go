package catalog

import "github.com/fleetcart/catalog-service/internal/pricing"

// YearOption is a selectable model year with its vehicle count.
type YearOption struct {
	YearID       int64 `json:"yearId"`
	Year         int   `json:"year"`
	VehicleCount int   `json:"vehicleCount"`
}

// MakeOption is a selectable make narrowed by year.
type MakeOption struct {
	MakeID       int64  `json:"makeId"`
	MakeName     string `json:"makeName"`
	VehicleCount int    `json:"vehicleCount"`
}

// ModelOption is a selectable model narrowed by year and make. The
// price range is aggregated from actual vehicle pricing rows.
type ModelOption struct {
	ModelID      int64  `json:"modelId"`
	ModelName    string `json:"modelName"`
	BodyType     string `json:"bodyType"`
	VehicleCount int    `json:"vehicleCount"`
	MinPrice     int64  `json:"minPrice"`
	MaxPrice     int64  `json:"maxPrice"`
}

// TrimOption is a selectable trim narrowed by year, make, and model.
type TrimOption struct {
	TrimID        int64  `json:"trimId"`
	TrimName      string `json:"trimName"`
	DriveTypeID   int64  `json:"driveTypeId"`
	DriveTypeName string `json:"driveTypeName"`
	VehicleCount  int    `json:"vehicleCount"`
}

// VehicleResult is one search hit: the vehicle summary plus its
// current per-tier incentive amounts.
type VehicleResult struct {
	pricing.VehicleSummary
	Incentives pricing.IncentiveAmounts `json:"incentives"`
}

// SearchPage is a paginated set of search results.
type SearchPage struct {
	Items      []VehicleResult `json:"items"`
	TotalCount int             `json:"totalCount"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}
