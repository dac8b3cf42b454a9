// Package filter enforces the catalog's fixed dependency chain
// year → make → model → trim. Changing a level invalidates every
// selection below it; leaf filters (body type, drive type, price
// range) are independent and never cascade.
//
// The package only decides which keys must be cleared together; it
// never fetches option lists. Narrowed options for a partial selection
// come from the catalog store.
package filter

// Key names a settable filter field.
type Key string

const (
	KeyYear      Key = "yearId"
	KeyMake      Key = "makeId"
	KeyModel     Key = "modelId"
	KeyTrim      Key = "trimId"
	KeyBodyType  Key = "bodyTypeId"
	KeyDriveType Key = "driveTypeId"
	KeyMinPrice  Key = "minPrice"
	KeyMaxPrice  Key = "maxPrice"
)

// Level describes how deep a selection reaches into the hierarchy.
type Level int

const (
	LevelEmpty Level = iota
	LevelYear
	LevelYearMake
	LevelYearMakeModel
	LevelYearMakeModelTrim
)

// Selection is a partial filter record. All fields are optional; nil
// means unset. Page and Limit ride along for search pagination.
type Selection struct {
	YearID      *int64 `json:"yearId,omitempty"`
	MakeID      *int64 `json:"makeId,omitempty"`
	ModelID     *int64 `json:"modelId,omitempty"`
	TrimID      *int64 `json:"trimId,omitempty"`
	BodyTypeID  *int64 `json:"bodyTypeId,omitempty"`
	DriveTypeID *int64 `json:"driveTypeId,omitempty"`
	MinPrice    *int64 `json:"minPrice,omitempty"`
	MaxPrice    *int64 `json:"maxPrice,omitempty"`
	Page        int    `json:"page,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// Reset returns the fully empty selection.
func Reset() Selection {
	return Selection{}
}

// Apply sets key to value on a copy of the selection and cascades the
// reset rule: a change at any hierarchy level discards every selection
// deeper than it. A nil value unsets the key (and still cascades, since
// a cleared parent invalidates its children just like a changed one).
func Apply(sel Selection, key Key, value *int64) Selection {
	switch key {
	case KeyYear:
		sel.YearID = value
		sel.MakeID = nil
		sel.ModelID = nil
		sel.TrimID = nil
	case KeyMake:
		sel.MakeID = value
		sel.ModelID = nil
		sel.TrimID = nil
	case KeyModel:
		sel.ModelID = value
		sel.TrimID = nil
	case KeyTrim:
		sel.TrimID = value
	case KeyBodyType:
		sel.BodyTypeID = value
	case KeyDriveType:
		sel.DriveTypeID = value
	case KeyMinPrice:
		sel.MinPrice = value
	case KeyMaxPrice:
		sel.MaxPrice = value
	}
	return sel
}

// Level reports how far down the hierarchy the selection reaches. A
// deeper key without its parents does not count: the hierarchy is
// strict, and Apply keeps it that way.
func (s Selection) Level() Level {
	switch {
	case s.YearID == nil:
		return LevelEmpty
	case s.MakeID == nil:
		return LevelYear
	case s.ModelID == nil:
		return LevelYearMake
	case s.TrimID == nil:
		return LevelYearMakeModel
	default:
		return LevelYearMakeModelTrim
	}
}

// PageOrDefault returns the page number, defaulting to 1.
func (s Selection) PageOrDefault() int {
	if s.Page < 1 {
		return 1
	}
	return s.Page
}

// LimitOrDefault returns the page size, defaulting to 10.
func (s Selection) LimitOrDefault() int {
	if s.Limit < 1 {
		return 10
	}
	return s.Limit
}
