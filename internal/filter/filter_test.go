package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func fullSelection() Selection {
	return Selection{
		YearID:  ptr(2024),
		MakeID:  ptr(1),
		ModelID: ptr(5),
		TrimID:  ptr(9),
	}
}

func TestApplyYearClearsEverythingBelow(t *testing.T) {
	sel := Apply(fullSelection(), KeyYear, ptr(2025))

	assert.Equal(t, int64(2025), *sel.YearID)
	assert.Nil(t, sel.MakeID)
	assert.Nil(t, sel.ModelID)
	assert.Nil(t, sel.TrimID)
}

func TestApplyMakeClearsModelAndTrim(t *testing.T) {
	sel := Apply(fullSelection(), KeyMake, ptr(2))

	assert.Equal(t, int64(2024), *sel.YearID)
	assert.Equal(t, int64(2), *sel.MakeID)
	assert.Nil(t, sel.ModelID)
	assert.Nil(t, sel.TrimID)
}

func TestApplyModelClearsTrimOnly(t *testing.T) {
	sel := Apply(fullSelection(), KeyModel, ptr(7))

	assert.Equal(t, int64(2024), *sel.YearID)
	assert.Equal(t, int64(1), *sel.MakeID)
	assert.Equal(t, int64(7), *sel.ModelID)
	assert.Nil(t, sel.TrimID)
}

func TestApplyTrimCascadesNothing(t *testing.T) {
	sel := Apply(fullSelection(), KeyTrim, ptr(11))

	assert.Equal(t, fullSelection().YearID, sel.YearID)
	assert.Equal(t, fullSelection().ModelID, sel.ModelID)
	assert.Equal(t, int64(11), *sel.TrimID)
}

func TestApplyLeafKeysAreIndependent(t *testing.T) {
	sel := fullSelection()
	sel = Apply(sel, KeyBodyType, ptr(3))
	sel = Apply(sel, KeyDriveType, ptr(2))
	sel = Apply(sel, KeyMinPrice, ptr(20000))
	sel = Apply(sel, KeyMaxPrice, ptr(45000))

	assert.Equal(t, fullSelection().TrimID, sel.TrimID, "leaf filters must not cascade")
	assert.Equal(t, int64(3), *sel.BodyTypeID)
	assert.Equal(t, int64(2), *sel.DriveTypeID)
	assert.Equal(t, int64(20000), *sel.MinPrice)
	assert.Equal(t, int64(45000), *sel.MaxPrice)
}

func TestApplyUnsetCascades(t *testing.T) {
	sel := Apply(fullSelection(), KeyMake, nil)

	assert.NotNil(t, sel.YearID)
	assert.Nil(t, sel.MakeID)
	assert.Nil(t, sel.ModelID)
	assert.Nil(t, sel.TrimID)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	original := fullSelection()
	_ = Apply(original, KeyYear, ptr(1999))

	assert.Equal(t, fullSelection(), original)
}

func TestReset(t *testing.T) {
	assert.Equal(t, Selection{}, Reset())
}

func TestLevelProgression(t *testing.T) {
	sel := Reset()
	assert.Equal(t, LevelEmpty, sel.Level())

	sel = Apply(sel, KeyYear, ptr(2024))
	assert.Equal(t, LevelYear, sel.Level())

	sel = Apply(sel, KeyMake, ptr(1))
	assert.Equal(t, LevelYearMake, sel.Level())

	sel = Apply(sel, KeyModel, ptr(5))
	assert.Equal(t, LevelYearMakeModel, sel.Level())

	sel = Apply(sel, KeyTrim, ptr(9))
	assert.Equal(t, LevelYearMakeModelTrim, sel.Level())

	// Touching make drops the state back to year+make.
	sel = Apply(sel, KeyMake, ptr(2))
	assert.Equal(t, LevelYearMake, sel.Level())
}

func TestPaginationDefaults(t *testing.T) {
	sel := Selection{}
	assert.Equal(t, 1, sel.PageOrDefault())
	assert.Equal(t, 10, sel.LimitOrDefault())

	sel = Selection{Page: 3, Limit: 50}
	assert.Equal(t, 3, sel.PageOrDefault())
	assert.Equal(t, 50, sel.LimitOrDefault())
}
