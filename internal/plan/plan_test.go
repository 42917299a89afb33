package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotRoundTrip(t *testing.T) {
	for slot := 0; slot < SlotCount; slot++ {
		day, meal, err := SlotToDayMeal(slot)
		require.NoError(t, err)

		back, err := DayMealToSlot(day, meal)
		require.NoError(t, err)
		assert.Equal(t, slot, back)
	}
}

func TestSlotToDayMeal(t *testing.T) {
	tests := []struct {
		slot int
		day  Day
		meal MealType
	}{
		{0, Monday, Lunch},
		{1, Monday, Dinner},
		{3, Tuesday, Dinner},
		{7, Thursday, Dinner},
		{12, Sunday, Lunch},
		{13, Sunday, Dinner},
	}

	for _, tt := range tests {
		day, meal, err := SlotToDayMeal(tt.slot)
		require.NoError(t, err)
		assert.Equal(t, tt.day, day)
		assert.Equal(t, tt.meal, meal)
	}
}

func TestSlotToDayMealOutOfRange(t *testing.T) {
	for _, slot := range []int{-1, 14, 100} {
		_, _, err := SlotToDayMeal(slot)
		assert.True(t, errors.Is(err, ErrOutOfRange), "slot %d", slot)
	}
}

func TestDayMealToSlotInvalid(t *testing.T) {
	_, err := DayMealToSlot("Funday", Lunch)
	assert.ErrorIs(t, err, ErrInvalidCombination)

	_, err = DayMealToSlot(Monday, "Breakfast")
	assert.ErrorIs(t, err, ErrInvalidCombination)
}

func TestParseRecipes(t *testing.T) {
	got := ParseRecipes("# http://a\n## x\n## y\n# http://b\n## z")

	assert.Equal(t, []ParsedRecipe{
		{URL: "http://a", Ingredients: "x\ny"},
		{URL: "http://b", Ingredients: "z"},
	}, got)
}

func TestParseRecipesDropsIncompleteSections(t *testing.T) {
	raw := `
# http://no-ingredients

#
## orphan
# http://ok
   ##   500 g pasta

## 1 onion
`
	got := ParseRecipes(raw)

	require.Len(t, got, 1)
	assert.Equal(t, "http://ok", got[0].URL)
	assert.Equal(t, "500 g pasta\n1 onion", got[0].Ingredients)
}

func TestParseRecipesEmpty(t *testing.T) {
	assert.Empty(t, ParseRecipes(""))
	assert.Empty(t, ParseRecipes("just some words\nno markers"))
}

func TestAggregateIngredients(t *testing.T) {
	recipes := []ParsedRecipe{
		{URL: "http://a", Ingredients: "x\ny"},
		{URL: "http://b", Ingredients: "z"},
	}
	assert.Equal(t, "x\ny\n\nz", AggregateIngredients(recipes))
}

func recipes(n int) []ParsedRecipe {
	out := make([]ParsedRecipe, n)
	for i := range out {
		out[i] = ParsedRecipe{URL: "http://r/" + string(rune('a'+i)), Ingredients: "salt"}
	}
	return out
}

func slotsFor(assignments []Assignment, url string) []int {
	var slots []int
	for _, a := range assignments {
		if a.URL == url {
			slots = append(slots, a.Slot)
		}
	}
	return slots
}

func TestAssignTwoRecipes(t *testing.T) {
	in := recipes(2)
	got, err := Assign(in, Policy{AllowOverwrite: true})
	require.NoError(t, err)

	require.Len(t, got, 4)
	assert.Equal(t, []int{0, 2}, slotsFor(got, in[0].URL))
	assert.Equal(t, []int{1, 3}, slotsFor(got, in[1].URL))
}

func TestAssignEightRecipesFillsWeek(t *testing.T) {
	in := recipes(8)
	got, err := Assign(in, Policy{AllowOverwrite: true})
	require.NoError(t, err)

	require.Len(t, got, SlotCount)
	assert.Equal(t, []int{12}, slotsFor(got, in[6].URL))
	assert.Equal(t, []int{13}, slotsFor(got, in[7].URL))

	seen := make(map[int]bool)
	for _, a := range got {
		assert.False(t, seen[a.Slot], "slot %d assigned twice", a.Slot)
		seen[a.Slot] = true
	}
}

func TestAssignNineRecipesWraps(t *testing.T) {
	in := recipes(9)
	got, err := Assign(in, Policy{AllowOverwrite: true})
	require.NoError(t, err)

	assert.Len(t, got, 16)
	assert.Equal(t, []int{0, 2}, slotsFor(got, in[8].URL))
	assert.Equal(t, []int{0, 2}, slotsFor(got, in[0].URL))
}

func TestAssignNineRecipesWithoutOverwrite(t *testing.T) {
	got, err := Assign(recipes(9), Policy{AllowOverwrite: false})
	assert.ErrorIs(t, err, ErrSlotOccupied)
	assert.Nil(t, got)

	got, err = Assign(recipes(8), Policy{AllowOverwrite: false})
	require.NoError(t, err)
	assert.Len(t, got, SlotCount)
}

func TestAssignEmpty(t *testing.T) {
	got, err := Assign(nil, Policy{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
