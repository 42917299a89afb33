package plan

import (
	"errors"
	"fmt"
)

// SlotCount is the number of cells in the weekly grid.
const SlotCount = 14

// Day is a weekday name as stored in the day_name column.
type Day string

// MealType is a meal name as stored in the meal_type column.
type MealType string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

const (
	Lunch  MealType = "Lunch"
	Dinner MealType = "Dinner"
)

var (
	ErrOutOfRange          = errors.New("slot out of range")
	ErrInvalidCombination  = errors.New("invalid day and meal combination")
	days                   = [...]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
	mealTypes              = [...]MealType{Lunch, Dinner}
	slotTable, reverseSlot = buildSlotTable()
)

// DayMeal is one cell of the weekly grid.
type DayMeal struct {
	Day  Day
	Meal MealType
}

// buildSlotTable derives both lookup directions from the same loop so they
// cannot drift apart.
func buildSlotTable() ([SlotCount]DayMeal, map[DayMeal]int) {
	var table [SlotCount]DayMeal
	reverse := make(map[DayMeal]int, SlotCount)
	for di, d := range days {
		for mi, m := range mealTypes {
			slot := 2*di + mi
			table[slot] = DayMeal{Day: d, Meal: m}
			reverse[table[slot]] = slot
		}
	}
	return table, reverse
}

// SlotToDayMeal returns the day and meal a slot represents.
func SlotToDayMeal(slot int) (Day, MealType, error) {
	if !ValidSlot(slot) {
		return "", "", fmt.Errorf("%w: %d", ErrOutOfRange, slot)
	}
	dm := slotTable[slot]
	return dm.Day, dm.Meal, nil
}

// DayMealToSlot returns the slot for a day and meal pair.
func DayMealToSlot(day Day, meal MealType) (int, error) {
	slot, ok := reverseSlot[DayMeal{Day: day, Meal: meal}]
	if !ok {
		return 0, fmt.Errorf("%w: %s/%s", ErrInvalidCombination, day, meal)
	}
	return slot, nil
}

// ValidSlot reports whether slot is inside the grid.
func ValidSlot(slot int) bool {
	return slot >= 0 && slot < SlotCount
}

// Days returns the weekdays in calendar order.
func Days() []Day {
	out := make([]Day, len(days))
	copy(out, days[:])
	return out
}

// MealTypes returns the meal types in grid order.
func MealTypes() []MealType {
	out := make([]MealType, len(mealTypes))
	copy(out, mealTypes[:])
	return out
}
