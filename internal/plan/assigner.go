package plan

import (
	"errors"
	"fmt"
)

var ErrSlotOccupied = errors.New("slot already occupied")

// dayPairs is the order in which recipes fill the week. Each recipe covers
// both days of its pair; Sunday stands alone.
var dayPairs = [...][2]Day{
	{Monday, Tuesday},
	{Wednesday, Thursday},
	{Friday, Saturday},
	{Sunday, Sunday},
}

// Assignment places one recipe URL in one slot.
type Assignment struct {
	URL  string
	Slot int
}

// Policy controls how the assigner treats slots that are already taken.
type Policy struct {
	// AllowOverwrite keeps every assignment when more than eight recipes wrap
	// onto already filled slots. When false the wrap is rejected.
	AllowOverwrite bool
}

// Assign distributes recipes across the week. Recipe i goes to day pair
// (i/2)%4 as lunch when i is even and dinner when odd.
func Assign(recipes []ParsedRecipe, policy Policy) ([]Assignment, error) {
	out := make([]Assignment, 0, 2*len(recipes))
	taken := make(map[int]int, SlotCount)

	for i, r := range recipes {
		pair := dayPairs[(i/2)%len(dayPairs)]
		meal := mealTypes[i%len(mealTypes)]

		for j, day := range pair {
			if j > 0 && day == pair[j-1] {
				break
			}
			slot, err := DayMealToSlot(day, meal)
			if err != nil {
				return nil, err
			}
			if prev, ok := taken[slot]; ok && !policy.AllowOverwrite {
				return nil, fmt.Errorf("%w: slot %d held by recipe %d, wanted by recipe %d",
					ErrSlotOccupied, slot, prev, i)
			}
			taken[slot] = i
			out = append(out, Assignment{URL: r.URL, Slot: slot})
		}
	}

	return out, nil
}
