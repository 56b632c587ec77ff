package ledger

// ResolveEquip returns a copy of the inventory with the equip change applied.
//
// Equipping clears every item in the target's category first, so the named
// target always ends up the only equipped item in that category regardless of
// prior state. Unequipping touches only the target. Other categories are left
// as-is. The input slice is not mutated.
func ResolveEquip(inventory []Item, targetID, category string, equip bool) []Item {
	next := make([]Item, len(inventory))
	copy(next, inventory)

	if equip {
		for i := range next {
			if next[i].Category == category {
				next[i].Equipped = false
			}
		}
	}
	for i := range next {
		if next[i].ID == targetID {
			next[i].Equipped = equip
		}
	}
	return next
}
