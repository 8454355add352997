package furnace

import "furnace_engine/internal/catalog"

// SlotKind names one of the three slot groups of an instance.
type SlotKind string

const (
	SlotInput  SlotKind = "input"
	SlotFuel   SlotKind = "fuel"
	SlotOutput SlotKind = "output"
)

// ParseSlotKind accepts "input", "fuel" or "output".
func ParseSlotKind(s string) (SlotKind, bool) {
	switch k := SlotKind(s); k {
	case SlotInput, SlotFuel, SlotOutput:
		return k, true
	}
	return "", false
}

func cloneStacks(src []catalog.Stack) []catalog.Stack {
	out := make([]catalog.Stack, len(src))
	copy(out, src)
	return out
}

// spaceFor sums the headroom for s across partial stacks of the same item and
// then empty slots, stopping as soon as s.Amount is covered.
func spaceFor(slots []catalog.Stack, s catalog.Stack) bool {
	if s.IsEmpty() {
		return true
	}
	need := s.Amount
	for _, slot := range slots {
		if slot.Similar(s) {
			need -= max(slot.Cap()-slot.Amount, 0)
			if need <= 0 {
				return true
			}
		}
	}
	for _, slot := range slots {
		if slot.IsEmpty() {
			need -= s.Cap()
			if need <= 0 {
				return true
			}
		}
	}
	return false
}

// deposit merges s into partial stacks first, then empty slots. It returns the
// amount that did not fit.
func deposit(slots []catalog.Stack, s catalog.Stack) int {
	left := s.Amount
	for i := range slots {
		if left == 0 {
			return 0
		}
		if slots[i].Similar(s) {
			add := min(max(slots[i].Cap()-slots[i].Amount, 0), left)
			slots[i].Amount += add
			left -= add
		}
	}
	for i := range slots {
		if left == 0 {
			return 0
		}
		if slots[i].IsEmpty() {
			add := min(s.Cap(), left)
			slots[i] = s.WithAmount(add)
			left -= add
		}
	}
	return left
}

// withdraw removes amount items matching d across the slots, emptying slots
// that reach zero. It returns the amount it could not remove.
func withdraw(slots []catalog.Stack, d catalog.Descriptor, amount int) int {
	for i := range slots {
		if amount == 0 {
			break
		}
		if slots[i].IsEmpty() || !slots[i].Descriptor.Matches(d) {
			continue
		}
		take := min(amount, slots[i].Amount)
		slots[i].Amount -= take
		amount -= take
		if slots[i].Amount == 0 {
			slots[i] = catalog.Stack{}
		}
	}
	return amount
}
