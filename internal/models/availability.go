package models

// AvailabilityDay is one calendar entry reported by the channel manager.
type AvailabilityDay struct {
	Date      string  `json:"date"`
	Available bool    `json:"available"`
	Price     float64 `json:"price"`
	MinStay   int     `json:"min_stay"`
}

// AvailabilityWindow is produced fresh on every query and never cached.
type AvailabilityWindow []AvailabilityDay

type WindowVerdict int

const (
	// VerdictConfirmed means every night of the stay was reported free.
	VerdictConfirmed WindowVerdict = iota
	// VerdictUnverified means the window could not prove the stay: no usable
	// entries, or some nights missing. The guest should retry shortly.
	VerdictUnverified
	// VerdictOccupied means at least one night was reported taken.
	VerdictOccupied
)

func (v WindowVerdict) String() string {
	switch v {
	case VerdictConfirmed:
		return "confirmed"
	case VerdictUnverified:
		return "unverified"
	case VerdictOccupied:
		return "occupied"
	}
	return "unknown"
}

// Evaluate checks the window against the nights of the stay. Entries outside the
// stay are ignored. It returns the occupied dates when the verdict is VerdictOccupied.
func (w AvailabilityWindow) Evaluate(stay StayRequest) (WindowVerdict, []string) {
	byDate := make(map[string]AvailabilityDay, len(w))
	for _, d := range w {
		byDate[d.Date] = d
	}

	var occupied []string
	usable, missing := 0, 0
	for _, night := range stay.NightDates() {
		d, ok := byDate[night]
		if !ok {
			missing++
			continue
		}
		usable++
		if !d.Available {
			occupied = append(occupied, night)
		}
	}

	switch {
	case usable == 0:
		return VerdictUnverified, nil
	case len(occupied) > 0:
		return VerdictOccupied, occupied
	case missing > 0:
		return VerdictUnverified, nil
	}
	return VerdictConfirmed, nil
}

func (w AvailabilityWindow) Confirms(stay StayRequest) bool {
	v, _ := w.Evaluate(stay)
	return v == VerdictConfirmed
}

// MinStay is the strictest minimum-stay constraint across the stay's nights.
func (w AvailabilityWindow) MinStay(stay StayRequest) int {
	nights := make(map[string]struct{}, stay.Nights())
	for _, n := range stay.NightDates() {
		nights[n] = struct{}{}
	}
	min := 1
	for _, d := range w {
		if _, ok := nights[d.Date]; ok && d.MinStay > min {
			min = d.MinStay
		}
	}
	return min
}
