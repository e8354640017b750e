package models

import (
	"fmt"
	"strings"
)

var towerAmenities = []string{
	"Free High-Speed WiFi",
	"Air Conditioning (Inverter)",
	"Smart TV 43\" with Netflix",
	"Nespresso Machine",
	"Fully Equipped Kitchenette",
	"Private Bathroom",
	"Rain Shower",
	"Hairdryer",
	"Refrigerator",
	"Anatomic Mattress",
	"Electronic Door Lock",
	"Soundproof Windows",
}

var towerAmenitiesEl = []string{
	"Δωρεάν WiFi Υψηλής Ταχύτητας",
	"Κλιματισμός (Inverter)",
	"Smart TV 43\" με Netflix",
	"Μηχανή Nespresso",
	"Πλήρως Εξοπλισμένο Κουζινάκι",
	"Ιδιωτικό Μπάνιο",
	"Ντουζιέρα Rain Shower",
	"Σεσουάρ Μαλλιών",
	"Ψυγείο",
	"Ανατομικό Στρώμα",
	"Ηλεκτρονική Κλειδαριά",
	"Ηχομονωτικά Παράθυρα",
}

var towerRules = []string{
	"No smoking allowed inside",
	"No pets allowed",
	"No parties or events",
	"Quiet hours: 11:00 PM - 08:00 AM",
	"Check-in: 15:00 - Check-out: 11:00",
}

const (
	sharedDesc   = "The Tower 15 Suites is a gem in the heart of Thessaloniki, next to Democracy Square. Fully renovated in 2024 with luxury materials and modern aesthetics."
	sharedDescEl = "Το Tower 15 Suites είναι ένα διαμάντι στην καρδιά της Θεσσαλονίκης, δίπλα στην Πλατεία Δημοκρατίας. Πλήρως ανακαινισμένο το 2024 με πολυτελή υλικά και σύγχρονη αισθητική."
)

type seedRoom struct {
	unit     string
	title    string
	titleEl  string
	floor    string
	floorEl  string
	capacity int
	bedrooms int
	price    float64
	cleaning float64
	tax      float64
	flexible bool
}

var seedRooms = []seedRoom{
	{"01", "Urban Studio 01", "Urban Studio 01", "Ground Floor", "Ισόγειο", 2, 0, 65, 20, 1.5, false},
	{"02", "Urban Studio 02", "Urban Studio 02", "Ground Floor", "Ισόγειο", 2, 0, 65, 20, 1.5, false},
	{"101", "Executive Suite 101", "Executive Σουίτα 101", "1st Floor", "1ος Όροφος", 3, 1, 85, 30, 1.5, false},
	{"102", "Comfort Suite 102", "Comfort Σουίτα 102", "1st Floor", "1ος Όροφος", 3, 1, 80, 30, 1.5, false},
	{"103", "Junior Suite 103", "Junior Σουίτα 103", "1st Floor", "1ος Όροφος", 2, 1, 75, 30, 1.5, false},
	{"201", "Executive Suite 201", "Executive Σουίτα 201", "2nd Floor", "2ος Όροφος", 4, 1, 90, 35, 1.5, false},
	{"202", "Comfort Suite 202", "Comfort Σουίτα 202", "2nd Floor", "2ος Όροφος", 3, 1, 85, 35, 1.5, false},
	{"203", "Junior Suite 203", "Junior Σουίτα 203", "2nd Floor", "2ος Όροφος", 2, 1, 80, 35, 1.5, false},
	{"301", "Executive Suite 301", "Executive Σουίτα 301", "3rd Floor", "3ος Όροφος", 4, 1, 95, 35, 1.5, false},
	{"302", "Comfort Suite 302", "Comfort Σουίτα 302", "3rd Floor", "3ος Όροφος", 3, 1, 90, 35, 1.5, false},
	{"303", "Junior Suite 303", "Junior Σουίτα 303", "3rd Floor", "3ος Όροφος", 2, 1, 85, 35, 1.5, false},
	{"401", "Executive Suite 401", "Executive Σουίτα 401", "4th Floor", "4ος Όροφος", 4, 1, 100, 40, 1.5, false},
	{"402", "Comfort Suite 402", "Comfort Σουίτα 402", "4th Floor", "4ος Όροφος", 3, 1, 95, 40, 1.5, false},
	{"403", "Junior Suite 403", "Junior Σουίτα 403", "4th Floor", "4ος Όροφος", 2, 1, 90, 40, 1.5, false},
	{"501", "Grand Suite 501", "Grand Σουίτα 501", "5th Floor", "5ος Όροφος", 4, 1, 110, 50, 1.5, false},
	{"502", "Grand Suite 502", "Grand Σουίτα 502", "5th Floor", "5ος Όροφος", 4, 1, 110, 50, 1.5, false},
	{"601", "Penthouse Suite 601", "Penthouse Σουίτα 601", "6th Floor", "6ος Όροφος", 4, 1, 140, 60, 3.0, true},
	{"701", "King Penthouse 701", "King Penthouse 701", "7th Floor", "7ος Όροφος", 2, 1, 160, 70, 3.0, true},
}

// SeedProperties is the catalog written to an empty properties table on first load.
func SeedProperties() []Property {
	out := make([]Property, 0, len(seedRooms))
	for _, r := range seedRooms {
		policy := "Standard"
		if r.flexible {
			policy = "Flexible"
		}
		out = append(out, Property{
			ID:                 "t15-" + r.unit,
			HosthubListingID:   strings.Repeat("0", 7-len(r.unit)) + r.unit,
			Title:              r.title,
			TitleEl:            r.titleEl,
			Category:           r.floor,
			CategoryEl:         r.floorEl,
			Description:        fmt.Sprintf("%s. %s", r.title, sharedDesc),
			DescriptionEl:      fmt.Sprintf("%s. %s", r.titleEl, sharedDescEl),
			ShortDescription:   fmt.Sprintf("%s in the heart of Thessaloniki.", r.title),
			ShortDescriptionEl: fmt.Sprintf("%s στην καρδιά της Θεσσαλονίκης.", r.titleEl),
			Images: []string{
				"/images/room-" + r.unit + "-main.jpg",
				"/images/room-" + r.unit + "-bath.jpg",
				"/images/room-" + r.unit + "-view.jpg",
			},
			Amenities:          towerAmenities,
			AmenitiesEl:        towerAmenitiesEl,
			Capacity:           r.capacity,
			Bedrooms:           r.bedrooms,
			Bathrooms:          1,
			HouseRules:         towerRules,
			CancellationPolicy: policy,
			Location:           "Thessaloniki Center",
			PricePerNightBase:  r.price,
			CleaningFee:        r.cleaning,
			ClimateCrisisTax:   r.tax,
		})
	}
	return out
}
