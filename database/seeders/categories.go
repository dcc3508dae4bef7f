package seeders

import (
	"github.com/chhotalabhavik/cleanout/app/models"
	"gorm.io/gorm"
)

func init() {
	Register("service_categories", SeedServiceCategories)
}

type categorySeed struct {
	category string
	image    string
	subs     []subSeed
}

type subSeed struct {
	name string
	area bool
}

var serviceCategories = []categorySeed{
	{"Bathroom Cleaning", "Bathroom.jpg", []subSeed{
		{"Bathtub Cleaning", false}, {"Geyser Cleaning", false},
		{"Wash Basin Cleaning", false}, {"Ceiling Fan Cleaning", false},
		{"Exhaust Fan Cleaning", false}, {"Toilet Cleaning", false},
		{"Window Cleaning", false}, {"Washing Machine Cleaning", false},
		{"Floor Cleaning", true},
	}},
	{"Kitchen Cleaning", "Kitchen.jpg", []subSeed{
		{"Trolley Cleaning", false}, {"Ceiling Fan Cleaning", false},
		{"Exhaust Fan Cleaning", false}, {"Window Cleaning", false},
		{"Fridge Cleaning", false}, {"Microwave Cleaning", false},
		{"Mixer Cleaning", false}, {"Gas Stove Cleaning", false},
		{"Sink Cleaning", false}, {"Floor Cleaning", true},
	}},
	{"Furniture Cleaning", "Furniture.jpg", []subSeed{
		{"Cushion Cleaning", false}, {"Sofa Cleaning", true},
		{"Carpet Cleaning", true}, {"Curtain Cleaning", true},
		{"Dinning Table Cleaning", true}, {"Mattress Cleaning", true},
		{"TV Cleaning", false}, {"Cupboard Cleaning", false},
		{"Single Bed Cleaning", false}, {"Double Bed Cleaning", false},
		{"Chair Cleaning", false}, {"Tipoi Cleaning", false},
	}},
	{"Room Cleaning", "Room.jpg", []subSeed{
		{"Floor Cleaning", true}, {"Single Bed Cleaning", false},
		{"Double Bed Cleaning", false}, {"AC Cleaning", false},
		{"Window Cleaning", false}, {"Door Cleaning", false},
	}},
	{"Garden Cleaning", "Garden.jpg", []subSeed{
		{"Lawn Cutting", true}, {"Watering", true}, {"Sweeping", true},
	}},
	{"Vehicle Cleaning", "Vehicle.jpg", []subSeed{
		{"Hatchback Cleaning", false}, {"Sedan Cleaning", false},
		{"SUV Cleaning", false}, {"Minivan Cleaning", false},
		{"Pickup Truck Cleaning", false}, {"Station Wagon Cleaning", false},
		{"Bicycle Cleaning", false}, {"Scooter Cleaning", false},
		{"Motorbike Cleaning", false},
	}},
	{"Full House Cleaning", "FullHouse.jpg", []subSeed{
		{"1BHK Cleaning", false}, {"2BHK Cleaning", false},
		{"3BHK Cleaning", false}, {"4BHK Cleaning", false},
		{"5BHK Cleaning", false}, {"Villa Cleaning", true},
	}},
}

// SeedServiceCategories loads the storefront category catalogue.
// Idempotent: existing categories are skipped by name.
func SeedServiceCategories(db *gorm.DB) error {
	for _, seed := range serviceCategories {
		var count int64
		if err := db.Model(&models.ServiceCategory{}).
			Where("category = ?", seed.category).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		cat := models.ServiceCategory{Category: seed.category, Image: seed.image}
		for _, sub := range seed.subs {
			cat.SubCategories = append(cat.SubCategories, models.CategorySubCategory{
				Name: sub.name,
				Area: sub.area,
			})
		}
		if err := db.Create(&cat).Error; err != nil {
			return err
		}
	}
	return nil
}
