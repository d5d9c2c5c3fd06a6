package app

import "carrental/internal/model"

// initialCars is the catalog inserted into an empty database.
func initialCars() []model.Car {
	return []model.Car{
		{
			ID:           1,
			Type:         "Sedan",
			Brand:        "Toyota",
			Model:        "Corolla",
			Year:         2023,
			Transmission: "Automatic",
			Fuel:         "Petrol",
			Seats:        5,
			Available:    true,
			PricePerKm:   12,
			Features:     []string{"Bluetooth", "Air Conditioning", "GPS", "Airbags"},
		},
		{
			ID:           2,
			Type:         "SUV",
			Brand:        "Honda",
			Model:        "CR-V",
			Year:         2023,
			Transmission: "Automatic",
			Fuel:         "Petrol",
			Seats:        7,
			Available:    true,
			PricePerKm:   15,
			Features:     []string{"Bluetooth", "Air Conditioning", "GPS", "Airbags", "Sunroof"},
		},
		{
			ID:           3,
			Type:         "Hatchback",
			Brand:        "Volkswagen",
			Model:        "Golf",
			Year:         2023,
			Transmission: "Manual",
			Fuel:         "Petrol",
			Seats:        5,
			Available:    true,
			PricePerKm:   10,
			Features:     []string{"Bluetooth", "Air Conditioning", "GPS", "Airbags"},
		},
		{
			ID:           4,
			Type:         "Sedan",
			Brand:        "Hyundai",
			Model:        "Elantra",
			Year:         2023,
			Transmission: "Automatic",
			Fuel:         "Petrol",
			Seats:        5,
			Available:    true,
			PricePerKm:   11,
			Features:     []string{"Bluetooth", "Air Conditioning", "GPS", "Airbags", "Leather Seats"},
		},
	}
}
