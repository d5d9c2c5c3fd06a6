package model

// Car ids are assigned by the catalog seed, not by the database.
type Car struct {
	ID           uint     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Type         string   `gorm:"size:32;not null" json:"type"`
	Brand        string   `gorm:"size:64;not null;index" json:"brand"`
	Model        string   `gorm:"size:64;not null" json:"model"`
	Year         int      `json:"year"`
	Transmission string   `gorm:"size:32" json:"transmission"`
	Fuel         string   `gorm:"size:32" json:"fuel"`
	Seats        int      `json:"seats"`
	Available    bool     `gorm:"not null" json:"available"`
	PricePerKm   float64  `gorm:"not null" json:"pricePerKm"`
	Features     []string `gorm:"serializer:json;type:text" json:"features"`
}
