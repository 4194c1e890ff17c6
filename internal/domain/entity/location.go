package entity

import "farumasi-backend/pkg/geo"

// Location is an address with coordinates owned by either a user or a pharmacy
type Location struct {
	ID         int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *int64  `gorm:"index" json:"user_id,omitempty"`
	PharmacyID *int64  `gorm:"index" json:"pharmacy_id,omitempty"`
	Country    string  `gorm:"type:varchar(100)" json:"country"`
	Province   string  `gorm:"type:varchar(100)" json:"province"`
	District   string  `gorm:"type:varchar(100)" json:"district"`
	Sector     string  `gorm:"type:varchar(100)" json:"sector"`
	Village    string  `gorm:"type:varchar(100)" json:"village"`
	Latitude   float64 `gorm:"not null" json:"latitude"`
	Longitude  float64 `gorm:"not null" json:"longitude"`
}

func (Location) TableName() string {
	return "locations"
}

// Coordinate returns the point and whether it can be used for distance math
func (l *Location) Coordinate() (geo.Coordinate, bool) {
	if l == nil {
		return geo.Coordinate{}, false
	}
	c := geo.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
	return c, c.Valid()
}
