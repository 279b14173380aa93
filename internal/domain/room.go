package domain

import "time"

type Room struct {
	ID               int64
	Name             string
	Description      string
	Capacity         int
	NightlyRateCents int64
	Currency         string
	TotalUnits       int
	AvailableUnits   int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
