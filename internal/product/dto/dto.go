package dto

import "time"

type ProductFilters struct {
	OwnerID     string
	SearchQuery string
	Category    string
	Page        int
	PageSize    int
}

type MovementFilters struct {
	OwnerID      string
	ProductID    string
	MovementType string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}
