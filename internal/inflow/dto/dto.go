package dto

import "time"

type InflowFilters struct {
	OwnerID   string
	Supplier  string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}
