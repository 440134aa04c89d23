package dto

type OrderFilters struct {
	OwnerID  string
	Status   string
	Page     int
	PageSize int
}
