package address

import "contactbook/internal/domain"

type View struct {
	ID         int64   `json:"id"`
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	Province   *string `json:"province,omitempty"`
	Country    string  `json:"country"`
	PostalCode string  `json:"postalCode"`
}

func toView(a *domain.Address) View {
	return View{
		ID:         a.ID,
		Street:     a.Street,
		City:       a.City,
		Province:   a.Province,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}
