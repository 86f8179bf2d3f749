package models

// User is the authenticated account profile.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar,omitempty"`
}

// AddressLabel is the user-facing tag on a delivery address.
type AddressLabel string

const (
	LabelHome   AddressLabel = "Home"
	LabelSchool AddressLabel = "School"
	LabelOther  AddressLabel = "Other"
)

type Address struct {
	ID          string       `json:"id"`
	Label       AddressLabel `json:"label"`
	FullAddress string       `json:"fullAddress"`
	Street      string       `json:"street"`
	PostCode    string       `json:"postCode"`
	Apartment   string       `json:"apartment"`
}
