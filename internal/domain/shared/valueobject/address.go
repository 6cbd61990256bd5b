package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a shipping or billing address
// It is immutable - all operations return new Address instances
type Address struct {
	firstName    string
	lastName     string
	addressLine1 string
	addressLine2 string
	city         string
	state        string
	postalCode   string
	country      string
	phone        string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithAddressLine2 sets the secondary address line
func WithAddressLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.addressLine2 = strings.TrimSpace(line2)
	}
}

// WithPhone sets the contact phone number
func WithPhone(phone string) AddressOption {
	return func(a *Address) {
		a.phone = strings.TrimSpace(phone)
	}
}

// NewAddress creates a new Address with the required fields
func NewAddress(firstName, lastName, addressLine1, city, state, postalCode, country string, opts ...AddressOption) (Address, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	addressLine1 = strings.TrimSpace(addressLine1)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	postalCode = strings.TrimSpace(postalCode)
	country = strings.TrimSpace(country)

	if err := validateRequired("first name", firstName, 100); err != nil {
		return Address{}, err
	}
	if err := validateRequired("last name", lastName, 100); err != nil {
		return Address{}, err
	}
	if err := validateRequired("address line 1", addressLine1, 255); err != nil {
		return Address{}, err
	}
	if err := validateRequired("city", city, 100); err != nil {
		return Address{}, err
	}
	if err := validateRequired("state", state, 100); err != nil {
		return Address{}, err
	}
	if err := validateRequired("postal code", postalCode, 20); err != nil {
		return Address{}, err
	}
	if err := validateRequired("country", country, 100); err != nil {
		return Address{}, err
	}

	addr := Address{
		firstName:    firstName,
		lastName:     lastName,
		addressLine1: addressLine1,
		city:         city,
		state:        state,
		postalCode:   postalCode,
		country:      country,
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if len(addr.addressLine2) > 255 {
		return Address{}, fmt.Errorf("address line 2 cannot exceed 255 characters")
	}
	if len(addr.phone) > 30 {
		return Address{}, fmt.Errorf("phone cannot exceed 30 characters")
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(firstName, lastName, addressLine1, city, state, postalCode, country string, opts ...AddressOption) Address {
	addr, err := NewAddress(firstName, lastName, addressLine1, city, state, postalCode, country, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// FirstName returns the recipient first name
func (a Address) FirstName() string { return a.firstName }

// LastName returns the recipient last name
func (a Address) LastName() string { return a.lastName }

// AddressLine1 returns the primary street line
func (a Address) AddressLine1() string { return a.addressLine1 }

// AddressLine2 returns the secondary street line
func (a Address) AddressLine2() string { return a.addressLine2 }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the state or region
func (a Address) State() string { return a.state }

// PostalCode returns the postal code
func (a Address) PostalCode() string { return a.postalCode }

// Country returns the country
func (a Address) Country() string { return a.country }

// Phone returns the contact phone number
func (a Address) Phone() string { return a.phone }

// IsEmpty returns true if the address has no fields set
func (a Address) IsEmpty() bool {
	return a.firstName == "" && a.lastName == "" && a.addressLine1 == "" &&
		a.city == "" && a.state == "" && a.postalCode == "" && a.country == ""
}

// RecipientName returns the full recipient name
func (a Address) RecipientName() string {
	return strings.TrimSpace(a.firstName + " " + a.lastName)
}

// FullAddress returns the complete formatted address string
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 7)
	if name := a.RecipientName(); name != "" {
		parts = append(parts, name)
	}
	parts = append(parts, a.addressLine1)
	if a.addressLine2 != "" {
		parts = append(parts, a.addressLine2)
	}
	parts = append(parts, a.city, a.state, a.postalCode, a.country)
	return strings.Join(parts, ", ")
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		FirstName:    a.firstName,
		LastName:     a.lastName,
		AddressLine1: a.addressLine1,
		AddressLine2: a.addressLine2,
		City:         a.city,
		State:        a.state,
		PostalCode:   a.postalCode,
		Country:      a.country,
		Phone:        a.phone,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Empty payloads produce an
// empty address; otherwise all validation rules apply via NewAddress.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v.FirstName == "" && v.LastName == "" && v.AddressLine1 == "" &&
		v.City == "" && v.State == "" && v.PostalCode == "" && v.Country == "" {
		*a = EmptyAddress()
		return nil
	}

	addr, err := NewAddress(v.FirstName, v.LastName, v.AddressLine1, v.City, v.State, v.PostalCode, v.Country,
		WithAddressLine2(v.AddressLine2), WithPhone(v.Phone))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer for database storage
// Stores as JSON string
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}

func validateRequired(field, value string, maxLen int) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if len(value) > maxLen {
		return fmt.Errorf("%s cannot exceed %d characters", field, maxLen)
	}
	return nil
}
