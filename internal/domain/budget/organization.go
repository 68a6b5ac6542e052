package budget

import "slices"

// idSeparator joins identifier scheme and id into an organization id
const idSeparator = "-"

// Identifier identifies an organization within a registration scheme
type Identifier struct {
	Scheme    string `json:"scheme"`
	ID        string `json:"id"`
	LegalName string `json:"legalName,omitempty"`
	URI       string `json:"uri,omitempty"`
}

// Address is a postal address
type Address struct {
	StreetAddress string `json:"streetAddress,omitempty"`
	Locality      string `json:"locality,omitempty"`
	Region        string `json:"region,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	CountryName   string `json:"countryName,omitempty"`
}

// ContactPoint is a person or department to contact
type ContactPoint struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Telephone string `json:"telephone,omitempty"`
	FaxNumber string `json:"faxNumber,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Details classifies a buyer organization
type Details struct {
	TypeOfBuyer          string `json:"typeOfBuyer"`
	MainGeneralActivity  string `json:"mainGeneralActivity"`
	MainSectoralActivity string `json:"mainSectoralActivity"`
}

// OrganizationReference is a buyer, funder or payer
type OrganizationReference struct {
	ID                    string       `json:"id,omitempty"`
	Name                  string       `json:"name"`
	Identifier            Identifier   `json:"identifier"`
	Address               Address      `json:"address"`
	AdditionalIdentifiers []Identifier `json:"additionalIdentifiers,omitempty"`
	ContactPoint          ContactPoint `json:"contactPoint"`
	Details               *Details     `json:"details,omitempty"`
}

// WithSchemeID returns a copy whose id is rewritten to "<scheme>-<id>"
func (o OrganizationReference) WithSchemeID() OrganizationReference {
	out := o.clone()
	out.ID = o.Identifier.Scheme + idSeparator + o.Identifier.ID
	return out
}

// SourceEntity projects the organization onto a budget source entity
func (o OrganizationReference) SourceEntity() SourceEntity {
	return SourceEntity{ID: o.ID, Name: o.Name}
}

func (o OrganizationReference) clone() OrganizationReference {
	out := o
	out.AdditionalIdentifiers = slices.Clone(o.AdditionalIdentifiers)
	if o.Details != nil {
		details := *o.Details
		out.Details = &details
	}
	return out
}

// SourceEntity names the organization a budget comes from
type SourceEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
