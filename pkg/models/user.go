package models

import (
	"bytes"
	"encoding/json"
)

// User is a Hermes user. The server sometimes sends bare email addresses in
// place of user objects; both forms decode into User.
type User struct {
	ID           int        `json:"id,omitempty"`
	EmailAddress string     `json:"emailAddress"`
	GivenName    string     `json:"givenName,omitempty"`
	FamilyName   string     `json:"familyName,omitempty"`
	Name         string     `json:"name,omitempty"`
	PhotoURL     string     `json:"photoURL,omitempty"`
	CreatedAt    *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt    *Timestamp `json:"updatedAt,omitempty"`
}

// DisplayName returns the user's name, falling back to the email address.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.EmailAddress
}

func (u *User) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var email string
		if err := json.Unmarshal(data, &email); err != nil {
			return err
		}
		*u = User{EmailAddress: email}
		return nil
	}
	type user User
	var v user
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*u = User(v)
	return nil
}

// Group is a Google group or equivalent that can approve documents.
type Group struct {
	ID           int    `json:"id,omitempty"`
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

func (g *Group) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var email string
		if err := json.Unmarshal(data, &email); err != nil {
			return err
		}
		*g = Group{Name: email, EmailAddress: email}
		return nil
	}
	type group Group
	var v group
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*g = Group(v)
	return nil
}

// Product is a product area; its abbreviation prefixes document numbers.
type Product struct {
	ID           int    `json:"id,omitempty"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*p = Product{Name: name}
		return nil
	}
	type product Product
	var v product
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Product(v)
	return nil
}

// DocumentType is a kind of document such as RFC or PRD.
type DocumentType struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"name"`
	LongName    string `json:"longName,omitempty"`
	Description string `json:"description,omitempty"`
}

func (t *DocumentType) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*t = DocumentType{Name: name}
		return nil
	}
	type docType DocumentType
	var v docType
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = DocumentType(v)
	return nil
}

func isJSONString(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '"'
}
