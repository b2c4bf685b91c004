package client

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID identifies a record in its collection. The API returns numeric and
// string identifiers; both decode to ID.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// IntID formats a numeric identifier.
func IntID(n int) ID {
	return ID(strconv.Itoa(n))
}

// Record is implemented by every entity kept in a Collection.
type Record interface {
	RecordID() ID
}

type Role struct {
	Name string `json:"name"`
}

type UserSettings struct {
	Title      string `json:"title,omitempty"`
	Salutation string `json:"salutation,omitempty"`
	Firstname  string `json:"firstname,omitempty"`
	Lastname   string `json:"lastname,omitempty"`
	Company    string `json:"company,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	Address    string `json:"address,omitempty"`
	Postalcode string `json:"postalcode,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
}

type User struct {
	ID              ID            `json:"id,omitempty"`
	Name            string        `json:"name,omitempty"`
	Email           string        `json:"email,omitempty"`
	EmailVerifiedAt string        `json:"email_verified_at,omitempty"`
	Roles           []Role        `json:"roles,omitempty"`
	Blocked         bool          `json:"blocked"`
	Active          bool          `json:"active"`
	LastLogin       string        `json:"last_login,omitempty"`
	CreatedAt       string        `json:"created_at,omitempty"`
	UpdatedAt       string        `json:"updated_at,omitempty"`
	Settings        *UserSettings `json:"user_settings,omitempty"`
}

func (u User) RecordID() ID { return u.ID }

// Role returns the name of the primary role.
func (u User) Role() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0].Name
}

type Lead struct {
	ID           ID     `json:"id,omitempty"`
	LeadsNumber  string `json:"leads_number,omitempty"`
	UsersID      ID     `json:"users_id,omitempty"`
	ExternalUUID string `json:"external_uuid,omitempty"`
	LeadCount    int    `json:"lead_count,omitempty"`
	LeadType     string `json:"lead_type,omitempty"`
	User         *User  `json:"users,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
	DeletedAt    string `json:"deleted_at,omitempty"`
}

func (l Lead) RecordID() ID { return l.ID }

type Offer struct {
	ID           ID     `json:"id,omitempty"`
	UUID         string `json:"uuid,omitempty"`
	OffersNumber string `json:"offers_number,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Status       string `json:"offer_status,omitempty"`
	LeadsID      ID     `json:"leads_id,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

func (o Offer) RecordID() ID { return o.ID }

// OfferProduct is a line item of an offer.
type OfferProduct struct {
	ID        ID       `json:"id,omitempty"`
	OfferID   ID       `json:"offer_id,omitempty"`
	ProductID ID       `json:"product_id,omitempty"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

func (p OfferProduct) RecordID() ID { return p.ID }

type Invoice struct {
	ID             ID     `json:"id,omitempty"`
	UUID           string `json:"uuid,omitempty"`
	InvoicesNumber string `json:"invoices_number,omitempty"`
	Subject        string `json:"subject,omitempty"`
	Status         string `json:"invoice_status,omitempty"`
	OffersID       ID     `json:"offers_id,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

func (i Invoice) RecordID() ID { return i.ID }

type Product struct {
	ID           ID      `json:"id,omitempty"`
	Name         string  `json:"name,omitempty"`
	Description  string  `json:"description,omitempty"`
	Category     string  `json:"category,omitempty"`
	PriceType    string  `json:"price_type,omitempty"`
	MarkupFactor float64 `json:"markup_factor,omitempty"`
	DefaultPrice float64 `json:"default_price"`
}

func (p Product) RecordID() ID { return p.ID }

type PriceTier struct {
	ID          ID      `json:"id,omitempty"`
	ProductID   ID      `json:"product_id,omitempty"`
	MinQuantity int     `json:"min_quantity"`
	Price       float64 `json:"price"`
}

func (p PriceTier) RecordID() ID { return p.ID }

type FeatureGroup struct {
	ID        ID     `json:"id,omitempty"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

func (f FeatureGroup) RecordID() ID { return f.ID }

type File struct {
	ID           ID     `json:"id,omitempty"`
	Filename     string `json:"filename"`
	ExternalUUID string `json:"external_uuid,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
	Size         int64  `json:"size,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

func (f File) RecordID() ID { return f.ID }

type Chat struct {
	ID          ID     `json:"id,omitempty"`
	SubjectUUID string `json:"subject_uuid,omitempty"`
	Message     string `json:"message,omitempty"`
	UsersID     ID     `json:"users_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

func (c Chat) RecordID() ID { return c.ID }

// Notification types sent by the server.
const (
	NotificationError   = "error"
	NotificationWarning = "warning"
	NotificationInfo    = "info"
)

type UserNotification struct {
	ID        ID     `json:"id,omitempty"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (n UserNotification) RecordID() ID { return n.ID }

type Country struct {
	Alpha2Code   string            `json:"alpha2Code"`
	CallingCodes []string          `json:"callingCodes"`
	Flag         string            `json:"flag,omitempty"`
	Independent  bool              `json:"independent"`
	Name         string            `json:"name"`
	Translations map[string]string `json:"translations,omitempty"`
}

// StatusCount is one entry of a statuses endpoint.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
