package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kunde holds the customer fields shared by quotes and tickets.
type Kunde struct {
	ZohoID          *int64 `gorm:"index" json:"zoho_id,omitempty"`
	ZohoKundennumer string `gorm:"size:100" json:"zoho_kundennumer,omitempty"`

	Anrede           string `gorm:"size:20" json:"anrede"`
	NamePrefix       string `gorm:"size:50" json:"name_prefix,omitempty"`
	NameFirstName    string `gorm:"size:100" json:"name_first_name"`
	NameLastName     string `gorm:"size:100" json:"name_last_name"`
	NameSuffix       string `gorm:"size:50" json:"name_suffix,omitempty"`
	Name             string `gorm:"size:255;index" json:"name"`
	NameDisplayValue string `gorm:"size:255" json:"name_display_value"`
	Firma            string `gorm:"size:255" json:"firma,omitempty"`

	Strasse         string `gorm:"size:255" json:"strasse"`
	Ort             string `gorm:"size:255" json:"ort"`
	Anlagenstandort string `gorm:"size:255" json:"anlagenstandort,omitempty"`
	Email           string `gorm:"size:255" json:"email"`
	TelefonMobil    string `gorm:"size:30" json:"telefon_mobil,omitempty"`
	TelefonFestnetz string `gorm:"size:30" json:"telefon_festnetz,omitempty"`
	Notizen         string `gorm:"type:text" json:"notizen,omitempty"`

	AnfrageVom              string `gorm:"size:20" json:"anfrage_vom,omitempty"`
	AngebotBekommenAm       string `gorm:"size:20" json:"angebot_bekommen_am,omitempty"`
	VertrieblerDisplayValue string `gorm:"size:255" json:"vertriebler_display_value,omitempty"`
	VertrieblerID           string `gorm:"size:50" json:"vertriebler_id,omitempty"`
	AdressePVADisplayValue  string `gorm:"size:255" json:"adresse_pva_display_value,omitempty"`
	Latitude                string `gorm:"size:30" json:"latitude,omitempty"`
	Longitude               string `gorm:"size:30" json:"longitude,omitempty"`
	EmpfohlenVon            string `gorm:"size:255" json:"empfohlen_von,omitempty"`
	AblehnungsGrund         string `gorm:"size:255" json:"ablehnungs_grund,omitempty"`
}

func (k *Kunde) isCompanyLike() bool {
	return k.Anrede == AnredeFirma || k.Anrede == AnredeFamilie
}

// SwapNameOrder returns the name used for sorting lists: the bare last name
// for companies and families, "Last, [Suffix ]First" otherwise.
func (k *Kunde) SwapNameOrder() string {
	if k.isCompanyLike() {
		return k.NameLastName
	}
	if k.NameSuffix != "" {
		return k.NameLastName + ", " + k.NameSuffix + " " + k.NameFirstName
	}
	return k.NameLastName + ", " + k.NameFirstName
}

// SwapNameOrderPDF returns the name printed on documents.
func (k *Kunde) SwapNameOrderPDF() string {
	if k.isCompanyLike() {
		return k.NameLastName
	}
	if k.NameSuffix != "" {
		return k.NameSuffix + " " + k.NameFirstName + " " + k.NameLastName
	}
	return k.NameFirstName + " " + k.NameLastName
}

// FullAdresse is the two-line postal address.
func (k *Kunde) FullAdresse() string {
	return k.Strasse + "\n" + k.Ort
}

// AnlagenStandortOrDefault returns the installation site, falling back to
// the postal address.
func (k *Kunde) AnlagenStandortOrDefault() string {
	if k.Anlagenstandort != "" {
		return k.Anlagenstandort
	}
	return k.Strasse + ", " + k.Ort
}

// RefreshNames recomputes the derived name fields. Companies carry no first name.
func (k *Kunde) RefreshNames() {
	if k.Anrede == AnredeFirma {
		k.NameFirstName = ""
	}
	k.Name = k.SwapNameOrder()
	k.NameDisplayValue = k.SwapNameOrderPDF()
}

// ZohoEntry maps a Zoho record id to the customer number.
type ZohoEntry struct {
	ZohoID          string `json:"zoho_id"`
	ZohoKundennumer string `json:"zoho_kundennumer"`
}

// FindKundennummer returns the customer number for zohoID in a JSON list of
// ZohoEntry values. Malformed data yields "".
func FindKundennummer(zohoDataText string, zohoID int64) string {
	data := strings.TrimSpace(zohoDataText)
	if data == "" {
		return ""
	}
	var entries []ZohoEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return ""
	}
	id := strconv.FormatInt(zohoID, 10)
	for _, e := range entries {
		if e.ZohoID == id {
			return e.ZohoKundennumer
		}
	}
	return ""
}

// ResolveKundennummer keeps an existing customer number or looks it up in
// the owner's Zoho data.
func (k *Kunde) ResolveKundennummer(u *User) string {
	if k.ZohoKundennumer != "" {
		return k.ZohoKundennumer
	}
	if k.ZohoID == nil || u == nil {
		return ""
	}
	return FindKundennummer(u.ZohoDataText, *k.ZohoID)
}
