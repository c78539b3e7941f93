package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/internal/pricing"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// zohoSued is how Zoho spells the south orientation.
const zohoSued = "Süd"

// ZohoKunde is one customer record from a Zoho Creator report.
type ZohoKunde struct {
	ZohoID                  int64   `json:"zoho_id"`
	Status                  string  `json:"status"`
	StatusPVA               string  `json:"status_pva"`
	AngenommenesAngebot     string  `json:"angenommenes_angebot"`
	Anrede                  string  `json:"anrede"`
	NameFirstName           string  `json:"name_first_name"`
	NameLastName            string  `json:"name_last_name"`
	NameSuffix              string  `json:"name_suffix"`
	Name                    string  `json:"name"`
	Strasse                 string  `json:"strasse"`
	Ort                     string  `json:"ort"`
	Latitude                string  `json:"latitude"`
	Longitude               string  `json:"longitude"`
	AdressePVADisplayValue  string  `json:"adresse_pva_display_value"`
	TelefonFestnetz         string  `json:"telefon_festnetz"`
	TelefonMobil            string  `json:"telefon_mobil"`
	ZohoKundennumer         string  `json:"zoho_kundennumer"`
	Email                   string  `json:"email"`
	VertrieblerDisplayValue string  `json:"vertriebler_display_value"`
	VertrieblerID           string  `json:"vertriebler_id"`
	AnfrageVom              string  `json:"anfrage_vom"`
	AngebotBekommenAm       string  `json:"angebot_bekommen_am"`
	Ausrichtung             string  `json:"ausrichtung"`
	Verbrauch               float64 `json:"verbrauch"`
	Notizen                 string  `json:"notizen"`
	EmpfohlenVon            string  `json:"empfohlen_von"`
	Leadstatus              string  `json:"leadstatus"`
}

// flexFloat accepts numbers, numeric strings and empty values.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type zohoRecord struct {
	ID                  string `json:"ID"`
	Status              string `json:"Status"`
	StatusPVA           string `json:"Status_PVA"`
	AngenommenesAngebot string `json:"Angenommenes_Angebot"`
	Name                struct {
		Prefix    string `json:"prefix"`
		FirstName string `json:"first_name"`
		Suffix    string `json:"suffix"`
		LastName  string `json:"last_name"`
	} `json:"Name"`
	AdressePVA struct {
		AddressLine1 string `json:"address_line_1"`
		PostalCode   string `json:"postal_code"`
		DistrictCity string `json:"district_city"`
		Latitude     string `json:"latitude"`
		Longitude    string `json:"longitude"`
		DisplayValue string `json:"display_value"`
	} `json:"Adresse_PVA"`
	TelefonFestnetz string `json:"Telefon_Festnetz"`
	TelefonMobil    string `json:"Telefon_mobil"`
	Kundennummer    string `json:"Kundennummer"`
	Email           string `json:"Email"`
	Vertriebler     struct {
		DisplayValue string `json:"display_value"`
		ID           string `json:"ID"`
	} `json:"Vertriebler"`
	AnfrageVom        string    `json:"Anfrage_vom"`
	AngebotBekommenAm string    `json:"Angebot_bekommen_am"`
	Dachausrichtung   string    `json:"Dachausrichtung"`
	Stromverbrauch    flexFloat `json:"Stromverbrauch_pro_Jahr"`
	Notizen           string    `json:"Notizen"`
	EmpfohlenVon      string    `json:"empfohlen_von"`
	Leadstatus        string    `json:"Leadstatus"`
}

func (r zohoRecord) kunde() (ZohoKunde, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.ID), 10, 64)
	if err != nil {
		return ZohoKunde{}, fmt.Errorf("zoho id %q: %w", r.ID, err)
	}
	k := ZohoKunde{
		ZohoID:                  id,
		Status:                  r.Status,
		StatusPVA:               r.StatusPVA,
		AngenommenesAngebot:     r.AngenommenesAngebot,
		Anrede:                  r.Name.Prefix,
		NameFirstName:           r.Name.FirstName,
		NameLastName:            r.Name.LastName,
		NameSuffix:              r.Name.Suffix,
		Strasse:                 r.AdressePVA.AddressLine1,
		Ort:                     r.AdressePVA.PostalCode + " " + r.AdressePVA.DistrictCity,
		Latitude:                r.AdressePVA.Latitude,
		Longitude:               r.AdressePVA.Longitude,
		AdressePVADisplayValue:  r.AdressePVA.DisplayValue,
		TelefonFestnetz:         r.TelefonFestnetz,
		TelefonMobil:            r.TelefonMobil,
		ZohoKundennumer:         r.Kundennummer,
		Email:                   r.Email,
		VertrieblerDisplayValue: r.Vertriebler.DisplayValue,
		VertrieblerID:           r.Vertriebler.ID,
		AnfrageVom:              r.AnfrageVom,
		AngebotBekommenAm:       r.AngebotBekommenAm,
		Verbrauch:               float64(r.Stromverbrauch),
		Notizen:                 r.Notizen,
		EmpfohlenVon:            r.EmpfohlenVon,
		Leadstatus:              r.Leadstatus,
	}
	switch r.Dachausrichtung {
	case zohoSued, pricing.AusrichtungSued:
		k.Ausrichtung = pricing.AusrichtungSued
	case pricing.AusrichtungOstWest:
		k.Ausrichtung = pricing.AusrichtungOstWest
	}
	if k.Verbrauch <= 0 {
		k.Verbrauch = pricing.DefaultVerbrauch
	}
	k.Name = r.listName()
	return k, nil
}

// listName is the name Zoho lists sort by: the last name for companies,
// "Last, SuffixFirst" for everyone else.
func (r zohoRecord) listName() string {
	if r.Name.Prefix == models.AnredeFirma {
		return r.Name.LastName
	}
	return r.Name.LastName + ", " + r.Name.Suffix + r.Name.FirstName
}

// ParseZohoPayload reads a Zoho Creator {"data": [...]} response. Records
// without an ID are skipped.
func ParseZohoPayload(data []byte) ([]ZohoKunde, error) {
	var payload struct {
		Data []zohoRecord `json:"data"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode zoho payload: %w", err)
	}
	out := make([]ZohoKunde, 0, len(payload.Data))
	for _, r := range payload.Data {
		if strings.TrimSpace(r.ID) == "" {
			continue
		}
		k, err := r.kunde()
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// ApplyToAngebot copies Zoho customer data onto a quote.
func ApplyToAngebot(a *models.Angebot, k ZohoKunde) {
	id := k.ZohoID
	a.ZohoID = &id
	a.ZohoKundennumer = k.ZohoKundennumer
	a.StatusPVA = k.StatusPVA
	if k.AngenommenesAngebot != "" {
		a.AngenommenesAngebot = k.AngenommenesAngebot
	}
	a.Anrede = k.Anrede
	a.NameFirstName = k.NameFirstName
	a.NameLastName = k.NameLastName
	a.NameSuffix = k.NameSuffix
	a.Strasse = k.Strasse
	a.Ort = k.Ort
	a.Latitude = k.Latitude
	a.Longitude = k.Longitude
	a.AdressePVADisplayValue = k.AdressePVADisplayValue
	a.TelefonFestnetz = k.TelefonFestnetz
	a.TelefonMobil = k.TelefonMobil
	a.Email = k.Email
	a.VertrieblerDisplayValue = k.VertrieblerDisplayValue
	a.VertrieblerID = k.VertrieblerID
	a.AnfrageVom = k.AnfrageVom
	a.AngebotBekommenAm = k.AngebotBekommenAm
	a.Notizen = k.Notizen
	a.EmpfohlenVon = k.EmpfohlenVon
	a.Leadstatus = k.Leadstatus
	if k.Ausrichtung != "" {
		a.Ausrichtung = k.Ausrichtung
	}
	a.Verbrauch = k.Verbrauch
	a.Kunde.RefreshNames()
}

type ZohoService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewZohoService(db *gorm.DB, log *zap.Logger) *ZohoService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZohoService{db: db, log: log}
}

// Import parses a payload for userID and stores the customer number index
// in the user's ZohoDataText.
func (s *ZohoService) Import(ctx context.Context, userID uint, data []byte) ([]ZohoKunde, error) {
	kunden, err := ParseZohoPayload(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	entries := make([]models.ZohoEntry, 0, len(kunden))
	for _, k := range kunden {
		entries = append(entries, models.ZohoEntry{
			ZohoID:          strconv.FormatInt(k.ZohoID, 10),
			ZohoKundennumer: k.ZohoKundennumer,
		})
	}
	text, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("zoho_data_text", string(text))
	if res.Error != nil {
		return nil, fmt.Errorf("store zoho data: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	s.log.Info("zoho data imported", zap.Uint("user_id", userID), zap.Int("records", len(kunden)))
	return kunden, nil
}

// Kundennummer looks up the customer number of a Zoho record for userID.
func (s *ZohoService) Kundennummer(ctx context.Context, userID uint, zohoID int64) (string, error) {
	u, err := loadUser(ctx, s.db, userID)
	if err != nil {
		return "", err
	}
	return models.FindKundennummer(u.ZohoDataText, zohoID), nil
}
