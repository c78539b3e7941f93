package models

import (
	"time"

	"gorm.io/gorm"
)

// Beruf is the job a user is hired for; it picks the default role.
type Beruf string

const (
	BerufVertrieb   Beruf = "Vertrieb"
	BerufElektriker Beruf = "Elektriker"
	BerufProjektant Beruf = "Projektant"
)

// UserTyp changes how a sales rep's quotes are priced.
type UserTyp string

const (
	UserTypKeine      UserTyp = "keine"
	UserTypEvolti     UserTyp = "Evolti"
	UserTypVertrieb   UserTyp = "Vertrieb"
	UserTypFreelancer UserTyp = "Freelancer"
)

// Default SMTP texts for outgoing documents.
const (
	DefaultSMTPSubject = "Juno-Solar Dokument-Anlage"
	DefaultSMTPBody    = "Sehr geehrter Kunde, in diesem Schreiben finden Sie die beigefügten PDF-Dokumente.\nMit freundlichen Grüßen, Juno-Solar"
)

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	FirstName string         `gorm:"size:100" json:"first_name,omitempty"`
	LastName  string         `gorm:"size:100" json:"last_name,omitempty"`
	Phone     string         `gorm:"size:20" json:"phone,omitempty"`
	// Kuerzel prefixes generated record ids. Nil when unset so the unique
	// index ignores it.
	Kuerzel  *string `gorm:"uniqueIndex;size:3" json:"kuerzel,omitempty"`
	Beruf    Beruf   `gorm:"size:30" json:"beruf,omitempty"`
	IsActive bool    `gorm:"default:true" json:"is_active"`

	// RoleID links the user to an authorization role.
	// A nil value means the user has no role assigned (limited access).
	RoleID *uint `gorm:"index" json:"role_id,omitempty"`
	Role   *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`

	Typ            UserTyp `gorm:"size:20" json:"typ,omitempty"`
	UsersAufschlag int     `gorm:"not null;default:0" json:"users_aufschlag"`

	ZohoID       *int64 `gorm:"uniqueIndex" json:"zoho_id,omitempty"`
	ZohoDataText string `gorm:"type:text" json:"-"`

	SMTPServer   string `gorm:"size:50" json:"smtp_server,omitempty"`
	SMTPPort     string `gorm:"size:10" json:"smtp_port,omitempty"`
	SMTPUsername string `gorm:"size:50" json:"smtp_username,omitempty"`
	SMTPPassword string `gorm:"size:100" json:"-"`
	SMTPSubject  string `gorm:"type:text" json:"smtp_subject,omitempty"`
	SMTPBody     string `gorm:"type:text" json:"smtp_body,omitempty"`

	UserDefaults
}

// UserDefaults prefill new quotes and calculator runs.
type UserDefaults struct {
	InitialVerbrauch      float64 `gorm:"default:15000" json:"initial_verbrauch"`
	InitialGrundpreis     float64 `gorm:"default:9.8" json:"initial_grundpreis"`
	InitialArbeitspreis   float64 `gorm:"default:46.8" json:"initial_arbeitspreis"`
	InitialPrognose       float64 `gorm:"default:5.2" json:"initial_prognose"`
	InitialZeitraum       int     `gorm:"default:15" json:"initial_zeitraum"`
	InitialBis10kWp       float64 `gorm:"default:8.2" json:"initial_bis10kWp"`
	InitialBis40kWp       float64 `gorm:"default:7.1" json:"initial_bis40kWp"`
	InitialAusrichtung    string  `gorm:"size:10;default:'Ost/West'" json:"initial_ausrichtung"`
	InitialKomplex        string  `gorm:"size:30;default:'sehr komplex'" json:"initial_komplex"`
	InitialSolarModule    string  `gorm:"size:100;default:'Phono Solar PS420M7GFH-18/VNH'" json:"initial_solar_module"`
	InitialModulanzahl    int     `gorm:"default:0" json:"initial_modulanzahl"`
	InitialGarantieWR     string  `gorm:"size:10;default:'10 Jahre'" json:"initial_garantieWR"`
	InitialElwa           bool    `json:"initial_elwa"`
	InitialThor           bool    `json:"initial_thor"`
	InitialHeizstab       bool    `json:"initial_heizstab"`
	InitialNotstrom       bool    `json:"initial_notstrom"`
	InitialAnzOptimizer   int     `json:"initial_anzOptimizer"`
	InitialWallboxTyp     string  `gorm:"size:100" json:"initial_wallboxtyp,omitempty"`
	InitialWallboxAnzahl  int     `json:"initial_wallbox_anzahl"`
	InitialKabelanschluss float64 `gorm:"default:10" json:"initial_kabelanschluss"`
}

// DefaultUserDefaults returns the initial values for a new user.
func DefaultUserDefaults() UserDefaults {
	return UserDefaults{
		InitialVerbrauch:      15000,
		InitialGrundpreis:     9.8,
		InitialArbeitspreis:   46.8,
		InitialPrognose:       5.2,
		InitialZeitraum:       15,
		InitialBis10kWp:       8.2,
		InitialBis40kWp:       7.1,
		InitialAusrichtung:    AusrichtungOstWest,
		InitialKomplex:        KomplexSehrKomplex,
		InitialSolarModule:    DefaultSolarModule,
		InitialGarantieWR:     GarantieWR10,
		InitialKabelanschluss: 10,
	}
}

// GetUserID implements the Ownable interface.
func (u *User) GetUserID() uint {
	return u.ID
}

// KuerzelOrEmpty returns the user's short code, or "" when unset.
func (u *User) KuerzelOrEmpty() string {
	if u == nil || u.Kuerzel == nil {
		return ""
	}
	return *u.Kuerzel
}

// FullName returns "First Last".
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// VertrieblerText is the sales contact block printed on documents.
func (u *User) VertrieblerText() string {
	return u.FirstName + " " + u.LastName + " \nMobil: " + u.Phone + "\nEmail: " + u.Email
}
