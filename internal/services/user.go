package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-vertrieb/internal/models"
	"github.com/diewo77/go-vertrieb/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

var userTypen = []string{
	string(models.UserTypKeine), string(models.UserTypEvolti),
	string(models.UserTypVertrieb), string(models.UserTypFreelancer),
}

var berufe = []string{string(models.BerufVertrieb), string(models.BerufElektriker), string(models.BerufProjektant)}

type UserService struct {
	db  *gorm.DB
	log *zap.Logger

	// OnAccessChange is called after a user's role or active flag changed.
	OnAccessChange func(userID uint)
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{db: db, log: log}
}

type CreateUserInput struct {
	Email     string       `json:"email"`
	Password  string       `json:"password"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Phone     string       `json:"phone"`
	Kuerzel   string       `json:"kuerzel"`
	Beruf     models.Beruf `json:"beruf"`
	ZohoID    *int64       `json:"zoho_id"`
}

// KuerzelFromEmail derives a short code from the mailbox name.
func KuerzelFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.ToUpper(local)
	if r := []rune(local); len(r) > 3 {
		return string(r[:3])
	}
	return local
}

// Create stores a user with a bcrypt password, the default role of its
// Beruf and the initial quote defaults.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Kuerzel = strings.ToUpper(strings.TrimSpace(in.Kuerzel))
	if in.Beruf == "" {
		in.Beruf = models.BerufVertrieb
	}

	v := validation.Violations{}
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	if len(in.Password) < minPasswordLen {
		v.Add("password", "too_short")
	}
	validation.MaxLen("kuerzel", in.Kuerzel, 3, v)
	validation.OneOf("beruf", string(in.Beruf), berufe, v)
	validation.GermanMobile("phone", in.Phone, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Unscoped().Model(&models.User{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, invalid(validation.Violations{"email": "taken"})
	}

	kuerzel := in.Kuerzel
	if kuerzel == "" {
		kuerzel = KuerzelFromEmail(in.Email)
		if err := db.Model(&models.User{}).Where("kuerzel = ?", kuerzel).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			kuerzel = ""
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		Email:        in.Email,
		Password:     string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Beruf:        in.Beruf,
		IsActive:     true,
		Typ:          models.UserTypKeine,
		ZohoID:       in.ZohoID,
		SMTPSubject:  models.DefaultSMTPSubject,
		SMTPBody:     models.DefaultSMTPBody,
		UserDefaults: models.DefaultUserDefaults(),
	}
	if kuerzel != "" {
		u.Kuerzel = &kuerzel
	}

	var role models.Role
	err = db.Where("name = ?", models.RoleForBeruf(in.Beruf)).First(&role).Error
	switch {
	case err == nil:
		u.RoleID = &role.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.log.Warn("default role missing", zap.String("role", models.RoleForBeruf(in.Beruf)))
	default:
		return nil, err
	}

	if err := db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user created", zap.Uint("user_id", u.ID), zap.String("beruf", string(u.Beruf)))
	return &u, nil
}

// Authenticate checks an email/password pair. Inactive users cannot log in.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return &u, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Preload("Role").First(&u, id).Error; err != nil {
		return nil, notFound(err, "user", fmt.Sprint(id))
	}
	return &u, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.db.WithContext(ctx).Preload("Role").Order("last_name, first_name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetRole assigns a role by name. An empty name removes the role.
func (s *UserService) SetRole(ctx context.Context, userID uint, roleName string) (*models.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	var roleID *uint
	if roleName != "" {
		var role models.Role
		if err := s.db.WithContext(ctx).Where("name = ?", roleName).First(&role).Error; err != nil {
			return nil, notFound(err, "role", roleName)
		}
		roleID = &role.ID
	}
	if err := s.db.WithContext(ctx).Model(u).Update("role_id", roleID).Error; err != nil {
		return nil, err
	}
	s.accessChanged(userID)
	return s.Get(ctx, userID)
}

// UserAttributes are the admin-editable pricing attributes. Nil fields are
// left unchanged.
type UserAttributes struct {
	UsersAufschlag *int                 `json:"users_aufschlag"`
	Typ            *string              `json:"typ"`
	Kuerzel        *string              `json:"kuerzel"`
	IsActive       *bool                `json:"is_active"`
	Defaults       *models.UserDefaults `json:"defaults"`
}

func (s *UserService) UpdateAttributes(ctx context.Context, userID uint, in UserAttributes) (*models.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	v := validation.Violations{}
	updates := map[string]any{}
	if in.UsersAufschlag != nil {
		validation.IntRange("users_aufschlag", *in.UsersAufschlag, 0, 100, v)
		updates["users_aufschlag"] = *in.UsersAufschlag
	}
	if in.Typ != nil {
		validation.OneOf("typ", *in.Typ, userTypen, v)
		updates["typ"] = *in.Typ
	}
	if in.Kuerzel != nil {
		k := strings.ToUpper(strings.TrimSpace(*in.Kuerzel))
		validation.MaxLen("kuerzel", k, 3, v)
		if k == "" {
			updates["kuerzel"] = nil
		} else {
			updates["kuerzel"] = k
		}
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.Defaults != nil {
		validation.OneOf("initial_ausrichtung", in.Defaults.InitialAusrichtung, models.Ausrichtungen, v)
		validation.OneOf("initial_komplex", in.Defaults.InitialKomplex, models.Komplexe, v)
		validation.OneOf("initial_garantieWR", in.Defaults.InitialGarantieWR, models.GarantieWRs, v)
	}
	if err := invalid(v); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(u).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.Defaults != nil {
			if err := tx.Model(u).Select(defaultColumns).Updates(models.User{UserDefaults: *in.Defaults}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", userID, err)
	}
	if in.IsActive != nil {
		s.accessChanged(userID)
	}
	return s.Get(ctx, userID)
}

// field names of models.UserDefaults
var defaultColumns = []string{
	"InitialVerbrauch", "InitialGrundpreis", "InitialArbeitspreis", "InitialPrognose",
	"InitialZeitraum", "InitialBis10kWp", "InitialBis40kWp", "InitialAusrichtung",
	"InitialKomplex", "InitialSolarModule", "InitialModulanzahl", "InitialGarantieWR",
	"InitialElwa", "InitialThor", "InitialHeizstab", "InitialNotstrom",
	"InitialAnzOptimizer", "InitialWallboxTyp", "InitialWallboxAnzahl", "InitialKabelanschluss",
}

func (s *UserService) accessChanged(userID uint) {
	if s.OnAccessChange != nil {
		s.OnAccessChange(userID)
	}
}
