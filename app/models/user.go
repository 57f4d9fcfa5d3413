package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email    string `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password string `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role     string `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status   string `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	Bio      string `gorm:"type:text;default:null" json:"bio" validate:"max=1000"`

	// AppUserID is the identifier this app registers with the billing
	// provider for the user. BillingUserID is the column older accounts
	// were linked through before app_user_id existed; webhook subscriber
	// lookups match either.
	AppUserID     string `gorm:"type:varchar(191);index;default:''" json:"app_user_id"`
	BillingUserID string `gorm:"type:varchar(191);index;default:''" json:"-"`

	// IsPro mirrors the user's entitlement row. Written only by the
	// purchases sync; everything else reads it.
	IsPro bool `gorm:"default:false;index" json:"is_pro"`

	APIKeyHash      string     `gorm:"type:char(64);default:''" json:"-"`
	APIKeyPrefix    string     `gorm:"type:varchar(20);default:''" json:"api_key_prefix"`
	APIKeyCreatedAt *time.Time `json:"api_key_created_at"`
	APIKeyRevokedAt *time.Time `json:"-"`

	LastLoginAt *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(username string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:     username,
		Email:    email,
		Password: pw,
		Role:     ROLE_USER,
		Status:   STATUS_INACTIVE,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))

	return err == nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

var apiKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

const apiKeyPrefix = "ink_"

// IssueAPIKey generates a new API key, stores its hash on the struct, and
// returns the raw secret. Callers must persist the user afterwards.
func (u *User) IssueAPIKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	rawKey := apiKeyPrefix + apiKeyEncoding.EncodeToString(b)
	now := time.Now()
	u.APIKeyHash = HashAPIKey(rawKey)
	u.APIKeyPrefix = fmt.Sprintf("%.8s", rawKey)
	u.APIKeyCreatedAt = &now
	u.APIKeyRevokedAt = nil
	return rawKey, nil
}

// RevokeAPIKey clears the stored API key material without deleting the user.
func (u *User) RevokeAPIKey() {
	u.APIKeyHash = ""
	u.APIKeyPrefix = ""
	now := time.Now()
	u.APIKeyRevokedAt = &now
}

// HashAPIKey returns the hex sha256 digest stored for API key lookups.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// HasActiveAPIKey reports whether the user has an active API key configured
func (u *User) HasActiveAPIKey() bool {
	return u != nil && u.APIKeyHash != "" && u.APIKeyRevokedAt == nil
}
