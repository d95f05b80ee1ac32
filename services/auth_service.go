package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-frontdesk/cache"
	"hotel-frontdesk/models"
	"hotel-frontdesk/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been signed out")
	ErrForbidden          = errors.New("not allowed")
)

const (
	ownerRoleName        = "owner"
	defaultStaffRoleName = "Receptionist"
	minPasswordLength    = 8
	tokenIssuer          = "hotel-frontdesk"
)

// Claims is the signed session of one staff member.
type Claims struct {
	UserID      uint     `json:"user_id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Can reports whether the session carries perm. The owner role carries everything.
func (c *Claims) Can(perm string) bool {
	if c == nil {
		return false
	}
	if strings.EqualFold(c.Role, ownerRoleName) {
		return true
	}
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

type SignUpInput struct {
	FullName string `json:"fullName"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// AuthService issues and checks staff sessions. It talks to gorm directly; accounts are outside the front-desk store.
type AuthService struct {
	DB          *gorm.DB
	Revocations cache.RevocationStore
	Logger      *logrus.Logger
	Secret      []byte
	TTL         time.Duration
	BcryptCost  int
	Now         func() time.Time
}

func NewAuthService(db *gorm.DB, revocations cache.RevocationStore, logger *logrus.Logger, secret string, ttl time.Duration, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		DB:          db,
		Revocations: revocations,
		Logger:      logger,
		Secret:      []byte(secret),
		TTL:         ttl,
		BcryptCost:  bcryptCost,
		Now:         time.Now,
	}
}

// SignUp creates a staff login. The very first account becomes the owner; after that only a
// session allowed to edit settings may add staff.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput, actor *Claims) (*models.StaffAccount, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Username == "" {
		return nil, invalid("username", "Username is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("password", "Password must be at least 8 characters")
	}

	db := s.DB.WithContext(ctx)
	var existing int64
	if err := db.Model(&models.StaffAccount{}).Count(&existing).Error; err != nil {
		return nil, &PersistenceError{Op: "count staff accounts", Err: err}
	}

	roleName := strings.TrimSpace(in.Role)
	switch {
	case existing == 0:
		roleName = ownerRoleName
	case !actor.Can(models.PermSettingsEdit):
		return nil, ErrForbidden
	case roleName == "":
		roleName = defaultStaffRoleName
	}

	var role models.Role
	if err := db.Where("LOWER(name) = ?", strings.ToLower(roleName)).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("role", fmt.Sprintf("Unknown role '%s'", roleName))
		}
		return nil, &PersistenceError{Op: "find role", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acct := &models.StaffAccount{
		FullName: in.FullName,
		Username: in.Username,
		Password: string(hash),
		RoleID:   &role.ID,
	}
	if err := db.Create(acct).Error; err != nil {
		if store.IsDuplicateKeyError(err) {
			return nil, conflict("Username %s is already registered", in.Username)
		}
		return nil, &PersistenceError{Op: "create staff account", Err: err}
	}
	acct.Role = &role
	s.Logger.WithFields(logrus.Fields{"username": acct.Username, "role": role.Name}).Info("🔐 Staff account created")
	return acct, nil
}

// SignIn checks the password and returns a signed bearer token.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, *Claims, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	var acct models.StaffAccount
	err := s.DB.WithContext(ctx).Preload("Role.Permissions").Where("username = ?", username).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, &PersistenceError{Op: "find staff account", Err: err}
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte(password)) != nil {
		s.Logger.WithField("username", username).Warn("⚠️ Failed sign-in")
		return "", nil, ErrInvalidCredentials
	}

	token, claims, err := s.issue(&acct)
	if err != nil {
		return "", nil, err
	}
	s.Logger.WithField("username", username).Info("✅ Signed in")
	return token, claims, nil
}

func (s *AuthService) issue(acct *models.StaffAccount) (string, *Claims, error) {
	now := s.Now()
	claims := &Claims{
		UserID:   acct.ID,
		Username: acct.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprint(acct.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	if acct.Role != nil {
		claims.Role = acct.Role.Name
		claims.Permissions = acct.Role.PermissionNames()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// ParseToken validates the signature, expiry and revocation of a bearer token.
func (s *AuthService) ParseToken(ctx context.Context, raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.Now), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if s.Revocations != nil && claims.ID != "" {
		revoked, err := s.Revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, &PersistenceError{Op: "check revocation", Err: err}
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// SignOut revokes the token id until it would have expired.
func (s *AuthService) SignOut(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" || s.Revocations == nil {
		return nil
	}
	until := s.Now().Add(s.TTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.Revocations.Revoke(ctx, claims.ID, until); err != nil {
		return &PersistenceError{Op: "revoke token", Err: err}
	}
	return nil
}

// Me loads the signed-in account with its role.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.StaffAccount, error) {
	var acct models.StaffAccount
	err := s.DB.WithContext(ctx).Preload("Role.Permissions").First(&acct, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("staff account %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get staff account", Err: err}
	}
	return &acct, nil
}

// ListAccounts returns every staff login with its role, oldest first.
func (s *AuthService) ListAccounts(ctx context.Context) ([]models.StaffAccount, error) {
	var accounts []models.StaffAccount
	if err := s.DB.WithContext(ctx).Preload("Role").Order("id").Find(&accounts).Error; err != nil {
		return nil, &PersistenceError{Op: "list staff accounts", Err: err}
	}
	return accounts, nil
}

// DeleteAccount removes a staff login. Nobody can delete their own account. Tokens already issued
// to the account stay valid until they expire.
func (s *AuthService) DeleteAccount(ctx context.Context, id uint, actor *Claims, confirm Confirmer) error {
	if actor != nil && actor.UserID == id {
		return invalid("id", "You cannot delete your own account")
	}
	if !confirm(fmt.Sprintf("Delete staff account %d?", id)) {
		return ErrNotConfirmed
	}
	res := s.DB.WithContext(ctx).Delete(&models.StaffAccount{}, id)
	if res.Error != nil {
		return &PersistenceError{Op: "delete staff account", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("staff account %d: %w", id, ErrNotFound)
	}
	s.Logger.WithField("account_id", id).Info("🗑️ Staff account deleted")
	return nil
}
