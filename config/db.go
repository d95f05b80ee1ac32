package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-frontdesk/models"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// ResolveDSN builds the driver-specific connection string.
func ResolveDSN(db DatabaseConfig) (string, error) {
	raw := strings.TrimSpace(db.URL)

	if db.Driver == "postgres" {
		if raw != "" {
			return raw, nil
		}
		port := db.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=Asia/Kolkata",
			db.Host, port, db.User, db.Password, db.Name), nil
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}
	port := db.Port
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		db.User, db.Password, db.Host, port, db.Name,
	), nil
}

func dialector(db DatabaseConfig, dsn string) gorm.Dialector {
	if db.Driver == "postgres" {
		return postgres.Open(dsn)
	}
	return mysql.Open(dsn)
}

// ConnectDatabase opens the pool, migrates and seeds.
func ConnectDatabase(cfg *Config, lg *logrus.Logger) (*gorm.DB, error) {
	dsn, err := ResolveDSN(cfg.Database)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if lg.IsLevelEnabled(logrus.DebugLevel) {
		level = logger.Info
	}
	gormLogger := logger.New(
		log.New(lg.Writer(), "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector(cfg.Database, dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("cannot get raw sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if cfg.Database.AutoMigrate {
		// parent -> child order
		if err := db.AutoMigrate(
			&models.Role{},
			&models.RolePermission{},
			&models.StaffAccount{},
			&models.HotelSetting{},
			&models.Room{},
			&models.Customer{},
			&models.Employee{},
			&models.Allocation{},
			&models.Invoice{},
			&models.BookingSourcesConfig{},
		); err != nil {
			return nil, fmt.Errorf("auto-migrate failed: %w", err)
		}
	}

	if cfg.Database.Seed {
		SeedDatabase(db, cfg, lg)
	}
	return db, nil
}

// SeedDatabase creates the default roles and, when OWNER_PASSWORD is set, the owner login.
// Booking sources are seeded lazily by the registry on first read.
func SeedDatabase(db *gorm.DB, cfg *Config, lg *logrus.Logger) {
	desired := []struct {
		role  models.Role
		perms []string
	}{
		{models.Role{Name: "owner", Description: "System owner with full access"}, models.AllPermissions},
		{models.Role{Name: "Receptionist", Description: "Front desk operations"}, models.ReceptionistPermissions},
	}

	var ownerRoleID uint
	for _, d := range desired {
		role := d.role
		var existing models.Role
		err := db.Where("LOWER(name) = ?", strings.ToLower(role.Name)).First(&existing).Error
		if err == nil {
			role = existing
		} else if err := db.Create(&role).Error; err != nil {
			lg.WithError(err).WithField("role", role.Name).Warn("failed to create role")
			continue
		}
		if role.Name == "owner" {
			ownerRoleID = role.ID
		}

		var permCount int64
		db.Model(&models.RolePermission{}).Where("role_id = ?", role.ID).Count(&permCount)
		if permCount > 0 {
			continue
		}
		perms := make([]models.RolePermission, 0, len(d.perms))
		for _, p := range d.perms {
			perms = append(perms, models.RolePermission{RoleID: role.ID, Permission: p})
		}
		if err := db.Create(&perms).Error; err != nil {
			lg.WithError(err).WithField("role", role.Name).Warn("failed to create role permissions")
		}
	}

	var staffCount int64
	db.Model(&models.StaffAccount{}).Count(&staffCount)
	if staffCount == 0 && cfg.Auth.OwnerPassword != "" && ownerRoleID != 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.OwnerPassword), cfg.Auth.BcryptCost)
		if err != nil {
			lg.WithError(err).Warn("failed to hash owner password")
			return
		}
		owner := models.StaffAccount{
			FullName: "Owner",
			Username: cfg.Auth.OwnerUsername,
			Password: string(hash),
			RoleID:   &ownerRoleID,
		}
		if err := db.Create(&owner).Error; err != nil {
			lg.WithError(err).Warn("failed to create owner account")
		} else {
			lg.WithField("username", owner.Username).Info("Owner account seeded")
		}
	}
}
