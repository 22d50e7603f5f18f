package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carsmotion/carsmotion/internal/common/db"
	"gorm.io/gorm"
)

// singletonID pins the one and only settings row.
const singletonID = 1

// Settings is the single-row company profile shown on invoices and used
// by the backup exporter.
type Settings struct {
	ID uint `gorm:"primaryKey" json:"-"`

	CompanyName string `gorm:"size:255" json:"companyName"`
	Address     string `gorm:"type:text" json:"address"`
	Phone       string `gorm:"size:32" json:"phone"`
	Email       string `gorm:"size:255" json:"email"`
	VATNumber   string `gorm:"size:64" json:"vatNumber"`
	Currency    string `gorm:"size:8" json:"currency"`

	LastBackupDate *time.Time `json:"lastBackupDate"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func defaultSettings() *Settings {
	return &Settings{
		ID:          singletonID,
		CompanyName: "CarsMotion",
		Currency:    "EUR",
	}
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(gormDB *gorm.DB) *Repo {
	return &Repo{db: gormDB}
}

func (r *Repo) conn(ctx context.Context) (*gorm.DB, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	return db.FromContext(ctx, r.db), nil
}

// Get returns the settings row, creating the default one on first use.
func (r *Repo) Get(ctx context.Context) (*Settings, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := conn.Where("id = ?", singletonID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s = *defaultSettings()
			if err := conn.Create(&s).Error; err != nil {
				return nil, err
			}
			return &s, nil
		}
		return nil, err
	}
	return &s, nil
}

// Save overwrites the settings row.
func (r *Repo) Save(ctx context.Context, s *Settings) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	s.ID = singletonID
	return conn.Save(s).Error
}

// SetLastBackupDate stamps the row after a successful export or restore.
func (r *Repo) SetLastBackupDate(ctx context.Context, at time.Time) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	if _, err := r.Get(ctx); err != nil {
		return err
	}
	return conn.Model(&Settings{}).Where("id = ?", singletonID).
		Update("last_backup_date", at).Error
}
