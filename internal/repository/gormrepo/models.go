package gormrepo

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Models lists the tables managed by AutoMigrate, parents first.
var Models = []interface{}{
	&Company{},
	&Treatment{},
	&User{},
}

type Company struct {
	ID                    string         `gorm:"primaryKey;size:36"`
	Name                  string         `gorm:"size:120;not null;index"`
	Description           string         `gorm:"size:1000"`
	Logo                  string         `gorm:"size:255"`
	Address               string         `gorm:"size:300"`
	Phone                 string         `gorm:"size:40"`
	Email                 string         `gorm:"size:255"`
	Website               string         `gorm:"size:255"`
	OwnerName             string         `gorm:"size:120"`
	Specialty             string         `gorm:"size:120"`
	Certifications        datatypes.JSON `gorm:"default:'[]'"`
	Licenses              datatypes.JSON `gorm:"default:'[]'"`
	AdditionalTraining    datatypes.JSON `gorm:"default:'[]'"`
	Recommendations       datatypes.JSON `gorm:"default:'[]'"`
	ImportantObservations string         `gorm:"size:2000"`
	IsActive              bool           `gorm:"not null;default:true;index"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (Company) TableName() string { return "companies" }

type Treatment struct {
	ID          string          `gorm:"primaryKey;size:36"`
	CompanyID   string          `gorm:"size:36;not null;uniqueIndex:idx_treatments_company_name"`
	Company     Company         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:CompanyID"`
	Name        string          `gorm:"size:80;not null;uniqueIndex:idx_treatments_company_name"`
	Color       string          `gorm:"size:16;not null"`
	BgClass     string          `gorm:"size:32"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Description string          `gorm:"size:500"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Treatment) TableName() string { return "treatments" }

type User struct {
	ID        string   `gorm:"primaryKey;size:36"`
	Email     string   `gorm:"size:255;not null;uniqueIndex"`
	Name      string   `gorm:"size:120"`
	Role      string   `gorm:"size:16;not null;default:user"`
	CompanyID *string  `gorm:"size:36;index"`
	Company   *Company `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;foreignKey:CompanyID"`
	CreatedAt time.Time
}

func (User) TableName() string { return "users" }
