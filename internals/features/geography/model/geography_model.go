// internals/features/geography/model/geography_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* ===================== HIERARCHY LEVEL ===================== */

// HierarchyLevel menandai posisi sebuah node di hirarki administratif:
// country → state → district → subdistrict → village.
type HierarchyLevel int

const (
	LevelVillage HierarchyLevel = iota + 1
	LevelSubdistrict
	LevelDistrict
	LevelState
	LevelCountry
)

func (l HierarchyLevel) String() string {
	switch l {
	case LevelVillage:
		return "village"
	case LevelSubdistrict:
		return "subdistrict"
	case LevelDistrict:
		return "district"
	case LevelState:
		return "state"
	case LevelCountry:
		return "country"
	default:
		return "unknown"
	}
}

// ParseHierarchyLevel dipakai di layer CLI/API (input berupa nama level).
func ParseHierarchyLevel(s string) (HierarchyLevel, bool) {
	switch s {
	case "village":
		return LevelVillage, true
	case "subdistrict":
		return LevelSubdistrict, true
	case "district":
		return LevelDistrict, true
	case "state":
		return LevelState, true
	case "country":
		return LevelCountry, true
	default:
		return 0, false
	}
}

// Parent mengembalikan level induk. ok=false untuk country (akar hirarki).
func (l HierarchyLevel) Parent() (HierarchyLevel, bool) {
	if l >= LevelCountry || l < LevelVillage {
		return 0, false
	}
	return l + 1, true
}

// SkipZero: laporan dengan agregat 0 tidak disimpan (dihapus bila ada),
// KECUALI di level country, country selalu dimaterialisasi sebagai akar
// traversal supaya "tanggal ini sudah diproses" selalu bisa di-query.
func (l HierarchyLevel) SkipZero() bool {
	return l != LevelCountry
}

/* ===================== MODELS ===================== */

type CountryModel struct {
	CountryID        uuid.UUID  `gorm:"column:country_id;type:uuid;primaryKey" json:"country_id"`
	CountryName      string     `gorm:"column:country_name;type:varchar(100);not null" json:"country_name"`
	CountryCreatedAt time.Time  `gorm:"column:country_created_at;not null;default:CURRENT_TIMESTAMP" json:"country_created_at"`
	CountryUpdatedAt *time.Time `gorm:"column:country_updated_at" json:"country_updated_at,omitempty"`
}

func (CountryModel) TableName() string { return "countries" }

type StateModel struct {
	StateID        uuid.UUID  `gorm:"column:state_id;type:uuid;primaryKey" json:"state_id"`
	StateName      string     `gorm:"column:state_name;type:varchar(100);not null" json:"state_name"`
	StateCountryID uuid.UUID  `gorm:"column:state_country_id;type:uuid;not null;index" json:"state_country_id"`
	StateCreatedAt time.Time  `gorm:"column:state_created_at;not null;default:CURRENT_TIMESTAMP" json:"state_created_at"`
	StateUpdatedAt *time.Time `gorm:"column:state_updated_at" json:"state_updated_at,omitempty"`
}

func (StateModel) TableName() string { return "states" }

type DistrictModel struct {
	DistrictID        uuid.UUID  `gorm:"column:district_id;type:uuid;primaryKey" json:"district_id"`
	DistrictName      string     `gorm:"column:district_name;type:varchar(100);not null" json:"district_name"`
	DistrictStateID   uuid.UUID  `gorm:"column:district_state_id;type:uuid;not null;index" json:"district_state_id"`
	DistrictCreatedAt time.Time  `gorm:"column:district_created_at;not null;default:CURRENT_TIMESTAMP" json:"district_created_at"`
	DistrictUpdatedAt *time.Time `gorm:"column:district_updated_at" json:"district_updated_at,omitempty"`
}

func (DistrictModel) TableName() string { return "districts" }

type SubdistrictModel struct {
	SubdistrictID         uuid.UUID  `gorm:"column:subdistrict_id;type:uuid;primaryKey" json:"subdistrict_id"`
	SubdistrictName       string     `gorm:"column:subdistrict_name;type:varchar(100);not null" json:"subdistrict_name"`
	SubdistrictDistrictID uuid.UUID  `gorm:"column:subdistrict_district_id;type:uuid;not null;index" json:"subdistrict_district_id"`
	SubdistrictCreatedAt  time.Time  `gorm:"column:subdistrict_created_at;not null;default:CURRENT_TIMESTAMP" json:"subdistrict_created_at"`
	SubdistrictUpdatedAt  *time.Time `gorm:"column:subdistrict_updated_at" json:"subdistrict_updated_at,omitempty"`
}

func (SubdistrictModel) TableName() string { return "subdistricts" }

type VillageModel struct {
	VillageID            uuid.UUID  `gorm:"column:village_id;type:uuid;primaryKey" json:"village_id"`
	VillageName          string     `gorm:"column:village_name;type:varchar(100);not null" json:"village_name"`
	VillageSubdistrictID uuid.UUID  `gorm:"column:village_subdistrict_id;type:uuid;not null;index" json:"village_subdistrict_id"`
	VillageCreatedAt     time.Time  `gorm:"column:village_created_at;not null;default:CURRENT_TIMESTAMP" json:"village_created_at"`
	VillageUpdatedAt     *time.Time `gorm:"column:village_updated_at" json:"village_updated_at,omitempty"`
}

func (VillageModel) TableName() string { return "villages" }
