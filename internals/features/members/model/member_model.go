// internals/features/members/model/member_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// MemberModel menyimpan anggota beserta path wilayah yang SUDAH resolved
// saat pendaftaran. Kolom wilayah nullable: path yang cuma resolved sebagian
// tetap ikut agregasi sampai level yang resolved saja.
type MemberModel struct {
	MemberID       uuid.UUID `gorm:"column:member_id;type:uuid;primaryKey" json:"member_id"`
	MemberFullName string    `gorm:"column:member_full_name;type:varchar(150);not null" json:"member_full_name"`

	MemberJoinedDate time.Time `gorm:"column:member_joined_date;type:date;not null;index" json:"member_joined_date"`

	MemberVillageID     *uuid.UUID `gorm:"column:member_village_id;type:uuid;index" json:"member_village_id,omitempty"`
	MemberSubdistrictID *uuid.UUID `gorm:"column:member_subdistrict_id;type:uuid" json:"member_subdistrict_id,omitempty"`
	MemberDistrictID    *uuid.UUID `gorm:"column:member_district_id;type:uuid" json:"member_district_id,omitempty"`
	MemberStateID       *uuid.UUID `gorm:"column:member_state_id;type:uuid" json:"member_state_id,omitempty"`
	MemberCountryID     *uuid.UUID `gorm:"column:member_country_id;type:uuid" json:"member_country_id,omitempty"`

	MemberCreatedAt time.Time  `gorm:"column:member_created_at;not null;default:CURRENT_TIMESTAMP" json:"member_created_at"`
	MemberUpdatedAt *time.Time `gorm:"column:member_updated_at" json:"member_updated_at,omitempty"`
}

func (MemberModel) TableName() string { return "members" }
