// internals/features/members/model/member_activity_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// MemberActivityModel: satu event aktivitas per anggota per tanggal.
// Nama & path wilayah didenormalisasi saat event dicatat supaya engine
// laporan tidak perlu join (kontrak Fact Source: fakta sudah resolved).
type MemberActivityModel struct {
	MemberActivityID         uuid.UUID `gorm:"column:member_activity_id;type:uuid;primaryKey" json:"member_activity_id"`
	MemberActivityMemberID   uuid.UUID `gorm:"column:member_activity_member_id;type:uuid;not null;index" json:"member_activity_member_id"`
	MemberActivityMemberName string    `gorm:"column:member_activity_member_name;type:varchar(150);not null" json:"member_activity_member_name"`

	MemberActivityDate time.Time `gorm:"column:member_activity_date;type:date;not null;index" json:"member_activity_date"`

	MemberActivityVillageID     *uuid.UUID `gorm:"column:member_activity_village_id;type:uuid;index" json:"member_activity_village_id,omitempty"`
	MemberActivitySubdistrictID *uuid.UUID `gorm:"column:member_activity_subdistrict_id;type:uuid" json:"member_activity_subdistrict_id,omitempty"`
	MemberActivityDistrictID    *uuid.UUID `gorm:"column:member_activity_district_id;type:uuid" json:"member_activity_district_id,omitempty"`
	MemberActivityStateID       *uuid.UUID `gorm:"column:member_activity_state_id;type:uuid" json:"member_activity_state_id,omitempty"`
	MemberActivityCountryID     *uuid.UUID `gorm:"column:member_activity_country_id;type:uuid" json:"member_activity_country_id,omitempty"`

	MemberActivityCreatedAt time.Time `gorm:"column:member_activity_created_at;not null;default:CURRENT_TIMESTAMP" json:"member_activity_created_at"`
}

func (MemberActivityModel) TableName() string { return "member_activities" }
