// internals/features/members/service/fact_source.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "laporanku_backend/internals/features/members/model"
)

// Fact: satu event yang bisa diagregasi (anggota aktif, atau anggota baru)
// lengkap dengan path wilayah yang sudah resolved. Pointer nil artinya level
// itu tidak resolved, fakta tetap dihitung sampai level terendah yang ada.
type Fact struct {
	MemberID   uuid.UUID
	MemberName string
	Date       time.Time

	VillageID     *uuid.UUID
	SubdistrictID *uuid.UUID
	DistrictID    *uuid.UUID
	StateID       *uuid.UUID
	CountryID     *uuid.UUID
}

// FactSource adalah boundary engine ke data mentah. Implementasi WAJIB
// stabil: memanggil ulang range yang sama menghasilkan fakta yang sama
// (modulo koreksi data).
type FactSource interface {
	// FetchFacts mengembalikan fakta dengan tanggal di [start, end] (inklusif).
	FetchFacts(ctx context.Context, db *gorm.DB, start, end time.Time) ([]Fact, error)
	// FirstFactDate: tanggal fakta paling awal, nil kalau belum ada data.
	FirstFactDate(ctx context.Context, db *gorm.DB) (*time.Time, error)
}

/* ===================== ACTIVITY FACTS ===================== */

// ActivityFactSource: fakta = event aktivitas anggota. Sumber untuk laporan
// daily/weekly/monthly ("anggota aktif").
type ActivityFactSource struct{}

func NewActivityFactSource() *ActivityFactSource { return &ActivityFactSource{} }

func (s *ActivityFactSource) FetchFacts(ctx context.Context, db *gorm.DB, start, end time.Time) ([]Fact, error) {
	var rows []model.MemberActivityModel
	if err := db.WithContext(ctx).
		Where("member_activity_date BETWEEN ? AND ?", start, end).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	facts := make([]Fact, 0, len(rows))
	for _, r := range rows {
		facts = append(facts, Fact{
			MemberID:      r.MemberActivityMemberID,
			MemberName:    r.MemberActivityMemberName,
			Date:          r.MemberActivityDate,
			VillageID:     r.MemberActivityVillageID,
			SubdistrictID: r.MemberActivitySubdistrictID,
			DistrictID:    r.MemberActivityDistrictID,
			StateID:       r.MemberActivityStateID,
			CountryID:     r.MemberActivityCountryID,
		})
	}
	return facts, nil
}

func (s *ActivityFactSource) FirstFactDate(ctx context.Context, db *gorm.DB) (*time.Time, error) {
	var row model.MemberActivityModel
	err := db.WithContext(ctx).
		Order("member_activity_date ASC").
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := row.MemberActivityDate
	return &d, nil
}

/* ===================== MEMBERSHIP FACTS ===================== */

// MembershipFactSource: fakta = event bergabungnya anggota (tanggal join).
// Sumber untuk laporan kumulatif ("total anggota").
type MembershipFactSource struct{}

func NewMembershipFactSource() *MembershipFactSource { return &MembershipFactSource{} }

func (s *MembershipFactSource) FetchFacts(ctx context.Context, db *gorm.DB, start, end time.Time) ([]Fact, error) {
	var rows []model.MemberModel
	if err := db.WithContext(ctx).
		Where("member_joined_date BETWEEN ? AND ?", start, end).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	facts := make([]Fact, 0, len(rows))
	for _, r := range rows {
		facts = append(facts, Fact{
			MemberID:      r.MemberID,
			MemberName:    r.MemberFullName,
			Date:          r.MemberJoinedDate,
			VillageID:     r.MemberVillageID,
			SubdistrictID: r.MemberSubdistrictID,
			DistrictID:    r.MemberDistrictID,
			StateID:       r.MemberStateID,
			CountryID:     r.MemberCountryID,
		})
	}
	return facts, nil
}

func (s *MembershipFactSource) FirstFactDate(ctx context.Context, db *gorm.DB) (*time.Time, error) {
	var row model.MemberModel
	err := db.WithContext(ctx).
		Order("member_joined_date ASC").
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := row.MemberJoinedDate
	return &d, nil
}
