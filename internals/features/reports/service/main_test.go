// internals/features/reports/service/main_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gmodel "laporanku_backend/internals/features/geography/model"
	geosvc "laporanku_backend/internals/features/geography/service"
	mmodel "laporanku_backend/internals/features/members/model"
	membersvc "laporanku_backend/internals/features/members/service"
	model "laporanku_backend/internals/features/reports/model"
)

// Rig test: sqlite in-memory, satu koneksi (":memory:" per-connection).
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&gmodel.CountryModel{},
		&gmodel.StateModel{},
		&gmodel.DistrictModel{},
		&gmodel.SubdistrictModel{},
		&gmodel.VillageModel{},
		&mmodel.MemberModel{},
		&mmodel.MemberActivityModel{},
		&model.LevelReportModel{},
		&model.CumulativeReportModel{},
		&model.CumulativeLedgerModel{},
	))
	return db
}

// Pohon wilayah fixture:
//
//	Indonesia
//	├── Jawa Barat
//	│   └── Bandung
//	│       ├── Coblong   → Dago, Lebakgede
//	│       └── Cidadap   → Hegarmanah
//	└── Jawa Tengah
//	    └── Semarang
//	        └── Tembalang → Bulusan
type geoFixture struct {
	Country uuid.UUID

	StateJabar  uuid.UUID
	StateJateng uuid.UUID

	DistrictBandung  uuid.UUID
	DistrictSemarang uuid.UUID

	SubCoblong   uuid.UUID
	SubCidadap   uuid.UUID
	SubTembalang uuid.UUID

	VilDago       uuid.UUID
	VilLebakgede  uuid.UUID
	VilHegarmanah uuid.UUID
	VilBulusan    uuid.UUID
}

func seedGeo(t *testing.T, db *gorm.DB) geoFixture {
	t.Helper()
	fx := geoFixture{
		Country:          uuid.New(),
		StateJabar:       uuid.New(),
		StateJateng:      uuid.New(),
		DistrictBandung:  uuid.New(),
		DistrictSemarang: uuid.New(),
		SubCoblong:       uuid.New(),
		SubCidadap:       uuid.New(),
		SubTembalang:     uuid.New(),
		VilDago:          uuid.New(),
		VilLebakgede:     uuid.New(),
		VilHegarmanah:    uuid.New(),
		VilBulusan:       uuid.New(),
	}

	require.NoError(t, db.Create(&gmodel.CountryModel{CountryID: fx.Country, CountryName: "Indonesia"}).Error)
	require.NoError(t, db.Create(&gmodel.StateModel{StateID: fx.StateJabar, StateName: "Jawa Barat", StateCountryID: fx.Country}).Error)
	require.NoError(t, db.Create(&gmodel.StateModel{StateID: fx.StateJateng, StateName: "Jawa Tengah", StateCountryID: fx.Country}).Error)
	require.NoError(t, db.Create(&gmodel.DistrictModel{DistrictID: fx.DistrictBandung, DistrictName: "Bandung", DistrictStateID: fx.StateJabar}).Error)
	require.NoError(t, db.Create(&gmodel.DistrictModel{DistrictID: fx.DistrictSemarang, DistrictName: "Semarang", DistrictStateID: fx.StateJateng}).Error)
	require.NoError(t, db.Create(&gmodel.SubdistrictModel{SubdistrictID: fx.SubCoblong, SubdistrictName: "Coblong", SubdistrictDistrictID: fx.DistrictBandung}).Error)
	require.NoError(t, db.Create(&gmodel.SubdistrictModel{SubdistrictID: fx.SubCidadap, SubdistrictName: "Cidadap", SubdistrictDistrictID: fx.DistrictBandung}).Error)
	require.NoError(t, db.Create(&gmodel.SubdistrictModel{SubdistrictID: fx.SubTembalang, SubdistrictName: "Tembalang", SubdistrictDistrictID: fx.DistrictSemarang}).Error)
	require.NoError(t, db.Create(&gmodel.VillageModel{VillageID: fx.VilDago, VillageName: "Dago", VillageSubdistrictID: fx.SubCoblong}).Error)
	require.NoError(t, db.Create(&gmodel.VillageModel{VillageID: fx.VilLebakgede, VillageName: "Lebakgede", VillageSubdistrictID: fx.SubCoblong}).Error)
	require.NoError(t, db.Create(&gmodel.VillageModel{VillageID: fx.VilHegarmanah, VillageName: "Hegarmanah", VillageSubdistrictID: fx.SubCidadap}).Error)
	require.NoError(t, db.Create(&gmodel.VillageModel{VillageID: fx.VilBulusan, VillageName: "Bulusan", VillageSubdistrictID: fx.SubTembalang}).Error)
	return fx
}

func loadGeo(t *testing.T, db *gorm.DB) *geosvc.GeographyIndex {
	t.Helper()
	geo, err := geosvc.LoadGeographyIndex(db)
	require.NoError(t, err)
	return geo
}

// path mengembalikan jalur wilayah lengkap sebuah village fixture.
func (fx geoFixture) path(villageID uuid.UUID) (sub, district, state uuid.UUID) {
	switch villageID {
	case fx.VilDago, fx.VilLebakgede:
		return fx.SubCoblong, fx.DistrictBandung, fx.StateJabar
	case fx.VilHegarmanah:
		return fx.SubCidadap, fx.DistrictBandung, fx.StateJabar
	case fx.VilBulusan:
		return fx.SubTembalang, fx.DistrictSemarang, fx.StateJateng
	}
	return uuid.Nil, uuid.Nil, uuid.Nil
}

func seedActivity(t *testing.T, db *gorm.DB, fx geoFixture, memberID uuid.UUID, name string, date time.Time, villageID uuid.UUID) {
	t.Helper()
	sub, district, state := fx.path(villageID)
	country := fx.Country
	require.NoError(t, db.Create(&mmodel.MemberActivityModel{
		MemberActivityID:            uuid.New(),
		MemberActivityMemberID:      memberID,
		MemberActivityMemberName:    name,
		MemberActivityDate:          DateOnly(date),
		MemberActivityVillageID:     &villageID,
		MemberActivitySubdistrictID: &sub,
		MemberActivityDistrictID:    &district,
		MemberActivityStateID:       &state,
		MemberActivityCountryID:     &country,
	}).Error)
}

func seedMember(t *testing.T, db *gorm.DB, fx geoFixture, name string, joined time.Time, villageID uuid.UUID) uuid.UUID {
	t.Helper()
	sub, district, state := fx.path(villageID)
	country := fx.Country
	id := uuid.New()
	require.NoError(t, db.Create(&mmodel.MemberModel{
		MemberID:            id,
		MemberFullName:      name,
		MemberJoinedDate:    DateOnly(joined),
		MemberVillageID:     &villageID,
		MemberSubdistrictID: &sub,
		MemberDistrictID:    &district,
		MemberStateID:       &state,
		MemberCountryID:     &country,
	}).Error)
	return id
}

var errFactsUnavailable = errors.New("fact source unavailable")

// flakyFactSource gagal hanya pada fetch satu tanggal tertentu (start ==
// end == failDate); fetch lain diteruskan ke sumber aslinya.
type flakyFactSource struct {
	inner    membersvc.FactSource
	failDate time.Time
}

func (s *flakyFactSource) FetchFacts(ctx context.Context, db *gorm.DB, start, end time.Time) ([]membersvc.Fact, error) {
	if DateOnly(start).Equal(s.failDate) && DateOnly(end).Equal(s.failDate) {
		return nil, errFactsUnavailable
	}
	return s.inner.FetchFacts(ctx, db, start, end)
}

func (s *flakyFactSource) FirstFactDate(ctx context.Context, db *gorm.DB) (*time.Time, error) {
	return s.inner.FirstFactDate(ctx, db)
}

// failingFactSource gagal di semua operasi.
type failingFactSource struct{}

func (failingFactSource) FetchFacts(context.Context, *gorm.DB, time.Time, time.Time) ([]membersvc.Fact, error) {
	return nil, errFactsUnavailable
}

func (failingFactSource) FirstFactDate(context.Context, *gorm.DB) (*time.Time, error) {
	return nil, errFactsUnavailable
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustGetReport(t *testing.T, db *gorm.DB, store *ReportStore, level gmodel.HierarchyLevel, period PeriodRef, geoID uuid.UUID) *model.LevelReportModel {
	t.Helper()
	row, err := store.GetByGeo(db, level, period, geoID)
	require.NoError(t, err)
	require.NotNil(t, row, "expected report for level %s geo %s", level, geoID)
	return row
}
