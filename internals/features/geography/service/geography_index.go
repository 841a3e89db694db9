// internals/features/geography/service/geography_index.go
package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "laporanku_backend/internals/features/geography/model"
)

// GeoNode adalah view ringan satu node hirarki (read-only).
type GeoNode struct {
	ID       uuid.UUID
	Name     string
	Level    model.HierarchyLevel
	ParentID uuid.UUID // uuid.Nil untuk country
}

// GeographyIndex: snapshot hirarki lengkap di memory, dimuat sekali di awal
// run dan TIDAK pernah dimutasi selama run berjalan. Aman dibagikan antar
// worker yang membaca bersamaan.
type GeographyIndex struct {
	nodes    map[model.HierarchyLevel]map[uuid.UUID]GeoNode
	children map[uuid.UUID][]GeoNode // parent id → anak langsung (satu level di bawah)
}

// LoadGeographyIndex membaca seluruh tabel wilayah dan membangun index.
func LoadGeographyIndex(db *gorm.DB) (*GeographyIndex, error) {
	idx := &GeographyIndex{
		nodes:    make(map[model.HierarchyLevel]map[uuid.UUID]GeoNode),
		children: make(map[uuid.UUID][]GeoNode),
	}
	for _, lvl := range []model.HierarchyLevel{
		model.LevelVillage, model.LevelSubdistrict, model.LevelDistrict,
		model.LevelState, model.LevelCountry,
	} {
		idx.nodes[lvl] = make(map[uuid.UUID]GeoNode)
	}

	var countries []model.CountryModel
	if err := db.Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	for _, c := range countries {
		idx.add(GeoNode{ID: c.CountryID, Name: c.CountryName, Level: model.LevelCountry})
	}

	var states []model.StateModel
	if err := db.Find(&states).Error; err != nil {
		return nil, fmt.Errorf("load states: %w", err)
	}
	for _, s := range states {
		idx.add(GeoNode{ID: s.StateID, Name: s.StateName, Level: model.LevelState, ParentID: s.StateCountryID})
	}

	var districts []model.DistrictModel
	if err := db.Find(&districts).Error; err != nil {
		return nil, fmt.Errorf("load districts: %w", err)
	}
	for _, d := range districts {
		idx.add(GeoNode{ID: d.DistrictID, Name: d.DistrictName, Level: model.LevelDistrict, ParentID: d.DistrictStateID})
	}

	var subdistricts []model.SubdistrictModel
	if err := db.Find(&subdistricts).Error; err != nil {
		return nil, fmt.Errorf("load subdistricts: %w", err)
	}
	for _, s := range subdistricts {
		idx.add(GeoNode{ID: s.SubdistrictID, Name: s.SubdistrictName, Level: model.LevelSubdistrict, ParentID: s.SubdistrictDistrictID})
	}

	var villages []model.VillageModel
	if err := db.Find(&villages).Error; err != nil {
		return nil, fmt.Errorf("load villages: %w", err)
	}
	for _, v := range villages {
		idx.add(GeoNode{ID: v.VillageID, Name: v.VillageName, Level: model.LevelVillage, ParentID: v.VillageSubdistrictID})
	}

	return idx, nil
}

func (idx *GeographyIndex) add(n GeoNode) {
	idx.nodes[n.Level][n.ID] = n
	if n.ParentID != uuid.Nil {
		idx.children[n.ParentID] = append(idx.children[n.ParentID], n)
	}
}

// Node mencari satu node berdasarkan level + id.
func (idx *GeographyIndex) Node(level model.HierarchyLevel, id uuid.UUID) (GeoNode, bool) {
	n, ok := idx.nodes[level][id]
	return n, ok
}

// NodesAt mengembalikan SEMUA node pada satu level, termasuk yang tidak
// punya aktivitas. Enumerasi penuh ini prasyarat aturan child_summary.
func (idx *GeographyIndex) NodesAt(level model.HierarchyLevel) []GeoNode {
	out := make([]GeoNode, 0, len(idx.nodes[level]))
	for _, n := range idx.nodes[level] {
		out = append(out, n)
	}
	return out
}

// Children mengembalikan anak langsung sebuah node (satu level di bawah).
func (idx *GeographyIndex) Children(parentID uuid.UUID) []GeoNode {
	return idx.children[parentID]
}

// CountAt dipakai untuk logging ringkas saat bootstrap.
func (idx *GeographyIndex) CountAt(level model.HierarchyLevel) int {
	return len(idx.nodes[level])
}
