// internals/features/reports/service/leaf_aggregator.go
package service

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	membersvc "laporanku_backend/internals/features/members/service"
)

// LeafResult: agregat level village untuk satu periode.
type LeafResult struct {
	Count int
	Users map[string]string // member id → nama tampil
}

// AggregateLeaf mengelompokkan fakta per village. Pure function: tanpa side
// effect selain logging data-quality. Village tanpa fakta TIDAK muncul di
// map (absent = 0). Fakta tanpa village id di-skip, itu event kualitas
// data, bukan kegagalan; satu fakta rusak tidak boleh membatalkan rollup.
func AggregateLeaf(facts []membersvc.Fact) map[uuid.UUID]LeafResult {
	out := make(map[uuid.UUID]LeafResult)
	skipped := 0

	for _, f := range facts {
		if f.VillageID == nil || *f.VillageID == uuid.Nil {
			skipped++
			continue
		}
		res := out[*f.VillageID]
		if res.Users == nil {
			res.Users = make(map[string]string)
		}
		res.Count++
		res.Users[f.MemberID.String()] = f.MemberName
		out[*f.VillageID] = res
	}

	if skipped > 0 {
		logrus.WithFields(logrus.Fields{
			"excluded": skipped,
			"total":    len(facts),
		}).Warn("facts without resolved village excluded from leaf aggregation")
	}
	return out
}
