package resolve

import (
	"go.uber.org/zap"

	"github.com/sells-group/ownership-cli/internal/model"
)

// LinkByAddress cross-references entity candidates against individual
// candidates that share an exact contact address and records the relation
// bidirectionally. Must run after all signals are collected (address sets
// grow monotonically during collection, so a partial scan would miss
// links) and before final scoring so the linked-individual bonus applies.
func LinkByAddress(set *CandidateSet) {
	linked := 0

	for eh := Handle(0); int(eh) < set.Len(); eh++ {
		entity := set.at(eh)
		if !entity.IsEntity {
			continue
		}

		for ih := Handle(0); int(ih) < set.Len(); ih++ {
			individual := set.at(ih)
			if individual.IsEntity {
				continue
			}

			if !sharesAddress(entity.ContactInfo, individual.ContactInfo) {
				continue
			}

			entity.AddLink(individual.Name)
			individual.AddLink(entity.Name)
			linked++
		}
	}

	if linked > 0 {
		zap.L().Debug("link: shared-address relations found", zap.Int("pairs", linked))
	}
}

func sharesAddress(a, b []model.ContactInfo) bool {
	for _, ca := range a {
		for _, cb := range b {
			if ca.Value != "" && ca.Value == cb.Value {
				return true
			}
		}
	}
	return false
}
