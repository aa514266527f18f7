package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPersistence(t *testing.T) {
	tests := []struct {
		name     string
		site     BreedingSiteType
		expected PersistenceType
	}{
		{"standing water is transient", SiteStandingWater, PersistenceTransient},
		{"pooled water is transient", SitePooledWater, PersistenceTransient},
		{"clogged drain is transient", SiteCloggedDrain, PersistenceTransient},
		{"loose debris is short term", SiteLooseDebris, PersistenceShortTerm},
		{"trash pile is short term", SiteTrashPile, PersistenceShortTerm},
		{"road depression is medium term", SiteRoadDepression, PersistenceMediumTerm},
		{"pothole is medium term", SitePothole, PersistenceMediumTerm},
		{"structural defect is long term", SiteRoadStructuralDefect, PersistenceLongTerm},
		{"broken culvert is long term", SiteBrokenCulvert, PersistenceLongTerm},
		{"unknown type falls back to medium term", BreedingSiteType("abandoned_pool"), PersistenceMediumTerm},
		{"empty type falls back to medium term", BreedingSiteType(""), PersistenceMediumTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyPersistence(tt.site))
		})
	}
}

// No taxonomy value currently classifies to permanent; the class exists only
// for future site types. This test fails loudly if a classifier rule starts
// producing it so the base-validity table gets reviewed alongside.
func TestNoSiteClassifiesPermanent(t *testing.T) {
	for site := range persistenceBySite {
		assert.NotEqual(t, PersistencePermanent, ClassifyPersistence(site), "site %q", site)
	}
}
