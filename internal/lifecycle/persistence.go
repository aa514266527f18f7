package lifecycle

// BreedingSiteType is the detection taxonomy owned by the upstream model.
// Values arriving here are treated as opaque strings; anything the classifier
// does not recognize falls back to PersistenceMediumTerm.
type BreedingSiteType string

const (
	SiteStandingWater        BreedingSiteType = "standing_water"
	SitePooledWater          BreedingSiteType = "pooled_water"
	SiteCloggedDrain         BreedingSiteType = "clogged_drain"
	SiteLooseDebris          BreedingSiteType = "loose_debris"
	SiteTrashPile            BreedingSiteType = "trash_pile"
	SiteRoadDepression       BreedingSiteType = "road_depression"
	SitePothole              BreedingSiteType = "pothole"
	SiteRoadStructuralDefect BreedingSiteType = "road_structural_defect"
	SiteBrokenCulvert        BreedingSiteType = "broken_culvert"
)

// PersistenceType classifies how long a breeding-site category physically
// tends to remain unresolved, ordered by typical lifespan.
type PersistenceType string

const (
	PersistenceTransient  PersistenceType = "transient"
	PersistenceShortTerm  PersistenceType = "short_term"
	PersistenceMediumTerm PersistenceType = "medium_term"
	PersistenceLongTerm   PersistenceType = "long_term"
	// PersistencePermanent is reserved for future site types; no current
	// taxonomy value classifies to it.
	PersistencePermanent PersistenceType = "permanent"
)

var persistenceBySite = map[BreedingSiteType]PersistenceType{
	SiteStandingWater:        PersistenceTransient,
	SitePooledWater:          PersistenceTransient,
	SiteCloggedDrain:         PersistenceTransient,
	SiteLooseDebris:          PersistenceShortTerm,
	SiteTrashPile:            PersistenceShortTerm,
	SiteRoadDepression:       PersistenceMediumTerm,
	SitePothole:              PersistenceMediumTerm,
	SiteRoadStructuralDefect: PersistenceLongTerm,
	SiteBrokenCulvert:        PersistenceLongTerm,
}

// ClassifyPersistence maps a breeding-site type to its persistence class.
// Unknown types resolve to PersistenceMediumTerm rather than erroring, so a
// taxonomy value added upstream degrades to a reviewable middle ground.
func ClassifyPersistence(site BreedingSiteType) PersistenceType {
	if p, ok := persistenceBySite[site]; ok {
		return p
	}
	return PersistenceMediumTerm
}
