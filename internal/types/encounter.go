package types

// Encounter links an entry to an area name and the versions it appears in.
type Encounter struct {
	Area     string
	Versions []string
}

// AvailableIn reports whether the encounter happens in any of the allowed versions.
func (e Encounter) AvailableIn(allowed map[string]bool) bool {
	for _, v := range e.Versions {
		if allowed[v] {
			return true
		}
	}
	return false
}

// EncountersFromUpstream converts the upstream encounter list into Encounters,
// keeping upstream order.
func EncountersFromUpstream(items []LocationAreaEncounter) []Encounter {
	out := make([]Encounter, 0, len(items))
	for _, item := range items {
		versions := make([]string, 0, len(item.VersionDetails))
		for _, vd := range item.VersionDetails {
			versions = append(versions, vd.Version.Name)
		}
		out = append(out, Encounter{Area: item.LocationArea.Name, Versions: versions})
	}
	return out
}

// RegionLocations is one region of a RegionDirectory.
type RegionLocations struct {
	Name      string
	Locations []string
}

// RegionDirectory maps regions to their location names, in the order the
// regions were added.
type RegionDirectory struct {
	Regions []RegionLocations
}

// Add appends a region. A region that is already present has its locations replaced.
func (d *RegionDirectory) Add(name string, locations []string) {
	for i := range d.Regions {
		if d.Regions[i].Name == name {
			d.Regions[i].Locations = locations
			return
		}
	}
	d.Regions = append(d.Regions, RegionLocations{Name: name, Locations: locations})
}

// Len is the number of regions.
func (d *RegionDirectory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Regions)
}

// NewRegionDirectory builds a directory from upstream region documents.
func NewRegionDirectory(regions ...*Region) *RegionDirectory {
	d := &RegionDirectory{}
	for _, r := range regions {
		d.Add(r.Name, r.LocationNames())
	}
	return d
}
