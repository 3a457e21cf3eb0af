package typechart

// Profile is the combined multiplier every attacking category deals to an
// entry. It always covers the full category set.
type Profile [NumCategories]float64

// Get returns the multiplier for attacker c.
func (p Profile) Get(c Category) float64 {
	return p[c]
}

// Map returns the profile keyed by category name.
func (p Profile) Map() map[string]float64 {
	m := make(map[string]float64, NumCategories)
	for i, v := range p {
		m[categoryNames[i]] = v
	}
	return m
}

// Effectiveness composes the chart rows of every defending category into one
// profile. Duplicates are ignored; the order of defending does not matter.
func (c *Chart) Effectiveness(defending []Category) Profile {
	var p Profile
	for i := range p {
		p[i] = Neutral
	}

	var seen [NumCategories]bool
	for _, def := range defending {
		if seen[def] {
			continue
		}
		seen[def] = true
		for atk, mult := range c[def] {
			p[atk] *= mult
		}
	}
	return p
}

// EffectivenessByName parses the defending names and computes their profile.
func (c *Chart) EffectivenessByName(names []string) (Profile, error) {
	defending, err := ParseCategories(names)
	if err != nil {
		return Profile{}, err
	}
	return c.Effectiveness(defending), nil
}

// BucketMultipliers are the display columns of a weakness table.
var BucketMultipliers = [...]float64{0, 0.25, 0.5, 1, 2, 4}

// BucketLabels are the column headings matching BucketMultipliers.
var BucketLabels = [...]string{"0x", "1/4x", "1/2x", "1x", "2x", "4x"}

// Bucket is one weakness-table column.
type Bucket struct {
	Label      string
	Multiplier float64
	Categories []Category
}

// Buckets groups the profile into the display columns. Categories whose
// multiplier matches no column are omitted.
func (p Profile) Buckets() []Bucket {
	out := make([]Bucket, len(BucketMultipliers))
	for i, m := range BucketMultipliers {
		out[i] = Bucket{Label: BucketLabels[i], Multiplier: m}
		for c, v := range p {
			if v == m {
				out[i].Categories = append(out[i].Categories, Category(c))
			}
		}
	}
	return out
}
