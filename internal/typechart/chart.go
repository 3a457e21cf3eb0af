package typechart

// Chart holds the multiplier an attacking category deals to a defending one,
// indexed as chart[defender][attacker].
type Chart [NumCategories][NumCategories]float64

// Neutral is the multiplier for any pair the chart does not list.
const Neutral = 1.0

// NewChart builds a defender-keyed chart from sparse rows. Every pair that is
// not listed is neutral.
func NewChart(rows map[Category]map[Category]float64) *Chart {
	var c Chart
	for d := range c {
		for a := range c[d] {
			c[d][a] = Neutral
		}
	}
	for def, row := range rows {
		for atk, mult := range row {
			c[def][atk] = mult
		}
	}
	return &c
}

// Multiplier returns the damage factor of atk against def.
func (c *Chart) Multiplier(atk, def Category) float64 {
	return c[def][atk]
}

// Row returns the defending row for def: the multiplier every attacker deals to it.
func (c *Chart) Row(def Category) [NumCategories]float64 {
	return c[def]
}

// attackTable lists the non-neutral matchups from the attacker's point of view.
var attackTable = map[Category]map[Category]float64{
	Normal:   {Rock: 0.5, Ghost: 0, Steel: 0.5},
	Fire:     {Fire: 0.5, Water: 0.5, Grass: 2, Ice: 2, Bug: 2, Rock: 0.5, Dragon: 0.5, Steel: 2},
	Water:    {Fire: 2, Water: 0.5, Grass: 0.5, Ground: 2, Rock: 2, Dragon: 0.5},
	Electric: {Water: 2, Electric: 0.5, Grass: 0.5, Ground: 0, Flying: 2, Dragon: 0.5},
	Grass:    {Fire: 0.5, Water: 2, Grass: 0.5, Poison: 0.5, Ground: 2, Flying: 0.5, Bug: 0.5, Rock: 2, Dragon: 0.5, Steel: 0.5},
	Ice:      {Fire: 0.5, Water: 0.5, Grass: 2, Ice: 0.5, Ground: 2, Flying: 2, Dragon: 2, Steel: 0.5},
	Fighting: {Normal: 2, Ice: 2, Poison: 0.5, Flying: 0.5, Psychic: 0.5, Bug: 0.5, Rock: 2, Ghost: 0, Dark: 2, Steel: 2, Fairy: 0.5},
	Poison:   {Grass: 2, Poison: 0.5, Ground: 0.5, Rock: 0.5, Ghost: 0.5, Steel: 0, Fairy: 2},
	Ground:   {Fire: 2, Electric: 2, Grass: 0.5, Poison: 2, Flying: 0, Bug: 0.5, Rock: 2, Steel: 2},
	Flying:   {Electric: 0.5, Grass: 2, Fighting: 2, Bug: 2, Rock: 0.5, Steel: 0.5},
	Psychic:  {Fighting: 2, Poison: 2, Psychic: 0.5, Dark: 0, Steel: 0.5},
	Bug:      {Fire: 0.5, Grass: 2, Fighting: 0.5, Poison: 0.5, Flying: 0.5, Psychic: 2, Ghost: 0.5, Dark: 2, Steel: 0.5, Fairy: 0.5},
	Rock:     {Fire: 2, Ice: 2, Fighting: 0.5, Ground: 0.5, Flying: 2, Bug: 2, Steel: 0.5},
	Ghost:    {Normal: 0, Psychic: 2, Ghost: 2, Dark: 0.5},
	Dragon:   {Dragon: 2, Steel: 0.5, Fairy: 0},
	Dark:     {Fighting: 0.5, Psychic: 2, Ghost: 2, Dark: 0.5, Fairy: 0.5},
	Steel:    {Fire: 0.5, Water: 0.5, Electric: 0.5, Ice: 2, Rock: 2, Steel: 0.5, Fairy: 2},
	Fairy:    {Fire: 0.5, Fighting: 2, Poison: 0.5, Dragon: 2, Dark: 2, Steel: 0.5},
}

var standard = func() *Chart {
	rows := make(map[Category]map[Category]float64, NumCategories)
	for atk, targets := range attackTable {
		for def, mult := range targets {
			if rows[def] == nil {
				rows[def] = make(map[Category]float64)
			}
			rows[def][atk] = mult
		}
	}
	return NewChart(rows)
}()

// Standard returns a copy of the canonical chart.
func Standard() *Chart {
	c := *standard
	return &c
}
