// Package charset maps a (region, national-option-subset) designator pair to
// the font bank identifiers used by the Level 1, G0 and G2 character sets, per
// ETSI EN 300 706 table 32.
package charset

// Designator identifies a character set region and its national option subset.
type Designator struct {
	Region int
	NOS    int
}

// Level1Default is used when a (region, nos) pair has no specific mapping.
const Level1Default = 12

// G0Default is used when a (region, nos) pair has no specific G0 mapping.
const G0Default = 0

// G2Default is used when a (region, nos) pair has no specific G2 mapping.
const G2Default = 7

// level1 maps (region, nos) to the Level 1 font bank row.
var level1 = map[Designator]int{
	{0, 0}: 12, {0, 1}: 15, {0, 2}: 22, {0, 3}: 16, {0, 4}: 14, {0, 5}: 19, {0, 6}: 11,
	{1, 0}: 18, {1, 1}: 15, {1, 2}: 22, {1, 3}: 16, {1, 4}: 14, {1, 6}: 19,
	{2, 0}: 12, {2, 1}: 15, {2, 2}: 22, {2, 3}: 16, {2, 4}: 14, {2, 5}: 19, {2, 6}: 23,
	{3, 5}: 21, {3, 7}: 20,
	{4, 0}: 1, {4, 1}: 15, {4, 2}: 13, {4, 3}: 17, {4, 4}: 2, {4, 5}: 3, {4, 6}: 11,
	{6, 6}: 23, {6, 7}: 4,
	{8, 0}: 12, {8, 4}: 14, {8, 7}: 5,
	{10, 5}: 6, {10, 7}: 5,
}

// g0 maps (region, nos) to a non-Latin G0 font bank, when one is designated.
var g0 = map[Designator]int{
	{4, 0}: 1, {4, 4}: 2, {4, 5}: 3,
	{6, 7}: 4,
	{8, 7}: 5,
	{10, 5}: 6, {10, 7}: 5,
}

// g2 maps (region, nos) to a non-Latin G2 font bank, when one is designated.
var g2 = map[Designator]int{
	{4, 0}: 8, {4, 4}: 8, {4, 5}: 8,
	{6, 7}: 9,
	{8, 0}: 10, {8, 4}: 10, {8, 7}: 10,
	{10, 5}: 10, {10, 7}: 10,
}

// Level1 returns the Level 1 font bank for the given designator, or
// Level1Default if none is mapped.
func Level1(region, nos int) int {
	if v, ok := level1[Designator{region, nos}]; ok {
		return v
	}
	return Level1Default
}

// Level1Lookup is Level1 with an explicit found flag, for callers that need
// to fall back to something other than Level1Default on a miss.
func Level1Lookup(region, nos int) (int, bool) {
	v, ok := level1[Designator{region, nos}]
	return v, ok
}

// G0 returns the G0 font bank for the given designator, or G0Default if none
// is mapped.
func G0(region, nos int) int {
	if v, ok := g0[Designator{region, nos}]; ok {
		return v
	}
	return G0Default
}

// G2 returns the G2 font bank for the given designator, or G2Default if none
// is mapped.
func G2(region, nos int) int {
	if v, ok := g2[Designator{region, nos}]; ok {
		return v
	}
	return G2Default
}
