package table

// Matchup ranks run 1..30 where 1 is the toughest defense and 30 the weakest
// (best spot for the offensive player). "Top N matchups" therefore selects
// the N highest ranks.
const (
	ToughestMatchupRank = 1
	WeakestDefenseRank  = 30
)

// MatchupBand is a display tier for matchup difficulty.
type MatchupBand string

const (
	BandToughest MatchupBand = "toughest"
	BandTough    MatchupBand = "tough"
	BandNeutral  MatchupBand = "neutral"
	BandSoft     MatchupBand = "soft"
	BandSoftest  MatchupBand = "softest"
)

// matchupBands maps rank ranges to bands, monotonic from toughest to softest.
var matchupBands = []struct {
	maxRank int
	band    MatchupBand
}{
	{6, BandToughest},
	{12, BandTough},
	{18, BandNeutral},
	{24, BandSoft},
	{WeakestDefenseRank, BandSoftest},
}

// BandForRank returns the display band for a matchup rank. Unknown ranks get
// the neutral band.
func BandForRank(rank int) MatchupBand {
	if rank < ToughestMatchupRank || rank > WeakestDefenseRank {
		return BandNeutral
	}
	for _, b := range matchupBands {
		if rank <= b.maxRank {
			return b.band
		}
	}
	return BandNeutral
}

// minRankForTopN converts "top N matchups" into the lowest qualifying rank.
// Top 5 keeps ranks 26..30.
func minRankForTopN(n int) int {
	return WeakestDefenseRank + 1 - n
}

// InTopMatchups reports whether a rank falls inside the top-N band.
func InTopMatchups(rank, n int) bool {
	return rank >= minRankForTopN(n)
}
