package nhl

const (
	BaseURL = "https://api-web.nhle.com/v1"

	RosterEndpoint    = "/roster/%s/current"     // team abbreviation
	ClubStatsEndpoint = "/club-stats/%s/now"     // team abbreviation
	StandingsEndpoint = "/standings/now"
)

// TeamAbbrevs lists the franchises whose rosters get seeded.
var TeamAbbrevs = []string{
	"ANA", "BOS", "BUF", "CAR", "CBJ", "CGY", "CHI", "COL",
	"DAL", "DET", "EDM", "FLA", "LAK", "MIN", "MTL", "NJD",
	"NSH", "NYI", "NYR", "OTT", "PHI", "PIT", "SEA", "SJS",
	"STL", "TBL", "TOR", "UTA", "VAN", "VGK", "WPG", "WSH",
}
