// Package lexicon holds the static word lists and compiled patterns the
// title extractors and the normalizer are built on.
package lexicon

// Genres recognised as read-only tag hints inside a title.
var Genres = []string{
	"Acid Jazz",
	"Acid Punk",
	"Acid",
	"Alternative",
	"AlternRock",
	"Ambient",
	"Bass",
	"Blues",
	"Cabaret",
	"Christian Rap",
	"Classic Rock",
	"Classical",
	"Comedy",
	"Country",
	"Cult",
	"Dance",
	"Darkwave",
	"Death Metal",
	"Deep House",
	"Disco",
	"Dream",
	"Drum & Bass",
	"Dubstep",
	"EDM",
	"Electronic",
	"Ethnic",
	"Euro-Techno",
	"Eurodance",
	"Funk",
	"Fusion",
	"Game",
	"Gangsta",
	"Gospel",
	"Gothic",
	"Grunge",
	"Hard Rock",
	"Hardstyle",
	"Hip-Hop",
	"House",
	"Industrial",
	"Jazz",
	"Jazz+Funk",
	"Jungle",
	"Lo-Fi",
	"Meditative",
	"Metal",
	"Musical",
	"Native American",
	"New Age",
	"New Wave",
	"Noise",
	"Oldies",
	"Other",
	"Polka",
	"Pop-Folk",
	"Pop",
	"Pop/Funk",
	"Pranks",
	"Psychadelic",
	"Psy Trance",
	"Punk",
	"R&B",
	"Rap",
	"Rave",
	"Reggae",
	"Retro",
	"Rock & Roll",
	"Rock",
	"Showtunes",
	"Ska",
	"Soul",
	"Sound Clip",
	"Soundtrack",
	"Southern Rock",
	"Space",
	"Tech House",
	"Techno-Industrial",
	"Techno",
	"Top 40",
	"Trailer",
	"Trance",
	"Tribal",
	"Trip-Hop",
	"Tropical House",
	"Vocal",
}

// Versions are the keywords that mark a reinterpretation of a track.
var Versions = []string{
	"Acoustic",
	"Bootleg",
	"Edit",
	"Edition",
	"Flip",
	"Mashup",
	"Mix",
	"Remaster",
	"Remastered",
	"Remix",
	"Rework",
	"Version",
}

// GenericVersions are dropped from a label when a more specific keyword is
// present in the same segment ("Remix Edit" is a Remix).
var GenericVersions = []string{"Edit", "Version", "Mix"}

// Ignore lists promotional phrases that never carry track information.
var Ignore = []string{
	"DL",
	"Download",
	"Free",
	"Giveaway",
	"Support",
	"Supported",
}

var Featuring = []string{
	"Featuring",
	"Feat",
	"Ft",
}

var With = []string{"With"}

// Extended markers. "Original" covers "Original Mix".
var Extended = []string{
	"Extended",
	"Original",
}
