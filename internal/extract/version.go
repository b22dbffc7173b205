package extract

import (
	"regexp"
	"sort"
	"strings"

	"music-tagger/internal/lexicon"
	"music-tagger/internal/models"
	"music-tagger/internal/normalize"
)

var bracketSegmentRegex = regexp.MustCompile(`[(\[]([^()\[\]]*)[)\]]`)

type span struct {
	start, end int // removed from the string
	content    string
}

// ExtractVersions removes every bracketed or dash-delimited segment that
// names a version ("(Brooks Remix)", "- PNAU Remix") and returns the
// versions in the order they appear.
func ExtractVersions(s string, mode Mode) (string, models.Optional[models.Versions]) {
	spans := versionSpans(s, mode)
	if len(spans) == 0 {
		return s, models.None[models.Versions]()
	}

	var versions models.Versions
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp.start])
		b.WriteByte(' ')
		last = sp.end

		label, artists := parseVersion(sp.content)
		if label == "Mix" && len(artists) == 0 {
			continue
		}
		versions = versions.Add(label, artists...)
	}
	b.WriteString(s[last:])

	residual := tidy(b.String())
	if len(versions) == 0 {
		return residual, models.None[models.Versions]()
	}
	return residual, models.Some(versions)
}

func versionSpans(s string, mode Mode) []span {
	var spans []span

	regionStart := 0
	if mode == FilenameMode {
		if loc := lexicon.DashSeparatorRegex.FindStringIndex(s); loc != nil {
			regionStart = loc[1]
		}
	}

	for _, m := range bracketSegmentRegex.FindAllStringSubmatchIndex(s[regionStart:], -1) {
		content := s[regionStart+m[2] : regionStart+m[3]]
		if !lexicon.VersionRegex.MatchString(content) || lexicon.DashSeparatorRegex.MatchString(content) {
			continue
		}
		spans = append(spans, span{start: regionStart + m[0], end: regionStart + m[1], content: content})
	}

	// Dash segments: the first one or two segments are artists and title.
	firstVersion := 2
	if mode == TitleMode {
		firstVersion = 1
	}
	seps := lexicon.DashSeparatorRegex.FindAllStringIndex(s, -1)
	for i, sep := range seps {
		if i+1 < firstVersion {
			continue
		}
		end := len(s)
		if i+1 < len(seps) {
			end = seps[i+1][0]
		}
		content := s[sep[1]:end]
		if strings.ContainsAny(content, bracketChars) || !lexicon.VersionRegex.MatchString(content) {
			continue
		}
		spans = append(spans, span{start: sep[0], end: end, content: content})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// parseVersion reads one version segment. Years and quoted phrases become
// qualifiers in front of the keywords; what is left is the artist list.
func parseVersion(content string) (string, []models.Artist) {
	var qualifiers []string
	for _, y := range lexicon.YearRegex.FindAllString(content, -1) {
		qualifiers = append(qualifiers, lexicon.NormalizeYear(y))
	}
	content = lexicon.YearRegex.ReplaceAllString(content, " ")

	qualifiers = append(qualifiers, lexicon.QuoteRegex.FindAllString(content, -1)...)
	content = lexicon.QuoteRegex.ReplaceAllString(content, " ")

	var keywords []string
	for _, k := range lexicon.VersionRegex.FindAllString(content, -1) {
		k = lexicon.Canonical(lexicon.Versions, k)
		if !containsFold(keywords, k) {
			keywords = append(keywords, k)
		}
	}
	content = lexicon.VersionRegex.ReplaceAllString(content, " ")
	keywords = dropGeneric(keywords)

	label := normalize.TitleCase(strings.Join(append(qualifiers, keywords...), " "))
	return label, models.ArtistsFromString(normalize.Clean(content))
}

func dropGeneric(keywords []string) []string {
	for _, generic := range lexicon.GenericVersions {
		if len(keywords) <= 1 {
			break
		}
		for i, k := range keywords {
			if k == generic {
				keywords = append(keywords[:i], keywords[i+1:]...)
				break
			}
		}
	}
	return keywords
}

type versionExtractor struct {
	mode Mode
}

func (versionExtractor) Name() string { return "version" }

func (e versionExtractor) Apply(s string, t *models.Track) string {
	s, t.Versions = ExtractVersions(s, e.mode)
	return s
}
