// Package extract decomposes a free-form track string ("Artist feat. X -
// Title (Y Remix) [Extended]") into a models.Track.
//
// The work is split into small extractors that each remove the part of the
// string they understand and hand the residual on. The order is fixed:
// later extractors assume the markers of earlier ones are gone.
package extract

import (
	"music-tagger/internal/models"
	"music-tagger/internal/normalize"
)

// Mode selects how dash-separated segments are read.
type Mode int

const (
	// FilenameMode reads "Artists - Title - Version". Version segments may
	// only follow the title.
	FilenameMode Mode = iota
	// TitleMode reads catalog titles that never carry artists, such as
	// "Cold Heart - PNAU Remix".
	TitleMode
)

// Extractor is one rule of the pipeline. Apply records what it found on t
// and returns the residual string.
type Extractor interface {
	Name() string
	Apply(s string, t *models.Track) string
}

// Pipeline runs extractors in order.
type Pipeline struct {
	stages []Extractor
}

func NewPipeline(mode Mode) *Pipeline {
	stages := []Extractor{
		yearExtractor{},
		genreExtractor{},
		extendedExtractor{},
		featuringExtractor{},
		withExtractor{},
		noiseExtractor{},
		versionExtractor{mode: mode},
	}
	if mode == FilenameMode {
		stages = append(stages, artistsExtractor{})
	}
	stages = append(stages, titleExtractor{})
	return &Pipeline{stages: stages}
}

// Stages lists the extractor names in evaluation order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run decomposes input. When no title survives extraction the cleaned input
// becomes the title.
func (p *Pipeline) Run(input string) models.Track {
	t := models.Track{OriginalFilename: input}

	s := normalize.Collapse(input)
	if s == "" {
		return t
	}
	for _, stage := range p.stages {
		s = stage.Apply(s, &t)
	}

	if !t.Name.IsSet() {
		if name := normalize.Clean(input); name != "" {
			t.Name = models.Some(name)
		}
	}
	return t
}

var (
	filenamePipeline = NewPipeline(FilenameMode)
	titlePipeline    = NewPipeline(TitleMode)
)

// Parse decomposes a filename or any string that may carry artists.
func Parse(s string) models.Track {
	return filenamePipeline.Run(s)
}

// ParseTitle decomposes a catalog title whose artists are credited
// separately.
func ParseTitle(s string) models.Track {
	return titlePipeline.Run(s)
}
