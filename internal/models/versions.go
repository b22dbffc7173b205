package models

import "strings"

// Version is one reinterpretation of a track, e.g. {Remix, [Brooks]}.
type Version struct {
	Label   string   `json:"label"`
	Artists []Artist `json:"artists,omitempty"`
}

// Versions keeps labels in the order they were found. Labels are unique.
type Versions []Version

// Add merges artists into the version with the same label, or appends a new
// version.
func (v Versions) Add(label string, artists ...Artist) Versions {
	for i := range v {
		if strings.EqualFold(v[i].Label, label) {
			v[i].Artists = AppendArtists(v[i].Artists, artists...)
			return v
		}
	}
	return append(v, Version{Label: label, Artists: AppendArtists(nil, artists...)})
}

// Merge adds every version of other.
func (v Versions) Merge(other Versions) Versions {
	out := v.clone()
	for _, ver := range other {
		out = out.Add(ver.Label, ver.Artists...)
	}
	return out
}

func (v Versions) Get(label string) (Version, bool) {
	for _, ver := range v {
		if strings.EqualFold(ver.Label, label) {
			return ver, true
		}
	}
	return Version{}, false
}

func (v Versions) Labels() []string {
	labels := make([]string, len(v))
	for i, ver := range v {
		labels[i] = ver.Label
	}
	return labels
}

// Artists concatenates the contributors of every version.
func (v Versions) Artists() []Artist {
	var out []Artist
	for _, ver := range v {
		out = append(out, ver.Artists...)
	}
	return out
}

func (v Versions) clone() Versions {
	out := make(Versions, len(v))
	for i, ver := range v {
		out[i] = Version{Label: ver.Label, Artists: append([]Artist(nil), ver.Artists...)}
	}
	return out
}
