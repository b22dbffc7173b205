package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"music-tagger/internal/matcher"
	"music-tagger/internal/models"
	"music-tagger/internal/normalize"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// trackRows lists every set attribute of t.
func trackRows(t models.Track) [][]string {
	var rows [][]string
	add := func(field, value string) {
		if value != "" {
			rows = append(rows, []string{field, value})
		}
	}
	names := func(o models.Optional[[]models.Artist]) string {
		return normalize.FormatList(models.ArtistNames(o.OrElse(nil)))
	}

	add("Name", t.Name.OrElse(""))
	add("Artists", names(t.Artists))
	add("Featuring", names(t.Featuring))
	add("With", names(t.With))
	for _, v := range t.Versions.OrElse(nil) {
		value := v.Label
		if len(v.Artists) > 0 {
			value += " by " + normalize.FormatList(models.ArtistNames(v.Artists))
		}
		add("Version", value)
	}
	add("Extended", t.Extended.OrElse(""))
	if album, ok := t.Album.Get(); ok {
		add("Album", strings.TrimSpace(album.Name+" "+bracket(string(album.Type))))
	}
	add("Year", t.Year.OrElse(""))
	if d, ok := t.Date.Get(); ok {
		add("Date", d.Format("2006-01-02"))
	}
	add("Genres", strings.Join(t.Genres.OrElse(nil), ", "))
	if k, ok := t.Key.Get(); ok {
		add("Key", k.String()+" "+bracket(k.Camelot()))
	}
	add("ISRC", t.ISRC.OrElse(""))
	if ms, ok := t.Duration.Get(); ok {
		add("Duration", fmt.Sprintf("%d:%02d", ms/60000, ms/1000%60))
	}
	add("Platform", t.Platform.OrElse(""))
	add("URL", t.URL.OrElse(""))
	add("Display", t.String())
	return rows
}

func bracket(s string) string {
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}

func formatRate(v models.Optional[float64]) string {
	rate, ok := v.Get()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", rate)
}

var outcomeColors = map[string]*color.Color{
	matcher.FoundHighConfidence.String(): color.New(color.FgGreen, color.Bold),
	matcher.BestCandidate.String():       color.New(color.FgYellow),
	matcher.NoMatch.String():             color.New(color.FgRed),
}

func colorOutcome(outcome string) string {
	if c, ok := outcomeColors[outcome]; ok {
		return c.Sprint(outcome)
	}
	return outcome
}
