package stocks

import "strings"

// LineKind is the classification of a single statement line.
type LineKind int

const (
	LineNoise LineKind = iota
	LineSectionStart
	LineSectionEnd
	LineHeader
	LineData
)

func (k LineKind) String() string {
	switch k {
	case LineSectionStart:
		return "section_start"
	case LineSectionEnd:
		return "section_end"
	case LineHeader:
		return "header"
	case LineData:
		return "data"
	}
	return "noise"
}

// LineClass is the result of classifying a line. Section is set for
// LineSectionStart only.
type LineClass struct {
	Kind    LineKind
	Section Section
}

// ScanState is the transient per-document scanner state.
type ScanState struct {
	Active         Section
	HeadersSkipped int
}

// Classifier decides what a line is, given the sections a document can contain.
type Classifier struct {
	schemas []*Schema
}

// NewClassifier returns a classifier over the given section schemas.
// Marker checks run in the order the schemas are given.
func NewClassifier(schemas ...*Schema) *Classifier {
	return &Classifier{schemas: schemas}
}

// Schema returns the schema for section, or nil.
func (c *Classifier) Schema(section Section) *Schema {
	for _, s := range c.schemas {
		if s.Section == section {
			return s
		}
	}
	return nil
}

// Classify labels line. Boundary checks always run before header, noise and
// data checks, so a line that both ends a section and looks like a row is
// a boundary.
func (c *Classifier) Classify(line string, st ScanState) LineClass {
	for _, s := range c.schemas {
		if s.isMarker(line) {
			return LineClass{Kind: LineSectionStart, Section: s.Section}
		}
	}

	active := c.Schema(st.Active)
	if active == nil {
		return LineClass{Kind: LineNoise}
	}
	if active.isTerminator(line) {
		return LineClass{Kind: LineSectionEnd}
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return LineClass{Kind: LineNoise}
	}
	if active.isHeader(line) {
		return LineClass{Kind: LineHeader}
	}
	if (active.SkipTotals && isTotalLine(trimmed)) || active.hasNoisePrefix(trimmed) {
		return LineClass{Kind: LineNoise}
	}
	return LineClass{Kind: LineData}
}

// isTotalLine reports whether line is only a number once thousands
// separators, decimal points and spaces are removed.
func isTotalLine(line string) bool {
	r := strings.NewReplacer(".", "", ",", "", "'", "", " ", "", "\t", "")
	return isDigits(r.Replace(line))
}
