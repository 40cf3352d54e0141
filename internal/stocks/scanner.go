package stocks

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
)

// Profile describes one kind of statement: which sections it contains and
// the section active before any marker is seen.
type Profile struct {
	Name    string
	Schemas []*Schema
	Initial Section
}

// VestingProfile is a salary certificate holding the vested stocks table
// for year followed by the ESPP table.
func VestingProfile(year int) Profile {
	return Profile{
		Name:    "vesting",
		Schemas: []*Schema{VestedSchema(year), ESPPSchema()},
		Initial: SectionNone,
	}
}

// SalesProfile is a brokerage transaction summary. Every line is a
// candidate sale row.
func SalesProfile() Profile {
	return Profile{
		Name:    "sales",
		Schemas: []*Schema{SalesSchema()},
		Initial: SectionSales,
	}
}

// Result holds the records of one scanned document, grouped by section in
// encounter order.
type Result struct {
	Records        map[Section][]Record
	Lines          int
	HeadersSkipped int
	RowsSkipped    int
}

// Of returns the records extracted for section.
func (r Result) Of(section Section) []Record {
	return r.Records[section]
}

// Count returns the total number of records across sections.
func (r Result) Count() int {
	n := 0
	for _, recs := range r.Records {
		n += len(recs)
	}
	return n
}

// Scanner walks a document's lines and feeds data rows of the active
// section to its schema.
type Scanner struct {
	profile    Profile
	classifier *Classifier
	log        *slog.Logger
}

// NewScanner returns a scanner for profile. A nil logger discards diagnostics.
func NewScanner(profile Profile, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scanner{
		profile:    profile,
		classifier: NewClassifier(profile.Schemas...),
		log:        log.With("profile", profile.Name),
	}
}

// Scan processes pages in order as one continuous stream of lines. An open
// section carries over a page break. Empty input yields an empty result.
func (s *Scanner) Scan(pages []string) Result {
	res := Result{Records: make(map[Section][]Record)}
	st := ScanState{Active: s.profile.Initial}

	for page, text := range pages {
		sc := bufio.NewScanner(strings.NewReader(text))
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			res.Lines++
			st = s.step(sc.Text(), st, &res)
		}
		if err := sc.Err(); err != nil {
			// Overlong line; the rest of the page is lost but later pages still scan.
			s.log.Warn("page scan stopped", "page", page+1, "error", err)
		}
	}

	res.HeadersSkipped = st.HeadersSkipped
	return res
}

func (s *Scanner) step(line string, st ScanState, res *Result) ScanState {
	class := s.classifier.Classify(line, st)
	switch class.Kind {
	case LineSectionStart:
		if st.Active != SectionNone && st.Active != class.Section {
			s.log.Debug("section switched", "from", st.Active, "to", class.Section)
		}
		st.Active = class.Section
	case LineSectionEnd:
		s.log.Debug("section ended", "section", st.Active, "line", line)
		st.Active = SectionNone
	case LineHeader:
		st.HeadersSkipped++
	case LineData:
		schema := s.classifier.Schema(st.Active)
		rec, err := schema.Extract(line)
		if err != nil {
			res.RowsSkipped++
			s.log.Debug("row skipped", "section", st.Active, "line", line, "error", err)
			return st
		}
		res.Records[st.Active] = append(res.Records[st.Active], rec)
	}
	return st
}
