package rep

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"demnow-backend/internal/house"
	"demnow-backend/lib/htmlutil"
	"demnow-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Markup landmarks of a member page.
const (
	selHeading   = "h1.legDetail"
	selBirth     = "h1.legDetail span.birthdate"
	selOverview  = "div.overview table tr"
	selPositions = "table.member_positions tbody tr"
)

// Member overview labels, switched exhaustively.
const (
	labelWebsite      = "Website:"
	labelParty        = "Party:"
	labelContact      = "Contact:"
	labelPartyHistory = "Party History:"
)

var (
	lifespanPattern = regexp.MustCompile(`\((\d{4})\s*-\s*(\d{4})?\s*\)`)
	congressPattern = regexp.MustCompile(`\d+`)
)

// Extract parses a cached member page into a Representative.
func Extract(markup []byte, srcs house.Sources) (*Representative, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, err
	}

	r := &Representative{Sources: srcs}

	heading := htmlutil.FirstText(doc.Find(selHeading))
	if heading == "" {
		return nil, &house.MissingFieldError{Entity: "rep", Field: "name"}
	}
	title, name, found := strings.Cut(heading, " ")
	if !found {
		return nil, &house.MissingFieldError{Entity: "rep", Field: "name"}
	}
	r.Basics.Title = title
	r.Basics.Name = name

	if m := lifespanPattern.FindStringSubmatch(doc.Find(selBirth).Text()); m != nil {
		r.Basics.BirthYear, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			r.Basics.DeathYear, _ = strconv.Atoi(m[2])
		}
	}

	err = r.extractInfo(doc)
	if err != nil {
		return nil, err
	}
	r.extractPositions(doc)

	return r, nil
}

func (r *Representative) extractInfo(doc *goquery.Document) error {
	var firstErr error
	doc.Find(selOverview).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		label := textutil.CleanText(tr.Find("th").Text())
		td := tr.Find("td")

		switch label {
		case labelWebsite:
			anchors := htmlutil.GetAnchors(td)
			if len(anchors) > 0 {
				r.Overview.Info.Website = anchors[0].Href
			} else {
				r.Overview.Info.Website = textutil.CleanText(td.Text())
			}
		case labelParty:
			r.Overview.Info.Party = textutil.CleanText(td.Text())
		case labelContact:
			r.Overview.Info.Contact = textutil.CleanText(td.Text())
		case labelPartyHistory:
			td.Find("li").Each(func(_ int, li *goquery.Selection) {
				r.Overview.Info.PartyHistory = append(
					r.Overview.Info.PartyHistory,
					textutil.CleanText(li.Text()),
				)
			})
		default:
			firstErr = &house.UnrecognizedMarkupError{Entity: "rep", Label: label}
		}
		return firstErr == nil
	})
	return firstErr
}

func (r *Representative) extractPositions(doc *goquery.Document) {
	doc.Find(selPositions).Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 4 {
			return
		}

		p := Position{
			State:   textutil.CleanText(tds.Eq(0).Text()),
			Chamber: textutil.CleanText(tds.Eq(2).Text()),
		}
		p.District, _ = strconv.Atoi(textutil.CleanText(tds.Eq(1).Text()))
		p.StartYear, p.EndYear = parseTerm(textutil.CleanText(tds.Eq(3).Text()))
		if tds.Length() >= 5 {
			p.Congresses = parseCongressRange(textutil.CleanText(tds.Eq(4).Text()))
		}

		r.Overview.Positions = append(r.Overview.Positions, p)
	})
}

// parseTerm reads "2016 - Present" or "2001 - 2009"; an open term leaves the
// end year zero.
func parseTerm(s string) (start, end int) {
	first, last, _ := strings.Cut(s, "-")
	start, _ = strconv.Atoi(strings.TrimSpace(first))
	last = strings.TrimSpace(last)
	if last != "" && last != "Present" {
		end, _ = strconv.Atoi(last)
	}
	return start, end
}

// parseCongressRange expands "114th-116th" to every congress number in the
// span; a single entry like "116th" yields just that one.
func parseCongressRange(s string) []int {
	numbers := congressPattern.FindAllString(s, -1)
	switch len(numbers) {
	case 0:
		return nil
	case 1:
		n, _ := strconv.Atoi(numbers[0])
		return []int{n}
	}

	first, _ := strconv.Atoi(numbers[0])
	last, _ := strconv.Atoi(numbers[len(numbers)-1])
	if last < first {
		first, last = last, first
	}
	var out []int
	for n := first; n <= last; n++ {
		out = append(out, n)
	}
	return out
}
