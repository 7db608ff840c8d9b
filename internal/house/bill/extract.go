package bill

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"demnow-backend/internal/chrono"
	"demnow-backend/internal/house"
	"demnow-backend/lib/htmlutil"
	"demnow-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

const rootURL = "https://www.congress.gov"

// The markup landmarks this extractor depends on. Together with the overview
// labels below they are the actual wire format of a bill page; congress.gov
// changing any of them is supposed to break extraction loudly.
const (
	selHeading        = "h1.legDetail"
	selOverview       = "div.overview table tr"
	selProgress       = "ol.bill_progress li"
	selTitles         = "div#titles"
	selActionOverview = "table#actionsOverviewTable tbody tr"
	selActions        = "table#allActionsTable tbody tr"
	selCosponsors     = "table#cosponsorsTable tbody tr"
	selCommittees     = "table#committeesTable tbody tr"
	selRelated        = "table#relatedBillsTable tbody tr"
	selSubjectsMain   = "div#subjects div.main a"
	selSubjectsOther  = "div#subjects ul li a"
	selSummary        = "div#bill-summary p"
	selText           = "div#billTextContainer"
	selAmendments     = "table#amendmentsTable tbody tr"
)

// Overview table labels. The switch over them is exhaustive on purpose: a
// label outside this set fails the record instead of being dropped.
const (
	labelSponsor         = "Sponsor:"
	labelCommittees      = "Committees:"
	labelCommitteeReport = "Committee Reports:"
	labelLatestAction    = "Latest Action:"
	labelRollCallVotes   = "Roll Call Votes:"
	labelMeetings        = "Committee Meetings:"
	labelNotes           = "Notes:"
)

var (
	congressPattern   = regexp.MustCompile(`(\d+)(?:st|nd|rd|th) Congress`)
	introducedPattern = regexp.MustCompile(`Introduced (\d{2}/\d{2}/\d{4})`)
)

// Extract parses a cached bill page into a Bill. It is a pure function of
// the markup; srcs records where the markup came from.
func Extract(markup []byte, srcs house.Sources) (*Bill, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, err
	}

	b := &Bill{Sources: srcs}

	heading := doc.Find(selHeading)
	b.Title = htmlutil.FirstText(heading)
	if b.Title == "" {
		return nil, &house.MissingFieldError{Entity: "bill", Field: "title"}
	}

	congress := congressPattern.FindStringSubmatch(heading.Text())
	if congress == nil {
		return nil, &house.MissingFieldError{Entity: "bill", Field: "congress"}
	}
	b.Congress, _ = strconv.Atoi(congress[1])

	err = b.extractOverview(doc)
	if err != nil {
		return nil, err
	}
	err = b.extractProgress(doc)
	if err != nil {
		return nil, err
	}
	b.extractTitles(doc)
	err = b.extractActions(doc)
	if err != nil {
		return nil, err
	}
	err = b.extractCosponsors(doc)
	if err != nil {
		return nil, err
	}
	err = b.extractCommittees(doc)
	if err != nil {
		return nil, err
	}
	err = b.extractRelated(doc)
	if err != nil {
		return nil, err
	}
	b.extractSubjects(doc)

	// absent when a summary has not been written yet
	b.Summary = textutil.CleanText(doc.Find(selSummary).Last().Text())

	if text := doc.Find(selText); len(text.Nodes) > 0 {
		b.Text = strings.TrimSpace(htmlutil.GetText(text.Nodes[0]))
	}

	b.extractAmendments(doc)

	return b, nil
}

func (b *Bill) extractOverview(doc *goquery.Document) error {
	var firstErr error
	doc.Find(selOverview).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		label := textutil.CleanText(tr.Find("th").Text())
		td := tr.Find("td")

		switch label {
		case labelSponsor:
			firstErr = b.extractSponsor(td)
		case labelCommittees:
			b.Overview.Committees = houseCommittees(textutil.CleanText(td.Text()))
		case labelCommitteeReport:
			if anchors := htmlutil.GetAnchors(td); len(anchors) > 0 {
				b.Overview.CommitteeReport = &CommitteeReport{
					URL:    rootJoin(anchors[0].Href),
					Report: anchors[0].Name,
				}
			}
		case labelLatestAction:
			b.Overview.LatestAction = latestAction(td.Text())
		case labelRollCallVotes:
			words := strings.Fields(lastString(td))
			if len(words) > 0 {
				b.Overview.RollCallCount, _ = strconv.Atoi(words[0])
			}
		case labelMeetings:
			firstErr = b.extractMeetings(td)
		case labelNotes:
			b.Overview.Notes = textutil.CleanText(td.Text())
		default:
			firstErr = &house.UnrecognizedMarkupError{Entity: "bill", Label: label}
		}
		return firstErr == nil
	})
	if firstErr != nil {
		return firstErr
	}
	if b.Overview.Sponsor == nil {
		return &house.MissingFieldError{Entity: "bill", Field: "sponsor"}
	}
	return nil
}

func (b *Bill) extractSponsor(td *goquery.Selection) error {
	anchors := htmlutil.GetAnchors(td)
	if len(anchors) == 0 {
		return &house.MissingFieldError{Entity: "bill", Field: "sponsor"}
	}

	sponsor := &Sponsor{URL: rootJoin(anchors[0].Href)}

	// "Rep. Jackson Lee, Sheila [D-TX-18]"
	name := anchors[0].Name
	if i := strings.Index(name, " ["); i >= 0 {
		name = name[:i]
	}
	title, rest, found := strings.Cut(name, " ")
	if found {
		sponsor.Title = expandTitle(title)
		sponsor.Name = rest
	} else {
		sponsor.Name = name
	}

	if m := introducedPattern.FindStringSubmatch(td.Text()); m != nil {
		date, err := chrono.ParseDate(m[1])
		if err != nil {
			return err
		}
		sponsor.Date = date
	}

	b.Overview.Sponsor = sponsor
	return nil
}

func (b *Bill) extractMeetings(td *goquery.Selection) error {
	for _, a := range htmlutil.GetAnchors(td) {
		if a.Name == "(All Meetings)" {
			continue
		}
		when, err := chrono.ParseMeetingTime(a.Name)
		if err != nil {
			return err
		}
		b.Overview.Meetings = append(b.Overview.Meetings, Meeting{
			URL:      rootJoin(a.Href),
			Datetime: when,
		})
	}
	return nil
}

func (b *Bill) extractProgress(doc *goquery.Document) error {
	current := 0
	doc.Find(selProgress).Each(func(_ int, li *goquery.Selection) {
		state := StateNotReached
		class := li.AttrOr("class", "")
		switch {
		case strings.Contains(class, "selected"):
			state = StateCurrent
			current++
		case strings.Contains(class, "passed"):
			state = StatePassed
		}
		b.Progress = append(b.Progress, Stage{
			Stage: textutil.CleanText(li.Text()),
			State: state,
		})
	})
	if current > 1 {
		return &house.UnrecognizedMarkupError{Entity: "bill", Label: "multiple current progress stages"}
	}
	return nil
}

func (b *Bill) extractTitles(doc *goquery.Document) {
	titleType := ""
	chamber := ""
	location := ""
	doc.Find(selTitles).Children().Each(func(_ int, node *goquery.Selection) {
		text := textutil.CleanText(node.Text())
		switch goquery.NodeName(node) {
		case "h4":
			if strings.Contains(text, "Short") {
				titleType = "short"
			} else {
				titleType = "official"
			}
			chamber = ""
			location = ""
		case "h5":
			switch {
			case strings.Contains(text, "House"):
				chamber = "House"
			case strings.Contains(text, "Senate"):
				chamber = "Senate"
			default:
				chamber = ""
			}
			location = text
		case "p":
			if text == "" {
				return
			}
			b.Titles = append(b.Titles, TitleVariant{
				Type:     titleType,
				Chamber:  chamber,
				Title:    text,
				Location: location,
			})
		}
	})
}

func (b *Bill) extractActions(doc *goquery.Document) error {
	var firstErr error

	doc.Find(selActionOverview).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		tds := tr.Find("td")
		if tds.Length() < 2 {
			return true
		}
		date, err := chrono.ParseDate(textutil.CleanText(tds.Eq(0).Text()))
		if err != nil {
			firstErr = err
			return false
		}
		b.ActionOverview = append(b.ActionOverview, Action{
			Date: date,
			Text: textutil.CleanText(tds.Eq(1).Text()),
		})
		return true
	})
	if firstErr != nil {
		return firstErr
	}

	doc.Find(selActions).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		tds := tr.Find("td")
		if tds.Length() < 2 {
			return true
		}
		date, err := parseActionDate(textutil.CleanText(tds.Eq(0).Text()))
		if err != nil {
			firstErr = err
			return false
		}
		action := Action{Date: date}
		if tds.Length() >= 3 {
			action.Chamber = textutil.CleanText(tds.Eq(1).Text())
			action.Text = textutil.CleanText(tds.Eq(2).Text())
		} else {
			action.Text = textutil.CleanText(tds.Eq(1).Text())
		}
		b.Actions = append(b.Actions, action)
		return true
	})
	return firstErr
}

func (b *Bill) extractCosponsors(doc *goquery.Document) error {
	var firstErr error
	doc.Find(selCosponsors).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		tds := tr.Find("td")
		if tds.Length() < 2 {
			return true
		}
		anchors := htmlutil.GetAnchors(tds.Eq(0))
		if len(anchors) == 0 {
			return true
		}

		co := Cosponsor{URL: rootJoin(anchors[0].Href)}

		name := anchors[0].Name
		// a trailing asterisk marks an original cosponsor
		cellText := textutil.CleanText(tds.Eq(0).Text())
		if strings.HasSuffix(cellText, "*") || strings.HasSuffix(name, "*") {
			co.Original = true
		}
		co.Name = strings.TrimSuffix(name, "*")

		date, err := chrono.ParseDate(textutil.CleanText(tds.Eq(1).Text()))
		if err != nil {
			firstErr = err
			return false
		}
		co.Date = date

		if tds.Length() >= 3 {
			withdrawnText := textutil.CleanText(tds.Eq(2).Text())
			if withdrawnText != "" {
				when, err := chrono.ParseDate(withdrawnText)
				if err != nil {
					firstErr = err
					return false
				}
				co.Withdrawn = &Withdrawal{Date: when}
				if tds.Length() >= 4 {
					co.Withdrawn.Reason = textutil.CleanText(tds.Eq(3).Text())
				}
			}
		}

		b.Cosponsors = append(b.Cosponsors, co)
		return true
	})
	return firstErr
}

func (b *Bill) extractCommittees(doc *goquery.Document) error {
	var firstErr error
	committee := ""
	doc.Find(selCommittees).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		tds := tr.Find("td")
		if tds.Length() < 3 {
			return true
		}

		referral := Referral{
			Action: textutil.CleanText(tds.Eq(2).Text()),
		}

		name := textutil.CleanText(tds.Eq(0).Text())
		if tr.HasClass("subcommittee") {
			referral.Committee = committee
			referral.Subcommittee = name
		} else {
			committee = name
			referral.Committee = name
		}

		dateText := textutil.CleanText(tds.Eq(1).Text())
		if dateText != "" {
			date, err := parseActionDate(dateText)
			if err != nil {
				firstErr = err
				return false
			}
			referral.Date = date
		}

		if tds.Length() >= 4 {
			referral.Report = textutil.CleanText(tds.Eq(3).Text())
		}

		b.Committees = append(b.Committees, referral)
		return true
	})
	return firstErr
}

func (b *Bill) extractRelated(doc *goquery.Document) error {
	var firstErr error
	doc.Find(selRelated).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		tds := tr.Find("td")
		if tds.Length() < 4 {
			return true
		}
		anchors := htmlutil.GetAnchors(tds.Eq(0))
		if len(anchors) == 0 {
			return true
		}

		related := Related{
			URL:          rootJoin(anchors[0].Href),
			Number:       anchors[0].Name,
			Relationship: textutil.CleanText(tds.Eq(1).Text()),
			LatestAction: textutil.CleanText(tds.Eq(3).Text()),
		}

		identified := textutil.CleanText(tds.Eq(2).Text())
		if identified != "" {
			date, err := chrono.ParseDate(identified)
			if err != nil {
				firstErr = err
				return false
			}
			related.Identified = date
		}

		b.RelatedBills = append(b.RelatedBills, related)
		return true
	})
	return firstErr
}

func (b *Bill) extractSubjects(doc *goquery.Document) {
	main := doc.Find(selSubjectsMain).First()
	if main.Length() > 0 {
		b.Subjects.Main = &SubjectRef{
			Title: textutil.CleanText(main.Text()),
			URL:   rootJoin(main.AttrOr("href", "")),
		}
	}
	doc.Find(selSubjectsOther).Each(func(_ int, a *goquery.Selection) {
		b.Subjects.Others = append(b.Subjects.Others, SubjectRef{
			Title: textutil.CleanText(a.Text()),
			URL:   rootJoin(a.AttrOr("href", "")),
		})
	})
}

func (b *Bill) extractAmendments(doc *goquery.Document) {
	doc.Find(selAmendments).Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 1 {
			return
		}
		anchors := htmlutil.GetAnchors(tds.Eq(0))
		if len(anchors) == 0 {
			return
		}
		amendment := Amendment{
			Title: anchors[0].Name,
			URL:   rootJoin(anchors[0].Href),
		}
		cells := []*string{
			&amendment.Purpose,
			&amendment.Sponsor,
			&amendment.LatestAction,
			&amendment.Description,
			&amendment.Committees,
		}
		for i, cell := range cells {
			if tds.Length() > i+1 {
				*cell = textutil.CleanText(tds.Eq(i + 1).Text())
			}
		}
		b.Amendments = append(b.Amendments, amendment)
	})
}

// houseCommittees applies the source's quirky committee-cell format: chamber
// segments joined by " | ", with the House segment holding committee names
// separated by ";" after a "House - " prefix. Only House committees are kept.
func houseCommittees(cell string) []string {
	if !strings.Contains(cell, "House") {
		return nil
	}
	segments := strings.Split(cell, " | ")
	segment := ""
	for len(segments) > 0 {
		segment = segments[len(segments)-1]
		segments = segments[:len(segments)-1]
		if strings.Contains(segment, "House") {
			break
		}
	}

	parts := strings.Split(segment, "House - ")
	names := strings.Split(parts[len(parts)-1], ";")
	committees := make([]string, 0, len(names))
	for _, name := range names {
		committees = append(committees, strings.TrimSpace(name))
	}
	return committees
}

// latestAction trims the trailing "(TXT | PDF)" link text and the
// nbsp-separated action-time suffix the cell carries.
func latestAction(cell string) string {
	cell = strings.TrimSpace(cell)
	cell, _, _ = strings.Cut(cell, "\u00a0")
	cell, _, _ = strings.Cut(cell, "(TXT | PDF)")
	return textutil.CleanText(cell)
}

// parseActionDate accepts both shapes of an action-log date cell:
// "06/19/2019-10:15AM" and plain "06/19/2019".
func parseActionDate(s string) (int64, error) {
	if strings.Contains(s, "-") {
		return chrono.ParseDateTime(s)
	}
	return chrono.ParseDate(s)
}

// lastString returns the last non-empty direct text fragment of a cell, the
// same way the roll-call count has always been picked out of its line breaks.
func lastString(td *goquery.Selection) string {
	last := ""
	td.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "#text" {
			if text := textutil.CleanText(node.Text()); text != "" {
				last = text
			}
		}
	})
	return last
}

func expandTitle(abbrev string) string {
	switch abbrev {
	case "Rep.":
		return "Representative"
	case "Sen.":
		return "Senator"
	}
	return abbrev
}

func rootJoin(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return rootURL + href
}
