package floor

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"

	"demnow-backend/internal/chrono"
	"demnow-backend/internal/house"
	"demnow-backend/lib/textutil"
)

// The clerk's floor-proceedings schema. Element names are a fixed external
// contract.
type xmlProceedings struct {
	Congress   string        `xml:"congress"`
	Session    string        `xml:"session"`
	Activities []xmlActivity `xml:"legislative_activity"`
}

type xmlActivity struct {
	Header   string `xml:"legislative_header"`
	Language string `xml:"language"`
	Day      struct {
		Date string `xml:"date,attr"`
	} `xml:"legislative_day"`
	Actions []xmlFloorAction `xml:"floor_actions>floor_action"`
}

type xmlFloorAction struct {
	UniqueID string `xml:"unique-id,attr"`
	ActID    string `xml:"act-id,attr"`
	Time     struct {
		ForSearch string `xml:"for-search,attr"`
	} `xml:"action_time"`
	Description xmlDescription `xml:"action_description"`
	Item        string         `xml:"action_item"`
}

type xmlDescription struct {
	Text   string
	Anchor *xmlAnchor
}

type xmlAnchor struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
	Text string `xml:",chardata"`
}

// UnmarshalXML flattens the description to its full text, embedded anchor
// text included, and keeps the first anchor's attributes. A plain ,chardata
// binding would cut the anchor text out of the middle of the sentence.
func (d *xmlDescription) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			if t.Name.Local != "a" {
				err = dec.Skip()
				if err != nil {
					return err
				}
				continue
			}
			var a xmlAnchor
			err = dec.DecodeElement(&a, &t)
			if err != nil {
				return err
			}
			text.WriteString(a.Text)
			if d.Anchor == nil {
				d.Anchor = &a
			}
		case xml.EndElement:
			d.Text = text.String()
			return nil
		}
	}
}

var numberPattern = regexp.MustCompile(`\d+`)

func stripPrefix(markup []byte) []byte {
	markup = bytes.TrimPrefix(markup, []byte("\xef\xbb\xbf"))
	if i := bytes.IndexByte(markup, '<'); i > 0 {
		markup = markup[i:]
	}
	return markup
}

// Extract parses a cached floor-proceedings document into a Session. The
// source is the document name the session is identified by, e.g.
// "HDoc-116-1-FloorProceedings.xml".
func Extract(markup []byte, source string, srcs house.Sources) (*Session, error) {
	var doc xmlProceedings
	err := xml.Unmarshal(stripPrefix(markup), &doc)
	if err != nil {
		return nil, err
	}

	congress, err := leadingNumber(doc.Congress)
	if err != nil {
		return nil, &house.MissingFieldError{Entity: "session", Field: "congress"}
	}
	sessionNum, err := leadingNumber(doc.Session)
	if err != nil {
		return nil, &house.MissingFieldError{Entity: "session", Field: "session"}
	}

	s := &Session{
		Congress: congress,
		Session:  sessionNum,
		Source:   source,
		Sources:  srcs,
	}

	for _, xa := range doc.Activities {
		activity, err := extractActivity(xa)
		if err != nil {
			return nil, err
		}
		s.Activities = append(s.Activities, activity)
	}

	return s, nil
}

func extractActivity(xa xmlActivity) (LegislativeActivity, error) {
	day, err := chrono.ParseCompactDate(xa.Day.Date)
	if err != nil {
		return LegislativeActivity{}, err
	}

	activity := LegislativeActivity{
		Header:   textutil.CleanText(xa.Header),
		Language: textutil.CleanText(xa.Language),
		Date:     day.Unix(),
	}

	for _, fa := range xa.Actions {
		when, err := chrono.ParseActionTime(day, fa.Time.ForSearch)
		if err != nil {
			return LegislativeActivity{}, err
		}

		action := FloorAction{
			Time:        when,
			UniqueID:    fa.UniqueID,
			ActID:       fa.ActID,
			Description: textutil.CleanText(fa.Description.Text),
		}

		if item := textutil.CleanText(fa.Item); item != "" {
			action.Item = &ActionItem{Label: item}
			if a := fa.Description.Anchor; a != nil {
				action.Item.Text = textutil.CleanText(a.Text)
				action.Item.URL = a.Href
				action.Item.Type = a.Rel
			}
		}

		activity.Actions = append(activity.Actions, action)
	}

	return activity, nil
}

func leadingNumber(s string) (int, error) {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(m)
}
