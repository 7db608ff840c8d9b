package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestFirstText(t *testing.T) {
	doc := mustDoc(t, `<h1 class="legDetail">H.R.40 - Commission Act<span>116th Congress (2019-2020)</span></h1>`)
	require.Equal(t, "H.R.40 - Commission Act", FirstText(doc.Find("h1.legDetail")))
}

func TestGetAnchors(t *testing.T) {
	// a bare <td> gets foster-parented out of existence by the html5 parser
	doc := mustDoc(t, `<table><tbody><tr><td><a href="/member/evans">Rep. Evans,  Dwight</a> <a href="/all">(All Meetings)</a></td></tr></tbody></table>`)
	anchors := GetAnchors(doc.Find("td"))
	require.Len(t, anchors, 2)
	require.Equal(t, Anchor{Name: "Rep. Evans, Dwight", Href: "/member/evans"}, anchors[0])
	require.Equal(t, Anchor{Name: "(All Meetings)", Href: "/all"}, anchors[1])
}
