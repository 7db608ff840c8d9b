package htmlutil

import (
	"bytes"
	"strings"

	"demnow-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// FirstText returns the first direct text node of a selection, cleaned.
// The legDetail headers put the interesting string before any child span,
// so plain .Text() would drag the congress banner along with the title.
func FirstText(sel *goquery.Selection) string {
	for _, n := range sel.Nodes {
		child := n.FirstChild
		for child != nil {
			if child.Type == html.TextNode {
				text := textutil.CleanText(child.Data)
				if text != "" {
					return text
				}
			}
			child = child.NextSibling
		}
	}
	return ""
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors collects the <a> nodes of a selection as name/href pairs with
// the text cleaned up.
func GetAnchors(sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		anchors = append(anchors, Anchor{
			Name: textutil.CleanText(a.Text()),
			Href: strings.TrimSpace(a.AttrOr("href", "")),
		})
	})
	return anchors
}
