package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

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

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// collapses inner whitespace runs and strips non-printable
// characters, the usual cleanup for text lifted out of markup
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

var numericParam = regexp.MustCompile(`^\d+$`)

// pulls a numeric query parameter out of an href, e.g.
// NumericQueryParam("Team.aspx?t=1423&d=87", "t") == "1423".
// returns "" when the href does not parse or the parameter is
// missing or non-numeric.
func NumericQueryParam(href, key string) string {
	link, err := url.Parse(href)
	if err != nil {
		return ""
	}
	value := link.Query().Get(key)
	if !numericParam.MatchString(value) {
		return ""
	}
	return value
}
