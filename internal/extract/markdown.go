// Package extract turns submitted documents into the plain text the engine
// analyzes.
package extract

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
)

// RemoveLinks keeps the text of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// MarkdownToText renders markdown to plain text. Block elements end up on
// their own lines, link and image targets are dropped, and inline markup is
// removed. Hashtags survive because headings need a space after the '#'.
func MarkdownToText(input string) string {
	md := blackfriday.New(blackfriday.WithExtensions(blackfriday.CommonExtensions))
	root := md.Parse([]byte(input))

	var sb strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch node.Type {
		case blackfriday.Text, blackfriday.Code, blackfriday.CodeBlock:
			if entering {
				sb.Write(node.Literal)
			}
		case blackfriday.Softbreak:
			sb.WriteByte(' ')
		case blackfriday.Hardbreak:
			sb.WriteByte('\n')
		case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item, blackfriday.TableRow:
			if !entering {
				sb.WriteByte('\n')
			}
		case blackfriday.TableCell:
			if !entering {
				sb.WriteByte(' ')
			}
		case blackfriday.HTMLBlock, blackfriday.HTMLSpan:
			return blackfriday.SkipChildren
		}
		return blackfriday.GoToNext
	})

	text := RemoveLinks(sb.String())
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
