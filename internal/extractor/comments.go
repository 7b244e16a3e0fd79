package extractor

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Comment extraction is an independent pass over the same parsed tree.
// HTML comments come straight from comment nodes; JavaScript comments are
// pulled out of inline <script> bodies. The feed never affects link
// ordering or the crawl frontier.

var (
	jsSingleLinePattern = regexp.MustCompile(`(?m)//\s*(.*?)\s*$`)
	jsMultiLinePattern  = regexp.MustCompile(`(?s)/\*\s*(.*?)\s*\*/`)
)

// ExtractComments walks doc in document order and returns every HTML
// comment plus JavaScript comments found inside inline scripts.
func ExtractComments(doc *html.Node) []Comment {
	if doc == nil {
		return nil
	}

	var comments []Comment
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.CommentNode:
			content := strings.TrimSpace(n.Data)
			if content != "" {
				comments = append(comments, Comment{
					Type:     CommentTypeHTML,
					Content:  content,
					Location: "markup",
				})
			}
		case html.ElementNode:
			if n.Data == "script" {
				comments = append(comments, scriptComments(scriptText(n))...)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return comments
}

// FilterComments narrows the feed by type and minimum content length.
// The type "javascript" covers both single- and multi-line JS comments.
func FilterComments(comments []Comment, filter CommentFilter) []Comment {
	var filtered []Comment
	for _, comment := range comments {
		if filter.MinLength > 0 && len(comment.Content) < filter.MinLength {
			continue
		}
		if !matchesCommentType(comment.Type, filter.Type) {
			continue
		}
		filtered = append(filtered, comment)
	}
	return filtered
}

func matchesCommentType(commentType CommentType, wanted string) bool {
	switch strings.ToLower(wanted) {
	case "":
		return true
	case "html":
		return commentType == CommentTypeHTML
	case "javascript":
		return commentType == CommentTypeJSSingle || commentType == CommentTypeJSMulti
	case "js_single":
		return commentType == CommentTypeJSSingle
	case "js_multi":
		return commentType == CommentTypeJSMulti
	default:
		return string(commentType) == strings.ToLower(wanted)
	}
}

func scriptComments(script string) []Comment {
	if script == "" {
		return nil
	}

	var comments []Comment

	// strip block comments before the line scan so `*/` tails do not
	// surface as spurious single-line entries
	for _, match := range jsMultiLinePattern.FindAllStringSubmatch(script, -1) {
		if content := strings.TrimSpace(match[1]); content != "" {
			comments = append(comments, Comment{
				Type:     CommentTypeJSMulti,
				Content:  content,
				Location: "inline_script",
			})
		}
	}
	withoutBlocks := jsMultiLinePattern.ReplaceAllString(script, "")

	for _, match := range jsSingleLinePattern.FindAllStringSubmatch(withoutBlocks, -1) {
		if content := strings.TrimSpace(match[1]); content != "" {
			comments = append(comments, Comment{
				Type:     CommentTypeJSSingle,
				Content:  content,
				Location: "inline_script",
			})
		}
	}

	return comments
}

func scriptText(n *html.Node) string {
	var builder strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			builder.WriteString(c.Data)
		}
	}
	return builder.String()
}
