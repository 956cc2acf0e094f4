package preview

import (
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Metadata is what an Extractor finds in a page. Empty fields mean "not found";
// the caller applies its own fallbacks.
type Metadata struct {
	Title       string
	Description string
	Image       string
}

// Extractor pulls preview metadata out of an HTML document. Implementations
// never fail: malformed markup yields empty fields.
type Extractor interface {
	ExtractMetadata(doc string) Metadata
}

// ----- tokenizer based -----

// HTMLExtractor walks the document with the x/net/html tokenizer.
type HTMLExtractor struct{}

func (HTMLExtractor) ExtractMetadata(doc string) Metadata {
	var (
		ogTitle, ogDesc, ogImage string
		title, desc              string
		inTitle                  bool
	)

	z := xhtml.NewTokenizer(strings.NewReader(doc))
loop:
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			break loop

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			t := z.Token()
			switch t.DataAtom {
			case atom.Title:
				inTitle = title == ""
			case atom.Meta:
				var name, property, content string
				for _, a := range t.Attr {
					switch strings.ToLower(a.Key) {
					case "name":
						name = strings.ToLower(strings.TrimSpace(a.Val))
					case "property":
						property = strings.ToLower(strings.TrimSpace(a.Val))
					case "content":
						content = clean(a.Val)
					}
				}
				if content == "" {
					continue
				}
				switch {
				case property == "og:title" && ogTitle == "":
					ogTitle = content
				case property == "og:description" && ogDesc == "":
					ogDesc = content
				case property == "og:image" && ogImage == "":
					ogImage = content
				case name == "description" && desc == "":
					desc = content
				}
			case atom.Body:
				// Metadata lives in <head>; stop once everything is known.
				if ogTitle != "" && ogDesc != "" && ogImage != "" {
					break loop
				}
			}

		case xhtml.TextToken:
			if inTitle {
				title = clean(string(z.Text()))
			}

		case xhtml.EndTagToken:
			if inTitle {
				if name, _ := z.TagName(); string(name) == "title" {
					inTitle = false
				}
			}
		}
	}

	return Metadata{
		Title:       firstNonEmpty(ogTitle, title),
		Description: firstNonEmpty(ogDesc, desc),
		Image:       ogImage,
	}
}

// ----- regex based -----

var (
	metaTagRe = regexp.MustCompile(`(?is)<meta\s[^>]*>`)
	attrRe    = regexp.MustCompile(`(?is)([a-z:_-]+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
)

// RegexExtractor is a best-effort scanner that takes the first matching tag of
// each kind. It does not understand comments or scripts.
type RegexExtractor struct{}

func (RegexExtractor) ExtractMetadata(doc string) Metadata {
	var ogTitle, ogDesc, ogImage, desc string

	for _, tag := range metaTagRe.FindAllString(doc, -1) {
		attrs := map[string]string{}
		for _, m := range attrRe.FindAllStringSubmatch(tag, -1) {
			key := strings.ToLower(m[1])
			if _, seen := attrs[key]; seen {
				continue
			}
			attrs[key] = m[2] + m[3]
		}
		content := clean(html.UnescapeString(attrs["content"]))
		if content == "" {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(attrs["property"]))
		name := strings.ToLower(strings.TrimSpace(attrs["name"]))
		switch {
		case property == "og:title" && ogTitle == "":
			ogTitle = content
		case property == "og:description" && ogDesc == "":
			ogDesc = content
		case property == "og:image" && ogImage == "":
			ogImage = content
		case name == "description" && desc == "":
			desc = content
		}
	}

	var title string
	if m := titleRe.FindStringSubmatch(doc); m != nil {
		title = clean(html.UnescapeString(m[1]))
	}

	return Metadata{
		Title:       firstNonEmpty(ogTitle, title),
		Description: firstNonEmpty(ogDesc, desc),
		Image:       ogImage,
	}
}

// clean collapses whitespace runs and trims.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
