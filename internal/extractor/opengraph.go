package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// OpenGraph holds the Open Graph tags of a page
type OpenGraph struct {
	Title       string
	Description string
	SiteName    string
	URL         string
	Images      []string
}

// IsEmpty reports whether the page carried no usable title or image
func (og OpenGraph) IsEmpty() bool {
	return og.Title == "" && len(og.Images) == 0
}

// FirstImage returns the first og:image, or ""
func (og OpenGraph) FirstImage() string {
	if len(og.Images) == 0 {
		return ""
	}
	return og.Images[0]
}

// ParseOpenGraph reads og:* meta tags. Image references are resolved against
// pageURL; the first occurrence of each scalar tag wins.
func ParseOpenGraph(doc *goquery.Document, pageURL string) OpenGraph {
	var og OpenGraph
	seen := make(map[string]bool)

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		property, _ := s.Attr("property")
		if property == "" {
			// some sites put og tags in name=""
			property, _ = s.Attr("name")
		}
		property = strings.ToLower(strings.TrimSpace(property))
		if !strings.HasPrefix(property, "og:") {
			return
		}
		content, _ := s.Attr("content")
		content = cleanText(content)
		if content == "" {
			return
		}

		switch property {
		case "og:image", "og:image:url", "og:image:secure_url":
			if img := absoluteURL(pageURL, content); img != "" && !seen[img] {
				seen[img] = true
				og.Images = append(og.Images, img)
			}
		case "og:title":
			setOnce(&og.Title, content)
		case "og:description":
			setOnce(&og.Description, content)
		case "og:site_name":
			setOnce(&og.SiteName, content)
		case "og:url":
			setOnce(&og.URL, content)
		}
	})
	return og
}

func setOnce(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
