package extractor

import "github.com/tomepromo/backend/internal/domain"

// BuildBreadcrumbs nests the category labels outer to inner. The last label
// maps to the product title instead of another level. An empty label list
// yields nil.
func BuildBreadcrumbs(labels []string, title string) domain.Breadcrumbs {
	if len(labels) == 0 {
		return nil
	}

	root := domain.Breadcrumbs{}
	level := root
	for i, label := range labels {
		if i == len(labels)-1 {
			level[label] = title
			break
		}
		next := domain.Breadcrumbs{}
		level[label] = next
		level = next
	}
	return root
}
