package ledger

import "moneta/internal/models"

// CategoryGroup is a derived parent/children clustering of categories for
// hierarchical display. Rebuilt on every call, never persisted.
type CategoryGroup struct {
	ParentKey   string              `json:"parent_key"`
	ParentTitle string              `json:"parent_title"`
	ParentIcon  string              `json:"parent_icon"`
	Type        models.CategoryType `json:"type"`
	Members     []models.Category   `json:"members"`
}

// GroupCategories rebuilds the two-level category hierarchy from a flat
// list. Every input category lands in exactly one group's member list:
// children under their declared parent, a childless parent as the sole
// member of its own group, and orphaned children (whose named parent does
// not exist) under a group synthesized from the first orphan. Group order
// is parents in input order, then orphans, then any leftover parents.
//
// Duplicate parent titles keep the first occurrence; later headers with the
// same title are skipped.
func GroupCategories(categories []models.Category) []CategoryGroup {
	if len(categories) == 0 {
		return nil
	}

	// A nil or empty ParentName marks a group header. Empty strings appear
	// in legacy rows and are treated the same as nil so no category can
	// fall through the index below.
	var parents, children []models.Category
	for _, c := range categories {
		if c.ParentName == nil || *c.ParentName == "" {
			parents = append(parents, c)
		} else {
			children = append(children, c)
		}
	}

	childrenByParent := make(map[string][]models.Category)
	var childOrder []string
	for _, c := range children {
		key := *c.ParentName
		if _, seen := childrenByParent[key]; !seen {
			childOrder = append(childOrder, key)
		}
		childrenByParent[key] = append(childrenByParent[key], c)
	}

	var result []CategoryGroup
	processed := make(map[string]bool)

	// Explicit parents: header plus declared children. A parent with no
	// children becomes a one-item group rather than disappearing.
	for _, parent := range parents {
		if processed[parent.Title] {
			continue
		}
		processed[parent.Title] = true

		members := childrenByParent[parent.Title]
		if len(members) == 0 {
			members = []models.Category{parent}
		}
		result = append(result, CategoryGroup{
			ParentKey:   parent.Title,
			ParentTitle: parent.Title,
			ParentIcon:  parent.Icon,
			Type:        parent.Type,
			Members:     members,
		})
	}

	// Orphaned children: their named parent was never seeded. Synthesize a
	// header from the first orphan so the data still renders.
	for _, key := range childOrder {
		if processed[key] {
			continue
		}
		orphans := childrenByParent[key]
		first := orphans[0]

		title := first.Title
		if first.ParentName != nil && *first.ParentName != "" {
			title = *first.ParentName
		}
		result = append(result, CategoryGroup{
			ParentKey:   key,
			ParentTitle: title,
			ParentIcon:  first.Icon,
			Type:        first.Type,
			Members:     orphans,
		})
		processed[key] = true
	}

	// Catch-all for parents missed above so no header is ever lost.
	for _, parent := range parents {
		if processed[parent.Title] {
			continue
		}
		if _, referenced := childrenByParent[parent.Title]; referenced {
			continue
		}
		result = append(result, CategoryGroup{
			ParentKey:   parent.Title,
			ParentTitle: parent.Title,
			ParentIcon:  parent.Icon,
			Type:        parent.Type,
			Members:     []models.Category{parent},
		})
		processed[parent.Title] = true
	}

	return result
}

// GroupCategoriesByType filters to one category type before grouping, so a
// child is never attached to a parent of a different type.
func GroupCategoriesByType(categories []models.Category, categoryType models.CategoryType) []CategoryGroup {
	var filtered []models.Category
	for _, c := range categories {
		if c.Type == categoryType {
			filtered = append(filtered, c)
		}
	}
	return GroupCategories(filtered)
}
