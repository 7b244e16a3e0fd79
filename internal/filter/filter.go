package filter

import (
	"path"
	"strings"

	"linkscout/internal/extractor"
	"linkscout/internal/urlnorm"
)

/*
Filter Responsibilities

- Narrow a finished crawl's link list by pure predicates
- Compose predicates with AND semantics
- Never mutate links, never touch the network

Filtering happens after the crawl; it cannot influence which pages were
fetched.
*/

// Predicate decides whether one link stays in the filtered view.
type Predicate func(link extractor.Link) bool

// Apply returns the links matching every predicate, in their original
// order. No predicates means every link matches.
func Apply(links []extractor.Link, predicates ...Predicate) []extractor.Link {
	var filtered []extractor.Link
	for _, link := range links {
		if matchesAll(link, predicates) {
			filtered = append(filtered, link)
		}
	}
	return filtered
}

func matchesAll(link extractor.Link, predicates []Predicate) bool {
	for _, predicate := range predicates {
		if !predicate(link) {
			return false
		}
	}
	return true
}

// ByDomainScope selects links by their relationship to the seed domain.
// External means neither internal nor subdomain.
func ByDomainScope(scope DomainScope) Predicate {
	return func(link extractor.Link) bool {
		switch scope {
		case ScopeInternal:
			return link.IsInternal
		case ScopeSubdomain:
			return link.IsSubdomain
		case ScopeExternal:
			return !link.IsInternal && !link.IsSubdomain
		default:
			return false
		}
	}
}

// ByTypes selects links whose type is in the given set.
func ByTypes(types ...urlnorm.LinkType) Predicate {
	wanted := make(map[urlnorm.LinkType]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}
	return func(link extractor.Link) bool {
		_, ok := wanted[link.Type]
		return ok
	}
}

// ByTypeNames selects links by type names or group names. Plain type
// names ("image", "document") are tried first, then group expansions
// ("media", "files"). Unknown names match nothing.
func ByTypeNames(names ...string) Predicate {
	wanted := make(map[urlnorm.LinkType]struct{})
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if linkType, ok := linkTypeNames[name]; ok {
			wanted[linkType] = struct{}{}
			continue
		}
		for _, linkType := range typeGroups[name] {
			wanted[linkType] = struct{}{}
		}
	}
	return func(link extractor.Link) bool {
		_, ok := wanted[link.Type]
		return ok
	}
}

// ByExtensions selects links whose URL path ends in one of the given
// extensions. Extensions match case-insensitively, with or without the
// leading dot.
func ByExtensions(extensions ...string) Predicate {
	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[ext] = struct{}{}
	}
	return func(link extractor.Link) bool {
		ext := strings.ToLower(path.Ext(link.ResolvedURL.Path))
		if ext == "" {
			return false
		}
		_, ok := wanted[ext]
		return ok
	}
}

// ByRegion selects links discovered in the given page regions.
func ByRegion(regions ...string) Predicate {
	wanted := make(map[string]struct{}, len(regions))
	for _, region := range regions {
		wanted[strings.ToLower(strings.TrimSpace(region))] = struct{}{}
	}
	return func(link extractor.Link) bool {
		_, ok := wanted[string(link.Region)]
		return ok
	}
}
