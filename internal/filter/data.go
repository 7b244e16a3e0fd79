package filter

import (
	"linkscout/internal/urlnorm"
)

// DomainScope names the domain relationship a predicate selects.
type DomainScope string

const (
	ScopeInternal  DomainScope = "internal"
	ScopeExternal  DomainScope = "external"
	ScopeSubdomain DomainScope = "subdomain"
)

// typeGroups expands a named group into its member link types. Groups
// and single type names share one namespace; single names win on
// collision because the lookup tries the type table first.
var typeGroups = map[string][]urlnorm.LinkType{
	"images":    {urlnorm.LinkTypeImage},
	"documents": {urlnorm.LinkTypeDocument},
	"media":     {urlnorm.LinkTypeVideo, urlnorm.LinkTypeAudio},
	"pages":     {urlnorm.LinkTypePage},
	"code":      {urlnorm.LinkTypeCode},
	"api":       {urlnorm.LinkTypeAPI},
	"files": {
		urlnorm.LinkTypeImage,
		urlnorm.LinkTypeDocument,
		urlnorm.LinkTypeVideo,
		urlnorm.LinkTypeAudio,
		urlnorm.LinkTypeArchive,
		urlnorm.LinkTypeCode,
	},
}

// linkTypeNames is the set of plain type names accepted by ByTypeNames.
var linkTypeNames = map[string]urlnorm.LinkType{
	string(urlnorm.LinkTypePage):     urlnorm.LinkTypePage,
	string(urlnorm.LinkTypeImage):    urlnorm.LinkTypeImage,
	string(urlnorm.LinkTypeDocument): urlnorm.LinkTypeDocument,
	string(urlnorm.LinkTypeVideo):    urlnorm.LinkTypeVideo,
	string(urlnorm.LinkTypeAudio):    urlnorm.LinkTypeAudio,
	string(urlnorm.LinkTypeArchive):  urlnorm.LinkTypeArchive,
	string(urlnorm.LinkTypeCode):     urlnorm.LinkTypeCode,
	string(urlnorm.LinkTypeAPI):      urlnorm.LinkTypeAPI,
	string(urlnorm.LinkTypeOther):    urlnorm.LinkTypeOther,
}
