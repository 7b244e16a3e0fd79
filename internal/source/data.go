package source

// Region is the structural DOM area a link was discovered in.
type Region string

const (
	RegionNavigation  Region = "navigation"
	RegionHeader      Region = "header"
	RegionFooter      Region = "footer"
	RegionSidebar     Region = "sidebar"
	RegionBreadcrumb  Region = "breadcrumb"
	RegionMainContent Region = "main_content"
	// RegionContent is the fallback for links inside <body> that match no
	// structural signal.
	RegionContent Region = "content"
	// RegionUnknown marks links detached from the document body.
	RegionUnknown Region = "unknown"
)

// semanticTags maps HTML5 structural elements directly to a region.
// Semantic tags outrank class/id keyword signals on the same ancestor.
var semanticTags = map[string]Region{
	"nav":     RegionNavigation,
	"header":  RegionHeader,
	"footer":  RegionFooter,
	"aside":   RegionSidebar,
	"main":    RegionMainContent,
	"article": RegionMainContent,
}

// keywordRule matches class/id attribute text by substring.
type keywordRule struct {
	keywords []string
	region   Region
}

// keywordRules is evaluated in order on each ancestor; the first rule with
// a keyword found in the ancestor's class or id wins for that ancestor.
// Breadcrumb precedes main_content so that "breadcrumb-content" style
// class soup resolves to the more specific region.
var keywordRules = []keywordRule{
	{keywords: []string{"nav", "menu"}, region: RegionNavigation},
	{keywords: []string{"header", "top"}, region: RegionHeader},
	{keywords: []string{"footer", "bottom"}, region: RegionFooter},
	{keywords: []string{"sidebar", "side", "widget"}, region: RegionSidebar},
	{keywords: []string{"breadcrumb", "crumb"}, region: RegionBreadcrumb},
	{keywords: []string{"content", "article", "post"}, region: RegionMainContent},
}
