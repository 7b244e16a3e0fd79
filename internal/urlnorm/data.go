package urlnorm

// LinkType is the content-category classification of a link target,
// derived from the resolved path's extension.
type LinkType string

const (
	LinkTypePage     LinkType = "page"
	LinkTypeImage    LinkType = "image"
	LinkTypeDocument LinkType = "document"
	LinkTypeVideo    LinkType = "video"
	LinkTypeAudio    LinkType = "audio"
	LinkTypeArchive  LinkType = "archive"
	LinkTypeCode     LinkType = "code"
	LinkTypeAPI      LinkType = "api"
	LinkTypeOther    LinkType = "other"
)

// extensionTable maps a lowercase file extension (with leading dot) to its
// link type. Extension lookup deliberately takes priority over the api
// heuristic: ".json" is always code, never api.
var extensionTable = map[string]LinkType{
	// images
	".jpg": LinkTypeImage, ".jpeg": LinkTypeImage, ".png": LinkTypeImage,
	".gif": LinkTypeImage, ".bmp": LinkTypeImage, ".svg": LinkTypeImage,
	".webp": LinkTypeImage, ".ico": LinkTypeImage,

	// documents
	".pdf": LinkTypeDocument, ".doc": LinkTypeDocument, ".docx": LinkTypeDocument,
	".xls": LinkTypeDocument, ".xlsx": LinkTypeDocument, ".ppt": LinkTypeDocument,
	".pptx": LinkTypeDocument, ".txt": LinkTypeDocument, ".rtf": LinkTypeDocument,

	// video
	".mp4": LinkTypeVideo, ".avi": LinkTypeVideo, ".mkv": LinkTypeVideo,
	".mov": LinkTypeVideo, ".wmv": LinkTypeVideo, ".flv": LinkTypeVideo,
	".webm": LinkTypeVideo,

	// audio
	".mp3": LinkTypeAudio, ".wav": LinkTypeAudio, ".flac": LinkTypeAudio,
	".aac": LinkTypeAudio, ".ogg": LinkTypeAudio, ".wma": LinkTypeAudio,

	// archives
	".zip": LinkTypeArchive, ".rar": LinkTypeArchive, ".tar": LinkTypeArchive,
	".gz": LinkTypeArchive, ".7z": LinkTypeArchive, ".bz2": LinkTypeArchive,

	// code and markup
	".js": LinkTypeCode, ".css": LinkTypeCode, ".json": LinkTypeCode,
	".xml": LinkTypeCode, ".html": LinkTypeCode, ".htm": LinkTypeCode,
	".php": LinkTypeCode, ".py": LinkTypeCode, ".java": LinkTypeCode,
}

// nonCrawlableSchemes are schemes that may appear in href attributes but
// must never be dereferenced as pages. Links carrying them are recorded
// with LinkTypeOther and excluded from the crawl frontier.
var nonCrawlableSchemes = map[string]struct{}{
	"javascript": {},
	"mailto":     {},
	"tel":        {},
	"data":       {},
}

// DomainClass is the relationship between a link's host and the seed host.
type DomainClass struct {
	IsInternal  bool
	IsSubdomain bool
}
