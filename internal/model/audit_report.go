package model

// AuditReport is the result of a single page audit. It is built fresh per request
// and never persisted.
type AuditReport struct {
	Title           *string             `json:"title" yaml:"title"`
	MetaDescription *string             `json:"metaDescription" yaml:"metaDescription"`
	MetaTags        []MetaTag           `json:"metaTags" yaml:"metaTags"`
	H1              []string            `json:"h1" yaml:"h1"`
	Headings        map[string][]string `json:"headings" yaml:"headings"`
	ImgAlts         []ImageAlt          `json:"imgAlts" yaml:"imgAlts"`
	Canonical       *string             `json:"canonical" yaml:"canonical"`
	OGTags          map[string]string   `json:"ogTags" yaml:"ogTags"`
	Viewport        *string             `json:"viewport" yaml:"viewport"`
	AuditScore      int                 `json:"auditScore" yaml:"auditScore"`
	Recommendations []string            `json:"recommendations" yaml:"recommendations"`
	FixCode         []FixCode           `json:"fixCode,omitempty" yaml:"fixCode,omitempty"`
	ProAnalysis     *ProAnalysis        `json:"proAnalysis,omitempty" yaml:"proAnalysis,omitempty"`
	Error           string              `json:"error,omitempty" yaml:"error,omitempty"`
}

type MetaTag struct {
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

// ImageAlt holds the alt and src of one <img>. Alt is nil when the attribute is
// missing or empty.
type ImageAlt struct {
	Alt *string `json:"alt" yaml:"alt"`
	Src *string `json:"src" yaml:"src"`
}

type FixCode struct {
	Issue string `json:"issue" yaml:"issue"`
	Code  string `json:"code" yaml:"code"`
}

type ProAnalysis struct {
	FetchTimeMs       int64  `json:"fetchTimeMs" yaml:"fetchTimeMs"`
	LoadRating        string `json:"loadRating" yaml:"loadRating"`
	WordCount         int    `json:"wordCount" yaml:"wordCount"`
	InternalLinks     int    `json:"internalLinks" yaml:"internalLinks"`
	ExternalLinks     int    `json:"externalLinks" yaml:"externalLinks"`
	HasStructuredData bool   `json:"hasStructuredData" yaml:"hasStructuredData"`
}
