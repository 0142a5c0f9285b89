package adapter

import "strings"

// CatalogBaseURLPlaceholder 是目录数据中图片地址的占位前缀。
const CatalogBaseURLPlaceholder = "http://catalogbaseurltobereplaced"

// URIComposer 实现 port.PictureURIComposer，把占位前缀替换成真实的目录地址。
type URIComposer struct {
	catalogBaseURL string
}

func NewURIComposer(catalogBaseURL string) *URIComposer {
	return &URIComposer{catalogBaseURL: strings.TrimSuffix(catalogBaseURL, "/")}
}

func (c *URIComposer) ComposePicURI(uriTemplate string) string {
	return strings.ReplaceAll(uriTemplate, CatalogBaseURLPlaceholder, c.catalogBaseURL)
}
