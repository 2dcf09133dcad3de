package models

import "strings"

type DocumentType string

const (
	DocumentImage DocumentType = "imagen"
	DocumentPDF   DocumentType = "pdf"
	DocumentDoc   DocumentType = "documento"
	DocumentOther DocumentType = "otro"
)

type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceVideo ResourceType = "video"
	ResourceRaw   ResourceType = "raw"
)

// ClassifyDocument tipo de documento según el MIME declarado
func ClassifyDocument(mimeType string) DocumentType {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return DocumentImage
	case mimeType == "application/pdf":
		return DocumentPDF
	case strings.HasPrefix(mimeType, "application/"), strings.Contains(mimeType, "document"):
		return DocumentDoc
	}
	return DocumentOther
}

func (t DocumentType) ResourceType() ResourceType {
	if t == DocumentImage {
		return ResourceImage
	}
	return ResourceRaw
}
