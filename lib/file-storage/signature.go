package filestorage

import (
	"bytes"
	"encoding/hex"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"mime"
	"strings"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeGIF  = "image/gif"
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeXLS  = "application/vnd.ms-excel"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var signatures = map[string][]string{
	MimePNG:  {"89504e470d0a1a0a"},
	MimeJPEG: {"ffd8ffe0", "ffd8ffe1", "ffd8ffdb", "ffd8ffee"},
	MimeGIF:  {"474946383761", "474946383961"},
	MimePDF:  {"25504446"},
	MimeDOC:  {"d0cf11e0a1b11ae1"},
	MimeXLS:  {"d0cf11e0a1b11ae1"},
	MimeDOCX: {"504b0304"},
	MimeXLSX: {"504b0304"},
}

var signatureBytes = decodeSignatures(signatures)

func decodeSignatures(src map[string][]string) map[string][][]byte {
	result := make(map[string][][]byte, len(src))
	for mimeType, list := range src {
		for _, sig := range list {
			raw, err := hex.DecodeString(sig)
			if err != nil {
				panic(err)
			}
			result[mimeType] = append(result[mimeType], raw)
		}
	}
	return result
}

// NormalizeMime quita parámetros como "; charset=..."
func NormalizeMime(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func IsAllowedMime(contentType string) bool {
	_, ok := signatureBytes[NormalizeMime(contentType)]
	return ok
}

// CheckSignature compara los primeros bytes con el MIME declarado
func CheckSignature(data []byte, contentType string) error {
	if len(data) == 0 {
		return apperrors.ErrEmptyFile
	}
	list, ok := signatureBytes[NormalizeMime(contentType)]
	if !ok {
		return apperrors.ErrFileTypeNotAllowed
	}
	for _, sig := range list {
		if bytes.HasPrefix(data, sig) {
			return nil
		}
	}
	return apperrors.ErrInvalidSignature
}
