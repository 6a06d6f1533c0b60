// Package fsutil holds filesystem helpers shared by the builtin tools:
// binary and image detection, path containment checks, and suggestions
// for mistyped paths.
package fsutil

import (
	"bytes"
	"path/filepath"
	"strings"
)

var binaryExtensions = map[string]bool{
	".zip": true, ".tar": true, ".gz": true, ".exe": true, ".dll": true,
	".so": true, ".class": true, ".jar": true, ".war": true, ".7z": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true,
	".pptx": true, ".odt": true, ".ods": true, ".odp": true, ".bin": true,
	".dat": true, ".obj": true, ".o": true, ".a": true, ".lib": true,
	".wasm": true, ".pyc": true, ".pyo": true,
}

var imageFormats = map[string]string{
	".jpg": "JPEG", ".jpeg": "JPEG", ".png": "PNG", ".gif": "GIF",
	".bmp": "BMP", ".webp": "WebP", ".tiff": "TIFF", ".tif": "TIFF",
	".svg": "SVG", ".ico": "ICO", ".avif": "AVIF",
}

var imageMimes = map[string]string{
	"JPEG": "image/jpeg", "PNG": "image/png", "GIF": "image/gif",
	"BMP": "image/bmp", "WebP": "image/webp", "TIFF": "image/tiff",
	"SVG": "image/svg+xml", "ICO": "image/x-icon", "AVIF": "image/avif",
}

// ImageFormat reports the image format implied by the path's extension.
// The extension check is case-insensitive.
func ImageFormat(path string) (string, bool) {
	format, ok := imageFormats[strings.ToLower(filepath.Ext(path))]
	return format, ok
}

// ImageMime maps a format name from ImageFormat to its MIME type.
func ImageMime(format string) string {
	if mime, ok := imageMimes[format]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsBinary reports whether the file should be treated as binary. Known
// binary extensions always count; otherwise the first 4KB are scanned
// for null bytes and for a high share of non-printable characters.
// Empty content is never binary.
func IsBinary(path string, content []byte) bool {
	if binaryExtensions[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	if len(content) == 0 {
		return false
	}

	sample := content
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonPrintable := 0
	for _, b := range sample {
		if b < 9 || (b > 13 && b < 32) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > 0.3
}

// Magic byte signatures for the supported raster formats.
var (
	sigPNG      = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	sigJPEG     = []byte{0xFF, 0xD8, 0xFF}
	sigGIF      = []byte("GIF8")
	sigBMP      = []byte("BM")
	sigRIFF     = []byte("RIFF")
	sigWebP     = []byte("WEBP")
	sigTIFFLE   = []byte{0x49, 0x49, 0x2A, 0x00}
	sigTIFFBE   = []byte{0x4D, 0x4D, 0x00, 0x2A}
	sigICO      = []byte{0x00, 0x00, 0x01, 0x00}
	sigFtypeBox = []byte("ftyp")
)

// ValidateImage reports whether content actually carries the format its
// extension claims, so a renamed archive cannot masquerade as an image.
func ValidateImage(content []byte, format string) bool {
	if len(content) < 8 && format != "SVG" {
		return false
	}

	switch format {
	case "PNG":
		return bytes.HasPrefix(content, sigPNG)
	case "JPEG":
		return bytes.HasPrefix(content, sigJPEG)
	case "GIF":
		return bytes.HasPrefix(content, sigGIF)
	case "BMP":
		return bytes.HasPrefix(content, sigBMP)
	case "WebP":
		return bytes.HasPrefix(content, sigRIFF) &&
			len(content) >= 12 && bytes.Equal(content[8:12], sigWebP)
	case "TIFF":
		return bytes.HasPrefix(content, sigTIFFLE) || bytes.HasPrefix(content, sigTIFFBE)
	case "ICO":
		return bytes.HasPrefix(content, sigICO)
	case "SVG":
		head := content
		if len(head) > 1000 {
			head = head[:1000]
		}
		return bytes.Contains(head, []byte("<svg")) || bytes.Contains(head, []byte("<?xml"))
	case "AVIF":
		if len(content) < 12 || !bytes.Equal(content[4:8], sigFtypeBox) {
			return false
		}
		brand := string(content[8:12])
		return brand == "avif" || brand == "avis"
	default:
		return true
	}
}
