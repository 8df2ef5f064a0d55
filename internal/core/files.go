package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	fileExtension   = ".csv"
	processedSuffix = "_procesado.csv"
)

// CheckFileName rejects names that do not end in .csv (any case).
func CheckFileName(name string) error {
	if name == "" || !strings.HasSuffix(strings.ToLower(name), fileExtension) {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, name)
	}
	return nil
}

// binaryContainers are formats users commonly rename to .csv by mistake.
// Subtypes match through their parent, so xlsx and docx are caught as zip.
var binaryContainers = []string{
	"application/zip",
	"application/x-ole-storage",
	"application/pdf",
	"application/gzip",
	"application/x-7z-compressed",
	"application/x-rar-compressed",
	"image/png",
	"image/jpeg",
	"image/gif",
}

// CheckContent rejects payloads that sniff as a known binary container, such
// as a spreadsheet or image renamed to .csv. Anything else, control
// characters included, is left to the decoder and parser.
func CheckContent(raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	mt := mimetype.Detect(raw)
	for m := mt; m != nil; m = m.Parent() {
		for _, container := range binaryContainers {
			if m.Is(container) {
				return fmt.Errorf("%w: detected %s", ErrInvalidFileType, mt.String())
			}
		}
	}
	return nil
}

// OutputFileName derives the download name from the uploaded file name by
// replacing a trailing .csv with _procesado.csv.
func OutputFileName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), fileExtension) {
		return name[:len(name)-len(fileExtension)] + processedSuffix
	}
	return name + processedSuffix
}
