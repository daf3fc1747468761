package extract

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
)

const (
	fibIdent   = 0xA5EC
	fComplex   = 0x0004
	fEncrypted = 0x0100
	fExtChar   = 0x1000
)

// extractDoc reads the WordDocument stream out of the OLE2 compound
// file and decodes its text range. Only the non-complex layout is
// handled: fast-saved files keep their text fragmented through a piece
// table and are rejected as unparsable.
func extractDoc(data []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	var stream []byte
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "WordDocument" {
			continue
		}
		stream, err = io.ReadAll(entry)
		if err != nil {
			return "", err
		}
		break
	}
	if stream == nil {
		return "", errors.New("missing WordDocument stream")
	}
	if len(stream) < 0x20 {
		return "", errors.New("truncated file information block")
	}

	if binary.LittleEndian.Uint16(stream[0:2]) != fibIdent {
		return "", errors.New("not a Word binary file")
	}
	flags := binary.LittleEndian.Uint16(stream[0x0A:0x0C])
	if flags&fEncrypted != 0 {
		return "", errors.New("encrypted documents are not supported")
	}
	if flags&fComplex != 0 {
		return "", errors.New("fast-saved (complex) documents are not supported")
	}

	fcMin := binary.LittleEndian.Uint32(stream[0x18:0x1C])
	fcMac := binary.LittleEndian.Uint32(stream[0x1C:0x20])
	if fcMin >= fcMac || int(fcMac) > len(stream) {
		return "", errors.New("invalid text range in file information block")
	}

	raw := stream[fcMin:fcMac]
	var text string
	if flags&fExtChar != 0 {
		text = decodeUTF16LE(raw)
	} else {
		text = decodeLatin1(raw)
	}
	return normalizeDocText(text), nil
}

func decodeUTF16LE(b []byte) string {
	u16 := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u16 = append(u16, binary.LittleEndian.Uint16(b[i:i+2]))
	}
	return string(utf16.Decode(u16))
}

func decodeLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// normalizeDocText maps Word's control marks to plain text: 0x0D ends
// a paragraph, 0x07 ends a table cell, other control characters are
// dropped.
func normalizeDocText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\r':
			sb.WriteString("\n\n")
		case r == 0x07 || r == 0x0B:
			sb.WriteString("\n")
		case r == '\t' || r == '\n':
			sb.WriteRune(r)
		case r < 0x20 || r == 0xFFFD:
			// field and object markers
		default:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
