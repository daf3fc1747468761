package extract

import (
	"bytes"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF returns the concatenated page text and the page count.
// pdfcpu validates the document structure first so corrupt uploads
// fail with a parse error instead of garbage text.
func extractPDF(data []byte) (string, int, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return "", 0, err
	}
	if err := api.ValidateContext(ctx); err != nil {
		return "", 0, err
	}
	pageCount := ctx.PageCount

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", 0, err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	return sanitizeUTF8([]byte(sb.String())), pageCount, nil
}
