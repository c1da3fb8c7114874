package extract

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/datacentral/retail-etl/internal/errs"
)

// columnGap is the horizontal distance (in PDF points) between two
// text fragments that marks a word boundary when reassembling rows.
const columnGap = 1.5

// PDFExtractor pulls tabular card details out of a PDF document.
//
// The PDF is laid out as a four-column table repeated across pages:
// card_number, expiry_date, card_provider, date_payment_confirmed.
// Text fragments are regrouped into rows by position, the way a
// stream-mode table extractor works.
type PDFExtractor struct {
	http *resty.Client
	log  *zerolog.Logger
}

// NewPDFExtractor builds an extractor; the embedded HTTP client is
// used when the document location is a URL.
func NewPDFExtractor(logger *zerolog.Logger) *PDFExtractor {
	return &PDFExtractor{
		http: resty.New(),
		log:  logger,
	}
}

// RetrieveCardDetails extracts card records from the PDF at
// location, which may be an http(s) URL or a local path. Tables
// from all pages are concatenated.
func (e *PDFExtractor) RetrieveCardDetails(ctx context.Context, location string) ([]CardRecord, error) {
	path := location
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		downloaded, err := e.download(ctx, location)
		if err != nil {
			return nil, errs.NewExtractError("cards", "", "downloading card details PDF", err)
		}
		defer os.Remove(downloaded)
		path = downloaded
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, errs.NewExtractError("cards", "PDF_UNREADABLE", "opening card details PDF", err)
	}
	defer f.Close()

	var records []CardRecord
	for pageNumber := 1; pageNumber <= reader.NumPage(); pageNumber++ {
		page := reader.Page(pageNumber)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, errs.NewExtractError("cards", "PDF_UNREADABLE", "reading PDF text rows", err)
		}

		for _, row := range rows {
			if record, ok := parseCardRow(assembleRowTokens(row)); ok {
				records = append(records, *record)
			}
		}
	}

	e.log.Info().Int("rows", len(records)).Msg("extracted card details from PDF")
	return records, nil
}

// download fetches the PDF into a temp file and returns its path.
func (e *PDFExtractor) download(ctx context.Context, url string) (string, error) {
	tmp, err := os.CreateTemp("", "card_details_*.pdf")
	if err != nil {
		return "", err
	}
	tmp.Close()

	resp, err := e.http.R().
		SetContext(ctx).
		SetOutput(tmp.Name()).
		Get(url)
	if err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if resp.IsError() {
		os.Remove(tmp.Name())
		return "", errs.NewExtractError("cards", "PDF_UNAVAILABLE", "PDF endpoint returned "+resp.Status(), nil)
	}

	return tmp.Name(), nil
}

// assembleRowTokens turns the positioned text fragments of one PDF
// row into whitespace-delimited tokens. Fragments are ordered by X
// and joined; a gap wider than columnGap starts a new token.
func assembleRowTokens(row *pdf.Row) []string {
	fragments := make([]pdf.Text, len(row.Content))
	copy(fragments, row.Content)
	sort.Slice(fragments, func(i, j int) bool { return fragments[i].X < fragments[j].X })

	var line strings.Builder
	var prevEnd float64
	for i, fragment := range fragments {
		if i > 0 && fragment.X-prevEnd > columnGap {
			line.WriteByte(' ')
		}
		line.WriteString(fragment.S)
		prevEnd = fragment.X + fragment.W
	}

	return strings.Fields(line.String())
}

// parseCardRow maps row tokens onto a CardRecord.
//
// Layout: first token is the card number, second the expiry date,
// last the payment-confirmation date, and everything between is the
// (possibly multi-word) provider name. Header rows and rows with
// fewer than four tokens are skipped.
func parseCardRow(tokens []string) (*CardRecord, bool) {
	if len(tokens) < 4 {
		return nil, false
	}
	if strings.EqualFold(tokens[0], "card_number") {
		return nil, false
	}

	return &CardRecord{
		CardNumber:           tokens[0],
		ExpiryDate:           tokens[1],
		CardProvider:         strings.Join(tokens[2:len(tokens)-1], " "),
		DatePaymentConfirmed: tokens[len(tokens)-1],
	}, true
}
