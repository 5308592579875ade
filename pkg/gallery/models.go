package gallery

import (
	"encoding/json"

	"galleryscraper/pkg/errors"
)

// ListingResponse is the top-level body of one listing page
type ListingResponse struct {
	Data *ListingData `json:"data"`
}

// ListingData wraps the photo array of a listing page. Elements stay
// undecoded until the page is processed.
type ListingData struct {
	Data []json.RawMessage `json:"data"`
}

// PhotoRecord is one decoded element of a listing page
type PhotoRecord struct {
	FileName string
	URI      string
}

// photoRecordJSON tells absent and null fields apart from empty ones
type photoRecordJSON struct {
	FileName      *string `json:"fileName"`
	ProcessedFile *struct {
		URI *string `json:"uri"`
	} `json:"processedFile"`
}

// DecodeRecord decodes one listing element. A malformed element or an absent
// fileName or processedFile.uri is a contract error; empty strings are
// accepted and fail later at download time.
func DecodeRecord(raw json.RawMessage) (PhotoRecord, error) {
	var wire photoRecordJSON
	if err := json.Unmarshal(raw, &wire); err != nil {
		return PhotoRecord{}, errors.Wrap(errors.ErrorTypeContract, err, "malformed photo record")
	}
	if wire.FileName == nil {
		return PhotoRecord{}, errors.New(errors.ErrorTypeContract, 0, "photo record has no fileName")
	}
	if wire.ProcessedFile == nil || wire.ProcessedFile.URI == nil {
		return PhotoRecord{}, errors.New(errors.ErrorTypeContract, 0,
			"photo record "+*wire.FileName+" has no processedFile.uri")
	}
	return PhotoRecord{FileName: *wire.FileName, URI: *wire.ProcessedFile.URI}, nil
}

// records returns the photo array, or a parsing error when data or data.data is absent
func (r *ListingResponse) records() ([]json.RawMessage, error) {
	if r.Data == nil {
		return nil, errors.New(errors.ErrorTypeParsing, 0, "response has no data object")
	}
	if r.Data.Data == nil {
		return nil, errors.New(errors.ErrorTypeParsing, 0, "response has no data.data array")
	}
	return r.Data.Data, nil
}
