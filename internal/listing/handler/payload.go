package handler

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/internal/attribute"
	"github.com/bazarlab/marketplace-service/internal/listing/dto"
	"github.com/bazarlab/marketplace-service/pkg/i18n"
)

// decodeWritePayload keeps every top-level key exactly as sent so the
// usecase can tell an omitted field from an explicit null.
func decodeWritePayload(body io.Reader, input *dto.WriteListingInput) error {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Invalid("detail", i18n.MsgMalformedBody, nil)
	}

	input.Fields = make(map[string]attribute.RawValue, len(payload))
	for key, raw := range payload {
		if key == "attributes" {
			continue
		}
		input.Fields[key] = attribute.NewRawValue(raw)
	}

	raw, ok := payload["attributes"]
	if !ok || attribute.NewRawValue(raw).Kind() == attribute.RawNull {
		return nil
	}
	if err := json.Unmarshal(raw, &input.Attributes); err != nil {
		return apperr.Invalid("attributes", i18n.MsgNotList, nil)
	}
	input.AttributesProvided = true
	return nil
}
