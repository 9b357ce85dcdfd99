package momo

import (
	"encoding/json"

	"momo-bridge/internal/core/domain"

	"github.com/go-viper/mapstructure/v2"
)

// serviceDataFields is the field table for the JSON document embedded in a
// transaction detail. Tags name the upstream keys.
type serviceDataFields struct {
	Comment      string `mapstructure:"COMMENT_VALUE"`
	PartnerName  string `mapstructure:"PARTNER_NAME"`
	PartnerPhone string `mapstructure:"PARTNER_PHONE"`
	ThemeURL     string `mapstructure:"THEME_URL"`
	StickerID    string `mapstructure:"STICKER_ID"`
}

func toTransaction(r historyRecord) domain.Transaction {
	return domain.Transaction{
		TransID:   int64(r.TransID),
		ServiceID: string(r.ServiceID),
		Source: domain.Party{
			ID:   string(r.SourceID),
			Name: string(r.SourceName),
		},
		Target: domain.Party{
			ID:   string(r.TargetID),
			Name: string(r.TargetName),
		},
		Direction:    domain.DirectionFromIO(int(r.IO)),
		CreatedAt:    int64(r.CreatedAt),
		LastUpdate:   int64(r.LastUpdate),
		PostBalance:  int64(r.PostBalance),
		TotalAmount:  int64(r.TotalAmount),
		TranshisData: string(r.TranshisData),
	}
}

func toTransactionDetail(r detailRecord) domain.TransactionDetail {
	tx := toTransaction(r.historyRecord)
	if tx.ServiceID == "" {
		tx.ServiceID = domain.DefaultServiceID
	}

	var sd domain.ServiceData
	if r.ServiceData != nil {
		sd = parseServiceData(*r.ServiceData)
	}

	return domain.TransactionDetail{Transaction: tx, ServiceData: sd}
}

// parseServiceData decodes the embedded document through the field table.
// Missing, falsy or structured values become "", and a malformed document
// yields an empty ServiceData.
func parseServiceData(doc string) domain.ServiceData {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &raw); err != nil || raw == nil {
		return domain.ServiceData{}
	}

	// Objects and arrays cannot fill a string field; dropping them keeps
	// one odd value from failing the whole decode.
	for k, v := range raw {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			delete(raw, k)
			continue
		}
		if !truthyValue(v) {
			delete(raw, k)
		}
	}

	var fields serviceDataFields
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &fields,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return domain.ServiceData{}
	}
	if err := dec.Decode(raw); err != nil {
		return domain.ServiceData{}
	}

	return domain.ServiceData{
		Comment:      fields.Comment,
		PartnerName:  fields.PartnerName,
		PartnerPhone: fields.PartnerPhone,
		ThemeURL:     fields.ThemeURL,
		StickerID:    fields.StickerID,
	}
}

func truthyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}
