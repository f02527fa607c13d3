package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DefaultLanguage is the fallback used whenever a requested translation is
// absent from a LocalizedText value.
const DefaultLanguage = "en"

// LocalizedText maps an ISO language code to the text in that language.
// Stored as a JSONB column.
type LocalizedText map[string]string

// Resolve returns the text for lang, falling back to DefaultLanguage and
// then to any available translation.
func (lt LocalizedText) Resolve(lang string) string {
	if text, ok := lt[lang]; ok && text != "" {
		return text
	}
	if text, ok := lt[DefaultLanguage]; ok && text != "" {
		return text
	}
	for _, text := range lt {
		if text != "" {
			return text
		}
	}
	return ""
}

func (lt LocalizedText) Value() (driver.Value, error) {
	if lt == nil {
		return nil, nil
	}
	return json.Marshal(lt)
}

func (lt *LocalizedText) Scan(value interface{}) error {
	if value == nil {
		*lt = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for LocalizedText: %T", value)
	}
	return json.Unmarshal(data, lt)
}

func (LocalizedText) GormDataType() string {
	return "jsonb"
}
