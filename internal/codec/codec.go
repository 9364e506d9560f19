package codec

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"examtrack/internal/migrate"
	"examtrack/internal/models"
)

// Encode serializes the store into its compact persisted form.
func Encode(store *models.StudyStore) (string, error) {
	raw, err := json.Marshal(toWire(store))
	if err != nil {
		return "", fmt.Errorf("encoding statistics store: %w", err)
	}
	return string(raw), nil
}

// Decode parses a persisted payload back into a store. It accepts the
// compact form, the verbose form of any known schema generation (run
// through the migration pipeline), and falls back to a fresh empty store
// when the payload is unreadable. It never returns an error: a broken
// payload must not take the tracker down with it.
func Decode(text string) *models.StudyStore {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.NewStore()
	}

	var probe struct {
		V *int `json:"v"`
	}
	if err := json.Unmarshal([]byte(trimmed), &probe); err == nil && probe.V != nil {
		var w wireStore
		if err := json.Unmarshal([]byte(trimmed), &w); err == nil {
			return fromWire(&w)
		}
		log.Printf("compact statistics payload unreadable, trying verbose form")
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &doc); err == nil && doc != nil {
		store, err := storeFromDocument(doc)
		if err == nil {
			return store
		}
		log.Printf("verbose statistics payload unreadable: %v", err)
	}

	log.Printf("statistics store unreadable, starting fresh")
	return models.NewStore()
}

// storeFromDocument migrates a verbose document to the current schema and
// unmarshals it into the typed store.
func storeFromDocument(doc map[string]interface{}) (*models.StudyStore, error) {
	doc = migrate.Document(doc)
	if v := migrate.Version(doc); v != models.StoreVersion {
		return nil, fmt.Errorf("unsupported store version %d", v)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	store := models.NewStore()
	if err := json.Unmarshal(raw, store); err != nil {
		return nil, err
	}
	if store.Sessions == nil {
		store.Sessions = []*models.Session{}
	}
	if store.ExamStats == nil {
		store.ExamStats = map[string]*models.ExamStats{}
	}
	return store, nil
}
