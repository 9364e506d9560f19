package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"examtrack/internal/models"
	"examtrack/internal/repository"
	"examtrack/internal/stats"
)

// BackupService handles offline export, import, and reconciliation of
// the statistics store for the admin CLI.
type BackupService struct {
	repo *repository.StoreRepository
}

// NewBackupService creates a new backup service
func NewBackupService(repo *repository.StoreRepository) *BackupService {
	return &BackupService{repo: repo}
}

// Export writes the full store to a file as the verbose export document
func (s *BackupService) Export(outputPath string, pretty bool) error {
	log.Println("Starting statistics export...")

	store, err := s.repo.Load()
	if err != nil {
		return err
	}

	doc := &models.ExportDocument{
		Statistics: store,
		ExportDate: time.Now(),
		Version:    models.StoreVersion,
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export document: %w", err)
	}

	log.Printf("Statistics exported successfully to %s", outputPath)
	log.Printf("Exported: %d sessions, %d exams", len(store.Sessions), len(store.ExamStats))
	return nil
}

// Import restores the store from an export document file. With merge,
// imported history is appended to the current store (sessions already
// present by identity are skipped); otherwise the store is replaced.
func (s *BackupService) Import(inputPath string, merge bool) error {
	log.Printf("Starting statistics import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var doc models.ExportDocument
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode export document: %w", err)
	}
	if doc.Statistics == nil {
		return errors.New("export document carries no statistics")
	}
	log.Printf("Export version: %d, exported at: %s", doc.Version, doc.ExportDate)

	incoming := doc.Statistics
	incoming.Version = models.StoreVersion
	if incoming.Sessions == nil {
		incoming.Sessions = []*models.Session{}
	}
	if incoming.ExamStats == nil {
		incoming.ExamStats = map[string]*models.ExamStats{}
	}

	target := incoming
	if merge {
		current, err := s.repo.Load()
		if err != nil {
			return err
		}
		target = mergeStores(current, incoming)
	}

	stats.RecomputeGlobalAggregate(target)
	if err := s.repo.Save(target); err != nil {
		return err
	}

	log.Printf("Statistics import completed: %d sessions across %d exams",
		len(target.Sessions), len(target.ExamStats))
	return nil
}

// Repair runs the full load pipeline (decode, migrate, repair,
// re-aggregate) and persists the reconciled store.
func (s *BackupService) Repair() error {
	store, err := s.repo.Load()
	if err != nil {
		return err
	}
	log.Printf("Statistics store reconciled: %d sessions, %d exams",
		len(store.Sessions), len(store.ExamStats))
	return nil
}

// Stats prints the global aggregate and the per-exam table
func (s *BackupService) Stats(w io.Writer) error {
	store, err := s.repo.Load()
	if err != nil {
		return err
	}

	t := store.TotalStats
	fmt.Fprintln(w, "All-time totals:")
	fmt.Fprintf(w, "  Questions: %d (correct %d, incorrect %d, preview %d)\n",
		t.TotalQuestions, t.TotalCorrect, t.TotalIncorrect, t.TotalPreview)
	fmt.Fprintf(w, "  Time spent: %ds  Resets: %d  Highlights: %d\n",
		t.TotalTime, t.TotalResets, t.TotalHighlights)

	if len(store.ExamStats) == 0 {
		fmt.Fprintln(w, "No exam statistics recorded yet")
		return nil
	}

	codes := make([]string, 0, len(store.ExamStats))
	for code := range store.ExamStats {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fmt.Fprintln(w, "\nExams:")
	fmt.Fprintf(w, "  %-8s %-28s %9s %10s %5s %5s  %s\n",
		"CODE", "NAME", "SESSIONS", "QUESTIONS", "AVG", "BEST", "LAST ATTEMPT")
	for _, code := range codes {
		e := store.ExamStats[code]
		lastAttempt := "-"
		if e.LastAttempt > 0 {
			lastAttempt = time.UnixMilli(e.LastAttempt).Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "  %-8s %-28s %9d %10d %4d%% %4d%%  %s\n",
			code, e.ExamName, e.SessionCount, e.TotalQuestions,
			e.AverageScore, e.BestScore, lastAttempt)
	}
	return nil
}

// mergeStores appends imported history to the current store, skipping
// sessions whose identity is already present. The current machine's
// active session wins over an imported one.
func mergeStores(current, incoming *models.StudyStore) *models.StudyStore {
	seen := make(map[string]bool, len(current.Sessions))
	for _, session := range current.Sessions {
		seen[session.ID] = true
	}
	for _, session := range incoming.Sessions {
		if !seen[session.ID] {
			current.Sessions = append(current.Sessions, session)
		}
	}
	if current.CurrentSession == nil {
		current.CurrentSession = incoming.CurrentSession
	}
	return current
}
