package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Kneilands/Papertrail/internal/datescan"
	"github.com/Kneilands/Papertrail/internal/extract"
	"github.com/Kneilands/Papertrail/internal/model"
	"github.com/Kneilands/Papertrail/internal/repository"
	"github.com/Kneilands/Papertrail/internal/storage"
	"github.com/Kneilands/Papertrail/internal/summarize"
	"github.com/Kneilands/Papertrail/internal/utils/sanitize"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("document not found")
	ErrReaderNil        = errors.New("reader is nil")
	ErrNameRequired     = errors.New("name is required")
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidDate      = errors.New("expiration date must be a YYYY-MM-DD calendar date")
	ErrInvalidFileType  = errors.New("invalid file type")
)

const (
	categoryAIUpload = "AI Upload"
	issuerAIDetected = "AI Detected"

	// artifactPrefix is the storage key prefix for uploaded files. Keys are
	// filename-based, so a re-upload under the same name overwrites.
	artifactPrefix = "uploads/"

	// extractPageLimit caps PDF extraction for cost and latency.
	extractPageLimit = 2

	// summarizeMinChars is the exclusive lower bound of extracted text length
	// below which the summarization API is never called.
	summarizeMinChars = 50
	// summarizeMaxChars caps how much extracted text is sent to the API.
	summarizeMaxChars = 2000

	previewMaxChars    = 500
	defaultRecentLimit = 5
)

const (
	msgImageOCRUnsupported = "Could not extract text (image files require OCR)."
	msgSummaryUnavailable  = "AI summarization unavailable (Missing API Key or API Error)."
	msgMissingAPIKey       = "Please set HF_API_KEY environment variable to enable AI summarization."
	msgNoDatesDetected     = "None detected"
	msgDocumentSaved       = "Document saved to Dashboard!"
)

var allowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// CreateDocumentInput carries the fields of a manual document submission.
// ExpirationDate is an optional YYYY-MM-DD string; empty means never expires.
type CreateDocumentInput struct {
	Name           string `json:"name" form:"name"`
	Category       string `json:"category" form:"category"`
	Issuer         string `json:"issuer" form:"issuer"`
	ExpirationDate string `json:"expiration_date" form:"expiration_date"`
}

// DocumentListResult is the service-level DTO for listed documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DashboardStats summarizes the document set for the dashboard view.
type DashboardStats struct {
	Total      int `json:"total"`
	Expiring   int `json:"expiring"`
	Score      int `json:"score"`
	AIInsights int `json:"ai_insights"`
}

// AnalysisResult is the response of the upload analysis pipeline.
type AnalysisResult struct {
	Filename      string   `json:"filename"`
	TextPreview   string   `json:"text_preview"`
	AISummary     string   `json:"ai_summary"`
	DetectedDates []string `json:"detected_dates"`
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
}

// DocumentService defines the use cases for tracking compliance documents.
type DocumentService interface {
	// Create validates and stores a manually submitted document, computing
	// its status from the expiration date.
	Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error)

	// List returns documents ordered by ascending expiration date (undated
	// last), optionally filtered by status. An empty filter or "All" returns
	// everything. Statuses are recomputed against the current date.
	List(ctx context.Context, statusFilter string) (*DocumentListResult, error)

	// ListRecent returns the most recently created documents, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Delete removes a document and, when present, its stored artifact.
	Delete(ctx context.Context, id string) error

	// Stats aggregates counts and the compliance score over all documents.
	Stats(ctx context.Context) (*DashboardStats, error)

	// Analyze runs the upload pipeline: validate, persist the artifact,
	// extract text, summarize, guess an expiration date, and save a record.
	// Only validation failures abort; every later stage degrades to a
	// placeholder and the document is saved regardless.
	Analyze(ctx context.Context, r io.Reader, originalFilename string) (*AnalysisResult, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store      storage.Storage
	repo       repository.DocumentRepository
	extractor  extract.TextExtractor
	summarizer summarize.Summarizer // nil when no API credential is configured
	now        func() time.Time
}

// NewDocumentService constructs a new DocumentService. Pass a nil summarizer
// to disable summarization; the pipeline then reports the missing-credential
// placeholder instead of calling out.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, extractor extract.TextExtractor, summarizer summarize.Summarizer) DocumentService {
	return &documentService{
		store:      store,
		repo:       repo,
		extractor:  extractor,
		summarizer: summarizer,
		now:        time.Now,
	}
}

func (s *documentService) Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, ErrCategoryRequired
	}

	var expiration *time.Time
	if in.ExpirationDate != "" {
		t, err := time.Parse("2006-01-02", in.ExpirationDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		expiration = &t
	}

	now := s.now().UTC()
	doc := &model.Document{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Category:       in.Category,
		Issuer:         in.Issuer,
		ExpirationDate: expiration,
		Status:         model.ComputeStatus(expiration, now),
		CreatedAt:      now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return stored, nil
}

// List recomputes every status against the current date before filtering, so
// a stored snapshot that went stale never leaks into responses.
func (s *documentService) List(ctx context.Context, statusFilter string) (*DocumentListResult, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	items := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		d.Status = model.ComputeStatus(d.ExpirationDate, now)
		if statusFilter != "" && statusFilter != model.StatusFilterAll && string(d.Status) != statusFilter {
			continue
		}
		items = append(items, d)
	}
	return &DocumentListResult{Items: items, Total: len(items)}, nil
}

func (s *documentService) ListRecent(ctx context.Context, limit int) ([]model.Document, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	docs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	for i := range docs {
		docs[i].Status = model.ComputeStatus(docs[i].ExpirationDate, now)
	}
	return docs, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	doc.Status = model.ComputeStatus(doc.ExpirationDate, s.now().UTC())
	return doc, nil
}

// Delete removes the stored artifact first, then the record. A storage
// failure keeps the DB row so the artifact reference is not lost.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if doc.FilePath != "" {
		if err := s.store.Delete(ctx, artifactPrefix+doc.FilePath); err != nil {
			return fmt.Errorf("delete artifact: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *documentService) Stats(ctx context.Context) (*DashboardStats, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	stats := &DashboardStats{Total: len(docs)}
	active := 0
	for _, d := range docs {
		switch model.ComputeStatus(d.ExpirationDate, now) {
		case model.StatusActive:
			active++
		case model.StatusExpiringSoon:
			stats.Expiring++
		}
		if d.AISummary != "" {
			stats.AIInsights++
		}
	}
	if stats.Total > 0 {
		stats.Score = int(math.Round(float64(active) / float64(stats.Total) * 100))
	}
	return stats, nil
}

func (s *documentService) Analyze(ctx context.Context, r io.Reader, originalFilename string) (*AnalysisResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if !allowedFile(originalFilename) {
		return nil, ErrInvalidFileType
	}
	filename := sanitize.Filename(originalFilename)
	if filename == "" {
		return nil, ErrInvalidFileType
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	key := artifactPrefix + filename
	_, err = s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentTypeFor(filename),
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}

	// Extraction failure degrades to an error message as the text itself.
	extracted := msgImageOCRUnsupported
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		text, err := s.extractor.Text(data, extractPageLimit)
		if err != nil {
			extracted = "Error reading PDF: " + err.Error()
		} else {
			extracted = text
		}
	}

	summary := s.summarizeText(ctx, extracted)

	matches := datescan.Matches(extracted)
	expiration := datescan.Candidate(matches)

	now := s.now().UTC()
	doc := &model.Document{
		ID:             uuid.NewString(),
		Name:           filename,
		Category:       categoryAIUpload,
		Issuer:         issuerAIDetected,
		ExpirationDate: expiration,
		Status:         model.ComputeStatus(expiration, now),
		FilePath:       filename,
		AISummary:      summary,
		CreatedAt:      now,
	}
	if _, err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("save analyzed document: %w", err)
	}

	detected := datescan.Dedupe(matches)
	if len(detected) == 0 {
		detected = []string{msgNoDatesDetected}
	}

	return &AnalysisResult{
		Filename:      filename,
		TextPreview:   truncateRunes(extracted, previewMaxChars) + "...",
		AISummary:     summary,
		DetectedDates: detected,
		Success:       true,
		Message:       msgDocumentSaved,
	}, nil
}

// summarizeText never returns an error: API failures, transport failures and
// an absent credential all map to descriptive placeholder strings.
func (s *documentService) summarizeText(ctx context.Context, extracted string) string {
	if s.summarizer == nil {
		return msgMissingAPIKey
	}
	if utf8.RuneCountInString(extracted) <= summarizeMinChars {
		return msgSummaryUnavailable
	}

	summary, err := s.summarizer.Summarize(ctx, truncateRunes(extracted, summarizeMaxChars))
	var apiErr *summarize.APIError
	switch {
	case errors.As(err, &apiErr):
		return "HF API Error: " + apiErr.Message
	case err != nil:
		return "Connection Error: " + err.Error()
	case summary == "":
		return msgSummaryUnavailable
	default:
		return summary
	}
}

func allowedFile(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(name[i+1:])]
	return ok
}

func contentTypeFor(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		if ct := mime.TypeByExtension(filename[i:]); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}

// truncateRunes limits a string to max runes.
func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
