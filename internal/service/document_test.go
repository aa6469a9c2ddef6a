package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	extractMocks "github.com/Kneilands/Papertrail/internal/extract/mocks"
	"github.com/Kneilands/Papertrail/internal/model"
	repoMocks "github.com/Kneilands/Papertrail/internal/repository/mocks"
	"github.com/Kneilands/Papertrail/internal/storage"
	storeMocks "github.com/Kneilands/Papertrail/internal/storage/mocks"
	"github.com/Kneilands/Papertrail/internal/summarize"
	sumMocks "github.com/Kneilands/Papertrail/internal/summarize/mocks"
)

var testNow = time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)

type testMocks struct {
	store      *storeMocks.MockStorage
	repo       *repoMocks.MockDocumentRepository
	extractor  *extractMocks.MockTextExtractor
	summarizer *sumMocks.MockSummarizer
}

// newTestService wires a service with every dependency mocked and a pinned
// clock so status expectations don't depend on the wall clock.
func newTestService(withSummarizer bool) (DocumentService, *testMocks) {
	m := &testMocks{
		store:      new(storeMocks.MockStorage),
		repo:       new(repoMocks.MockDocumentRepository),
		extractor:  new(extractMocks.MockTextExtractor),
		summarizer: new(sumMocks.MockSummarizer),
	}
	var summarizer summarize.Summarizer
	if withSummarizer {
		summarizer = m.summarizer
	}
	svc := NewDocumentService(m.store, m.repo, m.extractor, summarizer)
	svc.(*documentService).now = func() time.Time { return testNow }
	return svc, m
}

func datePtr(days int) *time.Time {
	d := testNow.AddDate(0, 0, days)
	return &d
}

func TestDocumentService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      CreateDocumentInput
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
		checkSaved func(t *testing.T, saved *model.Document)
	}{
		{
			name:  "happy path with future date",
			input: CreateDocumentInput{Name: "Business License", Category: "Legal", Issuer: "City of Chicago", ExpirationDate: "2026-06-30"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Create", ctx, mock.AnythingOfType("*model.Document")).
					Return(&model.Document{ID: "gen-id"}, nil)
			},
			checkSaved: func(t *testing.T, saved *model.Document) {
				assert.NotEmpty(t, saved.ID)
				assert.Equal(t, "Business License", saved.Name)
				assert.Equal(t, model.StatusActive, saved.Status)
				require.NotNil(t, saved.ExpirationDate)
				assert.Equal(t, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), *saved.ExpirationDate)
				assert.Equal(t, testNow, saved.CreatedAt)
			},
		},
		{
			name:  "no expiration date is always Active",
			input: CreateDocumentInput{Name: "Operating Agreement", Category: "Legal"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Create", ctx, mock.AnythingOfType("*model.Document")).
					Return(&model.Document{ID: "gen-id"}, nil)
			},
			checkSaved: func(t *testing.T, saved *model.Document) {
				assert.Nil(t, saved.ExpirationDate)
				assert.Equal(t, model.StatusActive, saved.Status)
			},
		},
		{
			name:  "date inside the expiring window",
			input: CreateDocumentInput{Name: "Food Cert", Category: "Health", ExpirationDate: testNow.AddDate(0, 0, 15).Format("2006-01-02")},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Create", ctx, mock.AnythingOfType("*model.Document")).
					Return(&model.Document{ID: "gen-id"}, nil)
			},
			checkSaved: func(t *testing.T, saved *model.Document) {
				assert.Equal(t, model.StatusExpiringSoon, saved.Status)
			},
		},
		{
			name:       "validation - missing name",
			input:      CreateDocumentInput{Category: "Legal"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrNameRequired,
		},
		{
			name:       "validation - blank name",
			input:      CreateDocumentInput{Name: "   ", Category: "Legal"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrNameRequired,
		},
		{
			name:       "validation - missing category",
			input:      CreateDocumentInput{Name: "Business License"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrCategoryRequired,
		},
		{
			name:       "validation - unparseable date",
			input:      CreateDocumentInput{Name: "Business License", Category: "Legal", ExpirationDate: "06/30/2026"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrInvalidDate,
		},
		{
			name:  "repository error",
			input: CreateDocumentInput{Name: "Business License", Category: "Legal"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("save document: db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(false)

			var saved *model.Document
			tt.setupMocks(m.repo)
			for _, call := range m.repo.ExpectedCalls {
				if call.Method == "Create" {
					call.Run(func(args mock.Arguments) {
						saved = args.Get(1).(*model.Document)
					})
				}
			}

			doc, err := svc.Create(ctx, tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrNameRequired) || errors.Is(tt.wantErr, ErrCategoryRequired) || errors.Is(tt.wantErr, ErrInvalidDate) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				require.NotNil(t, doc)
				if tt.checkSaved != nil {
					require.NotNil(t, saved)
					tt.checkSaved(t, saved)
				}
			}
			m.repo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	stored := []model.Document{
		{ID: "1", Name: "Insurance", ExpirationDate: datePtr(-5), Status: model.StatusActive},      // stale snapshot
		{ID: "2", Name: "Food Cert", ExpirationDate: datePtr(15), Status: model.StatusExpiringSoon},
		{ID: "3", Name: "License", ExpirationDate: datePtr(200), Status: model.StatusActive},
		{ID: "4", Name: "Agreement", Status: model.StatusActive}, // never expires
	}

	tests := []struct {
		name    string
		filter  string
		wantIDs []string
	}{
		{name: "no filter returns all", filter: "", wantIDs: []string{"1", "2", "3", "4"}},
		{name: "All sentinel returns all", filter: "All", wantIDs: []string{"1", "2", "3", "4"}},
		{name: "filter Expired uses recomputed status", filter: "Expired", wantIDs: []string{"1"}},
		{name: "filter Expiring Soon", filter: "Expiring Soon", wantIDs: []string{"2"}},
		{name: "filter Active", filter: "Active", wantIDs: []string{"3", "4"}},
		{name: "filter with no matches", filter: "Nonexistent", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(false)
			m.repo.On("List", ctx).Return(stored, nil)

			res, err := svc.List(ctx, tt.filter)

			require.NoError(t, err)
			ids := make([]string, 0, len(res.Items))
			for _, d := range res.Items {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, len(tt.wantIDs), res.Total)
		})
	}

	t.Run("statuses are refreshed on read", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("List", ctx).Return(stored, nil)

		res, err := svc.List(ctx, "")

		require.NoError(t, err)
		assert.Equal(t, model.StatusExpired, res.Items[0].Status)
		assert.Equal(t, model.StatusExpiringSoon, res.Items[1].Status)
		assert.Equal(t, model.StatusActive, res.Items[2].Status)
		assert.Equal(t, model.StatusActive, res.Items[3].Status)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("List", ctx).Return(nil, errors.New("db fail"))

		res, err := svc.List(ctx, "")

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}

func TestDocumentService_ListRecent(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path with refreshed statuses", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("ListRecent", ctx, 5).Return([]model.Document{
			{ID: "1", ExpirationDate: datePtr(-1), Status: model.StatusExpiringSoon},
		}, nil)

		docs, err := svc.ListRecent(ctx, 5)

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, model.StatusExpired, docs[0].Status)
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("ListRecent", ctx, 5).Return([]model.Document{}, nil)

		_, err := svc.ListRecent(ctx, 0)

		require.NoError(t, err)
		m.repo.AssertExpectations(t)
	})
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("FindByID", ctx, "valid-id").
			Return(&model.Document{ID: "valid-id", ExpirationDate: datePtr(-10), Status: model.StatusActive}, nil)

		doc, err := svc.Get(ctx, "valid-id")

		require.NoError(t, err)
		assert.Equal(t, "valid-id", doc.ID)
		assert.Equal(t, model.StatusExpired, doc.Status)
	})

	t.Run("empty id", func(t *testing.T) {
		svc, _ := newTestService(false)

		doc, err := svc.Get(ctx, "")

		assert.ErrorIs(t, err, ErrIDRequired)
		assert.Nil(t, doc)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		doc, err := svc.Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, doc)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("document without artifact skips storage", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("FindByID", ctx, "valid-id").Return(&model.Document{ID: "valid-id"}, nil)
		m.repo.On("Delete", ctx, "valid-id").Return(nil)

		err := svc.Delete(ctx, "valid-id")

		require.NoError(t, err)
		m.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		m.repo.AssertExpectations(t)
	})

	t.Run("document with artifact deletes the object first", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("FindByID", ctx, "valid-id").Return(&model.Document{ID: "valid-id", FilePath: "scan.pdf"}, nil)
		m.store.On("Delete", ctx, "uploads/scan.pdf").Return(nil)
		m.repo.On("Delete", ctx, "valid-id").Return(nil)

		err := svc.Delete(ctx, "valid-id")

		require.NoError(t, err)
		m.store.AssertExpectations(t)
		m.repo.AssertExpectations(t)
	})

	t.Run("empty id", func(t *testing.T) {
		svc, _ := newTestService(false)
		assert.ErrorIs(t, svc.Delete(ctx, ""), ErrIDRequired)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		err := svc.Delete(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		m.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("storage delete error keeps the row", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("FindByID", ctx, "valid-id").Return(&model.Document{ID: "valid-id", FilePath: "scan.pdf"}, nil)
		m.store.On("Delete", ctx, "uploads/scan.pdf").Return(errors.New("storage fail"))

		err := svc.Delete(ctx, "valid-id")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "delete artifact: storage fail")
		m.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("row vanished between lookup and delete", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("FindByID", ctx, "valid-id").Return(&model.Document{ID: "valid-id"}, nil)
		m.repo.On("Delete", ctx, "valid-id").Return(sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, "valid-id"), ErrNotFound)
	})
}

func TestDocumentService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("mixed statuses", func(t *testing.T) {
		// {Active, Expiring Soon, Expired, Active}: total=4, active=2,
		// score=50, expiring=1.
		svc, m := newTestService(false)
		m.repo.On("List", ctx).Return([]model.Document{
			{ID: "1", ExpirationDate: datePtr(200)},
			{ID: "2", ExpirationDate: datePtr(15), AISummary: "summarized"},
			{ID: "3", ExpirationDate: datePtr(-5)},
			{ID: "4"},
		}, nil)

		stats, err := svc.Stats(ctx)

		require.NoError(t, err)
		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 1, stats.Expiring)
		assert.Equal(t, 50, stats.Score)
		assert.Equal(t, 1, stats.AIInsights)
	})

	t.Run("empty store scores zero", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("List", ctx).Return([]model.Document{}, nil)

		stats, err := svc.Stats(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, 0, stats.Score)
	})

	t.Run("score is rounded", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("List", ctx).Return([]model.Document{
			{ID: "1", ExpirationDate: datePtr(200)},
			{ID: "2", ExpirationDate: datePtr(200)},
			{ID: "3", ExpirationDate: datePtr(-5)},
		}, nil)

		stats, err := svc.Stats(ctx)

		require.NoError(t, err)
		assert.Equal(t, 67, stats.Score)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, m := newTestService(false)
		m.repo.On("List", ctx).Return(nil, errors.New("db fail"))

		stats, err := svc.Stats(ctx)

		assert.Error(t, err)
		assert.Nil(t, stats)
	})
}

func TestDocumentService_Analyze_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
	}{
		{name: "disallowed extension", filename: "malware.exe"},
		{name: "no extension", filename: "README"},
		{name: "empty filename", filename: ""},
		{name: "doc extension", filename: "contract.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(true)

			res, err := svc.Analyze(ctx, strings.NewReader("content"), tt.filename)

			assert.ErrorIs(t, err, ErrInvalidFileType)
			assert.Nil(t, res)
			// Rejected before any artifact write or record creation.
			m.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("nil reader", func(t *testing.T) {
		svc, _ := newTestService(true)
		res, err := svc.Analyze(ctx, nil, "scan.pdf")
		assert.ErrorIs(t, err, ErrReaderNil)
		assert.Nil(t, res)
	})
}

// analyzeSetup wires the happy-path storage and repo expectations and returns
// a pointer that captures the saved document.
func analyzeSetup(m *testMocks, key string) **model.Document {
	saved := new(*model.Document)
	m.store.On("Put", mock.Anything, key, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Key: key}, nil)
	m.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Document")).
		Run(func(args mock.Arguments) {
			*saved = args.Get(1).(*model.Document)
		}).
		Return(&model.Document{ID: "gen-id"}, nil)
	return saved
}

func TestDocumentService_Analyze_PDFWithDate(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(true)

	extracted := "This compliance certificate remains valid until 2026-01-15 per the issuing authority's records."
	saved := analyzeSetup(m, "uploads/certificate.pdf")
	m.extractor.On("Text", mock.Anything, 2).Return(extracted, nil)
	m.summarizer.On("Summarize", mock.Anything, extracted).Return("A certificate valid until early 2026.", nil)

	res, err := svc.Analyze(ctx, strings.NewReader("%PDF-1.4 ..."), "certificate.pdf")

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Success)
	assert.Equal(t, "certificate.pdf", res.Filename)
	assert.Equal(t, "A certificate valid until early 2026.", res.AISummary)
	assert.Equal(t, []string{"2026-01-15"}, res.DetectedDates)
	assert.Equal(t, "Document saved to Dashboard!", res.Message)

	doc := *saved
	require.NotNil(t, doc)
	assert.Equal(t, "certificate.pdf", doc.Name)
	assert.Equal(t, "AI Upload", doc.Category)
	assert.Equal(t, "AI Detected", doc.Issuer)
	assert.Equal(t, "certificate.pdf", doc.FilePath)
	require.NotNil(t, doc.ExpirationDate)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), *doc.ExpirationDate)
	assert.Equal(t, model.StatusActive, doc.Status) // 75 days out from the pinned clock
}

func TestDocumentService_Analyze_PDFWithoutDates(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(true)

	extracted := "This document contains terms and conditions but mentions no calendar dates whatsoever anywhere."
	saved := analyzeSetup(m, "uploads/terms.pdf")
	m.extractor.On("Text", mock.Anything, 2).Return(extracted, nil)
	m.summarizer.On("Summarize", mock.Anything, extracted).Return("Terms and conditions.", nil)

	res, err := svc.Analyze(ctx, strings.NewReader("%PDF"), "terms.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"None detected"}, res.DetectedDates)

	doc := *saved
	require.NotNil(t, doc)
	assert.Nil(t, doc.ExpirationDate)
	assert.Equal(t, model.StatusActive, doc.Status)
}

func TestDocumentService_Analyze_SlashDateDetectedButNotUsed(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)

	extracted := "Valid through 12/31/2025, see also renewal window opening 2025-10-01 for details and annexes."
	saved := analyzeSetup(m, "uploads/policy.pdf")
	m.extractor.On("Text", mock.Anything, 2).Return(extracted, nil)

	res, err := svc.Analyze(ctx, strings.NewReader("%PDF"), "policy.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"12/31/2025", "2025-10-01"}, res.DetectedDates)
	assert.Nil(t, (*saved).ExpirationDate)
}

func TestDocumentService_Analyze_ShortTextSkipsSummarization(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(true)

	analyzeSetup(m, "uploads/tiny.pdf")
	m.extractor.On("Text", mock.Anything, 2).Return("Fifty chars or fewer here.", nil)

	res, err := svc.Analyze(ctx, strings.NewReader("%PDF"), "tiny.pdf")

	require.NoError(t, err)
	assert.Equal(t, "AI summarization unavailable (Missing API Key or API Error).", res.AISummary)
	m.summarizer.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
}

func TestDocumentService_Analyze_MissingCredential(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)

	extracted := strings.Repeat("Plenty of extracted text to summarize. ", 5)
	analyzeSetup(m, "uploads/scan.pdf")
	m.extractor.On("Text", mock.Anything, 2).Return(extracted, nil)

	res, err := svc.Analyze(ctx, strings.NewReader("%PDF"), "scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, "Please set HF_API_KEY environment variable to enable AI summarization.", res.AISummary)
}

func TestDocumentService_Analyze_SummarizerFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	extracted := strings.Repeat("Plenty of extracted text to summarize. ", 5)

	t.Run("API error becomes a summary string", func(t *testing.T) {
		svc, m := newTestService(true)
		analyzeSetup(m, "uploads/scan.pdf")
		m.extractor.On("Text", mock.Anything, 2).Return(extracted, nil)
		m.summarizer.On("Summarize", mock.Anything, mock.Anything).
			Return("", &summarize.APIError{Message: "model is loading"})

		res, err := svc.Analyze(ctx, strings.NewReader("%PDF"), "scan.pdf")

		require.NoError(t, err)
		assert.Equal(t, "HF API Error: model is loading", res.AISummary)
	})

	t.Run("transport error becomes a summary string", func(t *testing.T) {
		svc, m := newTestService(true)
		analyzeSetup(m, "uploads/scan.pdf")
		m.extractor.On("Text", mock.Anything, 2).Return(extracted, nil)
		m.summarizer.On("Summarize", mock.Anything, mock.Anything).
			Return("", errors.New("dial tcp: connection refused"))

		res, err := svc.Analyze(ctx, strings.NewReader("%PDF"), "scan.pdf")

		require.NoError(t, err)
		assert.Equal(t, "Connection Error: dial tcp: connection refused", res.AISummary)
	})
}

func TestDocumentService_Analyze_SummarizationInputIsTruncated(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(true)

	extracted := strings.Repeat("x", 5000)
	analyzeSetup(m, "uploads/long.pdf")
	m.extractor.On("Text", mock.Anything, 2).Return(extracted, nil)
	m.summarizer.On("Summarize", mock.Anything, mock.MatchedBy(func(text string) bool {
		return len(text) == 2000
	})).Return("Summary of a long document.", nil)

	res, err := svc.Analyze(ctx, strings.NewReader("%PDF"), "long.pdf")

	require.NoError(t, err)
	assert.Equal(t, "Summary of a long document.", res.AISummary)
	m.summarizer.AssertExpectations(t)
}

func TestDocumentService_Analyze_ExtractionFailureDegrades(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)

	saved := analyzeSetup(m, "uploads/broken.pdf")
	m.extractor.On("Text", mock.Anything, 2).Return("", errors.New("open PDF: malformed header"))

	res, err := svc.Analyze(ctx, strings.NewReader("not really a pdf"), "broken.pdf")

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.TextPreview, "Error reading PDF: open PDF: malformed header")
	require.NotNil(t, *saved) // the save still happens
}

func TestDocumentService_Analyze_NonPDFSkipsExtraction(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)

	saved := analyzeSetup(m, "uploads/photo.jpg")

	res, err := svc.Analyze(ctx, strings.NewReader("jpeg bytes"), "photo.jpg")

	require.NoError(t, err)
	assert.Contains(t, res.TextPreview, "Could not extract text (image files require OCR).")
	assert.Equal(t, []string{"None detected"}, res.DetectedDates)
	assert.Nil(t, (*saved).ExpirationDate)
	m.extractor.AssertNotCalled(t, "Text", mock.Anything, mock.Anything)
}

func TestDocumentService_Analyze_SanitizesFilename(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)

	saved := analyzeSetup(m, "uploads/my_business_license.pdf")
	m.extractor.On("Text", mock.Anything, 2).Return("short", nil)

	res, err := svc.Analyze(ctx, strings.NewReader("%PDF"), "my business license.pdf")

	require.NoError(t, err)
	assert.Equal(t, "my_business_license.pdf", res.Filename)
	assert.Equal(t, "my_business_license.pdf", (*saved).Name)
	assert.Equal(t, "my_business_license.pdf", (*saved).FilePath)
	m.store.AssertExpectations(t)
}

func TestDocumentService_Analyze_PreviewTruncation(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)

	extracted := strings.Repeat("a", 800)
	analyzeSetup(m, "uploads/big.pdf")
	m.extractor.On("Text", mock.Anything, 2).Return(extracted, nil)

	res, err := svc.Analyze(ctx, strings.NewReader("%PDF"), "big.pdf")

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 500)+"...", res.TextPreview)
}

func TestDocumentService_Analyze_StorageFailureAborts(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(false)

	m.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("bucket unavailable"))

	res, err := svc.Analyze(ctx, strings.NewReader("%PDF"), "scan.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store artifact: bucket unavailable")
	assert.Nil(t, res)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
