package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/classifier"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/repository"
)

// MaxContentLength is measured in characters, not bytes.
const MaxContentLength = 10000

var (
	ErrFlagNotFound          = errors.New("flagged item not found")
	ErrClassifierUnavailable = errors.New("classifier unavailable, try again later")
)

// ValidationError describes a rejected input field. It never reaches the
// store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type CreateFlagInput struct {
	ContentType string
	Content     string
}

type FlagService struct {
	repo       repository.FlagRepository
	classifier classifier.Classifier
}

func NewFlagService(repo repository.FlagRepository, c classifier.Classifier) *FlagService {
	return &FlagService{repo: repo, classifier: c}
}

// Create validates, classifies once and stores the item as pending. The
// priority and summary assigned here are never recomputed.
func (s *FlagService) Create(ctx context.Context, ownerID string, in CreateFlagInput) (*models.FlaggedItem, error) {
	contentType, err := models.ParseContentType(in.ContentType)
	if err != nil {
		return nil, &ValidationError{Field: "content_type", Message: err.Error()}
	}
	content, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}

	res, err := s.classifier.Classify(ctx, contentType, content)
	if err != nil {
		if errors.Is(err, classifier.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
		}
		return nil, fmt.Errorf("failed to classify content: %w", err)
	}

	id, err := s.repo.Create(ctx, repository.NewFlag{
		OwnerID:     ownerID,
		ContentType: contentType,
		Content:     content,
		Priority:    res.Priority,
		Summary:     res.Summary,
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id, ownerID)
}

func (s *FlagService) Get(ctx context.Context, id int64, ownerID string) (*models.FlaggedItem, error) {
	item, err := s.repo.Get(ctx, id, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFlagNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// List accepts raw filter values; empty strings mean no filter.
func (s *FlagService) List(ctx context.Context, ownerID, status, priority string) ([]models.FlaggedItem, error) {
	var filter repository.ListFilter
	if status != "" {
		st, err := models.ParseStatus(status)
		if err != nil {
			return nil, &ValidationError{Field: "status", Message: err.Error()}
		}
		filter.Status = st
	}
	if priority != "" {
		p, err := models.ParsePriority(priority)
		if err != nil {
			return nil, &ValidationError{Field: "priority", Message: err.Error()}
		}
		filter.Priority = p
	}
	return s.repo.List(ctx, ownerID, filter)
}

// UpdateStatus accepts any of the four statuses from any current status.
func (s *FlagService) UpdateStatus(ctx context.Context, id int64, ownerID, status string) (*models.FlaggedItem, error) {
	st, err := models.ParseStatus(status)
	if err != nil {
		return nil, &ValidationError{Field: "status", Message: err.Error()}
	}

	ok, err := s.repo.UpdateStatus(ctx, id, ownerID, st)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrFlagNotFound
	}
	return s.Get(ctx, id, ownerID)
}

func (s *FlagService) Delete(ctx context.Context, id int64, ownerID string) error {
	ok, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFlagNotFound
	}
	return nil
}

func (s *FlagService) Stats(ctx context.Context, ownerID string) (*models.Stats, error) {
	return s.repo.Stats(ctx, ownerID)
}

func normalizeContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", &ValidationError{Field: "content", Message: "content must not be empty"}
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", &ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("content must be at most %d characters", MaxContentLength),
		}
	}
	return content, nil
}
