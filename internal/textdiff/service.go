package textdiff

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"pdfcompare/internal/logger"
	"pdfcompare/internal/tokens"
)

// Service diffs pages of two documents read from a token source.
type Service struct {
	source tokens.Source
	log    zerolog.Logger
}

// NewService creates a Service reading documents from source.
func NewService(source tokens.Source) *Service {
	return &Service{
		source: source,
		log:    logger.WithComponent("textdiff"),
	}
}

// DiffPage compares page number page (1-based) of the left and right
// documents. A page missing from a document contributes no words.
func (s *Service) DiffPage(ctx context.Context, left, right string, page int) (*Result, error) {
	const op = "DiffPage"

	leftDoc, rightDoc, err := s.open(ctx, left, right)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.diff(leftDoc, rightDoc, page)
}

// DiffDocument compares every page up to the larger page count of the two
// documents.
func (s *Service) DiffDocument(ctx context.Context, left, right string) ([]*Result, error) {
	const op = "DiffDocument"

	leftDoc, rightDoc, err := s.open(ctx, left, right)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pages := max(leftDoc.NumPages(), rightDoc.NumPages())
	results := make([]*Result, 0, pages)
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result, err := s.diff(leftDoc, rightDoc, page)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) open(ctx context.Context, left, right string) (tokens.Document, tokens.Document, error) {
	if err := tokens.Ready(s.source); err != nil {
		return nil, nil, err
	}
	leftDoc, err := s.source.Open(ctx, left)
	if err != nil {
		return nil, nil, err
	}
	rightDoc, err := s.source.Open(ctx, right)
	if err != nil {
		return nil, nil, err
	}
	return leftDoc, rightDoc, nil
}

func (s *Service) diff(leftDoc, rightDoc tokens.Document, page int) (*Result, error) {
	start := time.Now()

	leftPage, err := leftDoc.Words(page)
	if err != nil {
		return nil, err
	}
	rightPage, err := rightDoc.Words(page)
	if err != nil {
		return nil, err
	}

	leftWords := PageWords(leftPage)
	rightWords := PageWords(rightPage)
	result := Compare(page, leftWords, rightWords)

	s.log.Debug().
		Str("left", leftDoc.Location()).
		Str("right", rightDoc.Location()).
		Int("page", page).
		Int("left_words", len(leftWords)).
		Int("right_words", len(rightWords)).
		Int("left_only", len(result.Left)).
		Int("right_only", len(result.Right)).
		Int("improved", result.ImprovedCount()).
		Dur("duration", time.Since(start)).
		Msg("Page compared")

	return result, nil
}
