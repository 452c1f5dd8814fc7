package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/internal/transfer"
)

type TemplateService interface {
	Create(ctx context.Context, tc *transfer.TemplateCreation) (int64, error)
	TemplateInfo(ctx context.Context, id int64) (*models.MessageTemplate, error)
	List(ctx context.Context, accountID int64, kind string) ([]*models.MessageTemplate, error)
	Update(ctx context.Context, id int64, tc *transfer.TemplateCreation) error
	Remove(ctx context.Context, id int64) error
}

type templateService struct {
	tr repository.TemplateRepository
}

func NewTemplateService(tr repository.TemplateRepository) TemplateService {
	return &templateService{tr: tr}
}

func validTemplateKind(kind string) bool {
	switch kind {
	case models.TemplateKindComment, models.TemplateKindDM, models.TemplateKindCaption:
		return true
	}
	return false
}

func (s *templateService) Create(ctx context.Context, tc *transfer.TemplateCreation) (int64, error) {
	var err error

	if tc.Name == "" {
		err = errors.New("template name cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if tc.Body == "" {
		err = errors.New("template body cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if !validTemplateKind(tc.Kind) {
		err = errors.New("invalid template kind")
		slog.Info(err.Error())
		return 0, err
	}

	return s.tr.Create(ctx, &models.MessageTemplate{
		AccountID: tc.AccountID,
		Kind:      tc.Kind,
		Name:      tc.Name,
		Body:      tc.Body,
	})
}

func (s *templateService) TemplateInfo(ctx context.Context, id int64) (*models.MessageTemplate, error) {
	tmpl, err := s.tr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		err = errors.New("template doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}
	return tmpl, nil
}

func (s *templateService) List(ctx context.Context, accountID int64, kind string) ([]*models.MessageTemplate, error) {
	return s.tr.List(ctx, accountID, kind)
}

func (s *templateService) Update(ctx context.Context, id int64, tc *transfer.TemplateCreation) error {
	tmpl, err := s.tr.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tmpl == nil {
		err = errors.New("template doesn't exist")
		slog.Info(err.Error())
		return err
	}

	if tc.Name != "" {
		tmpl.Name = tc.Name
	}
	if tc.Body != "" {
		tmpl.Body = tc.Body
	}
	if tc.Kind != "" {
		if !validTemplateKind(tc.Kind) {
			err = errors.New("invalid template kind")
			slog.Info(err.Error())
			return err
		}
		tmpl.Kind = tc.Kind
	}

	return s.tr.Update(ctx, tmpl)
}

func (s *templateService) Remove(ctx context.Context, id int64) error {
	return s.tr.Remove(ctx, id)
}
