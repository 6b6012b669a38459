package property

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	enc "github.com/MrJamesThe3rd/rentbook/internal/encoding"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=property
type Repository interface {
	CreateProperty(ctx context.Context, p *Property) error
	// FirstProperty returns the oldest property, or ErrNotFound.
	FirstProperty(ctx context.Context) (*Property, error)
	GetPropertyByName(ctx context.Context, name string) (*Property, error)
	ListProperties(ctx context.Context) ([]*Property, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Property, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.Validation("property name is required")
	}

	p := &Property{Name: name, Address: strings.TrimSpace(params.Address)}
	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) List(ctx context.Context) ([]*Property, error) {
	return s.repo.ListProperties(ctx)
}

// Owner resolves the property that newly synced statements are filed under.
// Statements are not yet routed per property, so this is the oldest one.
func (s *Service) Owner(ctx context.Context) (*Property, error) {
	p, err := s.repo.FirstProperty(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.Configuration("no property found; create one first (rentbook seed)")
	}

	if err != nil {
		return nil, fmt.Errorf("resolving owner property: %w", err)
	}

	return p, nil
}

type seedFile struct {
	Properties []CreateParams `yaml:"properties"`
}

type SeedResult struct {
	Created []*Property
	Skipped []string
}

// Seed creates the properties listed in a YAML document, skipping names that
// already exist, so it can be run repeatedly.
func (s *Service) Seed(ctx context.Context, r io.Reader) (*SeedResult, error) {
	utf8r, _, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	var file seedFile
	if err := yaml.NewDecoder(utf8r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperr.Validation("reading seed file: %v", err)
	}

	res := &SeedResult{}

	for _, params := range file.Properties {
		existing, err := s.repo.GetPropertyByName(ctx, strings.TrimSpace(params.Name))
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("looking up property %q: %w", params.Name, err)
		}

		if existing != nil {
			res.Skipped = append(res.Skipped, existing.Name)
			continue
		}

		p, err := s.Create(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("creating property %q: %w", params.Name, err)
		}

		res.Created = append(res.Created, p)
	}

	return res, nil
}
