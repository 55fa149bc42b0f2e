// Package seed loads reference data from a YAML fixture.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fizato/federation/internal/apperr"
	"github.com/fizato/federation/internal/bureau"
	"github.com/fizato/federation/internal/federation"
	"github.com/fizato/federation/internal/mandate"
)

//go:embed federation.yaml
var defaultFixture []byte

// Fixture is the reference data of a fresh installation
type Fixture struct {
	Federation *Profile   `yaml:"federation"`
	Functions  []Function `yaml:"functions"`
	Mandate    *Mandate   `yaml:"mandate"`
}

type Profile struct {
	ShortName   string `yaml:"shortName"`
	FullName    string `yaml:"fullName"`
	FoundedOn   string `yaml:"foundedOn"`
	Motto       string `yaml:"motto"`
	Founders    string `yaml:"founders"`
	Description string `yaml:"description"`
	LogoPath    string `yaml:"logoPath"`
}

type Function struct {
	Name        string `yaml:"name"`
	Rank        int    `yaml:"rank"`
	Description string `yaml:"description"`
	Singular    bool   `yaml:"singular"`
}

// Mandate is opened only when no mandate is in progress
type Mandate struct {
	Name        string `yaml:"name"`
	StartDate   string `yaml:"startDate"`
	Description string `yaml:"description"`
}

// Default returns the embedded fixture
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

// Load reads a fixture file
func Load(path string) (*Fixture, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(buf)
}

// Parse decodes and checks a fixture
func Parse(buf []byte) (*Fixture, error) {
	f := &Fixture{}
	if err := yaml.Unmarshal(buf, f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	seen := make(map[string]bool, len(f.Functions))
	for i, fn := range f.Functions {
		if fn.Name == "" {
			return nil, fmt.Errorf("function %d has no name", i+1)
		}
		if fn.Rank < 1 {
			return nil, fmt.Errorf("function %q needs a rank of at least 1", fn.Name)
		}
		if seen[fn.Name] {
			return nil, fmt.Errorf("function %q is listed twice", fn.Name)
		}
		seen[fn.Name] = true
	}
	if f.Mandate != nil && f.Mandate.Name == "" {
		return nil, errors.New("mandate has no name")
	}
	return f, nil
}

// Services receive the fixture
type Services struct {
	Federation *federation.Service
	Bureau     *bureau.Service
	Mandates   *mandate.Service
}

// Result counts what Apply created
type Result struct {
	FunctionsCreated int
	MandateOpened    bool
}

// Apply stores the fixture. Functions that already exist by name are left
// untouched, so applying twice is harmless.
func (f *Fixture) Apply(ctx context.Context, svc Services, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	result := &Result{}

	if p := f.Federation; p != nil {
		_, err := svc.Federation.UpdateProfile(ctx, &federation.UpdateProfileRequest{
			ShortName:   optional(p.ShortName),
			FullName:    optional(p.FullName),
			FoundedOn:   optional(p.FoundedOn),
			Motto:       optional(p.Motto),
			Founders:    optional(p.Founders),
			Description: optional(p.Description),
			LogoPath:    optional(p.LogoPath),
		})
		if err != nil {
			return nil, err
		}
	}

	existing, err := svc.Bureau.ListFunctions(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(existing))
	for _, fn := range existing {
		names[fn.Name] = true
	}
	for _, fn := range f.Functions {
		if names[fn.Name] {
			continue
		}
		_, err := svc.Bureau.CreateFunction(ctx, &bureau.CreateFunctionRequest{
			Name:        fn.Name,
			Rank:        fn.Rank,
			Description: optional(fn.Description),
			Singular:    fn.Singular,
		})
		if err != nil {
			return nil, fmt.Errorf("creating function %q: %w", fn.Name, err)
		}
		result.FunctionsCreated++
	}

	if m := f.Mandate; m != nil {
		_, err := svc.Mandates.Create(ctx, &mandate.CreateMandateRequest{
			Name:        m.Name,
			StartDate:   optional(m.StartDate),
			Description: optional(m.Description),
		})
		switch {
		case err == nil:
			result.MandateOpened = true
		case errors.Is(err, apperr.ErrConflict):
			logger.Info("mandate already in progress, fixture mandate skipped", "name", m.Name)
		default:
			return nil, err
		}
	}

	logger.Info("fixture applied",
		"functions_created", result.FunctionsCreated,
		"mandate_opened", result.MandateOpened,
	)
	return result, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
