package settingsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SuperarseTics/library-superarse-backend/model"
)

type ErrCode string

const (
	ErrSectionNotFound ErrCode = "SECTION_NOT_FOUND"
	ErrUnknownSection  ErrCode = "UNKNOWN_SECTION"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	FindBySection(ctx context.Context, section string) (*model.Setting, error)
	All(ctx context.Context) ([]model.Setting, error)
	UpdateProperties(ctx context.Context, section string, properties map[string]any) error
}

type Service interface {
	Index(ctx context.Context) ([]model.Setting, error)
	Rules(ctx context.Context) (map[string]any, error)
	Update(ctx context.Context, req model.UpdateSettingsReq) error

	// Typed accessors consumed by the booking engine and the sweeps.
	System(ctx context.Context) (model.SystemRules, error)
	Notifications(ctx context.Context) (model.NotificationRules, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Index(ctx context.Context) ([]model.Setting, error) {
	return s.r.All(ctx)
}

func (s *service) Rules(ctx context.Context) (map[string]any, error) {
	set, err := s.r.FindBySection(ctx, model.SectionRules)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrSectionNotFound)
		}
		return nil, err
	}
	return set.Properties, nil
}

var knownSections = map[string]bool{
	model.SectionSystem:        true,
	model.SectionNotifications: true,
	model.SectionRules:         true,
}

func (s *service) Update(ctx context.Context, req model.UpdateSettingsReq) error {
	for section, properties := range req {
		if !knownSections[section] {
			return makeErr(ErrUnknownSection)
		}
		if err := s.r.UpdateProperties(ctx, section, properties); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return makeErr(ErrSectionNotFound)
			}
			return err
		}
	}
	return nil
}

// System reads the lending-policy knobs. A missing section or property
// yields zero values, which the engine treats as "unlimited".
func (s *service) System(ctx context.Context) (model.SystemRules, error) {
	set, err := s.r.FindBySection(ctx, model.SectionSystem)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SystemRules{}, nil
		}
		return model.SystemRules{}, err
	}
	return model.SystemRules{
		MaxLoanDays:  intProp(set.Properties, "max_loan_days"),
		MaxLoanBooks: intProp(set.Properties, "max_loan_books"),
	}, nil
}

func (s *service) Notifications(ctx context.Context) (model.NotificationRules, error) {
	set, err := s.r.FindBySection(ctx, model.SectionNotifications)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NotificationRules{}, nil
		}
		return model.NotificationRules{}, err
	}
	return model.NotificationRules{
		Email:       stringProp(set.Properties, "email"),
		LastDay:     boolProp(set.Properties, "last_day"),
		DaysAdvance: intProp(set.Properties, "days_advance"),
	}, nil
}

// JSONB properties decode numbers as float64 and may hold strings from
// hand-edited sections, so the accessors coerce.

func intProp(p map[string]any, key string) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func stringProp(p map[string]any, key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func boolProp(p map[string]any, key string) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return false
}
