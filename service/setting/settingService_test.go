package settingsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SuperarseTics/library-superarse-backend/model"
)

type repoMock struct {
	findBySectionFn func(ctx context.Context, section string) (*model.Setting, error)
	allFn           func(ctx context.Context) ([]model.Setting, error)
	updatePropsFn   func(ctx context.Context, section string, properties map[string]any) error
}

func (m *repoMock) FindBySection(ctx context.Context, section string) (*model.Setting, error) {
	return m.findBySectionFn(ctx, section)
}
func (m *repoMock) All(ctx context.Context) ([]model.Setting, error) { return m.allFn(ctx) }
func (m *repoMock) UpdateProperties(ctx context.Context, section string, properties map[string]any) error {
	return m.updatePropsFn(ctx, section, properties)
}

func TestSystem_CoercesJSONBNumbers(t *testing.T) {
	s := New(&repoMock{findBySectionFn: func(ctx context.Context, section string) (*model.Setting, error) {
		require.Equal(t, model.SectionSystem, section)
		// JSONB round-trips numbers as float64
		return &model.Setting{Section: section, Properties: map[string]any{
			"max_loan_days":  float64(7),
			"max_loan_books": float64(3),
		}}, nil
	}})

	rules, err := s.System(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, rules.MaxLoanDays)
	require.Equal(t, 3, rules.MaxLoanBooks)
}

func TestSystem_MissingSectionMeansUnlimited(t *testing.T) {
	s := New(&repoMock{findBySectionFn: func(ctx context.Context, section string) (*model.Setting, error) {
		return nil, sql.ErrNoRows
	}})

	rules, err := s.System(context.Background())
	require.NoError(t, err)
	require.Zero(t, rules.MaxLoanBooks)
	require.Zero(t, rules.MaxLoanDays)
}

func TestNotifications_Defaults(t *testing.T) {
	s := New(&repoMock{findBySectionFn: func(ctx context.Context, section string) (*model.Setting, error) {
		return &model.Setting{Section: section, Properties: map[string]any{
			"email":    "admin@superarse.edu.ec",
			"last_day": true,
			// days_advance missing on purpose
		}}, nil
	}})

	rules, err := s.Notifications(context.Background())
	require.NoError(t, err)
	require.Equal(t, "admin@superarse.edu.ec", rules.Email)
	require.True(t, rules.LastDay)
	require.Zero(t, rules.DaysAdvance)
}

func TestRules_SectionNotFound(t *testing.T) {
	s := New(&repoMock{findBySectionFn: func(ctx context.Context, section string) (*model.Setting, error) {
		return nil, sql.ErrNoRows
	}})

	_, err := s.Rules(context.Background())
	require.Equal(t, ErrSectionNotFound, Code(err))
}

func TestUpdate_UnknownSectionRejected(t *testing.T) {
	s := New(&repoMock{updatePropsFn: func(ctx context.Context, section string, properties map[string]any) error {
		t.Fatal("repo should not be called for an unknown section")
		return nil
	}})

	err := s.Update(context.Background(), model.UpdateSettingsReq{
		"billing": {"currency": "USD"},
	})
	require.Equal(t, ErrUnknownSection, Code(err))
}

func TestUpdate_KnownSections(t *testing.T) {
	var updated []string
	s := New(&repoMock{updatePropsFn: func(ctx context.Context, section string, properties map[string]any) error {
		updated = append(updated, section)
		return nil
	}})

	err := s.Update(context.Background(), model.UpdateSettingsReq{
		model.SectionSystem: {"max_loan_books": 5},
	})
	require.NoError(t, err)
	require.Equal(t, []string{model.SectionSystem}, updated)
}
