package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// DashboardFilterParams are the optional query filters of dashboard endpoints.
type DashboardFilterParams struct {
	User    *int64  `form:"user"`
	Office  *string `form:"office"`
	Head    *string `form:"head"`
	Subhead *string `form:"subhead"`
	Date    *string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ToDomain drops empty values and parses the date.
func (p DashboardFilterParams) ToDomain() (domain.DashboardFilter, error) {
	f := domain.DashboardFilter{
		UserID:  p.User,
		Office:  nonEmpty(p.Office),
		Head:    nonEmpty(p.Head),
		Subhead: nonEmpty(p.Subhead),
	}
	if d := nonEmpty(p.Date); d != nil {
		t, err := time.Parse(DateLayout, *d)
		if err != nil {
			return domain.DashboardFilter{}, fmt.Errorf("invalid date %q: %w", *d, err)
		}
		f.Date = &t
	}
	return f, nil
}

// TopParams extends the filters with the number of slices to return.
type TopParams struct {
	DashboardFilterParams
	Top int `form:"top,default=3" binding:"min=1,max=50"`
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
