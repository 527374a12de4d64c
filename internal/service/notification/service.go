package notification

import (
	"context"
	"time"

	"tailorstudio/internal/domain"
	individualrepo "tailorstudio/internal/repository/individual"
	"tailorstudio/internal/notify"
)

type individualLister interface {
	List(ctx context.Context, filter individualrepo.ListFilter) ([]domain.Individual, error)
}

type familyLister interface {
	List(ctx context.Context) ([]domain.Family, error)
}

// Service evaluates due-soon reminders over the stored orders. Family
// members are covered by their family's order.
type Service struct {
	individuals individualLister
	families    familyLister
	loc         *time.Location
	now         func() time.Time
}

func New(individuals individualLister, families familyLister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{individuals: individuals, families: families, loc: loc, now: time.Now}
}

// Due lists the reminders for today, minus the dismissed pairs.
func (s *Service) Due(ctx context.Context, dismissed notify.Dismissals) ([]notify.Notice, error) {
	individuals, err := s.individuals.List(ctx, individualrepo.ListFilter{})
	if err != nil {
		return nil, err
	}
	families, err := s.families.List(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]notify.Order, 0, len(individuals)+len(families))
	for _, in := range individuals {
		orders = append(orders, notify.Order{
			ID:           in.ID,
			Type:         domain.ResultIndividual,
			Name:         in.FullName(),
			DeliveryDate: in.DeliveryDate,
		})
	}
	for _, f := range families {
		orders = append(orders, notify.Order{
			ID:           f.ID,
			Type:         domain.ResultFamily,
			Name:         f.FamilyName,
			DeliveryDate: f.DeliveryDate,
		})
	}
	if dismissed == nil {
		dismissed = notify.Dismissals{}
	}
	return notify.Due(orders, s.now(), s.loc, dismissed), nil
}
