package fund

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/glbter/fund-advisor/entities"
)

type Catalog interface {
	ListAll() []entities.Fund
	FindByID(id int) (entities.Fund, error)
}

type Service struct {
	catalog Catalog
	logger  *zap.Logger
}

func NewService(catalog Catalog, logger *zap.Logger) Service {
	return Service{
		catalog: catalog,
		logger:  logger.With(zap.String("caller", "FundService")),
	}
}

type historyStep struct {
	date   string
	risk   int
	offset float64
}

var historySteps = []historyStep{
	{date: "2024-01-01", risk: 2, offset: -2},
	{date: "2024-02-01", risk: 3, offset: -1},
	{date: "2024-03-01", risk: 2, offset: 0},
	{date: "2024-04-01", risk: 3, offset: 1},
	{date: "2024-05-01", risk: 2, offset: 0.5},
}

func (s Service) ListFunds() []entities.Fund {
	return s.catalog.ListAll()
}

func (s Service) GetFundDetail(id int) (entities.FundDetail, error) {
	f, err := s.catalog.FindByID(id)
	if err != nil {
		return entities.FundDetail{}, fmt.Errorf("find fund %d: %w", id, err)
	}

	return entities.FundDetail{
		Fund:    f,
		History: history(f),
	}, nil
}

func history(f entities.Fund) []entities.HistoryPoint {
	points := make([]entities.HistoryPoint, 0, len(historySteps))
	for _, step := range historySteps {
		points = append(points, entities.HistoryPoint{
			Date:   step.date,
			Risk:   step.risk,
			Return: f.Returns + step.offset,
		})
	}

	return points
}

func (s Service) AnalyzeFund(id int) (entities.Analysis, error) {
	f, err := s.catalog.FindByID(id)
	if err != nil {
		return entities.Analysis{}, fmt.Errorf("find fund %d: %w", id, err)
	}

	return entities.Analysis{
		Summary: fmt.Sprintf("This fund typically performs well in %s sectors with a %s risk profile.", f.Sector, f.Risk),
	}, nil
}

// Recommend keeps funds whose risk equals risk and whose sector contains
// sector, both compared case-insensitively. Catalog order is preserved.
func (s Service) Recommend(risk, sector string) entities.Recommendation {
	risk = strings.ToLower(risk)
	sector = strings.ToLower(sector)

	var matches []entities.Fund
	for _, f := range s.catalog.ListAll() {
		if strings.ToLower(f.Risk) == risk && strings.Contains(strings.ToLower(f.Sector), sector) {
			matches = append(matches, f)
		}
	}

	if len(matches) == 0 {
		s.logger.Debug("no recommendation match", zap.String("risk", risk), zap.String("sector", sector))
		return entities.NoMatch()
	}

	return entities.Matches(matches)
}
