package slo

import (
	"cmp"
	"slices"
	"strings"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	"golang.org/x/text/cases"
)

// Filter returns the records matching the criteria, in input order.
func Filter(records []*aggregates.SLO, criteria aggregates.Criteria) []*aggregates.SLO {
	fold := cases.Fold()
	search := fold.String(criteria.Search)
	owner := fold.String(criteria.Owner)
	result := []*aggregates.SLO{}
	for _, record := range records {
		if search != "" &&
			!strings.Contains(fold.String(record.Name), search) &&
			!strings.Contains(fold.String(record.Description), search) {
			continue
		}
		if criteria.Service != "" && record.Service != criteria.Service {
			continue
		}
		if criteria.Status != "" && record.Status != criteria.Status {
			continue
		}
		if record.Target < criteria.ThresholdMin || record.Target > criteria.ThresholdMax {
			continue
		}
		if owner != "" && !strings.Contains(fold.String(record.Owner), owner) {
			continue
		}
		result = append(result, record)
	}
	return result
}

func ValidSortKey(key aggregates.SortKey) bool {
	switch key {
	case aggregates.SortByName, aggregates.SortByService, aggregates.SortByTarget,
		aggregates.SortByStatus, aggregates.SortByLastModified, aggregates.SortByOwner,
		aggregates.SortByCurrentValue:
		return true
	}
	return false
}

// Sort returns a sorted copy of the records. Equal keys keep their
// relative order. Records without a current value sort first.
func Sort(records []*aggregates.SLO, sort aggregates.Sort) []*aggregates.SLO {
	result := slices.Clone(records)
	if sort.Key == "" {
		return result
	}
	compare := comparator(sort.Key)
	slices.SortStableFunc(result, func(a, b *aggregates.SLO) int {
		c := compare(a, b)
		if sort.Direction == aggregates.Descending {
			return -c
		}
		return c
	})
	return result
}

func comparator(key aggregates.SortKey) func(a, b *aggregates.SLO) int {
	switch key {
	case aggregates.SortByName:
		return func(a, b *aggregates.SLO) int { return cmp.Compare(a.Name, b.Name) }
	case aggregates.SortByService:
		return func(a, b *aggregates.SLO) int { return cmp.Compare(a.Service, b.Service) }
	case aggregates.SortByTarget:
		return func(a, b *aggregates.SLO) int { return cmp.Compare(a.Target, b.Target) }
	case aggregates.SortByStatus:
		return func(a, b *aggregates.SLO) int { return cmp.Compare(a.Status, b.Status) }
	case aggregates.SortByLastModified:
		return func(a, b *aggregates.SLO) int { return a.LastModified.Compare(b.LastModified) }
	case aggregates.SortByOwner:
		return func(a, b *aggregates.SLO) int { return cmp.Compare(a.Owner, b.Owner) }
	case aggregates.SortByCurrentValue:
		return func(a, b *aggregates.SLO) int {
			switch {
			case a.CurrentValue == nil && b.CurrentValue == nil:
				return 0
			case a.CurrentValue == nil:
				return -1
			case b.CurrentValue == nil:
				return 1
			}
			return cmp.Compare(*a.CurrentValue, *b.CurrentValue)
		}
	}
	return func(a, b *aggregates.SLO) int { return 0 }
}
