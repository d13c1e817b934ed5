package slo

import (
	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
)

// View is the list page state: the records, the active criteria and the
// selected ids. The selection only lives as long as the criteria do.
type View struct {
	records  []*aggregates.SLO
	criteria aggregates.Criteria
	sort     aggregates.Sort
	selected map[string]bool
}

func NewView(records []*aggregates.SLO) *View {
	return &View{
		records:  records,
		criteria: aggregates.DefaultCriteria(),
		selected: make(map[string]bool),
	}
}

func (v *View) SetCriteria(criteria aggregates.Criteria) {
	v.criteria = criteria
	v.clearSelection()
}

func (v *View) ClearCriteria() {
	v.criteria = aggregates.DefaultCriteria()
	v.clearSelection()
}

func (v *View) SetSort(sort aggregates.Sort) {
	v.sort = sort
}

func (v *View) Criteria() aggregates.Criteria {
	return v.criteria
}

func (v *View) Visible() []*aggregates.SLO {
	return Sort(Filter(v.records, v.criteria), v.sort)
}

// Select toggles the selection of the given visible records.
func (v *View) Select(ids ...string) {
	visible := make(map[string]bool)
	for _, record := range Filter(v.records, v.criteria) {
		visible[record.ID] = true
	}
	for _, id := range ids {
		if !visible[id] {
			continue
		}
		if v.selected[id] {
			delete(v.selected, id)
		} else {
			v.selected[id] = true
		}
	}
}

func (v *View) SelectAll() {
	for _, record := range Filter(v.records, v.criteria) {
		v.selected[record.ID] = true
	}
}

// Selected returns the selected ids in visible order.
func (v *View) Selected() []string {
	result := []string{}
	for _, record := range v.Visible() {
		if v.selected[record.ID] {
			result = append(result, record.ID)
		}
	}
	return result
}

// Replace swaps the records after a bulk action and drops the selection.
func (v *View) Replace(records []*aggregates.SLO) {
	v.records = records
	v.clearSelection()
}

func (v *View) clearSelection() {
	v.selected = make(map[string]bool)
}
