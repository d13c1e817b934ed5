package slo

import (
	"fmt"
	"reflect"
	"time"

	"github.com/appclacks/slo-dashboard/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
)

func ValidAction(action aggregates.Action) bool {
	switch action {
	case aggregates.ActionDuplicate, aggregates.ActionDelete, aggregates.ActionEnable,
		aggregates.ActionDisable, aggregates.ActionExport:
		return true
	}
	return false
}

// Apply runs a bulk action on a snapshot of records and returns the new
// collection. The input slice and its records are never modified, and
// records not targeted by ids are returned as is.
func Apply(action aggregates.Action, ids []string, records []*aggregates.SLO, now time.Time) ([]*aggregates.SLO, error) {
	targets := make(map[string]bool, len(ids))
	for _, id := range ids {
		targets[id] = true
	}
	switch action {
	case aggregates.ActionDuplicate:
		return duplicate(ids, targets, records, now), nil
	case aggregates.ActionDelete:
		result := []*aggregates.SLO{}
		for _, record := range records {
			if !targets[record.ID] {
				result = append(result, record)
			}
		}
		return result, nil
	case aggregates.ActionEnable, aggregates.ActionDisable:
		enabled := action == aggregates.ActionEnable
		result := make([]*aggregates.SLO, 0, len(records))
		for _, record := range records {
			if !targets[record.ID] {
				result = append(result, record)
				continue
			}
			updated := record.Copy()
			updated.MonitoringEnabled = enabled
			updated.LastModified = now
			result = append(result, updated)
		}
		return result, nil
	case aggregates.ActionExport:
		return append([]*aggregates.SLO{}, records...), nil
	}
	return nil, er.Newf("unknown bulk action %s", er.BadRequest, true, action)
}

func duplicate(ids []string, targets map[string]bool, records []*aggregates.SLO, now time.Time) []*aggregates.SLO {
	result := append([]*aggregates.SLO{}, records...)
	existing := make(map[string]bool, len(records))
	byID := make(map[string]*aggregates.SLO, len(records))
	for _, record := range records {
		existing[record.ID] = true
		byID[record.ID] = record
	}
	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		original, ok := byID[id]
		if !ok || done[id] || !targets[id] {
			continue
		}
		done[id] = true
		clone := original.Copy()
		clone.ID = uniqueID(fmt.Sprintf("%s-copy-%d", original.ID, now.UnixMilli()), existing)
		clone.Name = fmt.Sprintf("%s (Copy)", original.Name)
		if clone.Config != nil {
			clone.Config.Name = clone.Name
		}
		clone.Version = 1
		clone.CreatedAt = now
		clone.LastModified = now
		existing[clone.ID] = true
		result = append(result, clone)
	}
	return result
}

func uniqueID(candidate string, existing map[string]bool) string {
	if !existing[candidate] {
		return candidate
	}
	for i := 1; ; i++ {
		id := fmt.Sprintf("%s-%d", candidate, i)
		if !existing[id] {
			return id
		}
	}
}

// Diff computes the store operations turning before into after.
func Diff(before []*aggregates.SLO, after []*aggregates.SLO) aggregates.Changes {
	changes := aggregates.Changes{}
	previous := make(map[string]*aggregates.SLO, len(before))
	for _, record := range before {
		previous[record.ID] = record
	}
	kept := make(map[string]bool, len(after))
	for _, record := range after {
		kept[record.ID] = true
		old, ok := previous[record.ID]
		if !ok {
			changes.Created = append(changes.Created, record)
			continue
		}
		if old != record && !reflect.DeepEqual(old, record) {
			changes.Updated = append(changes.Updated, record)
		}
	}
	for _, record := range before {
		if !kept[record.ID] {
			changes.Deleted = append(changes.Deleted, record.ID)
		}
	}
	return changes
}
