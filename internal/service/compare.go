package service

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/metrics"
	"github.com/mtlprog/agentdesk/internal/repository"
)

// fieldSpec extracts one comparable value from a detail.
type fieldSpec struct {
	field string
	label string
	value func(d *domain.VersionDetail) any
}

var comparedFields = []fieldSpec{
	{domain.FieldName, "Name", func(d *domain.VersionDetail) any { return d.Profile.Name }},
	{domain.FieldModel, "Model", func(d *domain.VersionDetail) any {
		return domain.ModelRef{ID: d.Profile.ModelID, Name: d.Profile.ModelName}
	}},
	{domain.FieldMaxSteps, "Max steps", func(d *domain.VersionDetail) any { return d.Profile.MaxSteps }},
	{domain.FieldDescription, "Description", func(d *domain.VersionDetail) any { return d.Profile.Description }},
	{domain.FieldDutyPrompt, "Duty prompt", func(d *domain.VersionDetail) any { return d.Profile.DutyPrompt }},
	{domain.FieldConstraintPrompt, "Constraint prompt", func(d *domain.VersionDetail) any { return d.Profile.ConstraintPrompt }},
	{domain.FieldFewShotsPrompt, "Few-shot examples", func(d *domain.VersionDetail) any { return d.Profile.FewShotsPrompt }},
	{domain.FieldTools, "Tools", func(d *domain.VersionDetail) any { return toolSummary(d.Tools) }},
	{domain.FieldSubAgents, "Sub-agents", func(d *domain.VersionDetail) any { return len(d.SubAgentIDs) }},
}

// CompareDetails compares a and b field by field.
func CompareDetails(a, b *domain.VersionDetail) *domain.Comparison {
	result := &domain.Comparison{
		VersionA:    a,
		VersionB:    b,
		Fields:      make([]domain.FieldComparison, 0, len(comparedFields)),
		Differences: []domain.FieldComparison{},
	}

	for _, spec := range comparedFields {
		valueA, valueB := spec.value(a), spec.value(b)
		fc := domain.FieldComparison{
			Field:   spec.field,
			Label:   spec.label,
			ValueA:  valueA,
			ValueB:  valueB,
			Changed: !reflect.DeepEqual(valueA, valueB),
		}
		result.Fields = append(result.Fields, fc)
		if fc.Changed {
			result.Differences = append(result.Differences, fc)
		}
	}

	return result
}

// toolSummary reduces a tool list to its count and sorted distinct tool ids.
func toolSummary(tools []domain.ToolInstance) domain.ToolSummary {
	ids := make([]int64, 0, len(tools))
	for _, t := range tools {
		ids = append(ids, t.ToolID)
	}
	slices.Sort(ids)
	return domain.ToolSummary{Count: len(tools), ToolIDs: slices.Compact(ids)}
}

// VersionComparator compares two configurations of one agent.
type VersionComparator struct {
	store   repository.Reader
	builder *SnapshotBuilder
	metrics *metrics.Metrics
	retry   ReadRetry
}

// NewVersionComparator creates a new VersionComparator.
func NewVersionComparator(store repository.Reader, m *metrics.Metrics, policy ReadRetry) *VersionComparator {
	return &VersionComparator{
		store:   store,
		builder: NewSnapshotBuilder(),
		metrics: m,
		retry:   policy,
	}
}

// Compare compares versionA with versionB. Version number 0 is the draft.
func (c *VersionComparator) Compare(
	ctx context.Context,
	caller domain.Caller,
	agentID int64,
	versionA, versionB int,
) (result *domain.Comparison, err error) {
	defer func(start time.Time) { c.metrics.ObserveOperation("compare", start, err) }(time.Now())

	for _, no := range []int{versionA, versionB} {
		if no < 0 {
			return nil, fmt.Errorf("%w: %d", domain.ErrInvalidVersionNo, no)
		}
	}

	err = retryRead(ctx, c.retry, func() error {
		agent, err := c.store.GetAgent(ctx, caller.TenantID, agentID)
		if err != nil {
			return err
		}

		a, err := c.builder.Resolve(ctx, c.store, agent, versionA)
		if err != nil {
			return err
		}

		b, err := c.builder.Resolve(ctx, c.store, agent, versionB)
		if err != nil {
			return err
		}

		result = CompareDetails(a, b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
