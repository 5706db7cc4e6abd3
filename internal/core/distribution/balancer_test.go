package distribution_test

import (
	"testing"

	"github.com/finerp-io/finerp_backend/internal/core/distribution"
	"github.com/finerp-io/finerp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapLookup is a test double for the segment collaborator.
type mapLookup map[string]domain.Segment

func (m mapLookup) FindSegment(segmentID string) (*domain.Segment, bool) {
	seg, ok := m[segmentID]
	if !ok {
		return nil, false
	}
	return &seg, true
}

var costCenterType = domain.SegmentType{
	SegmentTypeID: "st-cc",
	Name:          "CostCenter",
	IsRequired:    true,
	HasHierarchy:  true,
}

var segmentFixtures = mapLookup{
	"seg-child":  {SegmentID: "seg-child", SegmentTypeID: "st-cc", NodeType: domain.SegmentNodeChild},
	"seg-parent": {SegmentID: "seg-parent", SegmentTypeID: "st-cc", NodeType: domain.SegmentNodeParent},
	"seg-other":  {SegmentID: "seg-other", SegmentTypeID: "st-dept", NodeType: domain.SegmentNodeChild},
}

func line(lineType domain.LineType, amount int64, segments map[string]string) domain.DistributionLine {
	return domain.DistributionLine{
		AccountID: "acct-1",
		LineType:  lineType,
		Amount:    decimal.NewFromInt(amount),
		Segments:  segments,
	}
}

func withCostCenter() map[string]string {
	return map[string]string{"st-cc": "seg-child"}
}

func TestValidate_BalancedPair(t *testing.T) {
	lines := []domain.DistributionLine{
		line(domain.Debit, 1000, withCostCenter()),
		line(domain.Credit, 1000, withCostCenter()),
	}

	result, err := distribution.Validate(lines, decimal.NewFromInt(1000), []domain.SegmentType{costCenterType}, segmentFixtures)
	require.NoError(t, err)
	assert.True(t, result.Ok(), "expected no violations, got %v", result.Violations)
	assert.NoError(t, result.Err())
}

func TestValidate_Unbalanced(t *testing.T) {
	lines := []domain.DistributionLine{
		line(domain.Debit, 1000, withCostCenter()),
		line(domain.Credit, 900, withCostCenter()),
	}

	result, err := distribution.Validate(lines, decimal.NewFromInt(1000), []domain.SegmentType{costCenterType}, segmentFixtures)
	require.NoError(t, err)
	require.False(t, result.Ok())

	var unbalanced *distribution.UnbalancedError
	require.ErrorAs(t, result.Err(), &unbalanced)
	assert.True(t, unbalanced.DebitTotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, unbalanced.CreditTotal.Equal(decimal.NewFromInt(900)))
}

func TestValidate_TotalMismatch(t *testing.T) {
	lines := []domain.DistributionLine{
		line(domain.Debit, 1000, withCostCenter()),
		line(domain.Credit, 1000, withCostCenter()),
	}

	result, err := distribution.Validate(lines, decimal.NewFromInt(1200), []domain.SegmentType{costCenterType}, segmentFixtures)
	require.NoError(t, err)

	var mismatch *distribution.TotalMismatchError
	require.ErrorAs(t, result.Err(), &mismatch)
	assert.True(t, mismatch.DebitTotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, mismatch.DocumentTotal.Equal(decimal.NewFromInt(1200)))
}

func TestValidate_MissingRequiredSegment(t *testing.T) {
	lines := []domain.DistributionLine{
		line(domain.Debit, 1000, nil), // no cost center at all
		line(domain.Credit, 1000, withCostCenter()),
	}

	result, err := distribution.Validate(lines, decimal.NewFromInt(1000), []domain.SegmentType{costCenterType}, segmentFixtures)
	require.NoError(t, err)

	var incomplete *distribution.IncompleteSegmentsError
	require.ErrorAs(t, result.Err(), &incomplete)
	assert.Equal(t, 0, incomplete.LineIndex)
	assert.Equal(t, "st-cc", incomplete.SegmentTypeID)
	assert.Equal(t, "CostCenter", incomplete.SegmentType)
}

func TestValidate_ParentSegmentNotPostable(t *testing.T) {
	// A hierarchy node where a child is required is still a violation.
	lines := []domain.DistributionLine{
		line(domain.Debit, 1000, map[string]string{"st-cc": "seg-parent"}),
		line(domain.Credit, 1000, withCostCenter()),
	}

	result, err := distribution.Validate(lines, decimal.NewFromInt(1000), []domain.SegmentType{costCenterType}, segmentFixtures)
	require.NoError(t, err)

	var incomplete *distribution.IncompleteSegmentsError
	assert.ErrorAs(t, result.Err(), &incomplete)
}

func TestValidate_SegmentOfWrongType(t *testing.T) {
	lines := []domain.DistributionLine{
		line(domain.Debit, 1000, map[string]string{"st-cc": "seg-other"}),
		line(domain.Credit, 1000, withCostCenter()),
	}

	result, err := distribution.Validate(lines, decimal.NewFromInt(1000), []domain.SegmentType{costCenterType}, segmentFixtures)
	require.NoError(t, err)

	var incomplete *distribution.IncompleteSegmentsError
	assert.ErrorAs(t, result.Err(), &incomplete)
}

func TestValidate_EmptyAndSingleLine(t *testing.T) {
	var empty *distribution.EmptyDistributionError

	result, err := distribution.Validate(nil, decimal.Zero, nil, nil)
	require.NoError(t, err)
	require.ErrorAs(t, result.Err(), &empty)
	assert.Equal(t, 0, empty.LineCount)

	single := []domain.DistributionLine{line(domain.Debit, 100, withCostCenter())}
	result, err = distribution.Validate(single, decimal.NewFromInt(100), nil, segmentFixtures)
	require.NoError(t, err)
	assert.ErrorAs(t, result.Err(), &empty)

	// A lone zero-amount line is degenerate but not empty-class.
	zeroLine := []domain.DistributionLine{line(domain.Debit, 0, withCostCenter())}
	result, err = distribution.Validate(zeroLine, decimal.Zero, nil, segmentFixtures)
	require.NoError(t, err)
	assert.True(t, result.Ok(), "got %v", result.Violations)
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	// Unbalanced, wrong total, and a missing segment in one pass.
	lines := []domain.DistributionLine{
		line(domain.Debit, 1000, nil),
		line(domain.Credit, 900, withCostCenter()),
	}

	result, err := distribution.Validate(lines, decimal.NewFromInt(1200), []domain.SegmentType{costCenterType}, segmentFixtures)
	require.NoError(t, err)
	require.Len(t, result.Violations, 3)

	reasons := make(map[string]bool)
	for _, v := range result.Violations {
		reasons[v.Reason()] = true
	}
	assert.True(t, reasons[distribution.ReasonUnbalanced])
	assert.True(t, reasons[distribution.ReasonTotalMismatch])
	assert.True(t, reasons[distribution.ReasonIncompleteSegments])
}

func TestValidate_Idempotent(t *testing.T) {
	lines := []domain.DistributionLine{
		line(domain.Debit, 1000, nil),
		line(domain.Credit, 900, nil),
	}

	first, err := distribution.Validate(lines, decimal.NewFromInt(1000), []domain.SegmentType{costCenterType}, segmentFixtures)
	require.NoError(t, err)
	second, err := distribution.Validate(lines, decimal.NewFromInt(1000), []domain.SegmentType{costCenterType}, segmentFixtures)
	require.NoError(t, err)

	require.Len(t, second.Violations, len(first.Violations))
	for i := range first.Violations {
		assert.Equal(t, first.Violations[i].Reason(), second.Violations[i].Reason())
		assert.Equal(t, first.Violations[i].Error(), second.Violations[i].Error())
	}
}

func TestValidate_MalformedInput(t *testing.T) {
	negative := []domain.DistributionLine{
		line(domain.Debit, 1000, withCostCenter()),
		{AccountID: "acct-1", LineType: domain.Credit, Amount: decimal.NewFromInt(-1000)},
	}
	_, err := distribution.Validate(negative, decimal.NewFromInt(1000), nil, nil)
	assert.ErrorIs(t, err, distribution.ErrMalformedInput)

	badType := []domain.DistributionLine{
		line(domain.Debit, 1000, withCostCenter()),
		{AccountID: "acct-1", LineType: "SIDEWAYS", Amount: decimal.NewFromInt(1000)},
	}
	_, err = distribution.Validate(badType, decimal.NewFromInt(1000), nil, nil)
	assert.ErrorIs(t, err, distribution.ErrMalformedInput)
}
