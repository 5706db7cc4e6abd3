package domain

// SegmentNodeType places a segment within its hierarchy. Only child nodes may
// be assigned as a concrete dimensional value on a distribution line;
// parent and sub_parent nodes exist for navigation only.
type SegmentNodeType string

const (
	SegmentNodeParent    SegmentNodeType = "parent"
	SegmentNodeSubParent SegmentNodeType = "sub_parent"
	SegmentNodeChild     SegmentNodeType = "child"
)

// IsPostable reports whether a segment of this node type may be assigned to a
// distribution line.
func (t SegmentNodeType) IsPostable() bool {
	return t == SegmentNodeChild
}

// SegmentType is a dimension of the chart of accounts, e.g. cost center.
type SegmentType struct {
	SegmentTypeID string `json:"segmentTypeID"` // Primary Key (UUID)
	Name          string `json:"name"`
	IsRequired    bool   `json:"isRequired"`   // Every distribution line must carry a child segment of this type
	HasHierarchy  bool   `json:"hasHierarchy"` // Whether segments of this type form a tree
	AuditFields
}

// Segment is one dimensional classification value within a segment type.
type Segment struct {
	SegmentID     string          `json:"segmentID"` // Primary Key (UUID)
	SegmentTypeID string          `json:"segmentTypeID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	ParentCode    *string         `json:"parentCode"` // Nil for roots
	NodeType      SegmentNodeType `json:"nodeType"`
	AuditFields
}
