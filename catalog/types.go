// Package catalog defines the typed records behind the two source documents:
// the parameter catalog and the protocol catalog. All downstream stages
// (business-rule validation, cross-reference checks, materialization) operate
// on these types rather than on raw YAML mappings.
package catalog

// Parameter is one entry of the parameter catalog. IDs and field names are
// unique within the document; ProtocolReference names a protocol group that
// must point back at this parameter.
type Parameter struct {
	ID                int    `yaml:"id" json:"id"`
	FieldName         string `yaml:"field_name" json:"field_name"`
	ReservedEnumVal   int    `yaml:"reserved_enum_val" json:"reserved_enum_val"`
	Description       string `yaml:"description" json:"description"`
	Unit              string `yaml:"unit" json:"unit"`
	ReasonAdded       string `yaml:"reason_added" json:"reason_added"`
	ProtobufField     string `yaml:"protobuf_field" json:"protobuf_field"`
	ProtocolReference string `yaml:"protocol_reference" json:"protocol_reference"`
}

// BreadcrumbField is a documentation link owned by a parameter.
type BreadcrumbField struct {
	ParameterID    int    `yaml:"parameter_id" json:"parameter_id"`
	BreadcrumbLink string `yaml:"breadcrumb_link" json:"breadcrumb_link"`
	Note           string `yaml:"note" json:"note"`
}

// VG5Field is a VG5 documentation link owned by a parameter.
type VG5Field struct {
	ParameterID int    `yaml:"parameter_id" json:"parameter_id"`
	VG5Link     string `yaml:"vg5_link" json:"vg5_link"`
}

// AbbrMetric is an abbreviation/metrics link pair owned by a parameter.
type AbbrMetric struct {
	ParameterID int    `yaml:"parameter_id" json:"parameter_id"`
	AbbrValue   string `yaml:"abbr_value" json:"abbr_value"`
	AbbrLink    string `yaml:"abbr_link" json:"abbr_link"`
	MetricsLink string `yaml:"metrics_link" json:"metrics_link"`
}

// ProtocolGroup is a named collection of wire-protocol entries associated
// with exactly one parameter.
type ProtocolGroup struct {
	ID                 int    `yaml:"id" json:"id"`
	GroupName          string `yaml:"group_name" json:"group_name"`
	Description        string `yaml:"description" json:"description"`
	ParameterReference string `yaml:"parameter_reference" json:"parameter_reference"`
}

// Protocol is one wire-protocol entry of a group, one per supported standard.
type Protocol struct {
	GroupID          int    `yaml:"group_id" json:"group_id"`
	Abbr             string `yaml:"abbr" json:"abbr"`
	ProtocolStandard string `yaml:"protocol_standard" json:"protocol_standard"`
	PgnPid           string `yaml:"pgn_pid" json:"pgn_pid"`
	Spn              string `yaml:"spn" json:"spn"`
	Precision        string `yaml:"precision" json:"precision"`
	SpecRange        string `yaml:"spec_range" json:"spec_range"`
	MaxValidVal      string `yaml:"max_valid_val" json:"max_valid_val"`
	Units            string `yaml:"units" json:"units"`
	Description      string `yaml:"description" json:"description"`
	States           string `yaml:"states" json:"states"`
}

// ParameterDocument is the full parameter catalog. Pending-submission batches
// share the same shape with a subset of the lists populated.
type ParameterDocument struct {
	Parameters       []Parameter       `yaml:"parameters" json:"parameters,omitempty"`
	BreadcrumbFields []BreadcrumbField `yaml:"breadcrumb_fields" json:"breadcrumb_fields,omitempty"`
	VG5Fields        []VG5Field        `yaml:"vg5_fields" json:"vg5_fields,omitempty"`
	AbbrMetrics      []AbbrMetric      `yaml:"abbr_metrics" json:"abbr_metrics,omitempty"`
}

// ProtocolDocument is the full protocol catalog.
type ProtocolDocument struct {
	ProtocolGroups []ProtocolGroup `yaml:"protocol_groups" json:"protocol_groups,omitempty"`
	Protocols      []Protocol      `yaml:"protocols" json:"protocols,omitempty"`
}

// Append extends the document with the contents of a batch, preserving order.
func (d *ParameterDocument) Append(batch *ParameterDocument) {
	d.Parameters = append(d.Parameters, batch.Parameters...)
	d.BreadcrumbFields = append(d.BreadcrumbFields, batch.BreadcrumbFields...)
	d.VG5Fields = append(d.VG5Fields, batch.VG5Fields...)
	d.AbbrMetrics = append(d.AbbrMetrics, batch.AbbrMetrics...)
}

// Append extends the document with the contents of a batch, preserving order.
func (d *ProtocolDocument) Append(batch *ProtocolDocument) {
	d.ProtocolGroups = append(d.ProtocolGroups, batch.ProtocolGroups...)
	d.Protocols = append(d.Protocols, batch.Protocols...)
}

// Counts summarizes list sizes for status output.
type Counts struct {
	Parameters       int `json:"parameters"`
	BreadcrumbFields int `json:"breadcrumb_fields"`
	VG5Fields        int `json:"vg5_fields"`
	AbbrMetrics      int `json:"abbr_metrics"`
	ProtocolGroups   int `json:"protocol_groups"`
	Protocols        int `json:"protocols"`
}

// Count reports the list sizes of a parameter document.
func (d *ParameterDocument) Count() Counts {
	return Counts{
		Parameters:       len(d.Parameters),
		BreadcrumbFields: len(d.BreadcrumbFields),
		VG5Fields:        len(d.VG5Fields),
		AbbrMetrics:      len(d.AbbrMetrics),
	}
}

// Count reports the list sizes of a protocol document.
func (d *ProtocolDocument) Count() Counts {
	return Counts{
		ProtocolGroups: len(d.ProtocolGroups),
		Protocols:      len(d.Protocols),
	}
}
