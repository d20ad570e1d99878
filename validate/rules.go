package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/fleetdata/vparams/catalog"
)

// Policy is the immutable business-rule configuration for a RuleValidator.
// Passing it explicitly (rather than reading package-level globals) lets
// tests substitute their own enumerations and allow-lists.
type Policy struct {
	// ProtocolStandards are the accepted protocol_standard values.
	ProtocolStandards []string
	// ReasonsAdded are the accepted reason_added values.
	ReasonsAdded []string
	// GroupNameSuffix is required on group_name and protocol_reference.
	GroupNameSuffix string
	// DocsHost is the required host for breadcrumb, VG5 and abbr links.
	DocsHost string
	// VG5PathPrefix is the required path segment for vg5_link URLs.
	VG5PathPrefix string
	// AbbrPathPrefix is the required path segment for abbr_link URLs.
	AbbrPathPrefix string
	// MetricsHost is the required host for metrics_link URLs.
	MetricsHost string
}

// DefaultPolicy returns the production business-rule policy.
func DefaultPolicy() Policy {
	return Policy{
		ProtocolStandards: []string{"J1939", "J1587", "J1979"},
		ReasonsAdded: []string{
			"ELD Mandate",
			"Driver Performance",
			"Driver Scorecard",
			"Safety",
			"Engine Insight",
			"Value add for customer",
			"Safety_Monitoring",
		},
		GroupNameSuffix: "_protocols",
		DocsHost:        "docs.motive.com",
		VG5PathPrefix:   "/vg5/",
		AbbrPathPrefix:  "/abbr/",
		MetricsHost:     "redash.motive.com",
	}
}

var (
	snakeCaseRe = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$`)
	abbrRe      = regexp.MustCompile(`^[A-Z]{2,6}$`)
	numericRe   = regexp.MustCompile(`^[0-9]+$`)
	j1979PidRe  = regexp.MustCompile(`^0x[0-9A-F]+(/0x[0-9A-F]+)?$`)
)

// RuleValidator checks business invariants not expressible in the shape
// description: uniqueness, naming conventions, enumeration membership,
// URL-domain constraints and standard-conditional PID formats. Every check
// runs to completion; each failure appends one message identifying the
// offending record.
type RuleValidator struct {
	policy Policy
	log    *zap.SugaredLogger
}

// NewRuleValidator builds a RuleValidator with the given policy.
// A nil logger disables logging.
func NewRuleValidator(policy Policy, log *zap.SugaredLogger) *RuleValidator {
	return &RuleValidator{policy: policy, log: log}
}

// ValidateParameterRules checks the parameter document against the policy.
func (v *RuleValidator) ValidateParameterRules(doc *catalog.ParameterDocument) (bool, []string) {
	var errs []string

	errs = append(errs, v.checkDuplicateParameterIDs(doc.Parameters)...)
	errs = append(errs, v.checkDuplicateParameterNames(doc.Parameters)...)

	for i, param := range doc.Parameters {
		errs = append(errs, v.checkParameter(param, i+1)...)
	}
	errs = append(errs, v.checkBreadcrumbFields(doc.BreadcrumbFields)...)
	errs = append(errs, v.checkVG5Fields(doc.VG5Fields)...)
	errs = append(errs, v.checkAbbrMetrics(doc.AbbrMetrics)...)

	if v.log != nil {
		v.log.Debugw("Parameter rule validation complete",
			"parameters", len(doc.Parameters),
			"violations", len(errs),
		)
	}
	return len(errs) == 0, errs
}

// ValidateProtocolRules checks the protocol document against the policy.
func (v *RuleValidator) ValidateProtocolRules(doc *catalog.ProtocolDocument) (bool, []string) {
	var errs []string

	errs = append(errs, v.checkDuplicateGroupIDs(doc.ProtocolGroups)...)
	errs = append(errs, v.checkDuplicateGroupNames(doc.ProtocolGroups)...)

	for _, group := range doc.ProtocolGroups {
		if group.GroupName != "" && !strings.HasSuffix(group.GroupName, v.policy.GroupNameSuffix) {
			errs = append(errs, fmt.Sprintf("Protocol group '%s': group_name must end with '%s'",
				group.GroupName, v.policy.GroupNameSuffix))
		}
	}

	for i, proto := range doc.Protocols {
		errs = append(errs, v.checkProtocol(proto, i+1)...)
	}

	if v.log != nil {
		v.log.Debugw("Protocol rule validation complete",
			"groups", len(doc.ProtocolGroups),
			"protocols", len(doc.Protocols),
			"violations", len(errs),
		)
	}
	return len(errs) == 0, errs
}

// checkDuplicateParameterIDs reports every occurrence after the first.
func (v *RuleValidator) checkDuplicateParameterIDs(params []catalog.Parameter) []string {
	var errs []string
	seen := make(map[int]struct{}, len(params))
	for _, p := range params {
		if _, dup := seen[p.ID]; dup {
			errs = append(errs, fmt.Sprintf("Duplicate parameter ID: %d", p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
	}
	return errs
}

func (v *RuleValidator) checkDuplicateParameterNames(params []catalog.Parameter) []string {
	var errs []string
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if _, dup := seen[p.FieldName]; dup {
			errs = append(errs, fmt.Sprintf("Duplicate parameter field_name: '%s'", p.FieldName))
			continue
		}
		seen[p.FieldName] = struct{}{}
	}
	return errs
}

func (v *RuleValidator) checkParameter(param catalog.Parameter, position int) []string {
	var errs []string

	name := param.FieldName
	if name == "" {
		name = fmt.Sprintf("Parameter %d", position)
	}

	if param.ProtobufField != "" && !snakeCaseRe.MatchString(param.ProtobufField) {
		errs = append(errs, fmt.Sprintf("Parameter '%s': protobuf_field must be in snake_case", name))
	}

	if param.ReasonAdded != "" && !contains(v.policy.ReasonsAdded, param.ReasonAdded) {
		errs = append(errs, fmt.Sprintf("Parameter '%s': invalid reason_added '%s'. Must be one of: %s",
			name, param.ReasonAdded, strings.Join(v.policy.ReasonsAdded, ", ")))
	}

	if param.ProtocolReference != "" && !strings.HasSuffix(param.ProtocolReference, v.policy.GroupNameSuffix) {
		errs = append(errs, fmt.Sprintf("Parameter '%s': protocol_reference must end with '%s'",
			name, v.policy.GroupNameSuffix))
	}

	return errs
}

func (v *RuleValidator) checkBreadcrumbFields(fields []catalog.BreadcrumbField) []string {
	var errs []string
	for i, field := range fields {
		if field.BreadcrumbLink != "" && !v.isAllowedURL(field.BreadcrumbLink, v.policy.DocsHost, "") {
			errs = append(errs, fmt.Sprintf("Breadcrumb %d: invalid URL or not from %s domain",
				i+1, v.policy.DocsHost))
		}
	}
	return errs
}

func (v *RuleValidator) checkVG5Fields(fields []catalog.VG5Field) []string {
	var errs []string
	for i, field := range fields {
		if field.VG5Link != "" && !v.isAllowedURL(field.VG5Link, v.policy.DocsHost, v.policy.VG5PathPrefix) {
			errs = append(errs, fmt.Sprintf("VG5 field %d: invalid URL or not from %s%s path",
				i+1, v.policy.DocsHost, v.policy.VG5PathPrefix))
		}
	}
	return errs
}

func (v *RuleValidator) checkAbbrMetrics(metrics []catalog.AbbrMetric) []string {
	var errs []string
	for i, metric := range metrics {
		if metric.AbbrValue != "" && !abbrRe.MatchString(metric.AbbrValue) {
			errs = append(errs, fmt.Sprintf("Abbreviation %d: '%s' must be 2-6 uppercase letters",
				i+1, metric.AbbrValue))
		}
		if metric.AbbrLink != "" && !v.isAllowedURL(metric.AbbrLink, v.policy.DocsHost, v.policy.AbbrPathPrefix) {
			errs = append(errs, fmt.Sprintf("Abbreviation %d: abbr_link must be from %s%s path",
				i+1, v.policy.DocsHost, v.policy.AbbrPathPrefix))
		}
		if metric.MetricsLink != "" && !v.isAllowedURL(metric.MetricsLink, v.policy.MetricsHost, "") {
			errs = append(errs, fmt.Sprintf("Abbreviation %d: metrics_link must be from %s domain",
				i+1, v.policy.MetricsHost))
		}
	}
	return errs
}

func (v *RuleValidator) checkDuplicateGroupIDs(groups []catalog.ProtocolGroup) []string {
	var errs []string
	seen := make(map[int]struct{}, len(groups))
	for _, g := range groups {
		if _, dup := seen[g.ID]; dup {
			errs = append(errs, fmt.Sprintf("Duplicate protocol group ID: %d", g.ID))
			continue
		}
		seen[g.ID] = struct{}{}
	}
	return errs
}

func (v *RuleValidator) checkDuplicateGroupNames(groups []catalog.ProtocolGroup) []string {
	var errs []string
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if _, dup := seen[g.GroupName]; dup {
			errs = append(errs, fmt.Sprintf("Duplicate protocol group name: '%s'", g.GroupName))
			continue
		}
		seen[g.GroupName] = struct{}{}
	}
	return errs
}

func (v *RuleValidator) checkProtocol(proto catalog.Protocol, position int) []string {
	var errs []string

	if proto.ProtocolStandard != "" && !contains(v.policy.ProtocolStandards, proto.ProtocolStandard) {
		errs = append(errs, fmt.Sprintf("Protocol %d: invalid protocol_standard '%s'. Must be one of: %s",
			position, proto.ProtocolStandard, strings.Join(v.policy.ProtocolStandards, ", ")))
	}

	if proto.Abbr != "" && !abbrRe.MatchString(proto.Abbr) {
		errs = append(errs, fmt.Sprintf("Protocol %d: abbreviation '%s' must be 2-6 uppercase letters",
			position, proto.Abbr))
	}

	// PGN/PID format depends on the standard: J1939 uses plain decimal PGNs,
	// J1979 uses hex PIDs with an optional dual value ("0x0C/0xF40C").
	switch proto.ProtocolStandard {
	case "J1939":
		if proto.PgnPid != "" && !numericRe.MatchString(proto.PgnPid) {
			errs = append(errs, fmt.Sprintf("Protocol %d: J1939 pgn_pid should be numeric (e.g., '61444')", position))
		}
	case "J1979":
		if proto.PgnPid != "" && !j1979PidRe.MatchString(proto.PgnPid) {
			errs = append(errs, fmt.Sprintf("Protocol %d: J1979 pgn_pid should be hex format (e.g., '0x0C/0xF40C')", position))
		}
	}

	return errs
}

// isAllowedURL checks scheme, host and (optionally) a required path segment.
func (v *RuleValidator) isAllowedURL(raw, host, pathPrefix string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if !strings.Contains(parsed.Host, host) {
		return false
	}
	if pathPrefix != "" && !strings.Contains(parsed.Path, pathPrefix) {
		return false
	}
	return true
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
