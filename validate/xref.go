package validate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fleetdata/vparams/catalog"
)

// ReferenceValidator checks reference integrity across and within the two
// catalogs: parameter↔protocol name references, and the foreign keys held by
// breadcrumb, VG5, abbr-metric and protocol records. The full set of
// inconsistencies is reported in one scan.
type ReferenceValidator struct {
	log *zap.SugaredLogger
}

// NewReferenceValidator builds a ReferenceValidator. A nil logger disables logging.
func NewReferenceValidator(log *zap.SugaredLogger) *ReferenceValidator {
	return &ReferenceValidator{log: log}
}

// ValidateCrossReferences checks that every reference field resolves to an
// existing record in its owning list.
func (v *ReferenceValidator) ValidateCrossReferences(paramDoc *catalog.ParameterDocument, protoDoc *catalog.ProtocolDocument) (bool, []string) {
	var errs []string

	groupNames := make(map[string]struct{}, len(protoDoc.ProtocolGroups))
	for _, group := range protoDoc.ProtocolGroups {
		if group.GroupName != "" {
			groupNames[group.GroupName] = struct{}{}
		}
	}

	paramNames := make(map[string]struct{}, len(paramDoc.Parameters))
	paramIDs := make(map[int]struct{}, len(paramDoc.Parameters))
	for _, param := range paramDoc.Parameters {
		if param.FieldName != "" {
			paramNames[param.FieldName] = struct{}{}
		}
		paramIDs[param.ID] = struct{}{}
	}

	groupIDs := make(map[int]struct{}, len(protoDoc.ProtocolGroups))
	for _, group := range protoDoc.ProtocolGroups {
		groupIDs[group.ID] = struct{}{}
	}

	// Parameter -> protocol group references
	for _, param := range paramDoc.Parameters {
		if param.ProtocolReference == "" {
			continue
		}
		if _, ok := groupNames[param.ProtocolReference]; !ok {
			errs = append(errs, fmt.Sprintf("Parameter '%s' references non-existent protocol group '%s'",
				param.FieldName, param.ProtocolReference))
		}
	}

	// Protocol group -> parameter references
	for _, group := range protoDoc.ProtocolGroups {
		if group.ParameterReference == "" {
			continue
		}
		if _, ok := paramNames[group.ParameterReference]; !ok {
			errs = append(errs, fmt.Sprintf("Protocol group '%s' references non-existent parameter '%s'",
				group.GroupName, group.ParameterReference))
		}
	}

	// Foreign keys within the parameter document
	for i, field := range paramDoc.BreadcrumbFields {
		if _, ok := paramIDs[field.ParameterID]; !ok {
			errs = append(errs, fmt.Sprintf("Breadcrumb field %d references non-existent parameter ID %d",
				i+1, field.ParameterID))
		}
	}
	for i, field := range paramDoc.VG5Fields {
		if _, ok := paramIDs[field.ParameterID]; !ok {
			errs = append(errs, fmt.Sprintf("VG5 field %d references non-existent parameter ID %d",
				i+1, field.ParameterID))
		}
	}
	for i, metric := range paramDoc.AbbrMetrics {
		if _, ok := paramIDs[metric.ParameterID]; !ok {
			errs = append(errs, fmt.Sprintf("Abbreviation metric %d references non-existent parameter ID %d",
				i+1, metric.ParameterID))
		}
	}

	// Foreign keys within the protocol document
	for i, proto := range protoDoc.Protocols {
		if _, ok := groupIDs[proto.GroupID]; !ok {
			errs = append(errs, fmt.Sprintf("Protocol %d references non-existent protocol group ID %d",
				i+1, proto.GroupID))
		}
	}

	if v.log != nil {
		v.log.Debugw("Cross-reference validation complete", "violations", len(errs))
	}
	return len(errs) == 0, errs
}

// ValidateBidirectionalConsistency verifies that every parameter↔protocol
// pair forms a closed 2-cycle: a parameter pointing at group G is consistent
// only if G points back at exactly that parameter. Orphans are reported from
// both directions.
func (v *ReferenceValidator) ValidateBidirectionalConsistency(paramDoc *catalog.ParameterDocument, protoDoc *catalog.ProtocolDocument) (bool, []string) {
	var errs []string

	paramToProtocol := make(map[string]string, len(paramDoc.Parameters))
	for _, param := range paramDoc.Parameters {
		if param.FieldName != "" && param.ProtocolReference != "" {
			paramToProtocol[param.FieldName] = param.ProtocolReference
		}
	}

	protocolToParam := make(map[string]string, len(protoDoc.ProtocolGroups))
	for _, group := range protoDoc.ProtocolGroups {
		if group.GroupName != "" && group.ParameterReference != "" {
			protocolToParam[group.GroupName] = group.ParameterReference
		}
	}

	// Forward direction: each parameter's group must point back at it.
	// Iterate the document order so repeated runs report identically.
	for _, param := range paramDoc.Parameters {
		paramName := param.FieldName
		protocolName, ok := paramToProtocol[paramName]
		if !ok {
			continue
		}
		expectedParam, exists := protocolToParam[protocolName]
		if !exists {
			errs = append(errs, fmt.Sprintf("Parameter '%s' references protocol '%s' but protocol group does not exist",
				paramName, protocolName))
			continue
		}
		if expectedParam != paramName {
			errs = append(errs, fmt.Sprintf("Bidirectional inconsistency: Parameter '%s' references protocol '%s', but protocol references parameter '%s'",
				paramName, protocolName, expectedParam))
		}
	}

	// Reverse direction: orphaned groups.
	for _, group := range protoDoc.ProtocolGroups {
		protocolName := group.GroupName
		paramName, ok := protocolToParam[protocolName]
		if !ok {
			continue
		}
		referenced, exists := paramToProtocol[paramName]
		if !exists {
			errs = append(errs, fmt.Sprintf("Protocol group '%s' references parameter '%s' but parameter does not exist",
				protocolName, paramName))
			continue
		}
		if referenced != protocolName {
			errs = append(errs, fmt.Sprintf("Protocol group '%s' references parameter '%s' but parameter references different protocol",
				protocolName, paramName))
		}
	}

	if v.log != nil {
		v.log.Debugw("Bidirectional consistency validation complete", "violations", len(errs))
	}
	return len(errs) == 0, errs
}
