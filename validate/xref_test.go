package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vptest "github.com/fleetdata/vparams/internal/testing"
)

func TestReferenceValidator_ValidDocuments(t *testing.T) {
	v := NewReferenceValidator(nil)

	paramDoc := vptest.ValidParameterDocument()
	protoDoc := vptest.ValidProtocolDocument()

	valid, errs := v.ValidateCrossReferences(paramDoc, protoDoc)
	assert.True(t, valid, "unexpected errors: %v", errs)

	valid, errs = v.ValidateBidirectionalConsistency(paramDoc, protoDoc)
	assert.True(t, valid, "unexpected errors: %v", errs)
}

func TestReferenceValidator_DanglingReferences(t *testing.T) {
	v := NewReferenceValidator(nil)

	t.Run("parameter to missing group", func(t *testing.T) {
		paramDoc := vptest.ValidParameterDocument()
		paramDoc.Parameters[0].ProtocolReference = "GONE_protocols"

		valid, errs := v.ValidateCrossReferences(paramDoc, vptest.ValidProtocolDocument())
		assert.False(t, valid)
		assert.Contains(t, errs, "Parameter 'Engine Speed' references non-existent protocol group 'GONE_protocols'")
	})

	t.Run("group to missing parameter", func(t *testing.T) {
		protoDoc := vptest.ValidProtocolDocument()
		protoDoc.ProtocolGroups[1].ParameterReference = "Axle Weight"

		valid, errs := v.ValidateCrossReferences(vptest.ValidParameterDocument(), protoDoc)
		assert.False(t, valid)
		assert.Contains(t, errs, "Protocol group 'VSPD_protocols' references non-existent parameter 'Axle Weight'")
	})

	t.Run("breadcrumb to missing parameter id", func(t *testing.T) {
		paramDoc := vptest.ValidParameterDocument()
		paramDoc.BreadcrumbFields[0].ParameterID = 99

		valid, errs := v.ValidateCrossReferences(paramDoc, vptest.ValidProtocolDocument())
		assert.False(t, valid)
		assert.Contains(t, errs, "Breadcrumb field 1 references non-existent parameter ID 99")
	})

	t.Run("vg5 to missing parameter id", func(t *testing.T) {
		paramDoc := vptest.ValidParameterDocument()
		paramDoc.VG5Fields[0].ParameterID = 42

		valid, errs := v.ValidateCrossReferences(paramDoc, vptest.ValidProtocolDocument())
		assert.False(t, valid)
		assert.Contains(t, errs, "VG5 field 1 references non-existent parameter ID 42")
	})

	t.Run("abbr metric to missing parameter id", func(t *testing.T) {
		paramDoc := vptest.ValidParameterDocument()
		paramDoc.AbbrMetrics[0].ParameterID = 42

		valid, errs := v.ValidateCrossReferences(paramDoc, vptest.ValidProtocolDocument())
		assert.False(t, valid)
		assert.Contains(t, errs, "Abbreviation metric 1 references non-existent parameter ID 42")
	})

	t.Run("protocol to missing group id", func(t *testing.T) {
		protoDoc := vptest.ValidProtocolDocument()
		protoDoc.Protocols[2].GroupID = 17

		valid, errs := v.ValidateCrossReferences(vptest.ValidParameterDocument(), protoDoc)
		assert.False(t, valid)
		assert.Contains(t, errs, "Protocol 3 references non-existent protocol group ID 17")
	})
}

func TestReferenceValidator_BidirectionalConsistency(t *testing.T) {
	v := NewReferenceValidator(nil)

	t.Run("crossed references reported from both sides", func(t *testing.T) {
		// Swap the two group back-references so each 2-cycle is broken.
		protoDoc := vptest.ValidProtocolDocument()
		protoDoc.ProtocolGroups[0].ParameterReference = "Vehicle Speed"
		protoDoc.ProtocolGroups[1].ParameterReference = "Engine Speed"

		valid, errs := v.ValidateBidirectionalConsistency(vptest.ValidParameterDocument(), protoDoc)
		assert.False(t, valid)
		assert.Contains(t, errs,
			"Bidirectional inconsistency: Parameter 'Engine Speed' references protocol 'ESPD_protocols', but protocol references parameter 'Vehicle Speed'")
		assert.Contains(t, errs,
			"Bidirectional inconsistency: Parameter 'Vehicle Speed' references protocol 'VSPD_protocols', but protocol references parameter 'Engine Speed'")
	})

	t.Run("parameter references group that is absent", func(t *testing.T) {
		paramDoc := vptest.ValidParameterDocument()
		paramDoc.Parameters[1].ProtocolReference = "GONE_protocols"

		valid, errs := v.ValidateBidirectionalConsistency(paramDoc, vptest.ValidProtocolDocument())
		assert.False(t, valid)
		assert.Contains(t, errs,
			"Parameter 'Vehicle Speed' references protocol 'GONE_protocols' but protocol group does not exist")
	})

	t.Run("group references parameter that is absent", func(t *testing.T) {
		protoDoc := vptest.ValidProtocolDocument()
		protoDoc.ProtocolGroups[1].ParameterReference = "Axle Weight"

		valid, errs := v.ValidateBidirectionalConsistency(vptest.ValidParameterDocument(), protoDoc)
		assert.False(t, valid)
		assert.Contains(t, errs,
			"Protocol group 'VSPD_protocols' references parameter 'Axle Weight' but parameter does not exist")
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		protoDoc := vptest.ValidProtocolDocument()
		protoDoc.ProtocolGroups[0].ParameterReference = "Vehicle Speed"
		protoDoc.ProtocolGroups[1].ParameterReference = "Engine Speed"

		_, first := v.ValidateBidirectionalConsistency(vptest.ValidParameterDocument(), protoDoc)
		_, second := v.ValidateBidirectionalConsistency(vptest.ValidParameterDocument(), protoDoc)
		assert.Equal(t, first, second)
	})
}
