// Package testing provides shared fixtures for vparams tests: a known-valid
// catalog pair and helpers to lay it out on disk.
package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fleetdata/vparams/catalog"
)

// ValidParameterDocument returns a parameter catalog that passes every
// validation stage when paired with ValidProtocolDocument.
func ValidParameterDocument() *catalog.ParameterDocument {
	return &catalog.ParameterDocument{
		Parameters: []catalog.Parameter{
			{
				ID:                1,
				FieldName:         "Engine Speed",
				ReservedEnumVal:   2,
				Description:       "Engine crankshaft speed",
				Unit:              "rpm",
				ReasonAdded:       "ELD Mandate",
				ProtobufField:     "speed_engine_rpm",
				ProtocolReference: "ESPD_protocols",
			},
			{
				ID:                2,
				FieldName:         "Vehicle Speed",
				ReservedEnumVal:   3,
				Description:       "Road speed of the vehicle",
				Unit:              "km/h",
				ReasonAdded:       "Safety",
				ProtobufField:     "speed_vehicle_kmh",
				ProtocolReference: "VSPD_protocols",
			},
		},
		BreadcrumbFields: []catalog.BreadcrumbField{
			{
				ParameterID:    1,
				BreadcrumbLink: "https://docs.motive.com/params/engine-speed",
				Note:           "Engine speed sourcing notes",
			},
		},
		VG5Fields: []catalog.VG5Field{
			{ParameterID: 1, VG5Link: "https://docs.motive.com/vg5/engine-speed"},
		},
		AbbrMetrics: []catalog.AbbrMetric{
			{
				ParameterID: 2,
				AbbrValue:   "VSPD",
				AbbrLink:    "https://docs.motive.com/abbr/vspd",
				MetricsLink: "https://redash.motive.com/queries/42",
			},
		},
	}
}

// ValidProtocolDocument returns the protocol catalog matching
// ValidParameterDocument, bidirectionally consistent.
func ValidProtocolDocument() *catalog.ProtocolDocument {
	return &catalog.ProtocolDocument{
		ProtocolGroups: []catalog.ProtocolGroup{
			{ID: 1, GroupName: "ESPD_protocols", Description: "Engine speed protocols", ParameterReference: "Engine Speed"},
			{ID: 2, GroupName: "VSPD_protocols", Description: "Vehicle speed protocols", ParameterReference: "Vehicle Speed"},
		},
		Protocols: []catalog.Protocol{
			{
				GroupID:          1,
				Abbr:             "ESPD",
				ProtocolStandard: "J1939",
				PgnPid:           "61444",
				Spn:              "190",
				Precision:        "0.125 rpm/bit",
				SpecRange:        "0 to 8031.875 rpm",
				MaxValidVal:      "8031.875",
				Units:            "rpm",
				Description:      "Engine speed over J1939",
			},
			{
				GroupID:          1,
				Abbr:             "ESPD",
				ProtocolStandard: "J1979",
				PgnPid:           "0x0C/0xF40C",
				Precision:        "0.25 rpm/bit",
				SpecRange:        "0 to 16383.75 rpm",
				Units:            "rpm",
				Description:      "Engine RPM over OBD-II",
			},
			{
				GroupID:          2,
				Abbr:             "VSPD",
				ProtocolStandard: "J1587",
				PgnPid:           "84",
				Units:            "km/h",
				Description:      "Road speed over J1587",
			},
		},
	}
}

// WriteCatalogFiles marshals the two documents into dir and returns their paths.
func WriteCatalogFiles(t *testing.T, dir string, paramDoc *catalog.ParameterDocument, protoDoc *catalog.ProtocolDocument) (paramsPath, protosPath string) {
	t.Helper()

	paramsPath = filepath.Join(dir, "parameters.yaml")
	protosPath = filepath.Join(dir, "protocols.yaml")

	paramsData, err := paramDoc.Marshal()
	if err != nil {
		t.Fatalf("marshal parameter document: %v", err)
	}
	if err := os.WriteFile(paramsPath, paramsData, 0o644); err != nil {
		t.Fatalf("write parameter document: %v", err)
	}

	protosData, err := protoDoc.Marshal()
	if err != nil {
		t.Fatalf("marshal protocol document: %v", err)
	}
	if err := os.WriteFile(protosPath, protosData, 0o644); err != nil {
		t.Fatalf("write protocol document: %v", err)
	}

	return paramsPath, protosPath
}

// WriteValidCatalogs writes the standard valid fixture pair into dir.
func WriteValidCatalogs(t *testing.T, dir string) (paramsPath, protosPath string) {
	t.Helper()
	return WriteCatalogFiles(t, dir, ValidParameterDocument(), ValidProtocolDocument())
}
