package utils

import (
	"testing"
)

func TestSocketsMatch(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{name: "identical", a: "LGA4189", b: "LGA4189", expected: true},
		{name: "whitespace", a: "LGA4189", b: "LGA 4189", expected: true},
		{name: "case", a: "am5", b: "AM5", expected: true},
		{name: "fc prefix", a: "FCLGA1700", b: "LGA 1700", expected: true},
		{name: "am4 plus accepts am4", a: "AM4+", b: "AM4", expected: true},
		{name: "marketing alias", a: "Socket P4", b: "LGA4189", expected: true},
		{name: "different sockets", a: "LGA4189", b: "LGA4677", expected: false},
		{name: "empty", a: "", b: "AM4", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SocketsMatch(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("SocketsMatch(%q, %q) = %v, expected %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestNormalizeMemoryType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "DDR4", expected: "DDR4"},
		{input: "ddr-5", expected: "DDR5"},
		{input: "DDR4 ECC Registered", expected: "DDR4"},
		{input: "LPDDR5", expected: "LPDDR5"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeMemoryType(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeMemoryType(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeMemoryFormFactor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "DIMM", expected: "DIMM"},
		{input: "RDIMM", expected: "DIMM"},
		{input: "LRDIMM", expected: "DIMM"},
		{input: "SO-DIMM", expected: "SO-DIMM"},
		{input: "sodimm", expected: "SO-DIMM"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeMemoryFormFactor(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeMemoryFormFactor(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeDriveFormFactor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "2.5-inch", expected: "2.5-inch"},
		{input: "2.5\"", expected: "2.5-inch"},
		{input: "3.5 inch", expected: "3.5-inch"},
		{input: "LFF", expected: "3.5-inch"},
		{input: "M.2 2280", expected: "M.2"},
		{input: "22110", expected: "M.2"},
		{input: "U.3", expected: "U.2"},
		{input: "HHHL AIC", expected: "AIC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeDriveFormFactor(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeDriveFormFactor(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSupportsM2Length(t *testing.T) {
	if !SupportsM2Length(nil, "M.2 2280") {
		t.Error("empty support list should accept any length")
	}
	if !SupportsM2Length([]string{"M.2 2242", "M.2 2280"}, "M.2 2280") {
		t.Error("2280 should be supported")
	}
	if SupportsM2Length([]string{"M.2 2280"}, "M.2 22110") {
		t.Error("22110 should not fit a 2280-only socket")
	}
}

func TestParseSlotSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{input: "x16", expected: 16},
		{input: "PCIe x8", expected: 8},
		{input: "X4", expected: 4},
		{input: "1", expected: 1},
		{input: "x16 (x8 electrical)", expected: 16},
		{input: "full height", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseSlotSize(tt.input)
			if result != tt.expected {
				t.Errorf("ParseSlotSize(%q) = %d, expected %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCompatibleSlotSizes(t *testing.T) {
	tests := []struct {
		required int
		expected []int
	}{
		{required: 1, expected: []int{1, 4, 8, 16}},
		{required: 4, expected: []int{4, 8, 16}},
		{required: 8, expected: []int{8, 16}},
		{required: 16, expected: []int{16}},
	}

	for _, tt := range tests {
		t.Run(SlotLabel(tt.required), func(t *testing.T) {
			result := CompatibleSlotSizes(tt.required)
			if len(result) != len(tt.expected) {
				t.Fatalf("CompatibleSlotSizes(%d) = %v, expected %v", tt.required, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("CompatibleSlotSizes(%d)[%d] = %d, expected %d", tt.required, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestProtocolOf(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "SATA III 6Gb/s", expected: "SATA"},
		{input: "SAS 12Gb/s", expected: "SAS"},
		{input: "NVMe PCIe 4.0 x4", expected: "NVMe"},
		{input: "PCIe Gen5", expected: "NVMe"},
		{input: "USB", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ProtocolOf(tt.input)
			if result != tt.expected {
				t.Errorf("ProtocolOf(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPercentageLoss(t *testing.T) {
	tests := []struct {
		name     string
		limit    float64
		rated    float64
		expected float64
	}{
		{name: "cpu limits ddr5", limit: 4000, rated: 4800, expected: 16.7},
		{name: "pcie gen3 on gen4 device", limit: 3.0, rated: 4.0, expected: 25},
		{name: "no loss", limit: 3200, rated: 3200, expected: 0},
		{name: "unknown limit", limit: 0, rated: 3200, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PercentageLoss(tt.limit, tt.rated)
			if result != tt.expected {
				t.Errorf("PercentageLoss(%v, %v) = %v, expected %v", tt.limit, tt.rated, result, tt.expected)
			}
		})
	}
}
