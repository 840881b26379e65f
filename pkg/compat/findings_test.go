package compat

import (
	"context"
	"testing"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/models"
)

func soDIMM(uuid string) *models.RAMSpec {
	r := memory(uuid, "DDR4", 32, 3200, true)
	r.FormFactor = "SO-DIMM"
	return r
}

func nic(uuid, slot string, version float64) *models.CardSpec {
	c := card(uuid, models.TypeNIC, models.SubtypeNIC, slot)
	c.PCIeVersion = version
	return c
}

func chassis(uuid string, mutate func(*models.ChassisSpec)) *models.ChassisSpec {
	ch := &models.ChassisSpec{SpecMeta: models.SpecMeta{UUID: uuid}}
	if mutate != nil {
		mutate(ch)
	}
	return ch
}

func slotted(t models.ComponentType, uuid, slot string) models.ComponentRef {
	r := ref(t, uuid)
	r.SlotPosition = slot
	return r
}

func TestConstraintFindings(t *testing.T) {
	hba := card("hba", models.TypeHBACard, models.SubtypeHBACard, "x8")
	hba.MaxDevices = 1

	u2 := disk("u2", "NVMe PCIe 4.0 x4", "U.2")
	u2.PCIeLanes = 4

	tests := []struct {
		name      string
		specs     []models.ComponentSpec
		installed []models.ComponentRef
		candidate models.ComponentType
		uuid      string
		expected  string
		blocked   bool
	}{
		// cpu against installed parts
		{
			name:      "cpu does not support installed memory type",
			specs:     []models.ComponentSpec{processor("cpu", nil), memory("ram", "DDR5", 32, 4800, true)},
			installed: []models.ComponentRef{ref(models.TypeRAM, "ram")},
			candidate: models.TypeCPU, uuid: "cpu",
			expected: constants.FindingCPUMemoryTypeUnsupported, blocked: true,
		},
		{
			name:      "installed memory above cpu maximum",
			specs:     []models.ComponentSpec{processor("cpu", func(c *models.CPUSpec) { c.MaxMemoryCapacity = 32 }), memory("ram", "DDR4", 64, 3200, true)},
			installed: []models.ComponentRef{ref(models.TypeRAM, "ram")},
			candidate: models.TypeCPU, uuid: "cpu",
			expected: constants.FindingCPUMemoryCapacityExceeded, blocked: true,
		},
		{
			name:      "cpu requires ecc but memory is non-ecc",
			specs:     []models.ComponentSpec{processor("cpu", func(c *models.CPUSpec) { c.ECCRequired = true }), memory("ram", "DDR4", 32, 3200, false)},
			installed: []models.ComponentRef{ref(models.TypeRAM, "ram")},
			candidate: models.TypeCPU, uuid: "cpu",
			expected: constants.FindingCPUECCRequired, blocked: true,
		},
		{
			name:      "every socket already taken",
			specs:     []models.ComponentSpec{board("mb", nil), processor("cpu-a", nil), processor("cpu-b", nil)},
			installed: []models.ComponentRef{ref(models.TypeMotherboard, "mb"), ref(models.TypeCPU, "cpu-a")},
			candidate: models.TypeCPU, uuid: "cpu-b",
			expected: constants.FindingCPUSocketLimitExceeded, blocked: true,
		},

		// motherboard against installed parts
		{
			name:      "motherboard socket differs from installed cpu",
			specs:     []models.ComponentSpec{board("mb", nil), processor("cpu", func(c *models.CPUSpec) { c.Socket = "SP5" })},
			installed: []models.ComponentRef{ref(models.TypeCPU, "cpu")},
			candidate: models.TypeMotherboard, uuid: "mb",
			expected: constants.FindingMotherboardSocketMismatch, blocked: true,
		},
		{
			name:      "more cpus than sockets",
			specs:     []models.ComponentSpec{board("mb", nil), processor("cpu", nil)},
			installed: []models.ComponentRef{ref(models.TypeCPU, "cpu"), ref(models.TypeCPU, "cpu")},
			candidate: models.TypeMotherboard, uuid: "mb",
			expected: constants.FindingCPUCountExceedsSockets, blocked: true,
		},
		{
			name:      "installed module form factor differs from board",
			specs:     []models.ComponentSpec{board("mb", func(mb *models.MotherboardSpec) { mb.MemoryFormFactor = "DIMM" }), soDIMM("ram")},
			installed: []models.ComponentRef{ref(models.TypeRAM, "ram")},
			candidate: models.TypeMotherboard, uuid: "mb",
			expected: constants.FindingRAMFormFactorMismatch, blocked: true,
		},
		{
			name:      "installed module above per-slot limit",
			specs:     []models.ComponentSpec{board("mb", func(mb *models.MotherboardSpec) { mb.PerSlotCapacity = 32 }), memory("ram", "DDR4", 64, 3200, true)},
			installed: []models.ComponentRef{ref(models.TypeRAM, "ram")},
			candidate: models.TypeMotherboard, uuid: "mb",
			expected: constants.FindingModuleExceedsSlotCap, blocked: true,
		},
		{
			name:      "installed memory above board maximum",
			specs:     []models.ComponentSpec{board("mb", func(mb *models.MotherboardSpec) { mb.MaxMemoryCapacity = 64 }), memory("ram", "DDR4", 64, 3200, true)},
			installed: []models.ComponentRef{ref(models.TypeRAM, "ram"), ref(models.TypeRAM, "ram")},
			candidate: models.TypeMotherboard, uuid: "mb",
			expected: constants.FindingMemoryCapacityExceeded, blocked: true,
		},
		{
			name: "more cards than slots",
			specs: []models.ComponentSpec{
				board("mb", func(mb *models.MotherboardSpec) { mb.PCIeSlots = []models.PCIeSlot{{Size: "x16", Count: 1}} }),
				nic("nic", "x8", 0),
			},
			installed: []models.ComponentRef{ref(models.TypeNIC, "nic"), ref(models.TypeNIC, "nic")},
			candidate: models.TypeMotherboard, uuid: "mb",
			expected: constants.FindingPCIeSlotCountExceeded, blocked: true,
		},
		{
			name: "installed card newer than board",
			specs: []models.ComponentSpec{
				board("mb", func(mb *models.MotherboardSpec) {
					mb.PCIeVersion = 3.0
					mb.PCIeSlots = []models.PCIeSlot{{Size: "x16", Count: 1}}
				}),
				nic("nic", "x8", 4.0),
			},
			installed: []models.ComponentRef{ref(models.TypeNIC, "nic")},
			candidate: models.TypeMotherboard, uuid: "mb",
			expected: constants.FindingPCIeBandwidthReduction, blocked: false,
		},
		{
			name: "board form factor missing from chassis list",
			specs: []models.ComponentSpec{
				board("mb", func(mb *models.MotherboardSpec) { mb.FormFactor = "E-ATX" }),
				chassis("ch", func(ch *models.ChassisSpec) { ch.FormFactorSupport = []string{"ATX"} }),
			},
			installed: []models.ComponentRef{ref(models.TypeChassis, "ch")},
			candidate: models.TypeMotherboard, uuid: "mb",
			expected: constants.FindingChassisFormFactorUnknown, blocked: false,
		},

		// memory against cpus and peers
		{
			name:      "non-ecc module with ecc cpu",
			specs:     []models.ComponentSpec{processor("cpu", func(c *models.CPUSpec) { c.ECCRequired = true }), memory("ram", "DDR4", 32, 3200, false)},
			installed: []models.ComponentRef{ref(models.TypeCPU, "cpu")},
			candidate: models.TypeRAM, uuid: "ram",
			expected: constants.FindingRAMECCRequired, blocked: true,
		},
		{
			name: "module pushes memory above cpu maximum",
			specs: []models.ComponentSpec{
				processor("cpu", func(c *models.CPUSpec) { c.MaxMemoryCapacity = 64 }),
				memory("ram-64", "DDR4", 64, 3200, true),
				memory("ram-32", "DDR4", 32, 3200, true),
			},
			installed: []models.ComponentRef{ref(models.TypeCPU, "cpu"), ref(models.TypeRAM, "ram-64")},
			candidate: models.TypeRAM, uuid: "ram-32",
			expected: constants.FindingRAMCPUCapacityExceeded, blocked: true,
		},
		{
			name:      "non-ecc next to ecc modules",
			specs:     []models.ComponentSpec{memory("ecc", "DDR4", 32, 3200, true), memory("plain", "DDR4", 32, 3200, false)},
			installed: []models.ComponentRef{ref(models.TypeRAM, "ecc")},
			candidate: models.TypeRAM, uuid: "plain",
			expected: constants.FindingRAMECCMismatch, blocked: true,
		},
		{
			name:      "so-dimm next to dimm modules",
			specs:     []models.ComponentSpec{memory("dimm", "DDR4", 32, 3200, true), soDIMM("sodimm")},
			installed: []models.ComponentRef{ref(models.TypeRAM, "dimm")},
			candidate: models.TypeRAM, uuid: "sodimm",
			expected: constants.FindingRAMPeerFormFactor, blocked: true,
		},
		{
			name:      "slower module next to faster ones",
			specs:     []models.ComponentSpec{memory("fast", "DDR4", 32, 3200, true), memory("slow", "DDR4", 32, 2933, true)},
			installed: []models.ComponentRef{ref(models.TypeRAM, "fast")},
			candidate: models.TypeRAM, uuid: "slow",
			expected: constants.FindingRAMFrequencyMismatch, blocked: false,
		},

		// chassis and storage
		{
			name: "backplane without the installed drive protocol",
			specs: []models.ComponentSpec{
				chassis("ch", func(ch *models.ChassisSpec) {
					ch.DriveBays = models.DriveBays{BayConfiguration: []models.BayGroup{{Size: "2.5-inch", Count: 4}}}
					ch.Backplane = models.Backplane{SupportsSATA: true}
				}),
				disk("sas", "SAS 12Gb/s", "2.5-inch"),
			},
			installed: []models.ComponentRef{ref(models.TypeStorage, "sas")},
			candidate: models.TypeChassis, uuid: "ch",
			expected: constants.FindingStorageInterfaceUnsupported, blocked: true,
		},
		{
			name: "every bay in use",
			specs: []models.ComponentSpec{
				chassis("ch", func(ch *models.ChassisSpec) {
					ch.DriveBays = models.DriveBays{BayConfiguration: []models.BayGroup{{Size: "3.5-inch", Count: 1}}}
					ch.Backplane = models.Backplane{SupportsSATA: true}
				}),
				disk("hdd-a", "SATA III", "3.5-inch"),
				disk("hdd-b", "SATA III", "3.5-inch"),
			},
			installed: []models.ComponentRef{ref(models.TypeChassis, "ch"), ref(models.TypeStorage, "hdd-a")},
			candidate: models.TypeStorage, uuid: "hdd-b",
			expected: constants.FindingChassisBaysFull, blocked: true,
		},
		{
			name:      "hba device limit reached",
			specs:     []models.ComponentSpec{hba, disk("sas-a", "SAS 12Gb/s", "2.5-inch"), disk("sas-b", "SAS 12Gb/s", "2.5-inch")},
			installed: []models.ComponentRef{ref(models.TypeHBACard, "hba"), ref(models.TypeStorage, "sas-a")},
			candidate: models.TypeStorage, uuid: "sas-b",
			expected: constants.FindingHBADeviceLimit, blocked: true,
		},
		{
			name: "onboard sas ports without an hba",
			specs: []models.ComponentSpec{
				board("mb", func(mb *models.MotherboardSpec) { mb.StoragePorts = models.StoragePorts{SAS: 4} }),
				disk("sas", "SAS 12Gb/s", "2.5-inch"),
			},
			installed: []models.ComponentRef{ref(models.TypeMotherboard, "mb")},
			candidate: models.TypeStorage, uuid: "sas",
			expected: constants.FindingHBARequired, blocked: true,
		},
		{
			name: "small drive in large bay without caddy",
			specs: []models.ComponentSpec{
				chassis("ch", func(ch *models.ChassisSpec) {
					ch.DriveBays = models.DriveBays{BayConfiguration: []models.BayGroup{{Size: "3.5-inch", Count: 4}}}
					ch.Backplane = models.Backplane{SupportsSATA: true}
				}),
				disk("ssd", "SATA III", "2.5-inch"),
			},
			installed: []models.ComponentRef{ref(models.TypeChassis, "ch")},
			candidate: models.TypeStorage, uuid: "ssd",
			expected: constants.FindingCaddyRequired, blocked: false,
		},
		{
			name: "u.2 drive beyond the lane budget",
			specs: []models.ComponentSpec{
				chassis("ch", func(ch *models.ChassisSpec) {
					ch.DriveBays = models.DriveBays{BayConfiguration: []models.BayGroup{{Size: "2.5-inch", Count: 4}}}
					ch.Backplane = models.Backplane{SupportsNVMe: true}
				}),
				processor("cpu", func(c *models.CPUSpec) { c.PCIeLanes = 8 }),
				nic("nic", "x8", 0),
				u2,
			},
			installed: []models.ComponentRef{ref(models.TypeChassis, "ch"), ref(models.TypeCPU, "cpu"), ref(models.TypeNIC, "nic")},
			candidate: models.TypeStorage, uuid: "u2",
			expected: constants.FindingPCIeLanesInsufficient, blocked: false,
		},

		// recorded slot map integrity
		{
			name: "two cards recorded in one slot",
			specs: []models.ComponentSpec{
				board("mb", func(mb *models.MotherboardSpec) { mb.PCIeSlots = []models.PCIeSlot{{Size: "x8", Count: 3}} }),
				nic("nic-a", "x8", 0),
				nic("nic-b", "x8", 0),
				nic("nic-c", "x8", 0),
			},
			installed: []models.ComponentRef{
				ref(models.TypeMotherboard, "mb"),
				slotted(models.TypeNIC, "nic-a", "pcie_x8_1"),
				slotted(models.TypeNIC, "nic-b", "pcie_x8_1"),
			},
			candidate: models.TypeNIC, uuid: "nic-c",
			expected: constants.FindingDuplicateSlot, blocked: true,
		},
		{
			name: "card recorded in the riser pool",
			specs: []models.ComponentSpec{
				board("mb", func(mb *models.MotherboardSpec) {
					mb.PCIeSlots = []models.PCIeSlot{{Size: "x8", Count: 2}}
					mb.RiserSlots = []models.PCIeSlot{{Size: "x16", Count: 1}}
				}),
				nic("nic-a", "x8", 0),
				nic("nic-b", "x8", 0),
			},
			installed: []models.ComponentRef{
				ref(models.TypeMotherboard, "mb"),
				slotted(models.TypeNIC, "nic-a", "riser_x16_1"),
			},
			candidate: models.TypeNIC, uuid: "nic-b",
			expected: constants.FindingSlotPoolMismatch, blocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.specs...)
			f.install(t, "cfg", tt.installed...)

			v := f.validate("cfg", tt.candidate, tt.uuid)
			if !v.Has(tt.expected) {
				t.Errorf("findings = %v, expected %s", findingTypes(v), tt.expected)
			}
			if v.Blocked() != tt.blocked {
				t.Errorf("blocked = %v, expected %v (%v)", v.Blocked(), tt.blocked, findingTypes(v))
			}
		})
	}
}

func TestAddInCardDriveSharesSlotPool(t *testing.T) {
	specs := func() []models.ComponentSpec {
		drive := disk("aic", "NVMe PCIe 4.0 x8", "AIC")
		drive.PCIeLanes = 8
		return []models.ComponentSpec{
			board("mb", func(mb *models.MotherboardSpec) { mb.PCIeSlots = []models.PCIeSlot{{Size: "x16", Count: 1}} }),
			drive,
			nic("nic", "x8", 0),
		}
	}

	// add validates a component and records it with its assigned slot, as the builder does
	add := func(t *testing.T, f *fixture, ct models.ComponentType, uuid string) *models.Verdict {
		t.Helper()
		v := f.validate("cfg", ct, uuid)
		if !v.Blocked() {
			f.install(t, "cfg", slotted(ct, uuid, v.AssignedSlot))
		}
		return v
	}

	t.Run("drive then card", func(t *testing.T) {
		f := newFixture(t, specs()...)
		f.install(t, "cfg", ref(models.TypeMotherboard, "mb"))

		v := add(t, f, models.TypeStorage, "aic")
		if v.Blocked() || v.AssignedSlot != "pcie_x16_1" {
			t.Fatalf("drive verdict = %s slot %q (%v)", v.Status, v.AssignedSlot, findingTypes(v))
		}
		v = add(t, f, models.TypeNIC, "nic")
		if !v.Blocked() || !v.Has(constants.FindingPCIeSlotUnavailable) {
			t.Errorf("card verdict = %s %v, expected blocked %s", v.Status, findingTypes(v), constants.FindingPCIeSlotUnavailable)
		}
	})

	t.Run("card then drive", func(t *testing.T) {
		f := newFixture(t, specs()...)
		f.install(t, "cfg", ref(models.TypeMotherboard, "mb"))

		if v := add(t, f, models.TypeNIC, "nic"); v.Blocked() {
			t.Fatalf("card verdict = %s (%v)", v.Status, findingTypes(v))
		}
		v := add(t, f, models.TypeStorage, "aic")
		if !v.Blocked() || !v.Has(constants.FindingPCIeSlotUnavailable) {
			t.Errorf("drive verdict = %s %v, expected blocked %s", v.Status, findingTypes(v), constants.FindingPCIeSlotUnavailable)
		}
	})

	t.Run("board last", func(t *testing.T) {
		f := newFixture(t, specs()...)
		f.install(t, "cfg", ref(models.TypeStorage, "aic"), ref(models.TypeNIC, "nic"))

		v := f.validate("cfg", models.TypeMotherboard, "mb")
		if !v.Blocked() || !v.Has(constants.FindingPCIeSlotCountExceeded) {
			t.Errorf("board verdict = %s %v, expected blocked %s", v.Status, findingTypes(v), constants.FindingPCIeSlotCountExceeded)
		}
	})

	t.Run("slot report", func(t *testing.T) {
		f := newFixture(t, specs()...)
		f.install(t, "cfg", ref(models.TypeMotherboard, "mb"), slotted(models.TypeStorage, "aic", "pcie_x16_1"))

		report, err := f.engine.SlotReport(context.Background(), "cfg")
		if err != nil {
			t.Fatalf("SlotReport() error = %v", err)
		}
		if report.Assignments["pcie_x16_1"] != "aic" {
			t.Errorf("pcie_x16_1 = %q, expected aic", report.Assignments["pcie_x16_1"])
		}
	})
}

func TestCPUCascadeOnlyWhenCPULimits(t *testing.T) {
	tests := []struct {
		name     string
		cpuMax   int
		expected bool
	}{
		{name: "cpu below memory rating", cpuMax: 2933, expected: true},
		{name: "only motherboard limits", cpuMax: 3200, expected: false},
		{name: "cpu limit unknown", cpuMax: 0, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t,
				board("mb", func(mb *models.MotherboardSpec) { mb.MaxMemoryFrequency = 2666 }),
				processor("cpu", func(c *models.CPUSpec) { c.MaxMemoryFrequency = tt.cpuMax }),
				memory("ram", "DDR4", 32, 3200, true),
			)
			f.install(t, "cfg", ref(models.TypeMotherboard, "mb"), ref(models.TypeRAM, "ram"))

			v := f.validate("cfg", models.TypeCPU, "cpu")
			if got := v.Has(constants.FindingRAMFrequencyCascade); got != tt.expected {
				t.Errorf("memory_frequency_cascade = %v, expected %v (%v)", got, tt.expected, findingTypes(v))
			}
		})
	}
}
