package compat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/slots"
	"github.com/braunma/buildcheck/pkg/utils"
)

// Motherboard-native ports a drive can attach to
const (
	portSATA = "sata"
	portSAS  = "sas"
	portM2   = "m2"
	portU2   = "u2"
	portPCIe = "pcie"
)

// drive is the normalized view of a storage spec used by the resolver
type drive struct {
	spec       *models.StorageSpec
	protocol   string
	formFactor string
	bayMounted bool
	lanes      int
}

func newDrive(s *models.StorageSpec) drive {
	d := drive{
		spec:       s,
		protocol:   utils.ProtocolOf(s.Interface),
		formFactor: utils.NormalizeDriveFormFactor(s.FormFactor),
		bayMounted: slots.IsBayMounted(s.FormFactor),
		lanes:      s.PCIeLanes,
	}
	if d.lanes <= 0 && d.protocol == constants.ProtocolNVMe {
		d.lanes = constants.DefaultNVMeLanes
	}
	return d
}

// slotLanes is the expansion slot width an add-in-card drive needs
func (d drive) slotLanes() int {
	if d.lanes > 0 {
		return d.lanes
	}
	return constants.DefaultCardLanes
}

// port returns the motherboard port class the drive would use
func (d drive) port() string {
	switch {
	case d.formFactor == constants.FormFactorM2:
		return portM2
	case d.formFactor == constants.FormFactorU2:
		return portU2
	case d.formFactor == constants.FormFactorAIC:
		return portPCIe
	case d.protocol == constants.ProtocolSATA:
		return portSATA
	case d.protocol == constants.ProtocolSAS:
		return portSAS
	}
	return ""
}

// portPool is a countable attachment resource; unlimited when capacity is undeclared
type portPool struct {
	total     int
	used      int
	unlimited bool
}

func (p portPool) free() bool {
	return p.unlimited || p.used < p.total
}

// storagePools tracks every attachment resource a drive may consume
type storagePools struct {
	bays    *slots.BayTracker
	pcie    *slots.Tracker
	ports   map[string]*portPool
	hba     *portPool
	adapter *portPool
}

func newStoragePools(in *installed) *storagePools {
	p := &storagePools{
		ports:   make(map[string]*portPool),
		hba:     &portPool{},
		adapter: &portPool{},
	}

	var chassis *models.ChassisSpec
	if in.chassis != nil {
		chassis = in.chassis.Spec
	}
	p.bays = slots.NewBayTracker(chassis)
	for _, s := range in.storage {
		p.bays.Install(s.Spec.FormFactor)
	}

	var board *models.MotherboardSpec
	if in.motherboard != nil {
		board = in.motherboard.Spec
		ports := board.StoragePorts
		p.ports[portSATA] = &portPool{total: ports.SATA}
		p.ports[portSAS] = &portPool{total: ports.SAS}
		p.ports[portM2] = &portPool{total: ports.M2Count()}
		p.ports[portU2] = &portPool{total: ports.U2Count()}
	}
	p.pcie, _, _, _ = in.placeCards(board)

	for _, c := range in.cards {
		switch {
		case c.Spec.IsHBA():
			if c.Spec.MaxDevices <= 0 {
				p.hba.unlimited = true
			}
			p.hba.total += c.Spec.MaxDevices
		case c.Spec.IsNVMeAdaptor():
			n := c.Spec.M2Slots
			if n <= 0 {
				n = 1
			}
			p.adapter.total += n
		}
	}
	return p
}

// headroom reports whether the pool behind a path can take one more drive
func (p *storagePools) headroom(path models.ConnectionPath, d drive) bool {
	switch path.Type {
	case constants.PathChassisBay:
		return p.bays.Available() > 0
	case constants.PathMotherboardDirect:
		if d.port() == portPCIe {
			_, ok := p.pcie.AssignSlot(d.slotLanes())
			return ok
		}
		pool := p.ports[d.port()]
		return pool != nil && pool.free()
	case constants.PathHBACard:
		return p.hba.free()
	case constants.PathPCIeAdapter:
		return p.adapter.free()
	}
	return false
}

// consume records an installed drive on its path. Bays are counted up front
// and add-in-card drives already hold their PCIe slot.
func (p *storagePools) consume(path models.ConnectionPath, d drive) {
	switch path.Type {
	case constants.PathMotherboardDirect:
		if d.port() == portPCIe {
			return
		}
		if pool := p.ports[d.port()]; pool != nil {
			pool.used++
		}
	case constants.PathHBACard:
		p.hba.used++
	case constants.PathPCIeAdapter:
		p.adapter.used++
	}
}

// interfaceAccepts reports whether a controller interface description carries a protocol.
// An empty description accepts anything.
func interfaceAccepts(iface, protocol string) bool {
	if iface == "" {
		return true
	}
	s := strings.ToUpper(iface)
	if strings.Contains(s, strings.ToUpper(protocol)) {
		return true
	}
	return protocol == constants.ProtocolNVMe && strings.Contains(s, "PCIE")
}

// hbaAccepts reports whether an HBA card can drive a protocol. SAS controllers
// also drive SATA disks; NVMe needs an explicitly tri-mode card.
func hbaAccepts(card *models.CardSpec, protocol string) bool {
	s := strings.ToUpper(card.Interface)
	switch protocol {
	case constants.ProtocolSAS:
		return s == "" || strings.Contains(s, "SAS")
	case constants.ProtocolSATA:
		return s == "" || strings.Contains(s, "SAS") || strings.Contains(s, "SATA")
	case constants.ProtocolNVMe:
		return strings.Contains(s, "NVME") || strings.Contains(s, "TRI-MODE") || strings.Contains(s, "TRIMODE")
	}
	return false
}

// m2Slot returns the first motherboard M.2 slot group accepting the drive
func m2Slot(mb *models.MotherboardSpec, d drive) (models.M2Slot, bool) {
	for _, slot := range mb.StoragePorts.M2 {
		if interfaceAccepts(slot.Interface, d.protocol) && utils.SupportsM2Length(slot.FormFactors, d.spec.FormFactor) {
			return slot, true
		}
	}
	return models.M2Slot{}, false
}

// candidatePaths enumerates every physically available path, ordered by priority
func candidatePaths(d drive, in *installed, pools *storagePools) []models.ConnectionPath {
	var paths []models.ConnectionPath

	if in.chassis != nil && d.bayMounted && d.protocol != "" && backplaneSupports(in.chassis.Spec.Backplane, d.protocol) {
		paths = append(paths, models.ConnectionPath{
			Type:        constants.PathChassisBay,
			Priority:    constants.PathPriorities[constants.PathChassisBay],
			Description: fmt.Sprintf("Chassis drive bay on the %s backplane", d.protocol),
			Details: map[string]any{
				"bays_total":     pools.bays.Total(),
				"bays_used":      pools.bays.Used(),
				"bays_available": pools.bays.Available(),
			},
		})
	}

	if in.motherboard != nil {
		if path, ok := directPath(d, in.motherboard.Spec, pools); ok {
			paths = append(paths, path)
		}
	}

	if d.bayMounted && d.protocol != "" {
		var hbas []string
		for _, c := range in.cards {
			if c.Spec.IsHBA() && hbaAccepts(c.Spec, d.protocol) {
				hbas = append(hbas, c.Ref.UUID)
			}
		}
		if len(hbas) > 0 {
			paths = append(paths, models.ConnectionPath{
				Type:        constants.PathHBACard,
				Priority:    constants.PathPriorities[constants.PathHBACard],
				Description: fmt.Sprintf("%s via HBA card", d.protocol),
				Details:     map[string]any{"cards": hbas, "devices_used": pools.hba.used, "devices_total": pools.hba.total},
			})
		}
	}

	if d.formFactor == constants.FormFactorM2 && d.protocol == constants.ProtocolNVMe {
		var adaptors []string
		for _, c := range in.cards {
			if c.Spec.IsNVMeAdaptor() && utils.SupportsM2Length(c.Spec.M2FormFactors, d.spec.FormFactor) {
				adaptors = append(adaptors, c.Ref.UUID)
			}
		}
		if len(adaptors) > 0 {
			paths = append(paths, models.ConnectionPath{
				Type:        constants.PathPCIeAdapter,
				Priority:    constants.PathPriorities[constants.PathPCIeAdapter],
				Description: "M.2 socket on an NVMe adaptor card",
				Details:     map[string]any{"cards": adaptors, "slots_used": pools.adapter.used, "slots_total": pools.adapter.total},
			})
		}
	}

	sort.SliceStable(paths, func(i, j int) bool { return paths[i].Priority < paths[j].Priority })
	return paths
}

func directPath(d drive, mb *models.MotherboardSpec, pools *storagePools) (models.ConnectionPath, bool) {
	path := models.ConnectionPath{
		Type:     constants.PathMotherboardDirect,
		Priority: constants.PathPriorities[constants.PathMotherboardDirect],
	}

	port := d.port()
	switch port {
	case portM2:
		slot, ok := m2Slot(mb, d)
		if !ok {
			return path, false
		}
		path.Description = "Motherboard M.2 slot"
		path.Details = map[string]any{"port": port, "pcie_version": slot.PCIeVersion}
	case portU2:
		if mb.StoragePorts.U2Count() == 0 {
			return path, false
		}
		path.Description = "Motherboard U.2 connector"
		path.Details = map[string]any{"port": port}
	case portSATA:
		if mb.StoragePorts.SATA == 0 {
			return path, false
		}
		path.Description = "Motherboard SATA port"
		path.Details = map[string]any{"port": port}
	case portSAS:
		if mb.StoragePorts.SAS == 0 {
			return path, false
		}
		path.Description = "Motherboard SAS port"
		path.Details = map[string]any{"port": port}
	case portPCIe:
		if !pools.pcie.Fits(d.slotLanes()) {
			return path, false
		}
		path.Description = fmt.Sprintf("Motherboard PCIe slot (%s)", utils.SlotLabel(d.slotLanes()))
		path.Details = map[string]any{"port": port, "slots_available": pools.pcie.Available()}
		return path, true
	default:
		return path, false
	}

	if pool := pools.ports[port]; pool != nil {
		path.Details["used"] = pool.used
		path.Details["total"] = pool.total
	}
	return path, true
}

// choosePrimary picks the lowest-priority path with headroom, falling back
// to the lowest-priority path when every pool is full
func choosePrimary(paths []models.ConnectionPath, d drive, pools *storagePools) *models.ConnectionPath {
	if len(paths) == 0 {
		return nil
	}
	for i := range paths {
		if pools.headroom(paths[i], d) {
			return &paths[i]
		}
	}
	return &paths[0]
}

// simulateInstalled attaches already installed drives in snapshot order so the
// candidate sees the remaining port, HBA and adaptor capacity
func simulateInstalled(in *installed, pools *storagePools) {
	for _, s := range in.storage {
		d := newDrive(s.Spec)
		paths := candidatePaths(d, in, pools)
		if len(paths) == 0 {
			continue
		}
		primary := &paths[0]
		for i := range paths {
			if paths[i].Type == constants.PathChassisBay || pools.headroom(paths[i], d) {
				primary = &paths[i]
				break
			}
		}
		pools.consume(*primary, d)
	}
}

// resolveStorage enumerates connection paths for a drive, picks the primary one
// and runs the path-specific checks
func resolveStorage(v *models.Verdict, s *models.StorageSpec, in *installed) {
	d := newDrive(s)
	pools := newStoragePools(in)
	simulateInstalled(in, pools)

	paths := candidatePaths(d, in, pools)
	resolution := &models.ConnectionResolution{Paths: paths}
	v.Connection = resolution

	if d.protocol == constants.ProtocolSAS && !hasSASController(in) {
		v.Block(models.Finding{
			Type:       constants.FindingHBARequired,
			Message:    fmt.Sprintf("SAS drive %s needs an HBA card with SAS support", s.Label()),
			Resolution: "Add an HBA card with SAS support before adding SAS storage",
			Details:    map[string]any{"protocol": d.protocol},
		})
	}

	if len(paths) == 0 {
		resolution.Recommendations = recommendations(d)
		if d.protocol == constants.ProtocolSAS {
			if !v.Blocked() {
				v.Block(models.Finding{
					Type:       constants.FindingNoConnectionPath,
					Message:    fmt.Sprintf("SAS drive %s has no connection path", s.Label()),
					Resolution: strings.Join(resolution.Recommendations, "; "),
				})
			}
			return
		}
		v.Warn(models.Finding{
			Type:       constants.FindingNoConnectionPathYet,
			Message:    fmt.Sprintf("No connection path for %s yet; add one of the recommended components later", s.Label()),
			Resolution: strings.Join(resolution.Recommendations, "; "),
			Details:    map[string]any{"recommendations": resolution.Recommendations},
		})
		return
	}

	primary := choosePrimary(paths, d, pools)
	resolution.Primary = primary
	v.Info(models.Finding{
		Type:    constants.FindingConnectionPathSelected,
		Message: fmt.Sprintf("Primary connection: %s", primary.Description),
		Details: map[string]any{"path": primary.Type, "priority": primary.Priority, "alternatives": len(paths) - 1},
	})

	if d.protocol == constants.ProtocolSATA && primary.Type != constants.PathHBACard {
		for _, p := range paths {
			if p.Type == constants.PathHBACard {
				v.Info(models.Finding{
					Type:    constants.FindingHBAOptional,
					Message: "An installed HBA card offers an alternative SATA path",
				})
			}
		}
	}

	needCaddy := false
	if primary.Type == constants.PathChassisBay {
		needCaddy = checkBayPath(v, d, pools)
	}
	checkPathCapacity(v, d, primary, pools)
	if primary.Type == constants.PathMotherboardDirect && d.port() == portPCIe {
		assignDriveSlot(v, d, pools)
	}

	if d.protocol == constants.ProtocolNVMe {
		checkNVMeLanes(v, d, in)
		checkNVMeVersion(v, d, primary, in)
		checkBifurcation(v, primary, in)
	}

	if needCaddy {
		checkCaddy(v, d, in, pools)
	}
}

// assignDriveSlot reserves the PCIe slot an add-in-card drive will occupy
func assignDriveSlot(v *models.Verdict, d drive, pools *storagePools) {
	required := d.slotLanes()
	slot, ok := pools.pcie.AssignSlot(required)
	if !ok {
		return
	}
	v.AssignedSlot = slot.ID
	if slot.Size > required {
		v.Info(models.Finding{
			Type:    constants.FindingLargerSlotAssigned,
			Message: fmt.Sprintf("%s drive assigned to larger slot %s; no free %s slot available", utils.SlotLabel(required), slot.ID, utils.SlotLabel(required)),
			Details: map[string]any{"slot_id": slot.ID, "slot_size": utils.SlotLabel(slot.Size), "required_size": utils.SlotLabel(required)},
		})
	}
}

// hasSASController reports whether an installed HBA card can drive SAS disks.
// Onboard SAS ports only add a direct path; they do not replace the HBA.
func hasSASController(in *installed) bool {
	for _, c := range in.cards {
		if c.Spec.IsHBA() && hbaAccepts(c.Spec, constants.ProtocolSAS) {
			return true
		}
	}
	return false
}

// checkBayPath verifies bay headroom and size and reports whether a caddy is needed
func checkBayPath(v *models.Verdict, d drive, pools *storagePools) bool {
	if deficit := pools.bays.Deficit(1); deficit > 0 {
		v.Block(models.Finding{
			Type:       constants.FindingChassisBaysFull,
			Message:    fmt.Sprintf("All chassis drive bays are in use (%d/%d)", pools.bays.Used(), pools.bays.Total()),
			Resolution: "Remove a drive or choose a chassis with more bays",
			Details:    map[string]any{"used": pools.bays.Used(), "total": pools.bays.Total()},
		})
	}

	switch pools.bays.Fit(d.spec.FormFactor) {
	case slots.BayFitNone:
		v.Block(models.Finding{
			Type: constants.FindingStorageFormFactorMismatch,
			Message: fmt.Sprintf("%s drive does not fit the chassis bays (%s)",
				d.formFactor, strings.Join(pools.bays.Sizes(), ", ")),
			Resolution: "Choose a drive matching the chassis bays",
			Details:    map[string]any{"form_factor": d.formFactor, "bay_sizes": pools.bays.Sizes()},
		})
	case slots.BayFitCaddy:
		return true
	}
	return false
}

// checkPathCapacity blocks when the pool behind the primary path is full
func checkPathCapacity(v *models.Verdict, d drive, primary *models.ConnectionPath, pools *storagePools) {
	if primary.Type == constants.PathChassisBay || pools.headroom(*primary, d) {
		return
	}

	switch primary.Type {
	case constants.PathMotherboardDirect:
		port := d.port()
		if port == portPCIe {
			v.Block(models.Finding{
				Type: constants.FindingPCIeSlotUnavailable,
				Message: fmt.Sprintf("No free PCIe slot of size %s or larger for the add-in-card drive (%d/%d used)",
					utils.SlotLabel(d.slotLanes()), pools.pcie.Used(), pools.pcie.Total()),
				Resolution: "Remove an expansion card to free a slot",
				Details:    map[string]any{"used": pools.pcie.Used(), "total": pools.pcie.Total()},
			})
			return
		}
		findingType, name := constants.FindingSATAPortsExhausted, "SATA ports"
		switch port {
		case portSAS:
			name = "SAS ports"
		case portM2:
			findingType, name = constants.FindingM2SlotsExhausted, "M.2 slots"
		case portU2:
			findingType, name = constants.FindingU2PortsExhausted, "U.2 connectors"
		}
		pool := pools.ports[port]
		v.Block(models.Finding{
			Type:       findingType,
			Message:    fmt.Sprintf("All motherboard %s are in use (%d/%d)", name, pool.used, pool.total),
			Resolution: "Remove a drive on this port type or attach the drive through an expansion card",
			Details:    map[string]any{"used": pool.used, "total": pool.total},
		})
	case constants.PathHBACard:
		v.Block(models.Finding{
			Type:       constants.FindingHBADeviceLimit,
			Message:    fmt.Sprintf("Installed HBA cards support %d devices and all are in use", pools.hba.total),
			Resolution: "Add another HBA card or remove a drive",
			Details:    map[string]any{"used": pools.hba.used, "total": pools.hba.total},
		})
	case constants.PathPCIeAdapter:
		v.Block(models.Finding{
			Type:       constants.FindingAdapterSlotsExhausted,
			Message:    fmt.Sprintf("All M.2 sockets on installed NVMe adaptors are in use (%d/%d)", pools.adapter.used, pools.adapter.total),
			Resolution: "Add another NVMe adaptor card or remove an M.2 drive",
			Details:    map[string]any{"used": pools.adapter.used, "total": pools.adapter.total},
		})
	}
}

// checkNVMeLanes evaluates the lane budget for U.2 and add-in-card drives only;
// M.2 sockets run on dedicated lanes
func checkNVMeLanes(v *models.Verdict, d drive, in *installed) {
	if d.formFactor == constants.FormFactorM2 {
		v.Info(models.Finding{
			Type:    constants.FindingLaneCheckSkipped,
			Message: "M.2 drives use dedicated lanes; expansion lane budget not checked",
		})
		return
	}
	if d.formFactor != constants.FormFactorU2 && d.formFactor != constants.FormFactorAIC {
		return
	}

	cpuLanes := in.cpuLanes()
	if cpuLanes == 0 {
		return
	}
	provided := cpuLanes
	if in.motherboard != nil {
		provided += in.motherboard.Spec.ChipsetLanes
	}

	used := in.laneDemand()
	for _, s := range in.storage {
		other := newDrive(s.Spec)
		if other.protocol == constants.ProtocolNVMe && other.formFactor == constants.FormFactorU2 {
			used += other.lanes
		}
	}

	if used+d.lanes > provided {
		v.Warn(models.Finding{
			Type: constants.FindingPCIeLanesInsufficient,
			Message: fmt.Sprintf("Drive needs %d lanes; %d of %d CPU and chipset lanes are already allocated",
				d.lanes, used, provided),
			Resolution: "Verify the motherboard lane routing for this drive",
			Details:    map[string]any{"required_lanes": d.lanes, "used_lanes": used, "available_lanes": provided},
		})
	}
}

// checkNVMeVersion warns when the drive is a newer PCIe generation than its attachment
func checkNVMeVersion(v *models.Verdict, d drive, primary *models.ConnectionPath, in *installed) {
	if d.spec.PCIeVersion <= 0 {
		return
	}

	var version float64
	switch primary.Type {
	case constants.PathMotherboardDirect:
		mb := in.motherboard.Spec
		version = mb.PCIeVersion
		switch d.port() {
		case portM2:
			if slot, ok := m2Slot(mb, d); ok && slot.PCIeVersion > 0 {
				version = slot.PCIeVersion
			}
		case portU2:
			for _, u := range mb.StoragePorts.U2 {
				if u.PCIeVersion > 0 {
					version = u.PCIeVersion
					break
				}
			}
		}
	case constants.PathPCIeAdapter:
		for _, c := range in.cards {
			if c.Spec.IsNVMeAdaptor() && c.Spec.PCIeVersion > 0 {
				version = c.Spec.PCIeVersion
				break
			}
		}
	case constants.PathHBACard:
		for _, c := range in.cards {
			if c.Spec.IsHBA() && c.Spec.PCIeVersion > 0 {
				version = c.Spec.PCIeVersion
				break
			}
		}
	}

	if version > 0 && d.spec.PCIeVersion > version {
		loss := utils.PercentageLoss(version, d.spec.PCIeVersion)
		v.Warn(models.Finding{
			Type: constants.FindingPCIeBandwidthReduction,
			Message: fmt.Sprintf("Drive is PCIe %.1f but its connection is PCIe %.1f (%.1f%% less bandwidth)",
				d.spec.PCIeVersion, version, loss),
			Details: map[string]any{"drive_version": d.spec.PCIeVersion, "slot_version": version, "performance_loss": loss},
		})
	}
}

// checkBifurcation applies to multi-socket NVMe adaptors, which split one slot
func checkBifurcation(v *models.Verdict, primary *models.ConnectionPath, in *installed) {
	if primary.Type != constants.PathPCIeAdapter {
		return
	}
	multi := false
	for _, c := range in.cards {
		if c.Spec.IsNVMeAdaptor() && c.Spec.M2Slots > 1 {
			multi = true
			break
		}
	}
	if !multi {
		return
	}

	if in.motherboard != nil && !in.motherboard.Spec.SupportsBifurcation {
		v.Block(models.Finding{
			Type:       constants.FindingBifurcationUnsupported,
			Message:    fmt.Sprintf("Multi-drive NVMe adaptor needs PCIe bifurcation, which motherboard %s does not support", in.motherboard.Spec.Label()),
			Resolution: "Use a single-drive adaptor, an adaptor with its own PCIe switch, or a board with bifurcation",
		})
		return
	}
	v.Warn(models.Finding{
		Type:       constants.FindingBifurcationReminder,
		Message:    "Multi-drive NVMe adaptor requires bifurcation to be enabled for its slot",
		Resolution: "Set the slot to x4x4x4x4 (or matching) bifurcation in the BIOS",
	})
}

// checkCaddy verifies that a 2.5-inch caddy is free for a drive going into a 3.5-inch bay
func checkCaddy(v *models.Verdict, d drive, in *installed, pools *storagePools) {
	needed := 0
	for _, s := range in.storage {
		if slots.IsBayMounted(s.Spec.FormFactor) && pools.bays.Fit(s.Spec.FormFactor) == slots.BayFitCaddy {
			needed++
		}
	}
	size := slots.BaySizeFor(d.spec.FormFactor)
	available := in.caddyCount(size)
	if available > needed {
		v.Info(models.Finding{
			Type:    constants.FindingCaddyAvailable,
			Message: fmt.Sprintf("Installed %s caddy will mount the drive in a 3.5-inch bay", size),
			Details: map[string]any{"caddies": available, "in_use": needed},
		})
		return
	}
	v.Warn(models.Finding{
		Type:       constants.FindingCaddyRequired,
		Message:    fmt.Sprintf("%s drive goes into a 3.5-inch bay and needs a caddy", size),
		Resolution: fmt.Sprintf("Add a %s to 3.5-inch caddy", size),
		Details:    map[string]any{"caddies": available, "in_use": needed},
	})
}

// recommendations lists, most useful first, components that would give the drive a path
func recommendations(d drive) []string {
	switch {
	case d.protocol == constants.ProtocolSAS:
		return []string{"HBA card with SAS support", "Chassis with a SAS-capable backplane"}
	case d.formFactor == constants.FormFactorM2 && d.protocol == constants.ProtocolSATA:
		return []string{"Motherboard with M.2 slots supporting SATA"}
	case d.formFactor == constants.FormFactorM2:
		return []string{"Motherboard with M.2 slots", "NVMe Adaptor card with M.2 slots"}
	case d.formFactor == constants.FormFactorU2:
		return []string{"Motherboard with U.2 ports", "Chassis with an NVMe backplane", "Tri-mode HBA card with NVMe support"}
	case d.formFactor == constants.FormFactorAIC:
		return []string{fmt.Sprintf("Motherboard with a free PCIe %s slot", utils.SlotLabel(d.slotLanes()))}
	case d.protocol == constants.ProtocolSATA:
		return []string{"Motherboard with SATA ports", "Chassis with a SATA-capable backplane", "HBA card with SATA support"}
	}
	return []string{"Verify the storage interface in the catalog"}
}
