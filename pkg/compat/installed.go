package compat

import (
	"context"
	"errors"
	"fmt"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/catalog"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/slots"
	"github.com/braunma/buildcheck/pkg/utils"
)

// Installed pairs a snapshot entry with its resolved specification
type Installed[T models.ComponentSpec] struct {
	Ref  models.ComponentRef
	Spec T
}

// installed is the resolved view of a snapshot, loaded once per call
type installed struct {
	snapshot    *models.ConfigurationSnapshot
	motherboard *Installed[*models.MotherboardSpec]
	chassis     *Installed[*models.ChassisSpec]
	cpus        []Installed[*models.CPUSpec]
	ram         []Installed[*models.RAMSpec]
	storage     []Installed[*models.StorageSpec]
	cards       []Installed[*models.CardSpec]
	caddies     []Installed[*models.CaddySpec]
}

// loadInstalled resolves every snapshot entry. Entries whose specification is
// missing are reported on the verdict and skipped.
func (e *Engine) loadInstalled(ctx context.Context, snapshot *models.ConfigurationSnapshot, v *models.Verdict) (*installed, error) {
	in := &installed{snapshot: snapshot}

	if snapshot.Motherboard != nil {
		spec, ok, err := resolve[*models.MotherboardSpec](ctx, e.specs, *snapshot.Motherboard, v)
		if err != nil {
			return nil, err
		}
		if ok {
			in.motherboard = &Installed[*models.MotherboardSpec]{Ref: *snapshot.Motherboard, Spec: spec}
		}
	}

	if snapshot.Chassis != nil {
		spec, ok, err := resolve[*models.ChassisSpec](ctx, e.specs, *snapshot.Chassis, v)
		if err != nil {
			return nil, err
		}
		if ok {
			in.chassis = &Installed[*models.ChassisSpec]{Ref: *snapshot.Chassis, Spec: spec}
		}
	}

	var err error
	if in.cpus, err = resolveAll[*models.CPUSpec](ctx, e.specs, snapshot.CPUs, v); err != nil {
		return nil, err
	}
	if in.ram, err = resolveAll[*models.RAMSpec](ctx, e.specs, snapshot.RAM, v); err != nil {
		return nil, err
	}
	if in.storage, err = resolveAll[*models.StorageSpec](ctx, e.specs, snapshot.Storage, v); err != nil {
		return nil, err
	}
	if in.cards, err = resolveAll[*models.CardSpec](ctx, e.specs, snapshot.Cards(), v); err != nil {
		return nil, err
	}
	if in.caddies, err = resolveAll[*models.CaddySpec](ctx, e.specs, snapshot.Caddies, v); err != nil {
		return nil, err
	}

	return in, nil
}

func resolveAll[T models.ComponentSpec](ctx context.Context, specs SpecLookup, refs []models.ComponentRef, v *models.Verdict) ([]Installed[T], error) {
	out := make([]Installed[T], 0, len(refs))
	for _, ref := range refs {
		spec, ok, err := resolve[T](ctx, specs, ref, v)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, Installed[T]{Ref: ref, Spec: spec})
		}
	}
	return out, nil
}

func resolve[T models.ComponentSpec](ctx context.Context, specs SpecLookup, ref models.ComponentRef, v *models.Verdict) (T, bool, error) {
	var zero T

	t := ref.Type
	if t == "" {
		t = models.TypePCIeCard
	}

	raw, err := specs.GetSpec(ctx, t, ref.UUID)
	if err != nil {
		if errors.Is(err, catalog.ErrSpecNotFound) {
			if v != nil {
				v.Warn(models.Finding{
					Type:       constants.FindingInstalledSpecMissing,
					Message:    fmt.Sprintf("Installed %s has no specification; it is ignored by compatibility checks", ref),
					Resolution: "Add the component to the catalog",
					Details:    map[string]any{"component_type": string(t), "component_uuid": ref.UUID},
				})
			}
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to resolve installed %s: %w", ref, err)
	}

	spec, ok := raw.(T)
	if !ok {
		return zero, false, fmt.Errorf("installed %s resolved to %T", ref, raw)
	}
	return spec, true, nil
}

// cpuLanes returns the PCIe lanes provided by all installed CPUs
func (in *installed) cpuLanes() int {
	total := 0
	for _, c := range in.cpus {
		total += c.Spec.PCIeLanes
	}
	return total
}

// cardLanes returns the lane width a card needs, at least x1
func cardLanes(card *models.CardSpec) int {
	if n := utils.ParseSlotSize(card.SlotSize); n > 0 {
		return n
	}
	return constants.DefaultCardLanes
}

// slotDevices lists everything that occupies an expansion slot: cards and
// add-in-card drives in the direct PCIe pool, risers in the riser pool
func (in *installed) slotDevices() (direct, risers []slots.Device) {
	for _, c := range in.cards {
		d := slots.Device{
			UUID:     c.Ref.UUID,
			Label:    c.Spec.Label(),
			Required: cardLanes(c.Spec),
			Position: c.Ref.SlotPosition,
			Version:  c.Spec.PCIeVersion,
		}
		if c.Spec.IsRiser() {
			risers = append(risers, d)
		} else {
			direct = append(direct, d)
		}
	}
	for _, s := range in.storage {
		d := newDrive(s.Spec)
		if d.port() != portPCIe {
			continue
		}
		direct = append(direct, slots.Device{
			UUID:     s.Ref.UUID,
			Label:    s.Spec.Label(),
			Required: d.slotLanes(),
			Position: s.Ref.SlotPosition,
			Version:  s.Spec.PCIeVersion,
		})
	}
	return direct, risers
}

// laneDemand sums the slot widths of everything in the direct PCIe pool.
// Risers only extend slots and add no demand of their own.
func (in *installed) laneDemand() int {
	direct, _ := in.slotDevices()
	total := 0
	for _, d := range direct {
		total += d.Required
	}
	return total
}

// placeCards fits the installed slot devices into fresh PCIe and riser trackers of a board
func (in *installed) placeCards(board *models.MotherboardSpec) (pcie, riser *slots.Tracker, pciePlacement, riserPlacement slots.Placement) {
	pcie = slots.NewPCIeTracker(board)
	riser = slots.NewRiserTracker(board)

	direct, risers := in.slotDevices()
	pciePlacement = pcie.Place(direct)
	riserPlacement = riser.Place(risers)
	return pcie, riser, pciePlacement, riserPlacement
}

// ramStats summarises installed memory
type ramStats struct {
	types        map[string]bool
	formFactors  map[string]bool
	eccValues    map[bool]bool
	capacity     int
	maxFrequency int
	minFrequency int
	nonECC       int
}

func (in *installed) ramStats() ramStats {
	s := ramStats{
		types:       make(map[string]bool),
		formFactors: make(map[string]bool),
		eccValues:   make(map[bool]bool),
	}
	for _, r := range in.ram {
		if t := utils.NormalizeMemoryType(r.Spec.MemoryType); t != "" {
			s.types[t] = true
		}
		if ff := utils.NormalizeMemoryFormFactor(r.Spec.FormFactor); ff != "" {
			s.formFactors[ff] = true
		}
		s.eccValues[r.Spec.ECC] = true
		if !r.Spec.ECC {
			s.nonECC++
		}
		s.capacity += r.Spec.Capacity
		if f := r.Spec.Frequency; f > 0 {
			if f > s.maxFrequency {
				s.maxFrequency = f
			}
			if s.minFrequency == 0 || f < s.minFrequency {
				s.minFrequency = f
			}
		}
	}
	return s
}

// caddyCount returns installed caddies of a drive form factor
func (in *installed) caddyCount(formFactor string) int {
	n := 0
	for _, c := range in.caddies {
		if utils.NormalizeDriveFormFactor(c.Spec.FormFactor) == formFactor {
			n += c.Ref.Count()
		}
	}
	return n
}

// cpuMaxFrequencies returns the declared memory frequency limits of installed CPUs
func (in *installed) cpuMaxFrequencies() []int {
	var out []int
	for _, c := range in.cpus {
		out = append(out, c.Spec.MaxMemoryFrequency)
	}
	return out
}
