package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

// DefaultFolders maps each component type to its definitions folder
var DefaultFolders = map[models.ComponentType]string{
	models.TypeCPU:         "cpu",
	models.TypeMotherboard: "motherboard",
	models.TypeRAM:         "ram",
	models.TypeStorage:     "storage",
	models.TypeChassis:     "chassis",
	models.TypeNIC:         "nic",
	models.TypePCIeCard:    "pciecard",
	models.TypeHBACard:     "hbacard",
	models.TypeCaddy:       "caddy",
}

// DataLoader handles loading specification and configuration YAML files
type DataLoader struct {
	basePath string
	logger   *utils.Logger
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string, logger *utils.Logger) *DataLoader {
	return &DataLoader{
		basePath: basePath,
		logger:   logger,
	}
}

// LoadCPUs loads processor definitions from a folder
func (dl *DataLoader) LoadCPUs(folder string) ([]*models.CPUSpec, error) {
	var cpus []*models.CPUSpec
	if err := dl.loadFromFolder(folder, &cpus); err != nil {
		return nil, err
	}
	dl.logger.Debug("Loaded %d CPUs from %s", len(cpus), folder)
	return cpus, nil
}

// LoadMotherboards loads mainboard definitions from a folder
func (dl *DataLoader) LoadMotherboards(folder string) ([]*models.MotherboardSpec, error) {
	var boards []*models.MotherboardSpec
	if err := dl.loadFromFolder(folder, &boards); err != nil {
		return nil, err
	}
	dl.logger.Debug("Loaded %d motherboards from %s", len(boards), folder)
	return boards, nil
}

// LoadRAM loads memory module definitions from a folder
func (dl *DataLoader) LoadRAM(folder string) ([]*models.RAMSpec, error) {
	var modules []*models.RAMSpec
	if err := dl.loadFromFolder(folder, &modules); err != nil {
		return nil, err
	}
	dl.logger.Debug("Loaded %d memory modules from %s", len(modules), folder)
	return modules, nil
}

// LoadStorage loads drive definitions from a folder
func (dl *DataLoader) LoadStorage(folder string) ([]*models.StorageSpec, error) {
	var drives []*models.StorageSpec
	if err := dl.loadFromFolder(folder, &drives); err != nil {
		return nil, err
	}
	dl.logger.Debug("Loaded %d drives from %s", len(drives), folder)
	return drives, nil
}

// LoadChassis loads enclosure definitions from a folder
func (dl *DataLoader) LoadChassis(folder string) ([]*models.ChassisSpec, error) {
	var chassis []*models.ChassisSpec
	if err := dl.loadFromFolder(folder, &chassis); err != nil {
		return nil, err
	}
	dl.logger.Debug("Loaded %d chassis from %s", len(chassis), folder)
	return chassis, nil
}

// LoadCards loads expansion card definitions from a folder.
// Cards without a component_type take the given kind.
func (dl *DataLoader) LoadCards(folder string, kind models.ComponentType) ([]*models.CardSpec, error) {
	var cards []*models.CardSpec
	if err := dl.loadFromFolder(folder, &cards); err != nil {
		return nil, err
	}
	for _, c := range cards {
		if c.Kind == "" {
			c.Kind = kind
		}
	}
	dl.logger.Debug("Loaded %d %s cards from %s", len(cards), kind, folder)
	return cards, nil
}

// LoadCaddies loads drive caddy definitions from a folder
func (dl *DataLoader) LoadCaddies(folder string) ([]*models.CaddySpec, error) {
	var caddies []*models.CaddySpec
	if err := dl.loadFromFolder(folder, &caddies); err != nil {
		return nil, err
	}
	dl.logger.Debug("Loaded %d caddies from %s", len(caddies), folder)
	return caddies, nil
}

// LoadSpecs loads every component type from its default folder
func (dl *DataLoader) LoadSpecs() ([]models.ComponentSpec, error) {
	var specs []models.ComponentSpec

	for _, t := range models.AllComponentTypes {
		folder := DefaultFolders[t]

		var loaded []models.ComponentSpec
		var err error
		switch t {
		case models.TypeCPU:
			loaded, err = collect(dl.LoadCPUs(folder))
		case models.TypeMotherboard:
			loaded, err = collect(dl.LoadMotherboards(folder))
		case models.TypeRAM:
			loaded, err = collect(dl.LoadRAM(folder))
		case models.TypeStorage:
			loaded, err = collect(dl.LoadStorage(folder))
		case models.TypeChassis:
			loaded, err = collect(dl.LoadChassis(folder))
		case models.TypeNIC, models.TypePCIeCard, models.TypeHBACard:
			loaded, err = collect(dl.LoadCards(folder, t))
		case models.TypeCaddy:
			loaded, err = collect(dl.LoadCaddies(folder))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load %s definitions: %w", t, err)
		}
		specs = append(specs, loaded...)
	}

	return specs, nil
}

func collect[T models.ComponentSpec](items []T, err error) ([]models.ComponentSpec, error) {
	if err != nil {
		return nil, err
	}
	out := make([]models.ComponentSpec, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out, nil
}

// LoadSnapshots loads configuration snapshots from a folder
func (dl *DataLoader) LoadSnapshots(folder string) ([]*models.ConfigurationSnapshot, error) {
	var snapshots []*models.ConfigurationSnapshot
	if err := dl.loadFromFolder(folder, &snapshots); err != nil {
		return nil, err
	}
	for _, s := range snapshots {
		if err := normalizeSnapshot(s); err != nil {
			return nil, err
		}
	}
	dl.logger.Debug("Loaded %d configurations from %s", len(snapshots), folder)
	return snapshots, nil
}

// LoadSnapshotFile loads the configurations of a single YAML file
func (dl *DataLoader) LoadSnapshotFile(path string) ([]*models.ConfigurationSnapshot, error) {
	var snapshots []*models.ConfigurationSnapshot
	if err := dl.loadFile(path, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	for _, s := range snapshots {
		if err := normalizeSnapshot(s); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return snapshots, nil
}

// normalizeSnapshot fills the component type implied by each list key
func normalizeSnapshot(s *models.ConfigurationSnapshot) error {
	if s.ConfigID == "" {
		return fmt.Errorf("configuration without config_id")
	}

	setType := func(refs []models.ComponentRef, t models.ComponentType) {
		for i := range refs {
			if refs[i].Type == "" {
				refs[i].Type = t
			}
		}
	}
	if s.Motherboard != nil {
		s.Motherboard.Type = models.TypeMotherboard
	}
	if s.Chassis != nil {
		s.Chassis.Type = models.TypeChassis
	}
	setType(s.CPUs, models.TypeCPU)
	setType(s.RAM, models.TypeRAM)
	setType(s.Storage, models.TypeStorage)
	setType(s.NICs, models.TypeNIC)
	setType(s.PCIeCards, models.TypePCIeCard)
	setType(s.Caddies, models.TypeCaddy)

	for _, ref := range s.Components() {
		if ref.UUID == "" {
			return fmt.Errorf("configuration %s: %s entry without uuid", s.ConfigID, ref.Type)
		}
	}
	return nil
}

// loadFromFolder loads YAML files from a folder and unmarshals into the target
func (dl *DataLoader) loadFromFolder(folder string, target interface{}) error {
	targetDir := filepath.Join(dl.basePath, folder)

	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		dl.logger.Debug("Folder %s not found, skipping", folder)
		return nil
	}

	yamlFiles, err := dl.findYAMLFiles(targetDir)
	if err != nil {
		return fmt.Errorf("failed to find YAML files in %s: %w", targetDir, err)
	}

	if len(yamlFiles) == 0 {
		dl.logger.Warning("No YAML files found in %s", folder)
		return nil
	}

	for _, file := range yamlFiles {
		if err := dl.loadFile(file, target); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return nil
}

// loadFile loads a single YAML file and appends its items to target.
// Every file holds a list of records.
func (dl *DataLoader) loadFile(path string, target interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	switch t := target.(type) {
	case *[]*models.CPUSpec:
		return appendItems(content, t, "cpus")
	case *[]*models.MotherboardSpec:
		return appendItems(content, t, "motherboards")
	case *[]*models.RAMSpec:
		return appendItems(content, t, "memory modules")
	case *[]*models.StorageSpec:
		return appendItems(content, t, "drives")
	case *[]*models.ChassisSpec:
		return appendItems(content, t, "chassis")
	case *[]*models.CardSpec:
		return appendItems(content, t, "cards")
	case *[]*models.CaddySpec:
		return appendItems(content, t, "caddies")
	case *[]*models.ConfigurationSnapshot:
		return appendItems(content, t, "configurations")
	default:
		return fmt.Errorf("unsupported target type: %T", target)
	}
}

func appendItems[T any](content []byte, target *[]*T, kind string) error {
	var newItems []*T
	if err := yaml.Unmarshal(content, &newItems); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", kind, err)
	}
	for _, item := range newItems {
		if item != nil {
			*target = append(*target, item)
		}
	}
	return nil
}

// findYAMLFiles recursively finds all YAML files in a directory, in lexical order
func (dl *DataLoader) findYAMLFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			ext := filepath.Ext(path)
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, path)
			}
		}

		return nil
	})

	sort.Strings(files)
	return files, err
}
