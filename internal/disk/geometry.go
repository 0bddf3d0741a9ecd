package disk

import "fmt"

// Geometry is the set of derived LBAs and sizes computed once from a
// FatBootSector and a partition's starting LBA. It never mutates after
// construction; every component that needs it receives it by value or
// pointer rather than reaching for package-level state.
type Geometry struct {
	SectorSize         uint32
	SectorsPerCluster  uint32
	ReservedSectors    uint32
	NumFATs            uint32
	RootEntryCount     uint32
	FATSizeSectors     uint32
	TotalSectors       uint32
	PartitionStartLBA  uint32
	FAT1StartLBA       uint32
	RootDirLBA         uint32
	RootDirSectors     uint32
	DataRegionLBA      uint32
}

// NewGeometry derives a Geometry from a decoded boot sector and validates
// the BPB field values, failing with ErrInvalidGeometry on implausible
// input rather than propagating nonsense offsets downstream.
func NewGeometry(bs *FatBootSector, partitionStartLBA uint32) (*Geometry, error) {
	if err := validateBootSector(bs); err != nil {
		return nil, err
	}

	rootDirSectors := ceilDiv(uint32(bs.RootEntryCount)*32, uint32(bs.SectorSize))
	fat1Start := partitionStartLBA + uint32(bs.ReservedSectors)
	rootDirLBA := fat1Start + uint32(bs.NumFATs)*uint32(bs.FATSizeSectors)
	dataRegionLBA := rootDirLBA + rootDirSectors

	g := &Geometry{
		SectorSize:        uint32(bs.SectorSize),
		SectorsPerCluster: uint32(bs.SectorsPerCluster),
		ReservedSectors:   uint32(bs.ReservedSectors),
		NumFATs:           uint32(bs.NumFATs),
		RootEntryCount:    uint32(bs.RootEntryCount),
		FATSizeSectors:    uint32(bs.FATSizeSectors),
		TotalSectors:      bs.TotalSectors(),
		PartitionStartLBA: partitionStartLBA,
		FAT1StartLBA:      fat1Start,
		RootDirLBA:        rootDirLBA,
		RootDirSectors:    rootDirSectors,
		DataRegionLBA:     dataRegionLBA,
	}

	if !(g.FAT1StartLBA < g.RootDirLBA && g.RootDirLBA < g.DataRegionLBA) {
		return nil, newErr(ErrInvalidGeometry, "NewGeometry",
			fmt.Errorf("non-monotonic layout: fat=%d root=%d data=%d", g.FAT1StartLBA, g.RootDirLBA, g.DataRegionLBA))
	}
	return g, nil
}

func validateBootSector(bs *FatBootSector) error {
	switch bs.SectorSize {
	case 512, 1024, 2048, 4096:
	default:
		return newErr(ErrInvalidGeometry, "validateBootSector",
			fmt.Errorf("implausible sector size: %d", bs.SectorSize))
	}

	validClusterSize := false
	for s := uint8(1); s <= 128; s *= 2 {
		if bs.SectorsPerCluster == s {
			validClusterSize = true
			break
		}
	}
	if !validClusterSize {
		return newErr(ErrInvalidGeometry, "validateBootSector",
			fmt.Errorf("sectors_per_cluster is not a power of two in [1,128]: %d", bs.SectorsPerCluster))
	}

	if bs.NumFATs < 1 {
		return newErr(ErrInvalidGeometry, "validateBootSector", fmt.Errorf("num_fats must be >= 1"))
	}
	if bs.FATSizeSectors < 1 {
		return newErr(ErrInvalidGeometry, "validateBootSector", fmt.Errorf("fat_size_sectors must be >= 1"))
	}
	if bs.TotalSectors() == 0 {
		return newErr(ErrInvalidGeometry, "validateBootSector", fmt.Errorf("total_sectors must be nonzero"))
	}
	return nil
}

// ClusterLBA returns the starting LBA of the given (>=2) data cluster.
func (g *Geometry) ClusterLBA(cluster uint32) uint32 {
	return g.DataRegionLBA + (cluster-2)*g.SectorsPerCluster
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}
