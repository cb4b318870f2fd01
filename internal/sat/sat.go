package sat

import (
	"fmt"
	"strconv"
)

const (
	// CoinValue is the number of sats in one whole coin
	CoinValue uint64 = 100_000_000

	// Supply is the total number of sats that will ever be issued
	Supply uint64 = 2_099_999_997_690_000

	// SubsidyHalvingInterval is the number of blocks in one epoch
	SubsidyHalvingInterval uint32 = 210_000

	// DiffchangeInterval is the number of blocks between difficulty adjustments
	DiffchangeInterval uint32 = 2016

	// CycleEpochs is the number of epochs in one cycle (halving aligned with a difficulty adjustment)
	CycleEpochs uint32 = 6

	// firstPostSubsidy is the first epoch whose subsidy is zero
	firstPostSubsidy uint32 = 33
)

// Sat is the ordinal index of a single satoshi
type Sat uint64

// epochStartingSats holds the first sat of every epoch up to (and including) the first post-subsidy epoch
var epochStartingSats = func() [firstPostSubsidy + 1]uint64 {
	var starts [firstPostSubsidy + 1]uint64
	var total uint64
	for e := uint32(0); e <= firstPostSubsidy; e++ {
		starts[e] = total
		total += EpochSubsidy(e) * uint64(SubsidyHalvingInterval)
	}
	return starts
}()

// EpochSubsidy returns the block subsidy paid during the given epoch
func EpochSubsidy(epoch uint32) uint64 {
	if epoch >= firstPostSubsidy {
		return 0
	}
	return (50 * CoinValue) >> epoch
}

// IsValid reports whether the sat has been (or will be) issued
func (s Sat) IsValid() bool {
	return uint64(s) < Supply
}

// Epoch returns the halving epoch the sat was issued in
func (s Sat) Epoch() uint32 {
	for e := firstPostSubsidy; e > 0; e-- {
		if uint64(s) >= epochStartingSats[e] {
			return e
		}
	}
	return 0
}

// epochPosition is the sat's distance from the first sat of its epoch
func (s Sat) epochPosition() uint64 {
	return uint64(s) - epochStartingSats[s.Epoch()]
}

// Height returns the height of the block that issued the sat.
// Sats at or beyond Supply are never issued; their height is reported as the
// first post-subsidy height.
func (s Sat) Height() uint32 {
	epoch := s.Epoch()
	subsidy := EpochSubsidy(epoch)
	if subsidy == 0 {
		return epoch * SubsidyHalvingInterval
	}
	return epoch*SubsidyHalvingInterval + uint32(s.epochPosition()/subsidy)
}

// Third returns the sat's offset within its block's subsidy
func (s Sat) Third() uint64 {
	subsidy := EpochSubsidy(s.Epoch())
	if subsidy == 0 {
		return 0
	}
	return s.epochPosition() % subsidy
}

// Cycle returns the conjunction cycle the sat belongs to
func (s Sat) Cycle() uint32 {
	return s.Epoch() / CycleEpochs
}

// Period returns the difficulty adjustment period the sat belongs to
func (s Sat) Period() uint32 {
	return s.Height() / DiffchangeInterval
}

// Decimal returns the "height.offset" notation
func (s Sat) Decimal() string {
	return strconv.FormatUint(uint64(s.Height()), 10) + "." + strconv.FormatUint(s.Third(), 10)
}

// Name returns the base-26 letter name; the last sat is "a" and the first is "nvtdijuwxlp"
func (s Sat) Name() string {
	x := Supply - uint64(s)
	var buf []byte
	for x > 0 {
		buf = append(buf, 'a'+byte((x-1)%26))
		x = (x - 1) / 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// BlockStart returns the first sat issued by the block at the given height
func BlockStart(height uint32) Sat {
	epoch := height / SubsidyHalvingInterval
	if epoch >= firstPostSubsidy {
		return Sat(Supply)
	}
	return Sat(epochStartingSats[epoch] + uint64(height%SubsidyHalvingInterval)*EpochSubsidy(epoch))
}

// Degree is the positional notation hour°minute′second″third‴
type Degree struct {
	Hour   uint32
	Minute uint32
	Second uint32
	Third  uint64
}

// Degree returns the sat's degree notation
func (s Sat) Degree() Degree {
	height := s.Height()
	return Degree{
		Hour:   height / (CycleEpochs * SubsidyHalvingInterval),
		Minute: height % SubsidyHalvingInterval,
		Second: height % DiffchangeInterval,
		Third:  s.Third(),
	}
}

func (d Degree) String() string {
	return fmt.Sprintf("%d°%d′%d″%d‴", d.Hour, d.Minute, d.Second, d.Third)
}

// Rarity returns the named rarity derived from the sat's degree
func (s Sat) Rarity() Rarity {
	d := s.Degree()
	switch {
	case d.Hour == 0 && d.Minute == 0 && d.Second == 0 && d.Third == 0:
		return Mythic
	case d.Minute == 0 && d.Second == 0 && d.Third == 0:
		return Legendary
	case d.Minute == 0 && d.Third == 0:
		return Epic
	case d.Second == 0 && d.Third == 0:
		return Rare
	case d.Third == 0:
		return Uncommon
	default:
		return Common
	}
}

// Details is the metadata record attached to named sats
type Details struct {
	Decimal string `json:"decimal"`
	Degree  string `json:"degree"`
	Name    string `json:"name"`
	Height  uint32 `json:"height"`
	Cycle   uint32 `json:"cycle"`
	Epoch   uint32 `json:"epoch"`
	Period  uint32 `json:"period"`
	Offset  uint64 `json:"offset"`
	Rarity  Rarity `json:"rarity"`
}

// Details collects the sat's derived metadata
func (s Sat) Details() Details {
	return Details{
		Decimal: s.Decimal(),
		Degree:  s.Degree().String(),
		Name:    s.Name(),
		Height:  s.Height(),
		Cycle:   s.Cycle(),
		Epoch:   s.Epoch(),
		Period:  s.Period(),
		Offset:  s.Third(),
		Rarity:  s.Rarity(),
	}
}
