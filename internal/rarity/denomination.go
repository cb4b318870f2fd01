package rarity

// Alphas returns the first sat of every whole-coin bucket inside [start, end), ascending.
func Alphas(start, end uint64) []uint64 {
	var out []uint64
	alpha := (start + DenominationUnit - 1) / DenominationUnit * DenominationUnit
	for ; alpha < end && alpha >= start; alpha += DenominationUnit {
		out = append(out, alpha)
	}
	return out
}

// Omegas returns the last sat of every whole-coin bucket inside [start, end).
// Unlike Alphas the values are listed from the highest down.
func Omegas(start, end uint64) []uint64 {
	var out []uint64
	buckets := end / DenominationUnit
	if buckets == 0 {
		return nil
	}
	for omega := buckets*DenominationUnit - 1; omega >= start; omega -= DenominationUnit {
		out = append(out, omega)
		if omega < DenominationUnit {
			break
		}
	}
	return out
}
