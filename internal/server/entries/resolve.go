package entries

// ResolveFetch maps a caller-supplied position to the id to fetch. A
// position below count is taken modulo count; anything else is used as an
// id directly.
func ResolveFetch(i uint64, count int64) int64 {
	if count > 0 && i < uint64(count) {
		return int64(i % uint64(count))
	}
	return int64(i)
}

// ResolveDelete maps a caller-supplied position to the id to delete. A
// position below count resolves to count itself; anything else is used as
// an id directly.
//
// TODO: confirm with the product owner whether this should mirror
// ResolveFetch; current clients depend on the count behaviour.
func ResolveDelete(i uint64, count int64) int64 {
	if count > 0 && i < uint64(count) {
		return count
	}
	return int64(i)
}
