package protocol

// Checksum returns the XOR-fold of every byte from the payload start to the
// end of b. The checksum and tag bytes are never included.
func Checksum(b []byte) byte {
	var sum byte
	if len(b) <= PayloadOffset {
		return sum
	}
	for _, v := range b[PayloadOffset:] {
		sum ^= v
	}
	return sum
}

// VerifyChecksum reports whether b is a full frame whose checksum byte
// matches the XOR-fold of its payload region.
func VerifyChecksum(b []byte) bool {
	if len(b) != FrameSize {
		return false
	}
	return b[ChecksumOffset] == Checksum(b)
}

// seal writes the checksum byte. It must run after every payload write.
func (f *Frame) seal() {
	f[ChecksumOffset] = Checksum(f[:])
}
