package mp4demux

// avccToAnnexB converts length-prefixed NAL units to start-code prefixed
// ones, appending to dst.
func avccToAnnexB(dst, data []byte) []byte {
	offset := 0

	for offset+4 <= len(data) {
		naluLen := int(data[offset])<<24 | int(data[offset+1])<<16 |
			int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4

		if naluLen < 0 || offset+naluLen > len(data) {
			break
		}

		dst = append(dst, 0, 0, 0, 1)
		dst = append(dst, data[offset:offset+naluLen]...)
		offset += naluLen
	}

	return dst
}

// parameterSets joins parameter set NAL units into one Annex B prefix.
func parameterSets(groups ...[][]byte) []byte {
	var out []byte
	for _, nalus := range groups {
		for _, nalu := range nalus {
			out = append(out, 0, 0, 0, 1)
			out = append(out, nalu...)
		}
	}
	return out
}
